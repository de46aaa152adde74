package batchstat

// JobStatus raw persisted status of a job, source of truth maintained by the
// submitter/poller, never written by this engine.
type JobStatus string

const (
	INITIATED        JobStatus = "INITIATED"
	SUBMITTED        JobStatus = "SUBMITTED"
	QUEUED           JobStatus = "QUEUED"
	PENDING          JobStatus = "PENDING"
	RUNNING          JobStatus = "RUNNING"
	CANCEL_REQUESTED JobStatus = "CANCEL_REQUESTED"
	CANCELLING       JobStatus = "CANCELLING"
	CANCELLED        JobStatus = "CANCELLED"
	FAILED           JobStatus = "FAILED"
	ERROR            JobStatus = "ERROR"
	FINISHED         JobStatus = "FINISHED"
	FORCED_OK        JobStatus = "FORCED_OK"
)

// AllJobStatuses the declared finite set of raw job statuses. The rule table
// must be total over this set.
var AllJobStatuses = []JobStatus{
	INITIATED, SUBMITTED, QUEUED, PENDING, RUNNING, CANCEL_REQUESTED,
	CANCELLING, CANCELLED, FAILED, ERROR, FINISHED, FORCED_OK,
}

// IsTerminal whether no further automatic transition occurs from the status
func (s JobStatus) IsTerminal() bool {
	switch s {
	case FINISHED, FAILED, CANCELLED, ERROR, FORCED_OK:
		return true
	}
	return false
}

// jobTransitions the legal transitions of the job lifecycle. A job starts at
// INITIATED, cancellation goes CANCEL_REQUESTED -> CANCELLING -> CANCELLED,
// terminal statuses have no outgoing edges.
var jobTransitions = map[JobStatus][]JobStatus{
	INITIATED:        {SUBMITTED, CANCEL_REQUESTED, ERROR},
	SUBMITTED:        {QUEUED, PENDING, RUNNING, CANCEL_REQUESTED, FAILED, ERROR},
	QUEUED:           {PENDING, RUNNING, CANCEL_REQUESTED, FAILED, ERROR},
	PENDING:          {RUNNING, CANCEL_REQUESTED, FAILED, ERROR},
	RUNNING:          {FINISHED, FAILED, CANCEL_REQUESTED, ERROR},
	CANCEL_REQUESTED: {CANCELLING, CANCELLED, ERROR},
	CANCELLING:       {CANCELLED, ERROR},
	CANCELLED:        {},
	FAILED:           {},
	ERROR:            {},
	FINISHED:         {},
	FORCED_OK:        {},
}

// CanTransition whether from -> to is a legal job lifecycle transition.
// FORCED_OK is an operator override reachable from any non-terminal status.
func CanTransition(from, to JobStatus) bool {
	if !from.IsTerminal() && to == FORCED_OK {
		return true
	}
	targets, ok := jobTransitions[from]
	if !ok {
		return false
	}
	for _, t := range targets {
		if t == to {
			return true
		}
	}
	return false
}

// ValidateTransition guard used by stores before persisting a status change
func ValidateTransition(from, to JobStatus) BatchError {
	if !CanTransition(from, to) {
		return NewBatchError(ErrCodeGeneral, "illegal job status transition:%v -> %v", from, to)
	}
	return nil
}

// BatchStatus raw lifecycle status of a batch, distinct from the derived
// reporting status.
type BatchStatus string

const (
	BatchInitiated BatchStatus = "INITIATED"
	BatchActive    BatchStatus = "ACTIVE"
	BatchCompleted BatchStatus = "COMPLETED"
	BatchFailed    BatchStatus = "FAILED"
	BatchCancelled BatchStatus = "CANCELLED"
	BatchErrored   BatchStatus = "ERROR"
)

// IsTerminal whether the batch reached a terminal raw status
func (s BatchStatus) IsTerminal() bool {
	switch s {
	case BatchCompleted, BatchFailed, BatchCancelled:
		return true
	}
	return false
}

// ReportStatus derived job-level status shown to operators, resolved from the
// rule table, distinct from the raw persisted status.
type ReportStatus string

const (
	ReportUnsubmitted ReportStatus = "UNSUBMITTED"
	ReportInProgress  ReportStatus = "IN_PROGRESS"
	ReportCancelling  ReportStatus = "CANCELLING"
	ReportCancelled   ReportStatus = "CANCELLED"
	ReportFailed      ReportStatus = "FAILED"
	ReportError       ReportStatus = "ERROR"
	ReportCompleted   ReportStatus = "COMPLETED"
	ReportForcedOk    ReportStatus = "FORCED_OK"
	ReportSkipped     ReportStatus = "SKIPPED"
)

// ConfigurationReportStatus derived configuration-level reporting status
type ConfigurationReportStatus string

const (
	ConfigFulfilled   ConfigurationReportStatus = "FULFILLED"
	ConfigUnfulfilled ConfigurationReportStatus = "UNFULFILLED"
	ConfigSkipped     ConfigurationReportStatus = "SKIPPED"
	ConfigUnknown     ConfigurationReportStatus = "UNKNOWN"
)

// BatchReportStatus derived batch-level reporting status
type BatchReportStatus string

const (
	BatchReportSkipped     BatchReportStatus = "SKIPPED"
	BatchReportCompleted   BatchReportStatus = "COMPLETED"
	BatchReportUnsubmitted BatchReportStatus = "UNSUBMITTED"
	BatchReportError       BatchReportStatus = "ERROR"
	BatchReportFailed      BatchReportStatus = "FAILED"
	BatchReportIncomplete  BatchReportStatus = "INCOMPLETE"
)
