package reports

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/chararch/batchstat"
)

var batchHeader = []string{
	"batch_id", "status", "report_status", "total_configurations", "fulfilled",
	"unfulfilled", "skipped", "total_jobs", "completion_percent", "age_hours",
	"recommended_action",
}

var configurationHeader = []string{
	"job_configuration_id", "report_status", "overridden", "total_jobs",
	"unsubmitted", "failed", "cancelled", "errored", "finished", "progress_percent",
}

// Writer exports derived batch views as csv status reports
type Writer struct {
	store FileStore
}

func NewWriter(store FileStore) *Writer {
	return &Writer{store: store}
}

// Write render one aggregated batch and its configuration aggregates to a csv
// report named fileName. Purely presentational over the derived views.
func (w *Writer) Write(fileName string, batch *batchstat.AggregatedBatch, configs []*batchstat.AggregatedConfiguration) batchstat.BatchError {
	out, err := w.store.Create(fileName)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(out)

	records := [][]string{batchHeader, batchRecord(batch), configurationHeader}
	for _, config := range configs {
		records = append(records, configurationRecord(config))
	}
	for _, record := range records {
		if er := cw.Write(record); er != nil {
			_ = out.Close()
			return batchstat.NewBatchError(batchstat.ErrCodeGeneral, "write report record to:%v err", fileName, er)
		}
	}
	cw.Flush()
	if er := cw.Error(); er != nil {
		_ = out.Close()
		return batchstat.NewBatchError(batchstat.ErrCodeGeneral, "flush report:%v err", fileName, er)
	}
	if er := out.Close(); er != nil {
		return batchstat.NewBatchError(batchstat.ErrCodeGeneral, "close report:%v err", fileName, er)
	}
	return nil
}

func batchRecord(batch *batchstat.AggregatedBatch) []string {
	return []string{
		strconv.FormatInt(batch.BatchId, 10),
		string(batch.Status),
		string(batch.ReportStatus),
		strconv.Itoa(batch.TotalConfigurations),
		strconv.Itoa(batch.FulfilledConfigurations),
		strconv.Itoa(batch.UnfulfilledConfigurations),
		strconv.Itoa(batch.SkippedConfigurations),
		strconv.Itoa(batch.TotalJobs),
		formatPercent(batch.CompletionPercent),
		formatHours(batch.AgeHours),
		batch.RecommendedAction,
	}
}

func configurationRecord(config *batchstat.AggregatedConfiguration) []string {
	return []string{
		strconv.FormatInt(config.JobConfigurationId, 10),
		string(config.ReportStatus),
		strconv.FormatBool(config.Overridden),
		strconv.Itoa(config.Counts.Total),
		strconv.Itoa(config.Counts.Unsubmitted),
		strconv.Itoa(config.Counts.Failed),
		strconv.Itoa(config.Counts.Cancelled),
		strconv.Itoa(config.Counts.Errored),
		strconv.Itoa(config.Counts.Finished),
		formatPercent(config.ProgressPercent),
	}
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatHours(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}
