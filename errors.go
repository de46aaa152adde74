package batchstat

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// error codes carried by BatchError
const (
	// ErrCodeGeneral unclassified failure
	ErrCodeGeneral = "GENERAL"
	// ErrCodeDbFail database access failure
	ErrCodeDbFail = "DB_FAIL"
	// ErrCodeNotFound a referenced entity does not exist, callers may retry after the next write
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeRuleNotFound the rule table has no entry for a (skipped,status) pair, indicates rule drift and must not be defaulted
	ErrCodeRuleNotFound = "RULE_NOT_FOUND"
	// ErrCodeInconsistent child rows contradict their parent, the snapshot must not be rolled up
	ErrCodeInconsistent = "INCONSISTENT_SNAPSHOT"
)

// BatchError error interface of batchstat
type BatchError interface {
	// Code code of the error
	Code() string
	// Message readable message of the error
	Message() string
	// Error error interface
	Error() string
	// StackTrace goroutine stack trace
	StackTrace() string
}

type batchError struct {
	code string
	msg  string
	err  error
}

// NewBatchError new a BatchError instance. If the last argument is an error, it
// is wrapped as the cause instead of being rendered into the message.
func NewBatchError(code string, msg string, args ...interface{}) BatchError {
	var err error
	if len(args) > 0 {
		if e, ok := args[len(args)-1].(error); ok {
			err = e
			args = args[:len(args)-1]
		}
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	if err != nil && !hasStack(err) {
		err = errors.WithStack(err)
	}
	return &batchError{code: code, msg: msg, err: err}
}

func hasStack(err error) bool {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	_, ok := err.(stackTracer)
	return ok
}

func (e *batchError) Code() string {
	return e.code
}

func (e *batchError) Message() string {
	return e.msg
}

func (e *batchError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%v:%v cause:%v", e.code, e.msg, e.err)
	}
	return fmt.Sprintf("%v:%v", e.code, e.msg)
}

func (e *batchError) Unwrap() error {
	return e.err
}

func (e *batchError) StackTrace() string {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}
	if e.err == nil {
		return ""
	}
	if st, ok := e.err.(stackTracer); ok {
		frames := st.StackTrace()
		sb := strings.Builder{}
		for _, frame := range frames {
			sb.WriteString(fmt.Sprintf("%+v\n", frame))
		}
		return sb.String()
	}
	return ""
}

// ErrorCode extract the code of an error, ErrCodeGeneral for errors that are
// not BatchError.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	if be, ok := err.(BatchError); ok {
		return be.Code()
	}
	return ErrCodeGeneral
}
