package tokensync

import (
	"errors"
	"fmt"
)

// Process exit codes, one per failure class. ExitNoChanges is not a failure:
// it signals an early-success run that found nothing to regenerate.
// ExitSectionConflict stays in the taxonomy for callers that treat conflict
// warnings as fatal; the pipeline itself surfaces conflicts without aborting.
const (
	ExitSuccess         = 0
	ExitConfig          = 1
	ExitRepo            = 2
	ExitVault           = 3
	ExitAuth            = 4
	ExitDesignAPI       = 5
	ExitExtraction      = 6
	ExitGeneration      = 7
	ExitSectionConflict = 8
	ExitGit             = 9
	ExitFilesystem      = 10
	ExitNoChanges       = 20
)

// ExitError couples a pipeline failure with the stage that produced it and
// the process exit code it maps to.
type ExitError struct {
	Code  int
	Stage string
	Err   error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s failed (exit %d)", e.Stage, e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *ExitError) Unwrap() error { return e.Err }

// stageErr wraps a stage failure with its exit code.
func stageErr(code int, stage string, err error) error {
	return &ExitError{Code: code, Stage: stage, Err: err}
}

// ExitCode maps an error returned by Run to a process exit code. A nil error
// is success; an error outside the taxonomy maps to the generic configuration
// code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ExitConfig
}
