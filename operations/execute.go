package operations

import (
	"errors"
	"fmt"

	"github.com/gnosis/dxctl/pkg/logger"
)

var ErrNotSerializable = errors.New("data cannot be safely written to disk without data lost, " +
	"avoid type that can't be serialized")

// ExecuteConfig is the configuration for the ExecuteOperation function.
type ExecuteConfig struct {
	force bool
}

type ExecuteOption func(*ExecuteConfig)

// WithForce runs the operation even if a previous successful execution with the same input was
// found.
func WithForce() ExecuteOption {
	return func(c *ExecuteConfig) {
		c.force = true
	}
}

// ExecuteOperation executes an operation with the given input and dependencies.
// Execution will return the previous successful execution result and skip execution if there was a
// previous successful run found in the Reports.
// If previous unsuccessful execution was found, the execution will not be skipped.
// Operations are never retried: a failure is recorded and returned.
//
// Note:
// Operations that were skipped will not be added to the reporter.
//
// Input & Output:
// The input and output must be JSON serializable. If the input is not serializable, it will return an error.
func ExecuteOperation[IN, OUT, DEP any](
	b Bundle,
	operation *Operation[IN, OUT, DEP],
	deps DEP,
	input IN,
	opts ...ExecuteOption,
) (Report[IN, OUT], error) {
	if !IsSerializable(b.Logger, input) {
		return Report[IN, OUT]{}, fmt.Errorf("operation %s input: %w", operation.def.ID, ErrNotSerializable)
	}

	cfg := &ExecuteConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if !cfg.force {
		if previousReport, found := loadPreviousSuccessfulReport[IN, OUT](b, operation.def, input); found {
			b.Logger.Infow("Operation already executed. Returning previous result", "id", operation.def.ID,
				"version", operation.def.Version, "description", operation.def.Description)

			return previousReport, nil
		}
	}

	output, err := operation.execute(b, deps, input)
	if err == nil && !IsSerializable(b.Logger, output) {
		return Report[IN, OUT]{}, fmt.Errorf("operation %s output: %w", operation.def.ID, ErrNotSerializable)
	}

	report := NewReport(operation.def, input, output, err)
	report.Forced = cfg.force
	if aerr := b.reporter.AddReport(genericReport(report)); aerr != nil {
		return Report[IN, OUT]{}, aerr
	}

	if err != nil {
		return report, err
	}

	return report, nil
}

// IsSerializable reports whether v survives a JSON round trip, which is required to store it in
// a report file.
func IsSerializable(lggr logger.Logger, v any) bool {
	if _, err := canonicalJSON(v); err != nil {
		lggr.Errorw("Value is not serializable", "type", fmt.Sprintf("%T", v), "error", err)
		return false
	}

	return true
}

func loadPreviousSuccessfulReport[IN, OUT any](
	b Bundle, def Definition, input IN,
) (Report[IN, OUT], bool) {
	prevReports, err := b.reporter.GetReports()
	if err != nil {
		b.Logger.Errorw("Failed to get reports", "error", err)
		return Report[IN, OUT]{}, false
	}
	currentHash, err := constructUniqueHashFrom(b.reportHashCache, def, input)
	if err != nil {
		b.Logger.Errorw("Failed to construct unique hash", "error", err)
		return Report[IN, OUT]{}, false
	}

	for _, report := range prevReports {
		if report.Err != nil {
			continue
		}

		reportHash, err := constructUniqueHashFrom(b.reportHashCache, report.Def, report.Input)
		if err != nil {
			b.Logger.Errorw("Failed to construct unique hash for previous report", "error", err)
			continue
		}
		if reportHash == currentHash {
			typedReport, ok := typeReport[IN, OUT](report)
			if !ok {
				b.Logger.Debugw(fmt.Sprintf("Previous %s execution found but couldn't find its matching Report", def.ID), "report_id", report.ID)
				continue
			}
			b.Logger.Debugw(fmt.Sprintf("Previous %s execution found. Returning its result from Report storage", def.ID), "report_id", report.ID)

			return typedReport, true
		}
	}

	// No previous execution was found
	return Report[IN, OUT]{}, false
}
