package operations

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Report is the result of an operation.
// It contains the inputs and other metadata that was used to execute the operation.
type Report[IN, OUT any] struct {
	ID        string       `json:"id"`
	Def       Definition   `json:"definition"`
	Output    OUT          `json:"output"`
	Input     IN           `json:"input"`
	Timestamp *time.Time   `json:"timestamp"`
	Err       *ReportError `json:"error"`
	// indicates if the operation was forced to run even if the same op was run previously with the same input.
	Forced bool `json:"forced,omitempty"`
}

// NewReport creates a new report.
func NewReport[IN, OUT any](def Definition, input IN, output OUT, err error) Report[IN, OUT] {
	now := time.Now()
	r := Report[IN, OUT]{
		ID:        uuid.New().String(),
		Def:       def,
		Output:    output,
		Input:     input,
		Timestamp: &now,
	}
	if err != nil {
		r.Err = &ReportError{Message: err.Error()}
	}

	return r
}

// ReportError represents an error in the Report.
// Its purpose is to have an exported field `Message` for marshalling as the
// native error cant be marshaled to JSON.
type ReportError struct {
	Message string `json:"message"`
}

// Error implements the error interface.
func (o ReportError) Error() string {
	return o.Message
}

var ErrReportNotFound = errors.New("report not found")

// Reporter manages reports. It can store them in memory or in a file.
type Reporter interface {
	GetReport(id string) (Report[any, any], error)
	GetReports() ([]Report[any, any], error)
	AddReport(report Report[any, any]) error
}

// MemoryReporter stores reports in memory.
// This is thread-safe and can be used in a multi-threaded environment.
type MemoryReporter struct {
	reports []Report[any, any]
	mu      sync.RWMutex
}

type MemoryReporterOption func(*MemoryReporter)

// WithReports is an option to initialize the MemoryReporter with a list of reports.
func WithReports(reports []Report[any, any]) MemoryReporterOption {
	return func(mr *MemoryReporter) {
		mr.reports = reports
	}
}

// NewMemoryReporter creates a new MemoryReporter.
// It can be initialized with a list of reports using the WithReports option.
func NewMemoryReporter(options ...MemoryReporterOption) *MemoryReporter {
	reporter := &MemoryReporter{}
	for _, opt := range options {
		opt(reporter)
	}

	return reporter
}

// AddReport adds a report to the memory reporter.
func (e *MemoryReporter) AddReport(report Report[any, any]) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reports = append(e.reports, report)

	return nil
}

// GetReports returns all reports.
func (e *MemoryReporter) GetReports() ([]Report[any, any], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	// Create a copy to avoid data races after returning
	reports := make([]Report[any, any], len(e.reports))
	copy(reports, e.reports)

	return reports, nil
}

// GetReport returns a report by ID.
// Returns ErrReportNotFound if the report is not found.
func (e *MemoryReporter) GetReport(id string) (Report[any, any], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, report := range e.reports {
		if report.ID == id {
			return report, nil
		}
	}

	return Report[any, any]{}, fmt.Errorf("report_id %s: %w", id, ErrReportNotFound)
}

func genericReport[IN, OUT any](r Report[IN, OUT]) Report[any, any] {
	return Report[any, any]{
		ID:        r.ID,
		Def:       r.Def,
		Output:    r.Output,
		Input:     r.Input,
		Timestamp: r.Timestamp,
		Err:       r.Err,
		Forced:    r.Forced,
	}
}

// typeReport attempts to convert Report[any,any] type into Report[IN,OUT].
// This is needed when loading Report from disk and need to convert the type during execution
// once the type is known.
func typeReport[IN, OUT any](r Report[any, any]) (Report[IN, OUT], bool) {
	var input IN
	if err := remarshal(r.Input, &input); err != nil {
		return Report[IN, OUT]{}, false
	}

	var output OUT
	if err := remarshal(r.Output, &output); err != nil {
		return Report[IN, OUT]{}, false
	}

	return Report[IN, OUT]{
		ID:        r.ID,
		Def:       r.Def,
		Output:    output,
		Input:     input,
		Timestamp: r.Timestamp,
		Err:       r.Err,
		Forced:    r.Forced,
	}, true
}

// remarshal converts src into dst through JSON. Numbers are decoded verbatim so that big
// integers survive the round trip.
func remarshal(src, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec.Decode(dst)
}
