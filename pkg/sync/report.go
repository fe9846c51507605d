package sync

import (
	"fmt"
	"time"

	"github.com/dataannex/tagsync/pkg/metadata"
	"github.com/dataannex/tagsync/pkg/reconciler"
)

// FailureKind classifies a recorded per-entity or per-table failure.
type FailureKind string

const (
	// FailureRead means the table could not be read and was skipped whole.
	FailureRead FailureKind = "read"
	// FailureSchemaWrite means a schema store description write failed.
	FailureSchemaWrite FailureKind = "schema_write"
	// FailureTagWrite means a tag store create or update failed.
	FailureTagWrite FailureKind = "tag_write"
)

// Failure records one failed entity: its canonical key, the kind of failure,
// and the underlying error. Failures are recorded, never retried within a run.
type Failure struct {
	Entity string
	Kind   FailureKind
	Err    error
}

// ApplyResult is the writer's outcome for one table's decisions.
type ApplyResult struct {
	TableWrites int // table-level description writes performed
	FieldWrites int // field-level description writes performed
	Failures    []Failure
}

// TableResult is the outcome of one table's read/reconcile/apply cycle.
type TableResult struct {
	TableID     string
	TableWrites int
	FieldWrites int
	Decisions   int // entities examined (table + fields)
	Failures    []Failure
	Err         error // set when the read failed and the table was skipped
}

// Failed reports whether the table was skipped whole due to a read failure.
func (t *TableResult) Failed() bool {
	return t.Err != nil
}

// Writes returns the total writes performed for this table.
func (t *TableResult) Writes() int {
	return t.TableWrites + t.FieldWrites
}

// Summary returns a human-readable summary of the table result.
func (t *TableResult) Summary() string {
	if t.Failed() {
		return fmt.Sprintf("%s: failed (%v)", t.TableID, t.Err)
	}
	if t.Writes() == 0 && len(t.Failures) == 0 {
		return fmt.Sprintf("%s: in sync", t.TableID)
	}
	return fmt.Sprintf("%s: %d table writes, %d field writes, %d failures",
		t.TableID, t.TableWrites, t.FieldWrites, len(t.Failures))
}

// Report aggregates the outcome of one synchronization run across a batch of
// tables. Re-running against unchanged stores yields a report with zero
// writes: the first pass already converged both sides.
type Report struct {
	Dataset metadata.DatasetRef
	Tables  []TableResult

	// Summary tally
	TablesProcessed int
	TablesFailed    int
	TableWrites     int
	FieldWrites     int

	Metadata Metadata
}

// Metadata carries run-level metadata for the report.
type Metadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Policy    reconciler.PolicyType
	DryRun    bool
	Workers   int
}

// NewReport creates a report for a dataset with start time set.
func NewReport(dataset metadata.DatasetRef) *Report {
	return &Report{
		Dataset:  dataset,
		Metadata: Metadata{StartTime: time.Now()},
	}
}

// HasWrites reports whether any store write was performed (or would have
// been, on a dry run).
func (r *Report) HasWrites() bool {
	return r.TableWrites+r.FieldWrites > 0
}

// HasFailures reports whether any table or entity failed.
func (r *Report) HasFailures() bool {
	if r.TablesFailed > 0 {
		return true
	}
	for i := range r.Tables {
		if len(r.Tables[i].Failures) > 0 {
			return true
		}
	}
	return false
}

// Failures returns every recorded failure across the run, read failures
// included.
func (r *Report) Failures() []Failure {
	var failures []Failure
	for i := range r.Tables {
		t := &r.Tables[i]
		if t.Failed() {
			failures = append(failures, Failure{Entity: t.TableID, Kind: FailureRead, Err: t.Err})
		}
		failures = append(failures, t.Failures...)
	}
	return failures
}

// Summary returns a human-readable summary of the run.
func (r *Report) Summary() string {
	prefix := ""
	if r.Metadata.DryRun {
		prefix = "(dry run) "
	}
	if !r.HasWrites() && !r.HasFailures() {
		return fmt.Sprintf("%sdataset %s: %d tables in sync, nothing to do", prefix, r.Dataset, r.TablesProcessed)
	}
	return fmt.Sprintf("%sdataset %s: %d tables processed, %d failed, %d table writes, %d field writes",
		prefix, r.Dataset, r.TablesProcessed, r.TablesFailed, r.TableWrites, r.FieldWrites)
}

// add folds one table result into the tally.
func (r *Report) add(result TableResult) {
	r.Tables = append(r.Tables, result)
	if result.Failed() {
		r.TablesFailed++
		return
	}
	r.TablesProcessed++
	r.TableWrites += result.TableWrites
	r.FieldWrites += result.FieldWrites
}

// Finalize calculates duration and marks completion.
func (r *Report) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}
