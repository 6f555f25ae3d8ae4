package dto

import "time"

// RunReport is the structured result of one scheduled pipeline run. Failures
// at any layer surface here as counts and messages instead of aborting the
// run.
type RunReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Stores     []StoreReport
}

// Totals sums persisted and failed record counts across all stores and files.
func (r *RunReport) Totals() (persisted, failed int) {
	for _, s := range r.Stores {
		for _, f := range s.Files {
			persisted += f.Persisted
			failed += f.Failed
		}
	}
	return persisted, failed
}

type StoreReport struct {
	StoreID   string
	StoreName string
	Resolved  bool
	Err       string
	Files     []FileReport
}

type FileReport struct {
	Name      string
	Kind      string
	Parsed    int
	Persisted int
	Failed    int
	Err       string
}
