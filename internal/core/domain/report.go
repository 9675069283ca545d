package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecordResult is the per-record outcome of one batch run.
type RecordResult struct {
	ProviderRef  string   `json:"provider_ref"`
	Succeeded    bool     `json:"succeeded"`
	FailedStage  Stage    `json:"failed_stage,omitempty"`
	Message      string   `json:"message,omitempty"`
	PropertyCode string   `json:"property_code,omitempty"`
	PropertyID   int      `json:"property_id,omitempty"`
	UnitIDs      []int    `json:"unit_ids,omitempty"`
	Diagnostics  []string `json:"diagnostics,omitempty"`
}

// BatchReport summarizes one provider batch: which records passed, which
// failed at what stage, and the IDs the inventory system returned.
type BatchReport struct {
	TaskID     uuid.UUID      `json:"task_id"`
	Provider   string         `json:"provider"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []RecordResult `json:"results"`
}

func (r *BatchReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Succeeded {
			n++
		}
	}
	return n
}

func (r *BatchReport) Failed() int {
	return len(r.Results) - r.Succeeded()
}
