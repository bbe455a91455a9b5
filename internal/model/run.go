package model

import "time"

// RunStatus tracks the lifecycle of a pipeline run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run records one batch execution of the enrichment pipeline.
type Run struct {
	ID        string    `json:"id"`
	DumpsDir  string    `json:"dumps_dir"`
	Status    RunStatus `json:"status"`
	Accepted  int       `json:"accepted"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rejection reason codes emitted by the quality gate and the pipeline.
const (
	ReasonMissingDocument  = "missing_document"
	ReasonInsufficientText = "insufficient_text"
	ReasonEmptyShortDesc   = "empty_short_description"
	ReasonUnknownIndustry  = "unknown_industry"
	ReasonEmptySector      = "empty_sector"
)

// Rejection is the non-exceptional failure outcome for one domain. It is
// collected into the failure list, never raised as an error.
type Rejection struct {
	Domain string `json:"domain"`
	Reason string `json:"reason"`
}
