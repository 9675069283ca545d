package domain

import "errors"

// ErrCatalogUnavailable means the canonical element catalog could not be
// fetched, or came back incomplete. Fatal to the whole run: nothing
// downstream can resolve features or property types without it.
var ErrCatalogUnavailable = errors.New("canonical element catalog unavailable")

// ErrUnknownProvider means no equivalence table is configured for the
// requested provider. Fatal to that batch only.
var ErrUnknownProvider = errors.New("unknown provider: no equivalence table configured")

// Stage identifies the pipeline stage a record failed in. Carried on the
// per-record result so a single record can be re-driven without re-running
// the batch.
type Stage string

const (
	StageCatalog  Stage = "catalog"
	StageResolve  Stage = "resolve"
	StageExtract  Stage = "extract"
	StageAssemble Stage = "assemble"
	StageUpload   Stage = "upload"
	StageCalendar Stage = "calendar"
	StageAudit    Stage = "audit"
)
