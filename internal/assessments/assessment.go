// Package assessments runs the assessment workflow against the risk store:
// it generates and persists batches, archives snapshots, and re-runs
// evaluation or mitigation for single stored risks.
package assessments

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/riskline/internal/hierarchy"
	"github.com/JaimeStill/riskline/internal/risks"
	"github.com/JaimeStill/riskline/internal/workflow"
	"github.com/JaimeStill/riskline/pkg/storage"
)

// SnapshotPrefix is the storage key prefix of archived batches.
const SnapshotPrefix = "batches/"

// Format selects the archived representation of a batch.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat returns the snapshot format for s; empty selects JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// SnapshotKey returns the storage key of a batch in format f.
func SnapshotKey(batch uuid.UUID, f Format) string {
	return path.Join(SnapshotPrefix, batch.String(), "risks."+string(f))
}

// Snapshot names the archived copies of a batch.
type Snapshot struct {
	JSONKey string `json:"json_key"`
	CSVKey  string `json:"csv_key"`
}

// Assessment is a stored batch. Risks carry the ids they were stored under.
type Assessment struct {
	BatchID     uuid.UUID    `json:"batch_id"`
	Risks       []risks.Risk `json:"risks"`
	CompletedAt time.Time    `json:"completed_at"`
	Snapshot    *Snapshot    `json:"snapshot,omitempty"`
}

// System defines the public contract for assessment operations.
type System interface {
	Handler() *Handler

	// Generate runs the workflow over h, or over the configured hierarchy
	// file when h is nil, and stores the batch. replace empties the store
	// first; otherwise the batch is appended after the existing ids.
	Generate(ctx context.Context, h *hierarchy.Hierarchy, replace bool) (*Assessment, error)

	Reevaluate(ctx context.Context, id string) (*risks.Risk, error)
	Recompose(ctx context.Context, id string) (*risks.Risk, error)

	// Archive snapshots every stored risk under a new batch id.
	Archive(ctx context.Context) (*Assessment, error)

	Snapshot(ctx context.Context, batch uuid.UUID, f Format) (io.ReadCloser, error)
	Snapshots(ctx context.Context, limit int32) ([]storage.Blob, error)

	Features() workflow.Features
}
