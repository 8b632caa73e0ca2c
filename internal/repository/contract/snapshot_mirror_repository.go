package contract

import (
	"context"

	"fiberops-assistant-be/pkg/projectdata"
)

// SnapshotMirrorRepository keeps the last good snapshot outside the process for warm starts.
type SnapshotMirrorRepository interface {
	Save(ctx context.Context, snap *projectdata.Snapshot) error
	Load(ctx context.Context) (*projectdata.Snapshot, error)
}
