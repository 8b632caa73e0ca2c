package bootstrap

import (
	"context"

	"fiberops-assistant-be/internal/pkg/logger"
	"fiberops-assistant-be/internal/repository/contract"
	"fiberops-assistant-be/pkg/projectdata"
)

// WarmStart runs the first live refresh and, if it fails, serves the mirrored snapshot until a
// later refresh succeeds. It reports whether any snapshot is published afterwards.
func WarmStart(ctx context.Context, store *projectdata.Store, mirror contract.SnapshotMirrorRepository, log logger.ILogger) bool {
	_, err := store.Refresh(ctx)
	if err == nil {
		return true
	}
	log.Warn("Bootstrap", "Initial refresh failed", map[string]interface{}{"error": err.Error()})

	if mirror == nil {
		return false
	}
	snap, merr := mirror.Load(ctx)
	if merr != nil {
		log.Warn("Bootstrap", "No mirrored snapshot to warm start from", map[string]interface{}{"error": merr.Error()})
		return false
	}

	store.Load(snap)
	log.Info("Bootstrap", "Warm started from mirrored snapshot", map[string]interface{}{
		"projects":     len(snap.Projects),
		"refreshed_at": snap.RefreshedAt,
	})
	return true
}
