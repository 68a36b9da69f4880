// internal/app/core/activity/activity.go

// Package activity records and serves the per-workspace activity trail.
// Entries are written once, after the mutation they describe has
// committed, and are never changed afterward.
package activity

import (
	"context"

	"github.com/dalemusser/teamnotes/internal/domain/faults"
	"github.com/dalemusser/teamnotes/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Repo is the storage contract for activity entries.
type Repo interface {
	Insert(ctx context.Context, a models.Activity) error
	RecentByWorkspace(ctx context.Context, workspaceID primitive.ObjectID, page, pageSize int) ([]models.Activity, int64, error)
}

// DefaultPageSize is used when a caller requests a non-positive page size.
const DefaultPageSize = 20

// Log appends activity entries and reads workspace timelines. Every entry
// is also written to structured logs, so the trail survives in log
// aggregation even if the store write fails.
type Log struct {
	repo Repo
	log  *zap.Logger
}

func NewLog(repo Repo, logger *zap.Logger) *Log {
	return &Log{repo: repo, log: logger}
}

// Record appends one activity entry. Storage failures are returned to the
// caller, which treats them as non-fatal relative to the mutation already
// performed.
func (l *Log) Record(ctx context.Context, userID, workspaceID primitive.ObjectID, action models.Action, details string, metadata map[string]any) error {
	if !action.Valid() {
		return faults.Newf(faults.KindValidation, "unknown activity action %q", action)
	}

	fields := []zap.Field{
		zap.Bool("activity", true),
		zap.String("action", string(action)),
		zap.String("user_id", userID.Hex()),
		zap.String("workspace_id", workspaceID.Hex()),
		zap.String("details", details),
	}
	l.log.Info("workspace activity", fields...)

	err := l.repo.Insert(ctx, models.Activity{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Action:      action,
		Details:     details,
		Metadata:    metadata,
	})
	if err != nil {
		l.log.Error("failed to store activity entry",
			zap.Error(err),
			zap.String("action", string(action)),
			zap.String("workspace_id", workspaceID.Hex()),
		)
		return err
	}
	return nil
}

// RecentForWorkspace returns one page of a workspace's activities, newest
// first, with the total entry count. page is 1-based; membership gating is
// the caller's responsibility, since timelines are also read by internal
// tooling without a viewer.
func (l *Log) RecentForWorkspace(ctx context.Context, workspaceID primitive.ObjectID, page, pageSize int) ([]models.Activity, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return l.repo.RecentByWorkspace(ctx, workspaceID, page, pageSize)
}
