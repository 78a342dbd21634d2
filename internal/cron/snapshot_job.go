package cron

import (
	"context"
	"errors"
)

const SnapshotFlushJobName = "dashboard_snapshot_flush"

type flusher interface {
	Flush(ctx context.Context) error
}

// SnapshotFlushJob rewrites the dashboard snapshot so a missed write-through
// is repaired on the next cycle.
type SnapshotFlushJob struct {
	dashboard flusher
}

func NewSnapshotFlushJob(dashboard flusher) (*SnapshotFlushJob, error) {
	if dashboard == nil {
		return nil, errors.New("dashboard required")
	}
	return &SnapshotFlushJob{dashboard: dashboard}, nil
}

func (j *SnapshotFlushJob) Name() string { return SnapshotFlushJobName }

func (j *SnapshotFlushJob) Run(ctx context.Context) error {
	return j.dashboard.Flush(ctx)
}
