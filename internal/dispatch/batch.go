package dispatch

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/apply-pilot/internal/types"
)

// automateFunc performs the automation step for one job inside an
// already-acquired browser session.
type automateFunc func(ctx context.Context, session *Session, job *types.JobPosting, profile *types.UserProfile) error

// runBrowserBatch implements the shared per-job protocol of the
// browser-driven strategies:
//
//  1. Insert a processing record; an insert failure marks the job
//     failed and the batch continues.
//  2. Run the strategy's automation inside the shared session.
//  3. Advance the record to submitted or failed, storing any error
//     message as notes.
//
// The session is acquired once for the whole batch, jobs run
// sequentially against it, and it is released on every exit path.
func runBrowserBatch(ctx context.Context, store RecordStore, factory *SessionFactory, jobs []types.JobPosting, profile *types.UserProfile, userID uuid.UUID, automate automateFunc) (*types.BatchSummary, error) {
	session, err := factory.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire browser session: %w", err)
	}
	defer session.Close()

	results := make([]types.JobResult, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		results = append(results, runBrowserJob(ctx, store, session, job, profile, userID, automate))
	}

	return types.NewBatchSummary(results), nil
}

// runBrowserJob runs one job end to end. It never returns an error:
// every failure mode is folded into the job's result so the caller's
// loop continues unconditionally.
func runBrowserJob(ctx context.Context, store RecordStore, session *Session, job *types.JobPosting, profile *types.UserProfile, userID uuid.UUID, automate automateFunc) types.JobResult {
	recordID, err := insertRecord(ctx, store, job, userID, types.StatusProcessing, "")
	if err != nil {
		log.Printf("[dispatch] record insert failed for job %s: %v", job.ID, err)
		return types.JobResult{
			JobID:    job.ID,
			JobTitle: job.Title,
			Status:   types.StatusFailed,
			Error:    (&RecordStoreError{Op: "insert", Err: err}).Error(),
		}
	}

	if err := automate(ctx, session, job, profile); err != nil {
		finishRecord(ctx, store, recordID, types.StatusFailed, err.Error())
		return types.JobResult{
			JobID:         job.ID,
			JobTitle:      job.Title,
			Status:        types.StatusFailed,
			ApplicationID: &recordID,
			Error:         err.Error(),
		}
	}

	finishRecord(ctx, store, recordID, types.StatusSubmitted, "")
	return types.JobResult{
		JobID:         job.ID,
		JobTitle:      job.Title,
		Status:        types.StatusSubmitted,
		ApplicationID: &recordID,
	}
}
