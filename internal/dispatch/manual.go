package dispatch

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/apply-pilot/internal/types"
)

// manualReviewNote annotates records deferred to the user.
const manualReviewNote = "Requires manual review: application flow is not supported for automation"

// ManualReviewDispatcher performs no automation. It records each job as
// pending with a manual-review reason and hands the raw job URL back so
// the user can complete the application themselves. The only failure
// mode is the record insert.
type ManualReviewDispatcher struct {
	store RecordStore
}

// NewManualReviewDispatcher creates the manual-review strategy.
func NewManualReviewDispatcher(store RecordStore) *ManualReviewDispatcher {
	return &ManualReviewDispatcher{store: store}
}

// ProcessBatch inserts a pending record per job.
func (d *ManualReviewDispatcher) ProcessBatch(ctx context.Context, jobs []types.JobPosting, _ *types.UserProfile, userID uuid.UUID) (*types.BatchSummary, error) {
	results := make([]types.JobResult, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]

		recordID, err := insertRecord(ctx, d.store, job, userID, types.StatusPending, manualReviewNote)
		if err != nil {
			log.Printf("[dispatch] record insert failed for job %s: %v", job.ID, err)
			results = append(results, types.JobResult{
				JobID:    job.ID,
				JobTitle: job.Title,
				Status:   types.StatusFailed,
				Error:    (&RecordStoreError{Op: "insert", Err: err}).Error(),
			})
			continue
		}

		results = append(results, types.JobResult{
			JobID:                job.ID,
			JobTitle:             job.Title,
			Status:               types.StatusPending,
			ApplicationID:        &recordID,
			RequiresManualReview: true,
			JobURL:               job.URL,
		})
	}

	return types.NewBatchSummary(results), nil
}
