package dispatch

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/apply-pilot/internal/match"
	"github.com/jonathan/apply-pilot/internal/types"
)

// Simulated-outcome probabilities. These are contract: tests and the
// documented fallback behavior depend on the exact values.
const (
	simBaseSuccess = 0.85
	simRemoteBonus = 0.05
	simSkillBonus  = 0.10
	simSuccessCap  = 0.95
	simFailureNote = "Simulated submission failed"
	simSubmitDelay = 150 * time.Millisecond
)

// SimulatedDispatcher decides each job's outcome by a weighted random
// draw instead of driving a browser. It is the documented fallback when
// real automation is unavailable, and the only strategy that processes
// its jobs concurrently; the aggregate result order still matches input
// order.
type SimulatedDispatcher struct {
	store RecordStore
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedDispatcher creates the simulated strategy with a
// time-seeded random source.
func NewSimulatedDispatcher(store RecordStore) *SimulatedDispatcher {
	return &SimulatedDispatcher{
		store: store,
		delay: simSubmitDelay,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSimulatedDispatcherWithSource creates the simulated strategy with
// a caller-provided random source and no per-job delay. Used by tests
// that need reproducible draws.
func NewSimulatedDispatcherWithSource(store RecordStore, src rand.Source) *SimulatedDispatcher {
	return &SimulatedDispatcher{
		store: store,
		rng:   rand.New(src),
	}
}

// SuccessProbability computes the weighted success probability for one
// job: base 0.85, +0.05 when the location mentions remote, +0.10 when
// any job requirement substring-matches any user skill, capped at 0.95.
func SuccessProbability(job *types.JobPosting, profile *types.UserProfile) float64 {
	p := simBaseSuccess
	if strings.Contains(strings.ToLower(job.Location), "remote") {
		p += simRemoteBonus
	}
	if len(match.MatchedRequirements(&profile.CV, job)) > 0 {
		p += simSkillBonus
	}
	if p > simSuccessCap {
		p = simSuccessCap
	}
	return p
}

// ProcessBatch fans the jobs out concurrently and joins before
// aggregating. Completion order is unspecified; results are indexed by
// input position.
func (d *SimulatedDispatcher) ProcessBatch(ctx context.Context, jobs []types.JobPosting, profile *types.UserProfile, userID uuid.UUID) (*types.BatchSummary, error) {
	results := make([]types.JobResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i := range jobs {
		g.Go(func() error {
			results[i] = d.processJob(gctx, &jobs[i], profile, userID)
			return nil
		})
	}
	// Workers never return errors; failures live inside the results.
	_ = g.Wait()

	return types.NewBatchSummary(results), nil
}

func (d *SimulatedDispatcher) processJob(ctx context.Context, job *types.JobPosting, profile *types.UserProfile, userID uuid.UUID) types.JobResult {
	recordID, err := insertRecord(ctx, d.store, job, userID, types.StatusProcessing, "")
	if err != nil {
		log.Printf("[dispatch] record insert failed for job %s: %v", job.ID, err)
		return types.JobResult{
			JobID:    job.ID,
			JobTitle: job.Title,
			Status:   types.StatusFailed,
			Error:    (&RecordStoreError{Op: "insert", Err: err}).Error(),
		}
	}

	if d.delay > 0 {
		select {
		case <-time.After(d.delay):
		case <-ctx.Done():
		}
	}

	if d.draw() < SuccessProbability(job, profile) {
		finishRecord(ctx, d.store, recordID, types.StatusSubmitted, "")
		return types.JobResult{
			JobID:         job.ID,
			JobTitle:      job.Title,
			Status:        types.StatusSubmitted,
			ApplicationID: &recordID,
		}
	}

	finishRecord(ctx, d.store, recordID, types.StatusFailed, simFailureNote)
	return types.JobResult{
		JobID:         job.ID,
		JobTitle:      job.Title,
		Status:        types.StatusFailed,
		ApplicationID: &recordID,
		Error:         simFailureNote,
	}
}

// draw returns one uniform sample; rand.Rand is not safe for the
// concurrent workers without the lock.
func (d *SimulatedDispatcher) draw() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64()
}
