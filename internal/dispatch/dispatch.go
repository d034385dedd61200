// Package dispatch drives batches of job applications through
// per-application-type strategies and records every status transition.
package dispatch

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/jonathan/apply-pilot/internal/classify"
	"github.com/jonathan/apply-pilot/internal/db"
	"github.com/jonathan/apply-pilot/internal/types"
)

// RecordStore is the subset of the database the dispatchers need.
// Accepting an interface keeps the strategies testable without a
// running database.
type RecordStore interface {
	InsertApplication(ctx context.Context, input *db.ApplicationInsert) (uuid.UUID, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus, notes string) error
}

// Dispatcher processes a batch of jobs for one application-type
// category. Implementations must isolate per-job failures: one job's
// error never aborts the rest of the batch, and the returned summary
// always carries exactly one result per input job, in input order.
type Dispatcher interface {
	ProcessBatch(ctx context.Context, jobs []types.JobPosting, profile *types.UserProfile, userID uuid.UUID) (*types.BatchSummary, error)
}

// Router selects the dispatcher for each application type. The
// orchestrator stays agnostic to which strategy runs a job.
type Router struct {
	easyApply    Dispatcher
	simpleForm   Dispatcher
	complexForm  Dispatcher
	manualReview Dispatcher
	simulated    Dispatcher
}

// NewRouter wires the standard strategy set. Jobs classified as
// api_direct or unknown defer to manual review: no upstream API
// contract exists for direct submission, and unknown flows are
// unsupported for automation by definition.
func NewRouter(store RecordStore, browser *SessionFactory, liveSubmit bool) *Router {
	return &Router{
		easyApply:    NewEasyApplyDispatcher(store, browser, liveSubmit),
		simpleForm:   NewFormDispatcher(store, browser, FormSimple, liveSubmit),
		complexForm:  NewFormDispatcher(store, browser, FormComplex, liveSubmit),
		manualReview: NewManualReviewDispatcher(store),
		simulated:    NewSimulatedDispatcher(store),
	}
}

// ForType returns the dispatcher owning the given application type.
func (r *Router) ForType(t types.ApplicationType) Dispatcher {
	switch t {
	case types.TypeEasyApply:
		return r.easyApply
	case types.TypeFormSimple:
		return r.simpleForm
	case types.TypeFormComplex:
		return r.complexForm
	default:
		return r.manualReview
	}
}

// Simulated returns the simulated-outcome strategy used when real
// automation is unavailable.
func (r *Router) Simulated() Dispatcher {
	return r.simulated
}

// ProcessClassified classifies each job and routes it to its strategy,
// merging the per-strategy summaries back into input order.
func (r *Router) ProcessClassified(ctx context.Context, jobs []types.JobPosting, profile *types.UserProfile, userID uuid.UUID) (*types.BatchSummary, error) {
	// Group jobs by type, remembering input positions.
	groups := make(map[types.ApplicationType][]int)
	for i := range jobs {
		t := classify.Classify(&jobs[i])
		groups[t] = append(groups[t], i)
	}

	results := make([]types.JobResult, len(jobs))
	for t, indices := range groups {
		group := make([]types.JobPosting, len(indices))
		for i, idx := range indices {
			group[i] = jobs[idx]
		}

		summary, err := r.ForType(t).ProcessBatch(ctx, group, profile, userID)
		if err != nil {
			// Strategy-level failure: every job in the group failed the
			// same way, but the batch itself continues.
			log.Printf("[dispatch] %s strategy failed: %v", t, err)
			for _, idx := range indices {
				results[idx] = types.JobResult{
					JobID:  jobs[idx].ID,
					Status: types.StatusFailed,
					Error:  err.Error(),
				}
			}
			continue
		}
		for i, idx := range indices {
			results[idx] = summary.Results[i]
		}
	}

	return types.NewBatchSummary(results), nil
}

// insertRecord creates the application record that precedes automation.
// Returns the new record's ID.
func insertRecord(ctx context.Context, store RecordStore, job *types.JobPosting, userID uuid.UUID, status types.ApplicationStatus, notes string) (uuid.UUID, error) {
	return store.InsertApplication(ctx, &db.ApplicationInsert{
		UserID:      userID,
		JobID:       job.ID,
		JobTitle:    job.Title,
		CompanyName: job.Company,
		JobURL:      job.URL,
		Status:      string(status),
		Notes:       notes,
		Salary:      job.SalaryRange(),
		Location:    job.Location,
		JobType:     job.JobType,
	})
}

// finishRecord advances a record to its terminal automation outcome.
// A record-store failure here is logged, not propagated: the automation
// outcome already happened and the batch must continue.
func finishRecord(ctx context.Context, store RecordStore, id uuid.UUID, status types.ApplicationStatus, notes string) {
	if err := store.UpdateApplicationStatus(ctx, id, status, notes); err != nil {
		log.Printf("[dispatch] failed to update application %s to %s: %v", id, status, err)
	}
}
