package dispatch

import (
	"context"
	"log"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/jonathan/apply-pilot/internal/fieldmap"
	"github.com/jonathan/apply-pilot/internal/types"
)

// FormComplexity distinguishes the two external-form strategies.
type FormComplexity int

const (
	// FormSimple is a single flat application form.
	FormSimple FormComplexity = iota
	// FormComplex is a multi-section form behind client-side rendering;
	// it gets a settle delay before enumeration and a second enumeration
	// pass for late-rendered sections.
	FormComplex
)

// FormDispatcher drives external application forms: navigate, enumerate
// inputs, map them to profile fields, fill matches, and locate the
// submit control (clicking only under the live flag).
type FormDispatcher struct {
	store      RecordStore
	factory    *SessionFactory
	complexity FormComplexity
	liveSubmit bool
}

// NewFormDispatcher creates a form-filling dispatcher of the given
// complexity.
func NewFormDispatcher(store RecordStore, factory *SessionFactory, complexity FormComplexity, liveSubmit bool) *FormDispatcher {
	return &FormDispatcher{
		store:      store,
		factory:    factory,
		complexity: complexity,
		liveSubmit: liveSubmit,
	}
}

// ProcessBatch applies the form strategy to every job in the batch.
func (d *FormDispatcher) ProcessBatch(ctx context.Context, jobs []types.JobPosting, profile *types.UserProfile, userID uuid.UUID) (*types.BatchSummary, error) {
	return runBrowserBatch(ctx, d.store, d.factory, jobs, profile, userID, d.automate)
}

// automate fills one job's application form.
func (d *FormDispatcher) automate(ctx context.Context, session *Session, job *types.JobPosting, profile *types.UserProfile) error {
	if err := session.Navigate(job.URL); err != nil {
		return err
	}

	if d.complexity == FormComplex {
		// Client-side portals render their form sections after load.
		sctx, cancel := context.WithTimeout(ctx, actionTimeout)
		_ = chromedp.Run(sctx, chromedp.Sleep(3*time.Second))
		cancel()
	}

	inputs, err := session.CollectInputs()
	if err != nil {
		return err
	}
	if d.complexity == FormComplex && len(inputs) == 0 {
		// One retry for late-rendered sections.
		sctx, cancel := context.WithTimeout(ctx, actionTimeout)
		_ = chromedp.Run(sctx, chromedp.Sleep(2*time.Second))
		cancel()
		if inputs, err = session.CollectInputs(); err != nil {
			return err
		}
	}

	filled := fillMatchedInputs(session, inputs, profile, job.ID)
	if filled == 0 {
		log.Printf("[dispatch] no profile fields matched on %s", job.URL)
	}

	return session.Submit(d.liveSubmit)
}

// fillMatchedInputs maps each input through the variant table and fills
// those the profile has a non-empty value for. Unmatched inputs are
// left untouched. Returns the fill count.
func fillMatchedInputs(session *Session, inputs []FormInput, profile *types.UserProfile, jobID string) int {
	filled := 0
	for _, input := range inputs {
		canonical, ok := fieldmap.Match(input.Descriptor)
		if !ok {
			continue
		}
		value := profile.Field(canonical)
		if value == "" {
			continue
		}
		if err := session.Fill(input, value); err != nil {
			// A single unfillable input is not fatal to the job.
			log.Printf("[dispatch] fill %s failed for job %s: %v", canonical, jobID, err)
			continue
		}
		filled++
	}
	return filled
}
