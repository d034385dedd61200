package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/apply-pilot/internal/types"
)

// easyApplySelectors open board-native one-click apply dialogs.
var easyApplySelectors = []string{
	`button.jobs-apply-button`,
	`button[aria-label*="Easy Apply"]`,
	`button[data-testid="apply-button"]`,
	`a[data-testid="apply-button"]`,
}

// EasyApplyDispatcher drives job-board-native one-click application
// flows. These depend on the board session's own credentials, so the
// form-fill step reduces to confirming any pre-filled contact fields.
type EasyApplyDispatcher struct {
	store      RecordStore
	factory    *SessionFactory
	liveSubmit bool
}

// NewEasyApplyDispatcher creates the easy-apply strategy.
func NewEasyApplyDispatcher(store RecordStore, factory *SessionFactory, liveSubmit bool) *EasyApplyDispatcher {
	return &EasyApplyDispatcher{store: store, factory: factory, liveSubmit: liveSubmit}
}

// ProcessBatch applies the easy-apply strategy to every job in the batch.
func (d *EasyApplyDispatcher) ProcessBatch(ctx context.Context, jobs []types.JobPosting, profile *types.UserProfile, userID uuid.UUID) (*types.BatchSummary, error) {
	return runBrowserBatch(ctx, d.store, d.factory, jobs, profile, userID, d.automate)
}

func (d *EasyApplyDispatcher) automate(_ context.Context, session *Session, job *types.JobPosting, profile *types.UserProfile) error {
	if err := session.Navigate(job.URL); err != nil {
		return err
	}

	clicked, err := session.ClickAny(easyApplySelectors)
	if err != nil {
		return err
	}
	if !clicked {
		return &AutomationError{Stage: "easy-apply", URL: job.URL,
			Err: fmt.Errorf("no easy-apply control found")}
	}

	// The dialog may still ask for contact basics; fill whatever the
	// variant table recognizes.
	inputs, err := session.CollectInputs()
	if err != nil {
		return err
	}
	fillMatchedInputs(session, inputs, profile, job.ID)

	return session.Submit(d.liveSubmit)
}
