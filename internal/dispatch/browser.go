package dispatch

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/apply-pilot/internal/fieldmap"
)

// Session timeouts. A timed-out navigation or selector wait is an
// ordinary per-job failure, never fatal to the batch.
const (
	navigateTimeout = 30 * time.Second
	actionTimeout   = 15 * time.Second
)

// idxAttr tags enumerated form inputs so later fills can address them
// without re-deriving selectors.
const idxAttr = "data-apply-pilot-idx"

// SessionFactory acquires browser sessions. One session is acquired
// per batch and reused across its jobs to amortize startup cost.
type SessionFactory struct {
	// RemoteURL is the websocket endpoint of a remote headless-browser
	// service. Empty means launch a local headless Chrome.
	RemoteURL string
}

// NewSessionFactory creates a factory for the given remote endpoint,
// which may be empty for local Chrome.
func NewSessionFactory(remoteURL string) *SessionFactory {
	return &SessionFactory{RemoteURL: remoteURL}
}

// Session is one batch's exclusively-owned browser. It must be
// released via Close on every exit path.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

// Acquire starts a browser session. The caller owns the session and
// must Close it when the whole batch completes.
func (f *SessionFactory) Acquire(ctx context.Context) (*Session, error) {
	var cancels []context.CancelFunc

	var allocCtx context.Context
	var cancel context.CancelFunc
	if f.RemoteURL != "" {
		allocCtx, cancel = chromedp.NewRemoteAllocator(ctx, f.RemoteURL)
	} else {
		allocCtx, cancel = chromedp.NewExecAllocator(ctx,
			append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
			)...,
		)
	}
	cancels = append(cancels, cancel)

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	cancels = append(cancels, cancel)

	// Start the browser now so acquisition failures surface here, not
	// in the middle of the first job.
	if err := chromedp.Run(browserCtx); err != nil {
		for i := len(cancels) - 1; i >= 0; i-- {
			cancels[i]()
		}
		return nil, fmt.Errorf("failed to acquire browser session: %w", err)
	}

	return &Session{ctx: browserCtx, cancels: cancels}, nil
}

// Close releases the browser session and its process.
func (s *Session) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
}

// Navigate loads the job URL and waits for the document body.
func (s *Session) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.ctx, navigateTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return &AutomationError{Stage: "navigate", URL: url, Err: err}
	}
	return nil
}

// FormInput is one fillable input found on the page, addressable for a
// later fill.
type FormInput struct {
	Index      int
	Descriptor fieldmap.Descriptor
}

// collectedInput mirrors the JSON shape produced by the enumeration
// script.
type collectedInput struct {
	Idx         int    `json:"idx"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	AriaLabel   string `json:"ariaLabel"`
	Label       string `json:"label"`
}

// enumerateScript tags every visible text-like input with an index
// attribute and reports its identifying attributes plus associated
// label text.
const enumerateScript = `(() => {
	const els = Array.from(document.querySelectorAll(
		'input:not([type=hidden]):not([type=submit]):not([type=button]):not([type=checkbox]):not([type=radio]):not([type=file]), textarea'));
	return els.map((el, i) => {
		el.setAttribute('` + idxAttr + `', String(i));
		let label = '';
		if (el.labels && el.labels.length > 0) {
			label = el.labels[0].innerText || '';
		} else if (el.id) {
			const l = document.querySelector('label[for="' + el.id + '"]');
			if (l) label = l.innerText || '';
		}
		return {
			idx: i,
			id: el.id || '',
			name: el.getAttribute('name') || '',
			placeholder: el.getAttribute('placeholder') || '',
			ariaLabel: el.getAttribute('aria-label') || '',
			label: label,
		};
	});
})()`

// CollectInputs enumerates the fillable inputs of the current page.
func (s *Session) CollectInputs() ([]FormInput, error) {
	ctx, cancel := context.WithTimeout(s.ctx, actionTimeout)
	defer cancel()

	var collected []collectedInput
	if err := chromedp.Run(ctx, chromedp.Evaluate(enumerateScript, &collected)); err != nil {
		return nil, &AutomationError{Stage: "collect-inputs", Err: err}
	}

	inputs := make([]FormInput, len(collected))
	for i, c := range collected {
		inputs[i] = FormInput{
			Index: c.Idx,
			Descriptor: fieldmap.Descriptor{
				ID:          c.ID,
				Name:        c.Name,
				Placeholder: c.Placeholder,
				AriaLabel:   c.AriaLabel,
				LabelText:   c.Label,
			},
		}
	}
	return inputs, nil
}

// Fill sets an enumerated input's value.
func (s *Session) Fill(input FormInput, value string) error {
	ctx, cancel := context.WithTimeout(s.ctx, actionTimeout)
	defer cancel()

	selector := "[" + idxAttr + `="` + strconv.Itoa(input.Index) + `"]`
	if err := chromedp.Run(ctx, chromedp.SetValue(selector, value, chromedp.ByQuery)); err != nil {
		return &AutomationError{Stage: "fill", Err: err}
	}
	return nil
}

// submitScript finds the most plausible submit control and reports
// whether one exists, clicking it only when click is true.
const submitScript = `((click) => {
	const candidates = Array.from(document.querySelectorAll('button[type=submit], input[type=submit], button'));
	const words = ['submit', 'apply', 'send application'];
	const el = candidates.find(c => {
		const text = ((c.innerText || c.value || '') + ' ' + (c.getAttribute('aria-label') || '')).toLowerCase();
		return words.some(w => text.includes(w));
	});
	if (!el) return false;
	if (click) el.click();
	return true;
})`

// Submit locates the form's submit control. When live is false the
// control is located but not clicked (dry run); the click only happens
// under an explicit live flag.
func (s *Session) Submit(live bool) error {
	ctx, cancel := context.WithTimeout(s.ctx, actionTimeout)
	defer cancel()

	var found bool
	script := submitScript + "(" + strconv.FormatBool(live) + ")"
	if err := chromedp.Run(ctx, chromedp.Evaluate(script, &found)); err != nil {
		return &AutomationError{Stage: "submit", Err: err}
	}
	if !found {
		return &AutomationError{Stage: "submit", Err: fmt.Errorf("no submit control found")}
	}
	if !live {
		log.Printf("[dispatch] dry run: submit control located but not clicked")
	}
	return nil
}

// clickScript clicks the first element matching any of the given
// selectors, reporting whether one was found.
const clickScript = `((selectors) => {
	for (const sel of selectors) {
		const el = document.querySelector(sel);
		if (el) { el.click(); return true; }
	}
	return false;
})`

// ClickAny clicks the first element matching any selector. Used by the
// easy-apply flow to open a board-native apply dialog.
func (s *Session) ClickAny(selectors []string) (bool, error) {
	ctx, cancel := context.WithTimeout(s.ctx, actionTimeout)
	defer cancel()

	args := jsonArray(selectors)

	var clicked bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(clickScript+"("+args+")", &clicked)); err != nil {
		return false, &AutomationError{Stage: "click", Err: err}
	}
	return clicked, nil
}

func jsonArray(items []string) string {
	out := "["
	for i, item := range items {
		if i > 0 {
			out += ","
		}
		out += strconv.Quote(item)
	}
	return out + "]"
}
