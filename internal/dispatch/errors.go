package dispatch

import "fmt"

// AutomationError indicates a navigation, selector, or timeout failure
// while driving the browser. It is recovered per job: the job is marked
// failed with the message persisted as notes, and the batch continues.
type AutomationError struct {
	Stage string
	URL   string
	Err   error
}

func (e *AutomationError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("automation failed at %s for %s: %v", e.Stage, e.URL, e.Err)
	}
	return fmt.Sprintf("automation failed at %s: %v", e.Stage, e.Err)
}

func (e *AutomationError) Unwrap() error {
	return e.Err
}

// RecordStoreError indicates an application-record insert or update
// failure. Like automation errors it is recovered per job.
type RecordStoreError struct {
	Op  string
	Err error
}

func (e *RecordStoreError) Error() string {
	return fmt.Sprintf("record store %s failed: %v", e.Op, e.Err)
}

func (e *RecordStoreError) Unwrap() error {
	return e.Err
}
