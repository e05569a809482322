// Package search drives the portal's search form and recovers its results:
// primarily from the session's own network traffic, with the rendered results
// table as a date fallback.
package search

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/laredo-harvester/internal/browser"
	"github.com/jonathan/laredo-harvester/internal/types"
)

const (
	startDateInput  = `//input[@placeholder='Enter a start date']`
	endDateInput    = `//input[@placeholder='Enter an end date']`
	docTypeDropdown = `//p-dropdown[@formcontrolname='selectedDocumentType']`
	dropdownFilter  = `//input[contains(@class, 'p-dropdown-filter')]`
	firstOption     = `//li[@role='option']`
	runButton       = `//button[contains(@class, 'run-btn')]`
	resultsTable    = `//table//tr`
)

// Document-type filter terms. The alternate term is used on a flagged second
// pass; Jefferson County gets its own first-pass term.
const (
	defaultTerm     = "Successor"
	alternateTerm   = "RESOLUTION"
	jeffersonTerm   = "APPOINTMENT"
	jeffersonCounty = "Jefferson County"
)

// DocTypeTerm decides the document-type filter term for one search.
func DocTypeTerm(jurisdictionName string, secondPass bool) string {
	if secondPass {
		return alternateTerm
	}
	if jurisdictionName == jeffersonCounty {
		return jeffersonTerm
	}
	return defaultTerm
}

// StartDate formats the range start (now minus dayOffset days) the way the
// portal's date input expects it.
func StartDate(now time.Time, dayOffset int) string {
	return now.AddDate(0, 0, -dayOffset).Format("01022006")
}

// Driver fills and submits the search form for a connected jurisdiction.
type Driver struct {
	sess *browser.Session
	wait browser.RetryPolicy
}

// NewDriver wraps the session with the configured wait policy.
func NewDriver(sess *browser.Session, wait browser.RetryPolicy) *Driver {
	return &Driver{sess: sess, wait: wait}
}

// SubmitSearch fills the date range and document-type filter and runs the
// search. It waits for the results table only up to the policy's bound; an
// empty result is a valid outcome, not an error.
func (d *Driver) SubmitSearch(ctx context.Context, j types.Jurisdiction, secondPass bool, dayOffset int) error {
	_ = chromedp.Run(d.sess.Ctx, chromedp.Sleep(2*time.Second))

	now := time.Now()
	err := d.wait.Run(ctx,
		chromedp.WaitVisible(startDateInput, chromedp.BySearch),
		chromedp.Clear(startDateInput, chromedp.BySearch),
		chromedp.SendKeys(startDateInput, StartDate(now, dayOffset), chromedp.BySearch),
	)
	if err != nil {
		return err
	}

	// Not every jurisdiction's form has an end date field.
	d.wait.TryOnce(ctx,
		chromedp.Clear(endDateInput, chromedp.BySearch),
		chromedp.SendKeys(endDateInput, now.Format("01022006"), chromedp.BySearch),
	)

	term := DocTypeTerm(j.Name, secondPass)
	err = d.wait.Run(ctx,
		chromedp.Click(docTypeDropdown, chromedp.BySearch),
		chromedp.Sleep(time.Second),
		chromedp.SendKeys(dropdownFilter, term, chromedp.BySearch),
		chromedp.Sleep(time.Second),
		chromedp.Click(firstOption, chromedp.BySearch),
	)
	if err != nil {
		return err
	}

	if err := d.wait.Run(ctx, chromedp.Click(runButton, chromedp.BySearch)); err != nil {
		return err
	}

	// Give the search time to fire and, when there are rows, render them.
	// Absence of rows after the bound elapses is not an error.
	d.wait.TryOnce(ctx, chromedp.WaitVisible(resultsTable, chromedp.BySearch))
	_ = chromedp.Run(d.sess.Ctx, chromedp.Sleep(6*time.Second))
	return nil
}
