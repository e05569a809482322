package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/laredo-harvester/internal/browser"
	"github.com/jonathan/laredo-harvester/internal/types"
)

// BaseURL is the portal entry point.
const BaseURL = "https://www.laredoanywhere.com/"

const (
	usernameInput   = `//input[@id='username']`
	passwordInput   = `//input[@id='password']`
	loginButton     = `//button`
	landmarkWrapper = `//div[contains(@class, 'button-wrapper')]`
	popupClose      = `//i[contains(@class, 'fa-xmark')]`
	dialogConfirm   = `//button[contains(@class, 'mobile-dialog-button')]`
)

// connectAttempts bounds the click-and-verify loop for one jurisdiction.
// Stale controls are handled by re-resolving the list by index each attempt.
const connectAttempts = 3

// Controller owns the portal session lifecycle. All methods run on the single
// driver goroutine; none blocks without a bound.
type Controller struct {
	sess *browser.Session
	wait browser.RetryPolicy
}

// NewController wraps a live browser session with the configured wait policy.
func NewController(sess *browser.Session, wait browser.RetryPolicy) *Controller {
	return &Controller{sess: sess, wait: wait}
}

// Login navigates to the portal and submits credentials. Success means the
// post-login jurisdiction list landmark became visible within the wait
// budget.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	err := c.wait.Run(ctx,
		chromedp.Navigate(BaseURL),
		chromedp.WaitVisible(usernameInput, chromedp.BySearch),
		chromedp.SendKeys(usernameInput, username, chromedp.BySearch),
		chromedp.SendKeys(passwordInput, password, chromedp.BySearch),
		chromedp.Click(loginButton, chromedp.BySearch),
	)
	if err != nil {
		return &LoginError{Message: "failed to submit credentials", Cause: err}
	}

	// The portal redirects slowly after submit.
	_ = chromedp.Run(c.sess.Ctx, chromedp.Sleep(8*time.Second))

	if err := c.wait.WaitVisible(ctx, landmarkWrapper); err != nil {
		return &LoginError{Message: "jurisdiction list never appeared", Cause: err}
	}
	return nil
}

// Jurisdictions enumerates the portal's live jurisdiction list in display
// order. The returned values are immutable for the run; the clickable
// controls behind them are not, and must be re-resolved by index on use.
func (c *Controller) Jurisdictions(ctx context.Context) ([]types.Jurisdiction, error) {
	if err := c.wait.WaitVisible(ctx, landmarkWrapper); err != nil {
		return nil, err
	}
	var names []string
	err := c.wait.Run(ctx, chromedp.Evaluate(
		`Array.from(document.querySelectorAll('span[class*="county-name"]')).map(e => e.textContent.trim())`,
		&names,
	))
	if err != nil {
		return nil, err
	}
	out := make([]types.Jurisdiction, len(names))
	for i, name := range names {
		out[i] = types.NewJurisdiction(i, name)
	}
	return out, nil
}

// Connect clicks the jurisdiction's control and waits for the toggle to read
// "Disconnect". The control is re-resolved by index on every attempt: the
// control set goes stale after any portal state change, so a held reference
// is never safe.
func (c *Controller) Connect(ctx context.Context, j types.Jurisdiction) error {
	var lastErr error
	for attempt := 0; attempt < connectAttempts; attempt++ {
		_ = chromedp.Run(c.sess.Ctx, chromedp.Sleep(2*time.Second))

		var clicked bool
		err := c.wait.Run(ctx, chromedp.Evaluate(clickByIndexJS(j.Index), &clicked))
		if err != nil || !clicked {
			lastErr = err
			slog.WarnContext(ctx, "jurisdiction control not clickable, re-resolving",
				"jurisdiction", j.Name, "index", j.Index, "attempt", attempt+1)
			continue
		}

		if c.awaitDisconnectToggle(ctx) {
			return nil
		}
		lastErr = nil
	}
	return &ConnectError{Jurisdiction: j.Name, Attempts: connectAttempts, Cause: lastErr}
}

// awaitDisconnectToggle polls for the connect toggle transitioning to its
// "Disconnect" label, bounded by the wait policy.
func (c *Controller) awaitDisconnectToggle(ctx context.Context) bool {
	for attempt := 0; attempt < c.wait.MaxAttempts; attempt++ {
		var connected bool
		ok := c.wait.TryOnce(ctx, chromedp.Evaluate(disconnectPresentJS, &connected))
		if ok && connected {
			return true
		}
		_ = chromedp.Run(c.sess.Ctx, chromedp.Sleep(time.Second))
	}
	return false
}

// Disconnect releases the connected jurisdiction. Idempotent: if no
// disconnect control is present this is a no-op, not an error.
func (c *Controller) Disconnect(ctx context.Context) {
	var clicked bool
	if !c.wait.TryOnce(ctx, chromedp.Evaluate(clickDisconnectJS, &clicked)) || !clicked {
		slog.DebugContext(ctx, "no disconnect control present")
	}
	_ = chromedp.Run(c.sess.Ctx, chromedp.Sleep(2*time.Second))
}

// DismissPopup closes the transient promo popup the portal shows after a
// connect. Absence is normal.
func (c *Controller) DismissPopup(ctx context.Context) {
	_ = chromedp.Run(c.sess.Ctx, chromedp.Sleep(2*time.Second))
	if !c.wait.TryOnce(ctx, chromedp.Click(popupClose, chromedp.BySearch)) {
		slog.DebugContext(ctx, "no popup to dismiss")
	}
}

// Logout signs the session out via the nav menu and confirms the dialog.
func (c *Controller) Logout(ctx context.Context) error {
	var clicked bool
	if err := c.wait.Run(ctx, chromedp.Evaluate(clickSignOutJS, &clicked)); err != nil || !clicked {
		return fmt.Errorf("sign out control not found")
	}
	_ = chromedp.Run(c.sess.Ctx, chromedp.Sleep(time.Second))
	if err := c.wait.Run(ctx, chromedp.Click(dialogConfirm, chromedp.BySearch)); err != nil {
		return err
	}
	_ = chromedp.Run(c.sess.Ctx, chromedp.Sleep(2*time.Second))
	return nil
}
