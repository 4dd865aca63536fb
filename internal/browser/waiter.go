package browser

import (
	"context"
	"fmt"
	"time"
)

var timeNow = time.Now

// Waiter blocks until page elements become clickable.
type Waiter struct {
	driver   Driver
	timeout  time.Duration
	interval time.Duration

	// closed reports whether the owning session has been closed.
	closed func() bool
}

// NewWaiter binds a Waiter to driver. Non-positive durations fall back
// to DefaultWaitTimeout and DefaultPollInterval.
func NewWaiter(driver Driver, timeout, interval time.Duration) *Waiter {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Waiter{driver: driver, timeout: timeout, interval: interval}
}

// Timeout returns the default wait timeout.
func (w *Waiter) Timeout() time.Duration {
	if w == nil {
		return 0
	}
	return w.timeout
}

// WaitClickable waits up to the default timeout for loc to be clickable.
func (w *Waiter) WaitClickable(ctx context.Context, loc Locator) error {
	return w.WaitClickableWithin(ctx, loc, w.Timeout())
}

// WaitClickableWithin waits up to timeout for loc to be clickable.
// A zero timeout checks exactly once.
func (w *Waiter) WaitClickableWithin(ctx context.Context, loc Locator, timeout time.Duration) error {
	if err := w.ready(); err != nil {
		return err
	}
	if timeout < 0 {
		timeout = 0
	}

	deadline := timeNow().Add(timeout)
	var lastErr error
	for {
		ok, err := w.check(ctx, loc, deadline)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("waiting for %s: %w", loc, err)
		}

		remaining := deadline.Sub(timeNow())
		if remaining <= 0 {
			if lastErr != nil {
				return fmt.Errorf("%w: %s after %s: %w", ErrElementNotReady, loc, timeout, lastErr)
			}
			return fmt.Errorf("%w: %s after %s", ErrElementNotReady, loc, timeout)
		}

		t := time.NewTimer(min(w.interval, remaining))
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("waiting for %s: %w", loc, ctx.Err())
		case <-t.C:
		}
	}
}

// check runs one Clickable call bounded by the wait deadline. Once the
// deadline has passed, a final check still gets one poll interval.
func (w *Waiter) check(ctx context.Context, loc Locator, deadline time.Time) (bool, error) {
	budget := deadline.Sub(timeNow())
	if budget <= 0 {
		budget = w.interval
	}
	checkCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	ok, err := w.driver.Clickable(checkCtx, loc)
	if err != nil && ctx.Err() == nil && checkCtx.Err() != nil {
		// The check ran out of time, not the caller.
		return false, fmt.Errorf("element check did not answer within %s", budget)
	}
	return ok, err
}

// WaitAndClick waits up to the default timeout, then clicks loc.
func (w *Waiter) WaitAndClick(ctx context.Context, loc Locator) error {
	return w.WaitAndClickWithin(ctx, loc, w.Timeout())
}

// WaitAndClickWithin waits up to timeout, then clicks loc. The element
// can detach between the check and the click; that surfaces as
// ErrActionFailed and is left to the caller to retry.
func (w *Waiter) WaitAndClickWithin(ctx context.Context, loc Locator, timeout time.Duration) error {
	if err := w.WaitClickableWithin(ctx, loc, timeout); err != nil {
		return err
	}

	clickCtx, cancel := context.WithTimeout(ctx, DefaultActionTimeout)
	defer cancel()
	if err := w.driver.Click(clickCtx, loc); err != nil {
		return fmt.Errorf("%w: click %s: %w", ErrActionFailed, loc, err)
	}
	return nil
}

func (w *Waiter) ready() error {
	if w == nil || w.driver == nil {
		return ErrNotInitialized
	}
	if w.closed != nil && w.closed() {
		return ErrSessionClosed
	}
	return nil
}
