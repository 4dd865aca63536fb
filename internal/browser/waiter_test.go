package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitClickableAfterChecks(t *testing.T) {
	d := &fakeDriver{readyAfter: 3}
	w := NewWaiter(d, time.Second, time.Millisecond)

	require.NoError(t, w.WaitClickable(context.Background(), ID("export")))
	assert.Equal(t, 4, d.checks)
}

func TestWaitClickableTimeout(t *testing.T) {
	d := &fakeDriver{readyAfter: -1}
	w := NewWaiter(d, time.Second, 5*time.Millisecond)

	start := time.Now()
	err := w.WaitClickableWithin(context.Background(), ID("never"), 30*time.Millisecond)
	assert.ErrorIs(t, err, ErrElementNotReady)
	assert.Contains(t, err.Error(), `id="never"`)
	assert.Less(t, time.Since(start), time.Second)
	assert.Greater(t, d.checks, 1)
}

func TestWaitClickableZeroTimeoutChecksOnce(t *testing.T) {
	d := &fakeDriver{readyAfter: -1}
	w := NewWaiter(d, time.Second, time.Millisecond)

	err := w.WaitClickableWithin(context.Background(), CSS("#x"), 0)
	assert.ErrorIs(t, err, ErrElementNotReady)
	assert.Equal(t, 1, d.checks)

	d2 := &fakeDriver{}
	w2 := NewWaiter(d2, time.Second, time.Millisecond)
	assert.NoError(t, w2.WaitClickableWithin(context.Background(), CSS("#x"), 0))
}

func TestWaitClickableKeepsCheckError(t *testing.T) {
	cause := errors.New("node detached")
	d := &fakeDriver{checkErr: cause}
	w := NewWaiter(d, time.Second, time.Millisecond)

	err := w.WaitClickableWithin(context.Background(), ID("row"), 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrElementNotReady)
	assert.ErrorIs(t, err, cause)
}

func TestWaitClickableCanceled(t *testing.T) {
	d := &fakeDriver{readyAfter: -1}
	w := NewWaiter(d, time.Minute, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	err := w.WaitClickable(ctx, ID("never"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrElementNotReady)
}

func TestWaiterDefaults(t *testing.T) {
	w := NewWaiter(&fakeDriver{}, 0, -1)
	assert.Equal(t, DefaultWaitTimeout, w.Timeout())
	assert.Equal(t, DefaultPollInterval, w.interval)
}

func TestWaiterNotInitialized(t *testing.T) {
	var nilWaiter *Waiter
	assert.ErrorIs(t, nilWaiter.WaitClickable(context.Background(), ID("a")), ErrNotInitialized)
	assert.ErrorIs(t, nilWaiter.WaitAndClick(context.Background(), ID("a")), ErrNotInitialized)

	var zero Waiter
	assert.ErrorIs(t, zero.WaitClickable(context.Background(), ID("a")), ErrNotInitialized)
}

func TestWaitAndClick(t *testing.T) {
	d := &fakeDriver{readyAfter: 1}
	w := NewWaiter(d, time.Second, time.Millisecond)

	require.NoError(t, w.WaitAndClick(context.Background(), Locator{By: ByLinkText, Value: "Export CSV"}))
	require.Len(t, d.clicks, 1)
	assert.Equal(t, ByLinkText, d.clicks[0].By)
}

func TestWaitAndClickNeverReadyDoesNotClick(t *testing.T) {
	d := &fakeDriver{readyAfter: -1}
	w := NewWaiter(d, time.Second, time.Millisecond)

	err := w.WaitAndClickWithin(context.Background(), ID("x"), 5*time.Millisecond)
	assert.ErrorIs(t, err, ErrElementNotReady)
	assert.Empty(t, d.clicks)
}

func TestWaitAndClickFailure(t *testing.T) {
	cause := errors.New("element is not attached to the page document")
	d := &fakeDriver{clickErr: cause}
	w := NewWaiter(d, time.Second, time.Millisecond)

	err := w.WaitAndClick(context.Background(), ID("x"))
	assert.ErrorIs(t, err, ErrActionFailed)
	assert.ErrorIs(t, err, cause)
}

func TestWaiterClosedSession(t *testing.T) {
	d := &fakeDriver{}
	w := NewWaiter(d, time.Second, time.Millisecond)
	w.closed = func() bool { return true }

	assert.ErrorIs(t, w.WaitClickable(context.Background(), ID("x")), ErrSessionClosed)
	assert.Zero(t, d.checks)
}

// stalledDriver never answers a check until its ctx is done, like a
// page blocked by a modal dialog.
type stalledDriver struct {
	fakeDriver
}

func (d *stalledDriver) Clickable(ctx context.Context, _ Locator) (bool, error) {
	d.mu.Lock()
	d.checks++
	d.mu.Unlock()
	<-ctx.Done()
	return false, ctx.Err()
}

func TestWaitClickableStalledCheckZeroTimeout(t *testing.T) {
	d := &stalledDriver{}
	w := NewWaiter(d, time.Second, 20*time.Millisecond)

	start := time.Now()
	err := w.WaitClickableWithin(context.Background(), ID("x"), 0)
	assert.ErrorIs(t, err, ErrElementNotReady)
	assert.NotErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, d.checks)
}

func TestWaitClickableStalledCheckHonorsTimeout(t *testing.T) {
	d := &stalledDriver{}
	w := NewWaiter(d, time.Minute, 10*time.Millisecond)

	start := time.Now()
	err := w.WaitClickableWithin(context.Background(), ID("x"), 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrElementNotReady)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitAndClickStalledCheck(t *testing.T) {
	d := &stalledDriver{}
	w := NewWaiter(d, 30*time.Millisecond, 10*time.Millisecond)

	err := w.WaitAndClick(context.Background(), ID("x"))
	assert.ErrorIs(t, err, ErrElementNotReady)
	assert.Empty(t, d.clicks)
}

func TestWaitClickableStalledCheckCanceled(t *testing.T) {
	d := &stalledDriver{}
	w := NewWaiter(d, time.Minute, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	err := w.WaitClickable(ctx, ID("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrElementNotReady)
}
