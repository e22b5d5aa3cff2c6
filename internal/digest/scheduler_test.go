package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
	"github.com/vintedhsp-byte/vc-signal-bot/internal/state"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeTransport struct {
	err       error
	delivered int
	lastHTML  string
	lastPlain string
	lastSubj  string
}

func (t *fakeTransport) Name() string { return "fake" }

func (t *fakeTransport) Deliver(_ context.Context, subject, htmlBody, plainFallback string) error {
	if t.err != nil {
		return t.err
	}
	t.delivered++
	t.lastSubj = subject
	t.lastHTML = htmlBody
	t.lastPlain = plainFallback
	return nil
}

func newTestScheduler(transport signal.Transport, clk signal.Clock) *Scheduler {
	return NewScheduler(Config{
		Window:   4 * time.Hour,
		Subject:  "VC Signals — Recap",
		Timezone: "UTC",
	}, transport, clk, zap.NewNop())
}

func pendingDoc(now time.Time) *state.Document {
	doc := state.NewDocument()
	Enqueue(doc, signal.Signal{Name: "Zeta", URL: "https://zeta.example", Tags: []string{"Fund A", "Fund B"}, Score: 19}, now)
	Enqueue(doc, signal.Signal{Name: "Acme", Tags: []string{"Fund A", "Fund C"}, Score: 18}, now)
	return doc
}

func TestEmptyQueueIsIdle(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Now()}
	s := newTestScheduler(&fakeTransport{}, clk)
	doc := state.NewDocument()

	require.Equal(t, StateIdle, s.State(doc))
	require.False(t, s.FlushIfDue(context.Background(), doc))
}

func TestNoPriorFlushIsImmediatelyDue(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Now()}
	s := newTestScheduler(&fakeTransport{}, clk)
	doc := pendingDoc(clk.now)

	require.Equal(t, StateDue, s.State(doc))
}

func TestWindowBoundary(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	clk := &fakeClock{now: now}
	s := newTestScheduler(&fakeTransport{}, clk)

	// One second inside the window: accumulating.
	doc := pendingDoc(now)
	doc.LastDigestSent = now.Add(-4*time.Hour + time.Second).Format(time.RFC3339)
	require.Equal(t, StateAccumulating, s.State(doc))
	require.False(t, s.FlushIfDue(context.Background(), doc))

	// Exactly at the window: due.
	doc.LastDigestSent = now.Add(-4 * time.Hour).Format(time.RFC3339)
	require.Equal(t, StateDue, s.State(doc))
}

func TestFlushSuccessAdvancesWindowAndClearsQueue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	clk := &fakeClock{now: now}
	transport := &fakeTransport{}
	s := newTestScheduler(transport, clk)
	doc := pendingDoc(now)

	require.True(t, s.FlushIfDue(context.Background(), doc))
	require.Equal(t, 1, transport.delivered)
	require.Empty(t, doc.PendingSignals)
	require.Equal(t, now.Format(time.RFC3339), doc.LastDigestSent)
	require.Equal(t, StateIdle, s.State(doc))
}

func TestFlushFailureRetainsQueue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	clk := &fakeClock{now: now}
	s := newTestScheduler(&fakeTransport{err: errors.New("smtp down")}, clk)

	doc := pendingDoc(now)
	before := append([]signal.PendingSignal(nil), doc.PendingSignals...)

	require.False(t, s.FlushIfDue(context.Background(), doc))
	require.Equal(t, before, doc.PendingSignals)
	require.Empty(t, doc.LastDigestSent)
	// Still due on the next run.
	require.Equal(t, StateDue, s.State(doc))
}

func TestRenderOrdersByScoreThenName(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	clk := &fakeClock{now: now}
	transport := &fakeTransport{}
	s := newTestScheduler(transport, clk)

	doc := state.NewDocument()
	Enqueue(doc, signal.Signal{Name: "beta", Tags: []string{"A", "B"}, Score: 18}, now)
	Enqueue(doc, signal.Signal{Name: "Alpha", Tags: []string{"A", "B"}, Score: 18}, now)
	Enqueue(doc, signal.Signal{Name: "Zeta", URL: "https://zeta.example", Tags: []string{"A", "B"}, Score: 19}, now)

	require.True(t, s.FlushIfDue(context.Background(), doc))

	html := transport.lastHTML
	require.Less(t, strings.Index(html, "Zeta"), strings.Index(html, "Alpha"))
	require.Less(t, strings.Index(html, "Alpha"), strings.Index(html, "beta"))
	require.Contains(t, html, `href="https://zeta.example"`)
	require.Contains(t, html, "window: 4h")

	plain := transport.lastPlain
	require.True(t, strings.HasPrefix(plain, "VC Signals — Recap"))
	require.Contains(t, plain, "- Zeta  (sources: A, B)")
}

func TestUnparseableMarkerTreatedAsDue(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Now()}
	s := newTestScheduler(&fakeTransport{}, clk)
	doc := pendingDoc(clk.now)
	doc.LastDigestSent = "not-a-timestamp"

	require.Equal(t, StateDue, s.State(doc))
}
