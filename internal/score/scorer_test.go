package score

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vintedhsp-byte/vc-signal-bot/internal/signal"
)

func record(display string, sources map[string]string, order []string) signal.ProjectRecord {
	return signal.ProjectRecord{Display: display, Sources: sources, Order: order}
}

func TestSingleSourceIsSuppressed(t *testing.T) {
	t.Parallel()

	s := New(2, 8)
	_, ok := s.Evaluate(record("Zeta", map[string]string{"Fund A": "https://a.example"}, []string{"Fund A"}), nil)
	require.False(t, ok)
}

func TestMultiSourceScoresNineteen(t *testing.T) {
	t.Parallel()

	s := New(2, 8)
	sig, ok := s.Evaluate(record("Zeta", map[string]string{
		"Fund A": "https://a.example/zeta",
		"Fund B": "https://b.example/zeta",
	}, []string{"Fund A", "Fund B"}), nil)

	require.True(t, ok)
	// 10 (vc_hit) + 8 (multi_vc) + 1 (has_link).
	require.Equal(t, 19, sig.Score)
	require.Equal(t, []string{"Fund A", "Fund B"}, sig.Tags)
	require.Equal(t, "https://a.example/zeta", sig.URL)
}

func TestPresenceBonus(t *testing.T) {
	t.Parallel()

	s := New(2, 8)
	presence := map[string]struct{}{"zeta": {}}
	sig, ok := s.Evaluate(record("Zeta", map[string]string{
		"Fund A": "https://a.example/zeta",
		"Fund B": "https://b.example/zeta",
	}, []string{"Fund A", "Fund B"}), presence)

	require.True(t, ok)
	require.Equal(t, 21, sig.Score)
}

func TestMissingURLDropsLinkPoint(t *testing.T) {
	t.Parallel()

	s := New(2, 8)
	sig, ok := s.Evaluate(record("Zeta", map[string]string{
		"Fund A": "",
		"Fund B": "",
	}, []string{"Fund A", "Fund B"}), nil)

	require.True(t, ok)
	require.Equal(t, 18, sig.Score)
	require.Empty(t, sig.URL)
}

func TestSingleSourceAllowedWhenConfigured(t *testing.T) {
	t.Parallel()

	s := New(1, 8)
	sig, ok := s.Evaluate(record("Zeta", map[string]string{"Fund A": "https://a.example"}, []string{"Fund A"}), nil)

	require.True(t, ok)
	// 10 (vc_hit) + 1 (has_link); no multi_vc bonus.
	require.Equal(t, 11, sig.Score)
}

func TestThresholdGate(t *testing.T) {
	t.Parallel()

	s := New(1, 12)
	_, ok := s.Evaluate(record("Zeta", map[string]string{"Fund A": "https://a.example"}, []string{"Fund A"}), nil)
	require.False(t, ok)
}

func TestScoreIsDeterministic(t *testing.T) {
	t.Parallel()

	s := New(2, 8)
	rec := record("Zeta", map[string]string{
		"Fund A": "https://a.example/zeta",
		"Fund B": "https://b.example/zeta",
	}, []string{"Fund A", "Fund B"})

	for range 10 {
		sig, ok := s.Evaluate(rec, nil)
		require.True(t, ok)
		require.Equal(t, 19, sig.Score)
	}
}
