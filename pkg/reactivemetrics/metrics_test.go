package reactivemetrics_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/delaneyj/trackparty/pkg/reactivemetrics"
	"github.com/delaneyj/trackparty/reactivity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := reactivemetrics.New(
		reactivemetrics.WithRegistry(reg),
		reactivemetrics.WithNamespace("test"),
	)
	rs := reactivity.CreateReactiveSystem(reactivity.WithObserver(collector))

	boom := errors.New("boom")
	count := reactivity.NewRef(rs, 0)
	double, err := reactivity.Computed(rs, func() (int, error) {
		if count.Value() < 0 {
			return 0, boom
		}
		return count.Value() * 2, nil
	})
	require.NoError(t, err)

	require.NoError(t, count.SetValue(2))
	assert.Equal(t, 4, double.Peek())
	require.ErrorIs(t, count.SetValue(-1), boom)

	// initial run, plus one rerun per write
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.Runs))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.RunFailures))
	// the EmptyRef's first store, then count twice
	assert.Equal(t, 4.0, testutil.ToFloat64(collector.Triggers))
	assert.Equal(t, 5.0, testutil.ToFloat64(collector.Tracks))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestCollectorDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	reactivemetrics.New(reactivemetrics.WithRegistry(reg))
	assert.Panics(t, func() {
		reactivemetrics.New(reactivemetrics.WithRegistry(reg))
	})
	assert.NotPanics(t, func() {
		reactivemetrics.New(
			reactivemetrics.WithRegistry(reg),
			reactivemetrics.WithNamespace("second"),
		)
	})
}

// should count changing writes nobody subscribed to
func TestCollectorTriggersWithoutSubscribers(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := reactivemetrics.New(
		reactivemetrics.WithRegistry(reg),
		reactivemetrics.WithNamespace("lonely"),
	)
	rs := reactivity.CreateReactiveSystem(reactivity.WithObserver(collector))

	ref := reactivity.NewRef(rs, 0)
	require.NoError(t, ref.SetValue(1))
	require.NoError(t, ref.SetValue(1))
	require.NoError(t, ref.SetValue(2))

	expected := `
# HELP lonely_triggers_total Changing writes, with or without subscribers
# TYPE lonely_triggers_total counter
lonely_triggers_total 2
`
	require.NoError(t, testutil.CollectAndCompare(collector.Triggers, strings.NewReader(expected)))
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.Runs))
}
