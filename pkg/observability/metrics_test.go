package observability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/actionbridge/pkg/domain"
	"github.com/aretw0/actionbridge/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnDispatchDone(ctx, &domain.DispatchEvent{
		Action:   domain.Action{Method: "get", Path: "/x"},
		Status:   200,
		Duration: 5 * time.Millisecond,
	})
	hooks.OnDispatchDone(ctx, &domain.DispatchEvent{
		Action: domain.Action{Method: "get", Path: "/x"},
		Err:    errors.New("panic"),
	})
	hooks.OnMethodOverride(ctx, &domain.OverrideEvent{Declared: "get", Enforced: "post"})
	hooks.OnRequestHandled(ctx, &domain.RequestEvent{Outcome: domain.OutcomeRejected, Status: 400})

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	series := make(map[string]int, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
		series[f.GetName()] = len(f.GetMetric())
	}
	assert.Equal(t, 2, series["actionbridge_dispatch_total"], "one series per status label")
	assert.ElementsMatch(t, []string{
		"actionbridge_dispatch_total",
		"actionbridge_dispatch_duration_seconds",
		"actionbridge_method_override_total",
		"actionbridge_requests_total",
	}, names)
}

func TestNewMetrics_NilRegisterer(t *testing.T) {
	assert.NotPanics(t, func() {
		observability.NewMetrics(nil).Hooks().OnMethodOverride(context.Background(), &domain.OverrideEvent{})
	})
}
