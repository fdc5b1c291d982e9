package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_RegistersAndCounts(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.ObserveBuildDuration(120 * time.Millisecond)
	rec.IncBuildOutcome(ResultSuccess)
	rec.IncBuildOutcome(ResultFailed)
	rec.ObserveStageDuration("normalize-whitespace", 3*time.Millisecond)
	rec.IncLintIssues("no-trailing-spaces", 4)
	rec.IncLintIssues("no-trailing-spaces", 0) // zero is dropped

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]bool{}
	for _, mf := range families {
		byName[mf.GetName()] = true
	}
	require.True(t, byName["mdcombine_build_duration_seconds"])
	require.True(t, byName["mdcombine_build_outcomes_total"])
	require.True(t, byName["mdcombine_stage_duration_seconds"])
	require.True(t, byName["mdcombine_lint_issues_total"])
}

func TestPrometheusRecorder_NilIsNoOp(t *testing.T) {
	var rec *PrometheusRecorder
	rec.ObserveBuildDuration(time.Second)
	rec.IncBuildOutcome(ResultSuccess)
	rec.ObserveStageDuration("x", time.Second)
	rec.IncLintIssues("x", 1)
}
