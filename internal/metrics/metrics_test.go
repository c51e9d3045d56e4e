// SPDX-License-Identifier: MIT

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findMetricFamily(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	mfs, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func labelsMatch(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) != len(want) {
		return false
	}
	for _, lp := range got {
		if want[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	mf := findMetricFamily(t, name)
	if mf == nil {
		return 0
	}
	for _, m := range mf.Metric {
		if labelsMatch(m.GetLabel(), labels) {
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func gaugeValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	mf := findMetricFamily(t, name)
	require.NotNil(t, mf)
	for _, m := range mf.Metric {
		if labelsMatch(m.GetLabel(), labels) {
			return m.GetGauge().GetValue()
		}
	}
	t.Fatalf("no series of %s with labels %v", name, labels)
	return 0
}

func TestRefreshOutcomeCounters(t *testing.T) {
	successBefore := counterValue(t, "xtreamgate_refresh_runs_total", map[string]string{"outcome": "success"})
	failureBefore := counterValue(t, "xtreamgate_refresh_runs_total", map[string]string{"outcome": "failure"})
	busyBefore := counterValue(t, "xtreamgate_refresh_runs_total", map[string]string{"outcome": "busy"})

	RecordRefreshSuccess(3 * time.Second)
	RecordRefreshFailure()
	RecordRefreshBusy()
	RecordRefreshBusy()

	assert.Equal(t, successBefore+1, counterValue(t, "xtreamgate_refresh_runs_total", map[string]string{"outcome": "success"}))
	assert.Equal(t, failureBefore+1, counterValue(t, "xtreamgate_refresh_runs_total", map[string]string{"outcome": "failure"}))
	assert.Equal(t, busyBefore+2, counterValue(t, "xtreamgate_refresh_runs_total", map[string]string{"outcome": "busy"}))
}

func TestRefreshDurationObserved(t *testing.T) {
	mf := findMetricFamily(t, "xtreamgate_refresh_duration_seconds")
	var before uint64
	if mf != nil {
		before = mf.Metric[0].GetHistogram().GetSampleCount()
	}

	RecordRefreshSuccess(2 * time.Second)

	mf = findMetricFamily(t, "xtreamgate_refresh_duration_seconds")
	require.NotNil(t, mf)
	assert.Equal(t, before+1, mf.Metric[0].GetHistogram().GetSampleCount())
}

func TestCatalogGaugesTrackLatestCounts(t *testing.T) {
	RecordCatalogCounts("vod", 120, 8)
	assert.Equal(t, 120.0, gaugeValue(t, "xtreamgate_catalog_items", map[string]string{"type": "vod"}))
	assert.Equal(t, 8.0, gaugeValue(t, "xtreamgate_catalog_categories", map[string]string{"type": "vod"}))

	// gauges overwrite, they do not accumulate
	RecordCatalogCounts("vod", 90, 5)
	assert.Equal(t, 90.0, gaugeValue(t, "xtreamgate_catalog_items", map[string]string{"type": "vod"}))
	assert.Equal(t, 5.0, gaugeValue(t, "xtreamgate_catalog_categories", map[string]string{"type": "vod"}))
}

func TestUpstreamAndFallbackCounters(t *testing.T) {
	upLabels := map[string]string{"action": "get_vod_streams", "outcome": "success"}
	upBefore := counterValue(t, "xtreamgate_upstream_requests_total", upLabels)
	RecordUpstreamRequest("get_vod_streams", "success")
	assert.Equal(t, upBefore+1, counterValue(t, "xtreamgate_upstream_requests_total", upLabels))

	fbLabels := map[string]string{"type": "series"}
	fbBefore := counterValue(t, "xtreamgate_detail_fallbacks_total", fbLabels)
	RecordDetailFallback("series")
	assert.Equal(t, fbBefore+1, counterValue(t, "xtreamgate_detail_fallbacks_total", fbLabels))
}
