package runstats

import (
	"time"

	"github.com/montanaflynn/stats"
)

// SummaryWindow is the trailing-window size for the current-rate estimate:
// the median is taken over the most recent min(SummaryWindow, N) samples.
// A trailing count window, not a time window.
const SummaryWindow = 50

// DashboardSummary is the derived corpus-wide view. It is recomputed from
// the full ordered sample sequence on every request and never persisted.
type DashboardSummary struct {
	EstimatedRate  float64   `json:"estimated_rate"`
	SampleCount    int       `json:"sample_count"`
	TotalRuns      int       `json:"total_runs"`
	UniqueVersions int       `json:"unique_versions"`
	LastReceivedAt time.Time `json:"last_received_at,omitzero"`
}

// Summarize computes the rolling current-rate estimate and corpus counters
// from a time-ascending sample sequence. The empty sequence yields the zero
// summary; that is a defined result, not an error.
//
// The rate estimate is the median of the trailing window, never the mean.
// UniqueVersions intentionally counts distinct
// non-empty versions across ALL samples, not just the window.
func Summarize(samples []RunSample) DashboardSummary {
	if len(samples) == 0 {
		return DashboardSummary{}
	}

	window := samples
	if len(window) > SummaryWindow {
		window = window[len(window)-SummaryWindow:]
	}

	rates := make([]float64, len(window))
	for i, s := range window {
		rates[i] = s.TotalRate
	}

	// stats.Median only errors on empty input, which is excluded above.
	estimated, _ := stats.Median(rates)

	versions := make(map[string]struct{})

	for _, s := range samples {
		if s.AppVersion != "" {
			versions[s.AppVersion] = struct{}{}
		}
	}

	return DashboardSummary{
		EstimatedRate:  estimated,
		SampleCount:    len(window),
		TotalRuns:      len(samples),
		UniqueVersions: len(versions),
		LastReceivedAt: samples[len(samples)-1].ReceivedAt,
	}
}
