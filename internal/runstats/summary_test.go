package runstats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gobx/statscollector/internal/runstats"
)

func sampleSeq(t *testing.T, versions []string, rates []float64) []runstats.RunSample {
	t.Helper()

	samples := make([]runstats.RunSample, len(rates))
	for i := range rates {
		version := ""
		if versions != nil {
			version = versions[i]
		}

		samples[i] = runstats.RunSample{
			ReceivedAt: at(t, i),
			AppVersion: version,
			TotalRate:  rates[i],
		}
	}

	return samples
}

func TestSummarizeEmpty(t *testing.T) {
	t.Parallel()

	summary := runstats.Summarize(nil)

	assert.Zero(t, summary.EstimatedRate)
	assert.Zero(t, summary.SampleCount)
	assert.Zero(t, summary.TotalRuns)
	assert.Zero(t, summary.UniqueVersions)
	assert.True(t, summary.LastReceivedAt.IsZero())
}

func TestSummarizeMedianOfAllWhenUnderWindow(t *testing.T) {
	t.Parallel()

	samples := sampleSeq(t, []string{"v1", "v1", "v2"}, []float64{100, 200, 9000})
	summary := runstats.Summarize(samples)

	assert.InDelta(t, 200, summary.EstimatedRate, 1e-9)
	assert.Equal(t, 3, summary.SampleCount)
	assert.Equal(t, 3, summary.TotalRuns)
	assert.Equal(t, 2, summary.UniqueVersions)
	assert.Equal(t, at(t, 2), summary.LastReceivedAt)
}

func TestSummarizeEvenWindowAveragesMiddlePair(t *testing.T) {
	t.Parallel()

	samples := sampleSeq(t, nil, []float64{10, 20, 30, 40})
	summary := runstats.Summarize(samples)

	assert.InDelta(t, 25, summary.EstimatedRate, 1e-9)
}

func TestSummarizeUsesOnlyTrailingWindow(t *testing.T) {
	t.Parallel()

	// 10 low outliers followed by SummaryWindow samples at a flat rate:
	// the estimate must ignore everything before the window.
	rates := make([]float64, 0, runstats.SummaryWindow+10)
	for range 10 {
		rates = append(rates, 1)
	}

	for range runstats.SummaryWindow {
		rates = append(rates, 500)
	}

	summary := runstats.Summarize(sampleSeq(t, nil, rates))

	assert.InDelta(t, 500, summary.EstimatedRate, 1e-9)
	assert.Equal(t, runstats.SummaryWindow, summary.SampleCount)
	assert.Equal(t, runstats.SummaryWindow+10, summary.TotalRuns)
}

func TestSummarizeCountsVersionsAcrossAllSamples(t *testing.T) {
	t.Parallel()

	// More samples than the window, with version variety only in the old
	// part. UniqueVersions spans the full corpus, not the window.
	versions := make([]string, 0, runstats.SummaryWindow+3)
	versions = append(versions, "v1", "v2", "v3")

	for range runstats.SummaryWindow {
		versions = append(versions, "v4")
	}

	rates := make([]float64, len(versions))
	summary := runstats.Summarize(sampleSeq(t, versions, rates))

	assert.Equal(t, 4, summary.UniqueVersions)
}

func TestSummarizeSkipsEmptyVersionsInUniqueCount(t *testing.T) {
	t.Parallel()

	samples := sampleSeq(t, []string{"", "v1", ""}, []float64{1, 2, 3})
	summary := runstats.Summarize(samples)

	assert.Equal(t, 1, summary.UniqueVersions)
}

func TestSummarizeIsPure(t *testing.T) {
	t.Parallel()

	samples := sampleSeq(t, []string{"v1", "v2"}, []float64{10, 20})

	first := runstats.Summarize(samples)
	second := runstats.Summarize(samples)

	assert.Equal(t, first, second)
}

func TestSummaryWindowConstant(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50, runstats.SummaryWindow)
}

func TestSummarizeLastReceivedAt(t *testing.T) {
	t.Parallel()

	samples := []runstats.RunSample{
		{ReceivedAt: time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), AppVersion: "v1"},
		{ReceivedAt: time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC), AppVersion: "v1"},
	}

	summary := runstats.Summarize(samples)

	assert.Equal(t, samples[1].ReceivedAt, summary.LastReceivedAt)
}
