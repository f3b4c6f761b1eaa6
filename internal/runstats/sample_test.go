package runstats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gobx/statscollector/internal/runstats"
)

func at(t *testing.T, offsetMin int) time.Time {
	t.Helper()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	return base.Add(time.Duration(offsetMin) * time.Minute)
}

func TestParseSamplesSortsAscending(t *testing.T) {
	t.Parallel()

	rows := []runstats.SampleRow{
		{ReceivedAt: at(t, 30), AppVersion: "v3", TotalRate: 300},
		{ReceivedAt: at(t, 10), AppVersion: "v1", TotalRate: 100},
		{ReceivedAt: at(t, 20), AppVersion: "v2", TotalRate: 200},
	}

	samples := runstats.ParseSamples(rows)

	assert.Equal(t, []string{"v1", "v2", "v3"}, versionsOf(samples))
}

func TestParseSamplesFallsBackToUnknownVersion(t *testing.T) {
	t.Parallel()

	samples := runstats.ParseSamples([]runstats.SampleRow{
		{ReceivedAt: at(t, 0), AppVersion: "", TotalRate: 50},
	})

	assert.Equal(t, runstats.UnknownVersion, samples[0].AppVersion)
}

func TestParseSamplesTieBreaksByStorageOrder(t *testing.T) {
	t.Parallel()

	ts := at(t, 5)
	rows := []runstats.SampleRow{
		{ReceivedAt: ts, AppVersion: "first", TotalRate: 1},
		{ReceivedAt: ts, AppVersion: "second", TotalRate: 2},
		{ReceivedAt: ts, AppVersion: "third", TotalRate: 3},
	}

	samples := runstats.ParseSamples(rows)

	assert.Equal(t, []string{"first", "second", "third"}, versionsOf(samples))
}

func TestParseSamplesEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, runstats.ParseSamples(nil))
}

func versionsOf(samples []runstats.RunSample) []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.AppVersion
	}

	return out
}
