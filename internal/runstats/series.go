package runstats

import (
	"fmt"
	"time"
)

// Display policies for the chart projections.
const (
	// MaxLabeledBoundaries caps how many of the most recent version
	// boundaries get a visible label; older boundaries stay unlabeled.
	MaxLabeledBoundaries = 4

	// MaxVersionBars caps the bar chart at the most recently introduced
	// versions, in first-seen order.
	MaxVersionBars = 12

	// maxLabelLen truncates version strings for display.
	maxLabelLen = 10
)

// Placeholder messages for empty projections. The two are distinct so the
// rendering caller can tell "no samples at all" from "samples without any
// version" apart.
const (
	MsgNoData     = "No data yet"
	MsgNoVersions = "No version data yet"
)

// RateCard is the single-value card projection. When Placeholder is
// non-empty the card carries no value and the message is shown instead.
type RateCard struct {
	Placeholder string
	Value       string
	Caption     string
}

// TimePoint is one (timestamp, rate) pair of the time series.
type TimePoint struct {
	At   time.Time
	Rate float64
}

// VersionBoundary marks a sample whose version differs from the
// immediately preceding sample's version.
type VersionBoundary struct {
	At      time.Time
	Version string
	Label   string
	Labeled bool
}

// TimeSeries is the chart-ready performance-over-time projection.
type TimeSeries struct {
	Placeholder string
	Points      []TimePoint
	Boundaries  []VersionBoundary
}

// VersionBar is one (version label, median rate) pair.
type VersionBar struct {
	Label      string
	MedianRate float64
}

// VersionBars is the per-version bar projection.
type VersionBars struct {
	Placeholder string
	Bars        []VersionBar
}

// BuildRateCard projects a summary onto the rate card.
func BuildRateCard(summary DashboardSummary) RateCard {
	if summary.SampleCount == 0 {
		return RateCard{Placeholder: MsgNoData}
	}

	return RateCard{
		Value:   FormatRate(summary.EstimatedRate),
		Caption: fmt.Sprintf("Median of last %d runs", summary.SampleCount),
	}
}

// BuildTimeSeries projects a time-ascending sample sequence onto the
// performance-over-time chart. A boundary is emitted whenever the version
// changes relative to the previous sample, so a version reappearing after a
// gap re-emits a new boundary. Only the most recent MaxLabeledBoundaries
// boundaries are labeled.
func BuildTimeSeries(samples []RunSample) TimeSeries {
	if len(samples) == 0 {
		return TimeSeries{Placeholder: MsgNoData}
	}

	points := make([]TimePoint, len(samples))
	for i, s := range samples {
		points[i] = TimePoint{At: s.ReceivedAt, Rate: s.TotalRate}
	}

	var boundaries []VersionBoundary

	lastVersion := ""
	sawAny := false

	for _, s := range samples {
		if !sawAny || s.AppVersion != lastVersion {
			boundaries = append(boundaries, VersionBoundary{
				At:      s.ReceivedAt,
				Version: s.AppVersion,
				Label:   truncateLabel(s.AppVersion),
			})

			lastVersion = s.AppVersion
			sawAny = true
		}
	}

	for i := range boundaries {
		boundaries[i].Labeled = i >= len(boundaries)-MaxLabeledBoundaries
	}

	return TimeSeries{Points: points, Boundaries: boundaries}
}

// BuildVersionBars projects the bucketizer output onto the per-version bar
// chart, keeping the last MaxVersionBars entries in first-seen order.
// hasSamples distinguishes the raw-empty placeholder from the
// no-versioned-samples placeholder.
func BuildVersionBars(buckets []VersionRate, hasSamples bool) VersionBars {
	if !hasSamples {
		return VersionBars{Placeholder: MsgNoData}
	}

	if len(buckets) == 0 {
		return VersionBars{Placeholder: MsgNoVersions}
	}

	if len(buckets) > MaxVersionBars {
		buckets = buckets[len(buckets)-MaxVersionBars:]
	}

	bars := make([]VersionBar, len(buckets))
	for i, b := range buckets {
		bars[i] = VersionBar{Label: truncateLabel(b.Version), MedianRate: b.MedianRate}
	}

	return VersionBars{Bars: bars}
}

// FormatRate renders a throughput value compactly with a trailing /s.
// Suffix thresholds are strict >=.
func FormatRate(rate float64) string {
	switch {
	case rate >= 1_000_000_000:
		return fmt.Sprintf("%.2fB/s", rate/1_000_000_000)
	case rate >= 1_000_000:
		return fmt.Sprintf("%.2fM/s", rate/1_000_000)
	case rate >= 1_000:
		return fmt.Sprintf("%.1fk/s", rate/1_000)
	default:
		return fmt.Sprintf("%.1f/s", rate)
	}
}

// FormatCount renders a count value compactly, without the rate suffix.
func FormatCount(value float64) string {
	switch {
	case value >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", value/1_000_000_000)
	case value >= 1_000_000:
		return fmt.Sprintf("%.2fM", value/1_000_000)
	case value >= 1_000:
		return fmt.Sprintf("%.1fk", value/1_000)
	default:
		return fmt.Sprintf("%.0f", value)
	}
}

func truncateLabel(s string) string {
	if len(s) > maxLabelLen {
		return s[:maxLabelLen]
	}

	return s
}
