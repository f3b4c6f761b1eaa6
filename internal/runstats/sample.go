package runstats

import (
	"sort"
	"time"
)

// UnknownVersion is substituted when a stored row carries no app version.
const UnknownVersion = "unknown"

// SampleRow is the reduced storage row the aggregation path consumes.
// Rows arrive in whatever order the store returned them.
type SampleRow struct {
	ReceivedAt time.Time
	AppVersion string
	TotalRate  float64
	TotalCount int64
	ElapsedSec float64
}

// RunSample is the normalized, time-ordered unit all aggregation works on.
// Samples are immutable once constructed.
type RunSample struct {
	ReceivedAt time.Time
	AppVersion string
	TotalRate  float64
	TotalCount int64
	ElapsedSec float64
}

// ParseSamples normalizes storage rows into a time-ascending sample
// sequence. Empty app versions fall back to UnknownVersion. The sort is
// stable: rows with equal timestamps keep their storage order.
func ParseSamples(rows []SampleRow) []RunSample {
	samples := make([]RunSample, 0, len(rows))

	for _, row := range rows {
		version := row.AppVersion
		if version == "" {
			version = UnknownVersion
		}

		samples = append(samples, RunSample{
			ReceivedAt: row.ReceivedAt,
			AppVersion: version,
			TotalRate:  row.TotalRate,
			TotalCount: row.TotalCount,
			ElapsedSec: row.ElapsedSec,
		})
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].ReceivedAt.Before(samples[j].ReceivedAt)
	})

	return samples
}
