package runstats

import "github.com/montanaflynn/stats"

// VersionRate is one per-version bucket: the median total rate of every
// sample reporting that exact app version.
type VersionRate struct {
	Version    string
	MedianRate float64
}

// ByVersion groups a time-ascending sample sequence by app version and
// reduces each group to its median total rate. Samples with an empty
// version never form a bucket. Output order is first-seen order across the
// input, so the version that appears earliest chronologically comes first.
func ByVersion(samples []RunSample) []VersionRate {
	buckets := make(map[string][]float64)
	order := make([]string, 0)

	for _, s := range samples {
		if s.AppVersion == "" {
			continue
		}

		if _, seen := buckets[s.AppVersion]; !seen {
			order = append(order, s.AppVersion)
		}

		buckets[s.AppVersion] = append(buckets[s.AppVersion], s.TotalRate)
	}

	out := make([]VersionRate, 0, len(order))

	for _, version := range order {
		rates := buckets[version]
		if len(rates) == 0 {
			continue
		}

		median, _ := stats.Median(rates)
		out = append(out, VersionRate{Version: version, MedianRate: median})
	}

	return out
}
