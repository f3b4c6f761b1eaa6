package runstats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobx/statscollector/internal/runstats"
)

func TestByVersionFirstSeenOrder(t *testing.T) {
	t.Parallel()

	samples := sampleSeq(t, []string{"v2", "v1", "v2", "v3"}, []float64{10, 20, 30, 40})
	buckets := runstats.ByVersion(samples)

	require.Len(t, buckets, 3)
	assert.Equal(t, "v2", buckets[0].Version)
	assert.Equal(t, "v1", buckets[1].Version)
	assert.Equal(t, "v3", buckets[2].Version)
}

func TestByVersionMedianPerBucket(t *testing.T) {
	t.Parallel()

	samples := sampleSeq(t, []string{"v1", "v1", "v2"}, []float64{100, 200, 9000})
	buckets := runstats.ByVersion(samples)

	require.Len(t, buckets, 2)
	assert.Equal(t, "v1", buckets[0].Version)
	assert.InDelta(t, 150, buckets[0].MedianRate, 1e-9)
	assert.Equal(t, "v2", buckets[1].Version)
	assert.InDelta(t, 9000, buckets[1].MedianRate, 1e-9)
}

func TestByVersionSkipsEmptyVersions(t *testing.T) {
	t.Parallel()

	samples := sampleSeq(t, []string{"", "v1", ""}, []float64{1, 2, 3})
	buckets := runstats.ByVersion(samples)

	require.Len(t, buckets, 1)
	assert.Equal(t, "v1", buckets[0].Version)
}

func TestByVersionEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, runstats.ByVersion(nil))
}

func TestByVersionAllVersionless(t *testing.T) {
	t.Parallel()

	samples := sampleSeq(t, []string{"", ""}, []float64{1, 2})

	assert.Empty(t, runstats.ByVersion(samples))
}
