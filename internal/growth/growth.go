// Package growth implements advisory load-factor tracking: it never
// drives a split by itself, only estimates how full the map is getting
// so a caller can decide when to call Map.Split.
package growth

// AverageItemsPerPage is a rough estimate of how many items fit in one
// 256-byte page, used only to turn a record count into a load-factor
// estimate. Since items are variable-size, this is a heuristic, not an
// exact count.
const AverageItemsPerPage = 6

// Tracker watches record and bucket counts and reports whether the
// caller-configured load-factor threshold has been crossed. It never
// triggers a split itself.
type Tracker struct {
	threshold float64
}

// NewTracker returns a Tracker using threshold as the load-factor trigger
// point. A threshold of 0 disables ShouldSplit entirely (it always
// returns false), matching the "off by default" behavior of a nil
// *Options.
func NewTracker(threshold float64) *Tracker {
	return &Tracker{threshold: threshold}
}

// LoadFactor estimates current fill given the number of live records and
// the number of buckets currently addressable.
func (t *Tracker) LoadFactor(records, buckets int64) float64 {
	if buckets <= 0 {
		return 0
	}
	return float64(records) / float64(buckets*AverageItemsPerPage)
}

// ShouldSplit reports whether the estimated load factor has crossed the
// configured threshold. It is purely advisory: callers decide whether to
// act on it by calling Map.Split themselves.
func (t *Tracker) ShouldSplit(records, buckets int64) bool {
	if t.threshold <= 0 {
		return false
	}
	return t.LoadFactor(records, buckets) >= t.threshold
}
