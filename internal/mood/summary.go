package mood

import "math"

// Summary is the dashboard rollup of an owner's records. It can be built
// from scratch with Summarize or advanced one record at a time with Append;
// both produce identical values for the same records in the same order.
type Summary struct {
	TotalCount         int64              `json:"total_count"`
	AverageIntensity   float64            `json:"average_intensity"`
	MostCommonCategory Category           `json:"most_common_category"`
	CategoryCounts     map[Category]int64 `json:"category_counts"`
	IntensitySum       int64              `json:"-"`
	// LastSeen is the arrival position of the latest record of each category.
	LastSeen map[Category]int64 `json:"-"`
}

// Summarize computes a summary over records in arrival order, oldest first.
func Summarize(records []Record) Summary {
	s := Summary{
		CategoryCounts: make(map[Category]int64),
		LastSeen:       make(map[Category]int64),
	}
	for i, r := range records {
		s.IntensitySum += int64(r.Intensity)
		s.CategoryCounts[r.Category]++
		s.LastSeen[r.Category] = int64(i)
	}
	s.TotalCount = int64(len(records))
	s.derive()
	return s
}

// Append returns the summary with r added as the most recent record.
// The receiver is left untouched.
func (s Summary) Append(r Record) Summary {
	next := Summary{
		TotalCount:     s.TotalCount + 1,
		IntensitySum:   s.IntensitySum + int64(r.Intensity),
		CategoryCounts: make(map[Category]int64, len(s.CategoryCounts)+1),
		LastSeen:       make(map[Category]int64, len(s.LastSeen)+1),
	}
	for c, n := range s.CategoryCounts {
		next.CategoryCounts[c] = n
	}
	for c, pos := range s.LastSeen {
		next.LastSeen[c] = pos
	}
	next.CategoryCounts[r.Category]++
	next.LastSeen[r.Category] = s.TotalCount
	next.derive()
	return next
}

func (s *Summary) derive() {
	if s.CategoryCounts == nil {
		s.CategoryCounts = make(map[Category]int64)
	}
	if s.LastSeen == nil {
		s.LastSeen = make(map[Category]int64)
	}
	s.AverageIntensity = 0
	if s.TotalCount > 0 {
		s.AverageIntensity = math.Round(float64(s.IntensitySum)/float64(s.TotalCount)*10) / 10
	}
	s.MostCommonCategory = mostCommon(s.CategoryCounts, s.LastSeen)
}

// mostCommon picks the highest count, then the most recently seen, then the
// lexicographically smallest name.
func mostCommon(counts, lastSeen map[Category]int64) Category {
	var (
		best      Category
		bestCount int64
		bestSeen  int64 = -1
	)
	for c, n := range counts {
		if n <= 0 {
			continue
		}
		seen, ok := lastSeen[c]
		if !ok {
			seen = -1
		}
		switch {
		case n > bestCount,
			n == bestCount && seen > bestSeen,
			n == bestCount && seen == bestSeen && c < best:
			best, bestCount, bestSeen = c, n, seen
		}
	}
	return best
}
