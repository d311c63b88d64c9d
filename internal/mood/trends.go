package mood

import (
	"sort"
	"time"
)

const topActivityLimit = 10

// Window is the inclusive range [From, To] over OccurredAt.
type Window struct {
	From time.Time
	To   time.Time
}

// maxWindowDays is longer than the span back to year 1. Larger windows
// start at the zero time.
const maxWindowDays = 1_000_000

var earliest = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewWindow returns the trailing window of days ending at now.
func NewWindow(now time.Time, days int) (Window, error) {
	if days <= 0 {
		return Window{}, ErrInvalidWindow
	}
	now = now.UTC()
	from := earliest
	if days <= maxWindowDays {
		if d := now.AddDate(0, 0, -days); d.After(earliest) {
			from = d
		}
	}
	return Window{From: from, To: now}, nil
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && !t.After(w.To)
}

type CategoryTrend struct {
	Category     Category `json:"category"`
	Count        int      `json:"count"`
	AvgIntensity float64  `json:"avg_intensity"`
}

type DailyAverage struct {
	Date         string  `json:"date"`
	AvgIntensity float64 `json:"avg_intensity"`
	Count        int     `json:"count"`
}

type ActivityCount struct {
	Activity string `json:"activity"`
	Count    int    `json:"count"`
}

// Trends are the statistics of one owner's records inside a window.
type Trends struct {
	ByCategory       []CategoryTrend `json:"by_category"`
	DailyAverages    []DailyAverage  `json:"daily_averages"`
	TopActivities    []ActivityCount `json:"top_activities"`
	TotalCount       int             `json:"total_count"`
	AverageIntensity float64         `json:"average_intensity"`
}

// Aggregate computes trends over the records that fall inside w. Days are
// bucketed in loc (UTC when nil). The input is not modified and its order
// does not matter.
func Aggregate(records []Record, w Window, loc *time.Location) Trends {
	if loc == nil {
		loc = time.UTC
	}

	inWindow := make([]Record, 0, len(records))
	for _, r := range records {
		if w.Contains(r.OccurredAt) {
			inWindow = append(inWindow, r)
		}
	}
	sort.SliceStable(inWindow, func(i, j int) bool {
		a, b := inWindow[i], inWindow[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.Before(b.OccurredAt)
		}
		return a.ID.String() < b.ID.String()
	})

	type acc struct {
		count int
		sum   int
	}
	byCat := make(map[Category]*acc)
	byDay := make(map[string]*acc)
	actCount := make(map[string]int)
	actOrder := make([]string, 0)
	total := 0

	for _, r := range inWindow {
		total += r.Intensity

		c, ok := byCat[r.Category]
		if !ok {
			c = &acc{}
			byCat[r.Category] = c
		}
		c.count++
		c.sum += r.Intensity

		day := r.OccurredAt.In(loc).Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &acc{}
			byDay[day] = d
		}
		d.count++
		d.sum += r.Intensity

		for _, a := range r.Activities {
			if _, seen := actCount[a]; !seen {
				actOrder = append(actOrder, a)
			}
			actCount[a]++
		}
	}

	out := Trends{
		ByCategory:       make([]CategoryTrend, 0, len(byCat)),
		DailyAverages:    make([]DailyAverage, 0, len(byDay)),
		TopActivities:    make([]ActivityCount, 0, topActivityLimit),
		TotalCount:       len(inWindow),
		AverageIntensity: average(total, len(inWindow)),
	}

	for cat, a := range byCat {
		out.ByCategory = append(out.ByCategory, CategoryTrend{
			Category:     cat,
			Count:        a.count,
			AvgIntensity: average(a.sum, a.count),
		})
	}
	sort.Slice(out.ByCategory, func(i, j int) bool {
		a, b := out.ByCategory[i], out.ByCategory[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})

	for day, a := range byDay {
		out.DailyAverages = append(out.DailyAverages, DailyAverage{
			Date:         day,
			AvgIntensity: average(a.sum, a.count),
			Count:        a.count,
		})
	}
	sort.Slice(out.DailyAverages, func(i, j int) bool {
		return out.DailyAverages[i].Date < out.DailyAverages[j].Date
	})

	// actOrder is first-seen order, so a stable sort keeps it for equal counts.
	acts := make([]ActivityCount, 0, len(actOrder))
	for _, a := range actOrder {
		acts = append(acts, ActivityCount{Activity: a, Count: actCount[a]})
	}
	sort.SliceStable(acts, func(i, j int) bool {
		return acts[i].Count > acts[j].Count
	})
	if len(acts) > topActivityLimit {
		acts = acts[:topActivityLimit]
	}
	out.TopActivities = append(out.TopActivities, acts...)

	return out
}

// average is sum/n, defined as 0 for n == 0.
func average(sum, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}
