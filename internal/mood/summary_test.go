package mood

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryFixture() []Record {
	base := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	cats := []Category{Happy, Sad, Calm, Happy, Anxious, Sad, Sad, Grateful, Happy, Calm, Lonely}
	out := make([]Record, len(cats))
	for i, c := range cats {
		out[i] = rec(c, (i*7)%10+1, base.Add(time.Duration(i)*time.Hour))
	}
	return out
}

func TestSummary_AppendMatchesSummarize(t *testing.T) {
	records := summaryFixture()

	acc := Summarize(nil)
	assert.Equal(t, Summarize(nil), acc)
	for i, r := range records {
		acc = acc.Append(r)
		assert.Equal(t, Summarize(records[:i+1]), acc, "after %d records", i+1)
	}
}

func TestSummary_Empty(t *testing.T) {
	s := Summarize(nil)
	assert.Equal(t, int64(0), s.TotalCount)
	assert.Equal(t, 0.0, s.AverageIntensity)
	assert.Equal(t, Category(""), s.MostCommonCategory)
	assert.NotNil(t, s.CategoryCounts)
	assert.Empty(t, s.CategoryCounts)
}

func TestSummary_Scenario(t *testing.T) {
	records := []Record{
		rec(Happy, 8, trendNow.Add(-3*time.Hour)),
		rec(Happy, 4, trendNow.Add(-2*time.Hour)),
		rec(Sad, 2, trendNow.Add(-1*time.Hour)),
	}
	s := Summarize(records)

	assert.Equal(t, int64(3), s.TotalCount)
	assert.Equal(t, 4.7, s.AverageIntensity)
	assert.Equal(t, Happy, s.MostCommonCategory)
	assert.Equal(t, map[Category]int64{Happy: 2, Sad: 1}, s.CategoryCounts)
}

func TestSummary_TieBreaksOnRecency(t *testing.T) {
	// Sad and Calm tie on count; Calm arrived last.
	s := Summarize([]Record{
		rec(Sad, 5, trendNow),
		rec(Calm, 5, trendNow),
		rec(Sad, 5, trendNow),
		rec(Calm, 5, trendNow),
	})
	assert.Equal(t, Calm, s.MostCommonCategory)

	s = s.Append(rec(Sad, 5, trendNow))
	assert.Equal(t, Sad, s.MostCommonCategory)
}

func TestSummary_TieBreaksLexicographicallyWithoutHistory(t *testing.T) {
	s := Summary{
		TotalCount:     2,
		IntensitySum:   10,
		CategoryCounts: map[Category]int64{Lonely: 1, Excited: 1},
	}
	s.derive()
	assert.Equal(t, Excited, s.MostCommonCategory)
}

func TestSummary_AverageRoundsToOneDecimal(t *testing.T) {
	s := Summarize([]Record{
		rec(Calm, 1, trendNow),
		rec(Calm, 2, trendNow),
		rec(Calm, 2, trendNow),
	})
	assert.Equal(t, 1.7, s.AverageIntensity)
}

func TestSummary_AppendLeavesReceiverUntouched(t *testing.T) {
	before := Summarize([]Record{rec(Happy, 6, trendNow)})
	snapshot := Summarize([]Record{rec(Happy, 6, trendNow)})

	after := before.Append(rec(Sad, 2, trendNow))
	require.Equal(t, int64(2), after.TotalCount)
	assert.Equal(t, snapshot, before)
	assert.NotContains(t, before.CategoryCounts, Sad)
}
