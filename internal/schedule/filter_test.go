package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorlane/tutor-dash-api/internal/models"
)

func lessonAt(id string, date time.Time, typ models.LessonType) models.Lesson {
	return models.Lesson{
		ID:     id,
		Date:   date,
		Type:   typ,
		Status: typ.CanonicalStatus(),
	}
}

func TestFilterTodayIgnoresType(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.Local)
	start, end := TodayRange(now)

	lessons := []models.Lesson{
		lessonAt("historic-today", start, models.LessonHistoric),
		lessonAt("available-today", end, models.LessonAvailable),
		lessonAt("upcoming-tomorrow", end.Add(time.Nanosecond), models.LessonUpcoming),
		lessonAt("historic-yesterday", start.Add(-time.Nanosecond), models.LessonHistoric),
	}

	got := Filter(lessons, SelectorToday, nil, now)

	require.Len(t, got, 2)
	assert.Equal(t, "historic-today", got[0].ID)
	assert.Equal(t, "available-today", got[1].ID)
}

func TestFilterByTypeMatchesExactlyAndPreservesOrder(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.Local)
	lessons := []models.Lesson{
		lessonAt("a", now.AddDate(0, 0, 5), models.LessonAvailable),
		lessonAt("u", now.AddDate(0, 0, 1), models.LessonUpcoming),
		lessonAt("b", now.AddDate(0, -2, 0), models.LessonAvailable),
		lessonAt("h", now.AddDate(0, -1, 0), models.LessonHistoric),
	}

	got := Filter(lessons, SelectorAvailable, nil, now)

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	// Idempotent under repeated application.
	again := Filter(got, SelectorAvailable, nil, now)
	assert.Equal(t, got, again)
}

func TestFilterIntersectsDateRange(t *testing.T) {
	now := time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)
	rng := &models.DateRange{
		Start: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 11, 30, 23, 59, 59, 999999999, time.UTC),
	}

	lessons := []models.Lesson{
		lessonAt("in", time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), models.LessonUpcoming),
		lessonAt("out", time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), models.LessonUpcoming),
		lessonAt("edge", rng.End, models.LessonUpcoming),
	}

	got := Filter(lessons, SelectorUpcoming, rng, now)

	require.Len(t, got, 2)
	assert.Equal(t, "in", got[0].ID)
	assert.Equal(t, "edge", got[1].ID)
}

func TestFilterNoSelectorKeepsEverything(t *testing.T) {
	now := time.Now()
	lessons := []models.Lesson{
		lessonAt("1", now, models.LessonAvailable),
		lessonAt("2", now, models.LessonHistoric),
	}

	got := Filter(lessons, SelectorNone, nil, now)
	assert.Equal(t, lessons, got)
}

func TestParseSelector(t *testing.T) {
	for _, valid := range []string{"", "Today", "Historic", "Upcoming", "Available"} {
		_, ok := ParseSelector(valid)
		assert.True(t, ok, valid)
	}

	_, ok := ParseSelector("today")
	assert.False(t, ok)
	_, ok = ParseSelector("Cancelled")
	assert.False(t, ok)
}
