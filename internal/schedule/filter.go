package schedule

import (
	"time"

	"github.com/tutorlane/tutor-dash-api/internal/models"
)

// Selector narrows a lesson collection by type, or by "today" regardless of
// type. The empty selector keeps everything.
type Selector string

const (
	SelectorNone      Selector = ""
	SelectorToday     Selector = "Today"
	SelectorHistoric  Selector = Selector(models.LessonHistoric)
	SelectorUpcoming  Selector = Selector(models.LessonUpcoming)
	SelectorAvailable Selector = Selector(models.LessonAvailable)
)

// ParseSelector validates a raw query value. The boolean is false for any
// unknown value.
func ParseSelector(raw string) (Selector, bool) {
	switch Selector(raw) {
	case SelectorNone, SelectorToday, SelectorHistoric, SelectorUpcoming, SelectorAvailable:
		return Selector(raw), true
	}
	return SelectorNone, false
}

// Filter classifies lessons by selector, then intersects with the optional
// inclusive date range. It is pure: input order is preserved, nothing is
// sorted, and repeated application yields the same result.
//
// SelectorToday is the one case that ignores the lesson type entirely: a
// lesson of any type dated today is retained. The concrete type selectors
// match the type field exactly with no date involvement.
func Filter(lessons []models.Lesson, sel Selector, rng *models.DateRange, now time.Time) []models.Lesson {
	var todayStart, todayEnd time.Time
	if sel == SelectorToday {
		todayStart, todayEnd = TodayRange(now)
	}

	out := make([]models.Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		switch sel {
		case SelectorNone:
		case SelectorToday:
			if !InRange(lesson.Date, todayStart, todayEnd) {
				continue
			}
		default:
			if lesson.Type != models.LessonType(sel) {
				continue
			}
		}
		if rng != nil && !InRange(lesson.Date, rng.Start, rng.End) {
			continue
		}
		out = append(out, lesson)
	}
	return out
}
