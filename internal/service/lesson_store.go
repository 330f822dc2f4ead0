package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/tutorlane/tutor-dash-api/internal/models"
	"github.com/tutorlane/tutor-dash-api/internal/schedule"
	appErrors "github.com/tutorlane/tutor-dash-api/pkg/errors"
)

// LessonSource abstracts the external lesson fetch/claim service.
type LessonSource interface {
	Fetch(ctx context.Context) ([]models.Lesson, error)
	Claim(ctx context.Context, lessonID string) (*models.LessonPatch, error)
}

// LoadingState is the store's single fetch axis.
type LoadingState string

const (
	LoadingIdle     LoadingState = "idle"
	LoadingFetching LoadingState = "fetching"
)

var errFetchInFlight = appErrors.New("FETCH_IN_FLIGHT", http.StatusConflict, "lesson fetch already in progress")

// LessonBuckets are the four display groupings derived from the collection
// and the active filter selection.
type LessonBuckets struct {
	Today     []models.Lesson `json:"today"`
	Available []models.Lesson `json:"available"`
	Upcoming  []models.Lesson `json:"upcoming"`
	Historic  []models.Lesson `json:"historic"`
}

// StoreSnapshot is a read-only copy of the store state.
type StoreSnapshot struct {
	Lessons   []models.Lesson
	Loading   LoadingState
	LastError string
	FetchedAt time.Time
}

// LessonStoreParams groups constructor dependencies.
type LessonStoreParams struct {
	Source LessonSource
	Cache  *CacheService
	Logger *zap.Logger
}

// LessonStore is the single owner of the mutable lesson collection. All
// reads hand out snapshots; all writes go through replace (fetch) or
// patch-one (claim). Insertion order of the upstream response is preserved
// and never re-sorted.
type LessonStore struct {
	source   LessonSource
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	validate *validator.Validate

	mu        sync.RWMutex
	lessons   []models.Lesson
	index     map[string]int
	loading   LoadingState
	lastError string
	fetchedAt time.Time
	selection models.FilterSelection
	claiming  map[string]struct{}
}

// NewLessonStore constructs an empty, idle store.
func NewLessonStore(params LessonStoreParams) *LessonStore {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonStore{
		source:    params.Source,
		cache:     params.Cache,
		logger:    logger,
		now:       time.Now,
		validate:  validator.New(),
		index:     make(map[string]int),
		loading:   LoadingIdle,
		selection: models.NoFilter(),
		claiming:  make(map[string]struct{}),
	}
}

// FetchAll replaces the whole collection from the lesson service. The store
// transitions idle -> fetching -> idle; a failure is recorded in the error
// slot and also returned. There is no retry; callers re-invoke.
func (s *LessonStore) FetchAll(ctx context.Context) error {
	s.mu.Lock()
	if s.loading == LoadingFetching {
		s.mu.Unlock()
		return errFetchInFlight
	}
	s.loading = LoadingFetching
	s.lastError = ""
	s.mu.Unlock()

	lessons, err := s.source.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = LoadingIdle
	if err != nil {
		s.lastError = err.Error()
		s.logger.Warn("lesson fetch failed", zap.Error(err))
		return err
	}

	s.replaceLocked(lessons)
	s.fetchedAt = s.now()
	s.invalidateBuckets(ctx)
	s.logger.Info("lesson collection replaced", zap.Int("count", len(s.lessons)))
	return nil
}

// replaceLocked normalises and installs a fresh collection. Duplicate ids
// keep their first occurrence so source order stays intact; a status that
// contradicts the lesson type is normalised to the type's canonical status
// rather than rejected.
func (s *LessonStore) replaceLocked(lessons []models.Lesson) {
	s.lessons = make([]models.Lesson, 0, len(lessons))
	s.index = make(map[string]int, len(lessons))
	for _, lesson := range lessons {
		if err := s.validate.Struct(lesson); err != nil {
			s.logger.Warn("dropping malformed lesson from fetch response",
				zap.String("lesson_id", lesson.ID), zap.Error(err))
			continue
		}
		if _, dup := s.index[lesson.ID]; dup {
			s.logger.Warn("duplicate lesson id in fetch response, keeping first", zap.String("lesson_id", lesson.ID))
			continue
		}
		if lesson.Type.Valid() && lesson.Status != lesson.Type.CanonicalStatus() {
			s.logger.Warn("lesson status inconsistent with type, normalising",
				zap.String("lesson_id", lesson.ID),
				zap.String("type", string(lesson.Type)),
				zap.String("status", string(lesson.Status)))
			lesson.Status = lesson.Type.CanonicalStatus()
		}
		s.index[lesson.ID] = len(s.lessons)
		s.lessons = append(s.lessons, lesson)
	}
}

// Claim assigns an Available lesson to the calling tutor. The client-side
// guard fails fast without contacting the service when the lesson is missing
// or not Available; a per-id in-flight set closes the double-claim race. On
// success the service response is merged over the local copy; on failure the
// error propagates unchanged and the collection is untouched.
func (s *LessonStore) Claim(ctx context.Context, lessonID, tutorName string) (models.Lesson, error) {
	s.mu.Lock()
	if _, inFlight := s.claiming[lessonID]; inFlight {
		s.mu.Unlock()
		return models.Lesson{}, appErrors.ErrClaimInFlight
	}
	pos, ok := s.index[lessonID]
	if !ok || s.lessons[pos].Type != models.LessonAvailable {
		s.mu.Unlock()
		return models.Lesson{}, appErrors.ErrNotFoundOrUnavailable
	}
	preClaim := cloneLesson(s.lessons[pos])
	s.claiming[lessonID] = struct{}{}
	s.mu.Unlock()

	patch, err := s.source.Claim(ctx, lessonID)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claiming, lessonID)
	if err != nil {
		return models.Lesson{}, err
	}

	merged := mergeClaim(preClaim, patch, tutorName)
	if pos, ok := s.index[lessonID]; ok {
		s.lessons[pos] = merged
	} else {
		// A concurrent fetch replaced the collection without this lesson;
		// the upstream state already reflects the claim, nothing to patch.
		s.logger.Warn("claimed lesson no longer in collection", zap.String("lesson_id", lessonID))
	}
	s.invalidateBuckets(ctx)
	return merged, nil
}

// mergeClaim applies the claim service's possibly-partial response over the
// pre-claim lesson. Fields present in the response win; omitted fields fall
// back to the claimed defaults: type Upcoming, status Confirmed, tutor the
// authenticated caller, students the pre-claim roster.
func mergeClaim(pre models.Lesson, patch *models.LessonPatch, tutorName string) models.Lesson {
	merged := pre
	if patch == nil {
		patch = &models.LessonPatch{}
	}

	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if patch.Subject != nil {
		merged.Subject = *patch.Subject
	}
	if patch.Type != nil {
		merged.Type = *patch.Type
	} else {
		merged.Type = models.LessonUpcoming
	}
	if patch.Status != nil {
		merged.Status = *patch.Status
	} else {
		merged.Status = models.StatusConfirmed
	}
	if patch.Tutor != nil {
		merged.Tutor = patch.Tutor
	} else {
		merged.Tutor = &tutorName
	}
	if len(patch.Students) > 0 {
		merged.Students = patch.Students
	}
	return merged
}

// Derive filters a snapshot of the collection. Synchronous and side-effect
// free; the stored filter selection is not consulted.
func (s *LessonStore) Derive(sel schedule.Selector, rng *models.DateRange) []models.Lesson {
	s.mu.RLock()
	snapshot := append([]models.Lesson(nil), s.lessons...)
	s.mu.RUnlock()
	return schedule.Filter(snapshot, sel, rng, s.now())
}

// Buckets derives the four display groupings honoring the active filter
// selection. The derived payload is cached per selection until the next
// mutation; the second return reports a cache hit.
func (s *LessonStore) Buckets(ctx context.Context) (*LessonBuckets, bool, error) {
	s.mu.RLock()
	snapshot := append([]models.Lesson(nil), s.lessons...)
	selection := s.selection
	s.mu.RUnlock()

	cacheKey := bucketsCacheKey(selection)
	if s.cache != nil {
		var cached LessonBuckets
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	now := s.now()
	rng, err := selectionRange(selection, now)
	if err != nil {
		return nil, false, err
	}

	buckets := &LessonBuckets{
		Today:     schedule.Filter(snapshot, schedule.SelectorToday, rng, now),
		Available: schedule.Filter(snapshot, schedule.SelectorAvailable, rng, now),
		Upcoming:  schedule.Filter(snapshot, schedule.SelectorUpcoming, rng, now),
		Historic:  schedule.Filter(snapshot, schedule.SelectorHistoric, rng, now),
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, buckets, 0); err != nil {
			s.logger.Warn("bucket cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return buckets, false, nil
}

// selectionRange resolves the active selection to a concrete date range. The
// month window is recomputed from the wall clock on every read.
func selectionRange(selection models.FilterSelection, now time.Time) (*models.DateRange, error) {
	switch selection.Kind {
	case models.FilterMonth:
		rng, err := schedule.ResolveWindowSlot(selection.MonthIndex, now)
		if err != nil {
			return nil, err
		}
		return &rng, nil
	case models.FilterRange:
		return selection.Range, nil
	default:
		return nil, nil
	}
}

// SelectMonth activates a month-window slot, clearing any explicit range.
func (s *LessonStore) SelectMonth(ctx context.Context, index int) error {
	if _, err := schedule.ResolveWindowSlot(index, s.now()); err != nil {
		return err
	}
	s.mu.Lock()
	s.selection = models.MonthFilter(index)
	s.invalidateBuckets(ctx)
	s.mu.Unlock()
	return nil
}

// SelectRange activates an explicit date range, clearing any month slot.
func (s *LessonStore) SelectRange(ctx context.Context, start, end time.Time) error {
	if start.IsZero() || end.IsZero() || start.After(end) {
		return appErrors.Clone(appErrors.ErrValidation, "invalid date range")
	}
	s.mu.Lock()
	s.selection = models.RangeFilter(start, end)
	s.invalidateBuckets(ctx)
	s.mu.Unlock()
	return nil
}

// ClearFilter resets the selection to none.
func (s *LessonStore) ClearFilter(ctx context.Context) {
	s.mu.Lock()
	s.selection = models.NoFilter()
	s.invalidateBuckets(ctx)
	s.mu.Unlock()
}

// Selection returns the active filter selection.
func (s *LessonStore) Selection() models.FilterSelection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// MonthSlots expands the 12-slot month window with availability flags for
// the picker.
func (s *LessonStore) MonthSlots() []schedule.Slot {
	s.mu.RLock()
	snapshot := append([]models.Lesson(nil), s.lessons...)
	s.mu.RUnlock()
	return schedule.Slots(snapshot, s.now())
}

// Snapshot returns an ordered copy of the collection plus load state.
func (s *LessonStore) Snapshot() StoreSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreSnapshot{
		Lessons:   append([]models.Lesson(nil), s.lessons...),
		Loading:   s.loading,
		LastError: s.lastError,
		FetchedAt: s.fetchedAt,
	}
}

func (s *LessonStore) invalidateBuckets(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "dash:buckets:*"); err != nil {
		s.logger.Warn("bucket cache invalidation failed", zap.Error(err))
	}
}

func bucketsCacheKey(selection models.FilterSelection) string {
	switch selection.Kind {
	case models.FilterMonth:
		return fmt.Sprintf("dash:buckets:month:%d", selection.MonthIndex)
	case models.FilterRange:
		return fmt.Sprintf("dash:buckets:range:%d:%d", selection.Range.Start.UnixNano(), selection.Range.End.UnixNano())
	default:
		return "dash:buckets:none"
	}
}

func cloneLesson(lesson models.Lesson) models.Lesson {
	clone := lesson
	clone.Students = append([]string(nil), lesson.Students...)
	if lesson.Tutor != nil {
		tutor := *lesson.Tutor
		clone.Tutor = &tutor
	}
	return clone
}
