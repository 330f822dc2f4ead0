package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorlane/tutor-dash-api/internal/models"
	"github.com/tutorlane/tutor-dash-api/internal/schedule"
	appErrors "github.com/tutorlane/tutor-dash-api/pkg/errors"
)

type fakeLessonSource struct {
	lessons     []models.Lesson
	fetchErr    error
	patch       *models.LessonPatch
	claimErr    error
	fetchCalls  int
	claimCalls  int
	lastClaimID string
}

func (f *fakeLessonSource) Fetch(context.Context) ([]models.Lesson, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.lessons, nil
}

func (f *fakeLessonSource) Claim(_ context.Context, lessonID string) (*models.LessonPatch, error) {
	f.claimCalls++
	f.lastClaimID = lessonID
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return f.patch, nil
}

type stubCacheRepo struct {
	data map[string][]byte
}

func newStubCacheRepo() *stubCacheRepo {
	return &stubCacheRepo{data: map[string][]byte{}}
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := s.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = raw
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			delete(s.data, key)
		}
	}
	return nil
}

var testNow = time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC)

func storeLesson(id string, date time.Time, typ models.LessonType) models.Lesson {
	return models.Lesson{
		ID:       id,
		Date:     date,
		Type:     typ,
		Subject:  "Mathematics",
		Students: []string{"Ada L."},
		Status:   typ.CanonicalStatus(),
	}
}

func newTestStore(t *testing.T, source *fakeLessonSource) *LessonStore {
	t.Helper()
	store := NewLessonStore(LessonStoreParams{
		Source: source,
		Cache:  NewCacheService(nil, nil, time.Minute, zap.NewNop(), false),
		Logger: zap.NewNop(),
	})
	store.now = func() time.Time { return testNow }
	return store
}

func TestFetchAllReplacesCollectionInSourceOrder(t *testing.T) {
	source := &fakeLessonSource{lessons: []models.Lesson{
		storeLesson("l2", testNow.AddDate(0, 1, 0), models.LessonUpcoming),
		storeLesson("l1", testNow.AddDate(0, -1, 0), models.LessonHistoric),
		storeLesson("l3", testNow.AddDate(0, 0, 2), models.LessonAvailable),
	}}
	store := newTestStore(t, source)

	require.NoError(t, store.FetchAll(context.Background()))

	snap := store.Snapshot()
	require.Len(t, snap.Lessons, 3)
	assert.Equal(t, "l2", snap.Lessons[0].ID)
	assert.Equal(t, "l1", snap.Lessons[1].ID)
	assert.Equal(t, "l3", snap.Lessons[2].ID)
	assert.Equal(t, LoadingIdle, snap.Loading)
	assert.Empty(t, snap.LastError)
	assert.Equal(t, testNow, snap.FetchedAt)
}

func TestFetchAllNormalisesInconsistentStatus(t *testing.T) {
	inconsistent := storeLesson("l1", testNow.AddDate(0, 0, 3), models.LessonUpcoming)
	inconsistent.Status = models.StatusAvailable
	source := &fakeLessonSource{lessons: []models.Lesson{inconsistent}}
	store := newTestStore(t, source)

	require.NoError(t, store.FetchAll(context.Background()))

	snap := store.Snapshot()
	require.Len(t, snap.Lessons, 1)
	assert.Equal(t, models.StatusConfirmed, snap.Lessons[0].Status)
}

func TestFetchAllDropsDuplicatesAndMalformedRecords(t *testing.T) {
	first := storeLesson("dup", testNow, models.LessonAvailable)
	first.Subject = "Physics"
	second := storeLesson("dup", testNow.AddDate(0, 0, 1), models.LessonUpcoming)
	source := &fakeLessonSource{lessons: []models.Lesson{
		first,
		second,
		{ID: "", Date: testNow, Type: models.LessonUpcoming}, // missing id
	}}
	store := newTestStore(t, source)

	require.NoError(t, store.FetchAll(context.Background()))

	snap := store.Snapshot()
	require.Len(t, snap.Lessons, 1)
	assert.Equal(t, "Physics", snap.Lessons[0].Subject)
}

func TestFetchAllFailureRecordsErrorAndKeepsCollection(t *testing.T) {
	source := &fakeLessonSource{lessons: []models.Lesson{
		storeLesson("l1", testNow, models.LessonAvailable),
	}}
	store := newTestStore(t, source)
	require.NoError(t, store.FetchAll(context.Background()))

	source.fetchErr = appErrors.ErrUpstreamTimeout
	err := store.FetchAll(context.Background())
	require.Error(t, err)

	snap := store.Snapshot()
	assert.Equal(t, LoadingIdle, snap.Loading)
	assert.Contains(t, snap.LastError, "timed out")
	require.Len(t, snap.Lessons, 1)

	// A later successful fetch clears the error slot.
	source.fetchErr = nil
	require.NoError(t, store.FetchAll(context.Background()))
	assert.Empty(t, store.Snapshot().LastError)
}

func TestClaimGuardFailsWithoutUpstreamCall(t *testing.T) {
	source := &fakeLessonSource{lessons: []models.Lesson{
		storeLesson("booked", testNow.AddDate(0, 0, 1), models.LessonUpcoming),
	}}
	store := newTestStore(t, source)
	require.NoError(t, store.FetchAll(context.Background()))

	_, err := store.Claim(context.Background(), "missing", "Sam Rivera")
	assert.Equal(t, appErrors.ErrNotFoundOrUnavailable, err)

	_, err = store.Claim(context.Background(), "booked", "Sam Rivera")
	assert.Equal(t, appErrors.ErrNotFoundOrUnavailable, err)

	assert.Zero(t, source.claimCalls)
}

func TestClaimMergeAppliesDefaultsForOmittedFields(t *testing.T) {
	lesson := storeLesson("l1", testNow.AddDate(0, 0, 2), models.LessonAvailable)
	lesson.Students = []string{"Grace H.", "Alan T."}
	lesson.Tutor = nil
	source := &fakeLessonSource{
		lessons: []models.Lesson{lesson},
		patch:   &models.LessonPatch{},
	}
	store := newTestStore(t, source)
	require.NoError(t, store.FetchAll(context.Background()))

	merged, err := store.Claim(context.Background(), "l1", "Sam Rivera")
	require.NoError(t, err)

	assert.Equal(t, models.LessonUpcoming, merged.Type)
	assert.Equal(t, models.StatusConfirmed, merged.Status)
	require.NotNil(t, merged.Tutor)
	assert.Equal(t, "Sam Rivera", *merged.Tutor)
	assert.Equal(t, []string{"Grace H.", "Alan T."}, merged.Students)
	assert.Equal(t, "l1", source.lastClaimID)
}

func TestClaimMergePrefersResponseFields(t *testing.T) {
	lesson := storeLesson("l1", testNow.AddDate(0, 0, 2), models.LessonAvailable)
	source := &fakeLessonSource{lessons: []models.Lesson{lesson}}

	tutor := "Priya N."
	status := models.StatusConfirmed
	typ := models.LessonUpcoming
	subject := "Chemistry"
	source.patch = &models.LessonPatch{
		Type:     &typ,
		Status:   &status,
		Tutor:    &tutor,
		Subject:  &subject,
		Students: []string{"Edsger D."},
	}

	store := newTestStore(t, source)
	require.NoError(t, store.FetchAll(context.Background()))

	merged, err := store.Claim(context.Background(), "l1", "Sam Rivera")
	require.NoError(t, err)

	assert.Equal(t, "Chemistry", merged.Subject)
	assert.Equal(t, "Priya N.", *merged.Tutor)
	assert.Equal(t, []string{"Edsger D."}, merged.Students)

	snap := store.Snapshot()
	assert.Equal(t, merged, snap.Lessons[0])
}

func TestClaimFailurePropagatesAndLeavesCollectionUntouched(t *testing.T) {
	lesson := storeLesson("l1", testNow.AddDate(0, 0, 2), models.LessonAvailable)
	source := &fakeLessonSource{
		lessons:  []models.Lesson{lesson},
		claimErr: appErrors.ErrUpstreamFailure,
	}
	store := newTestStore(t, source)
	require.NoError(t, store.FetchAll(context.Background()))

	_, err := store.Claim(context.Background(), "l1", "Sam Rivera")
	assert.Equal(t, appErrors.ErrUpstreamFailure, err)

	snap := store.Snapshot()
	assert.Equal(t, models.LessonAvailable, snap.Lessons[0].Type)
	assert.Nil(t, snap.Lessons[0].Tutor)

	// The in-flight guard is released on failure: a retry reaches upstream.
	source.claimErr = nil
	source.patch = &models.LessonPatch{}
	_, err = store.Claim(context.Background(), "l1", "Sam Rivera")
	require.NoError(t, err)
	assert.Equal(t, 2, source.claimCalls)
}

func TestClaimScenarioTodayLessonBecomesConfirmed(t *testing.T) {
	today := time.Date(testNow.Year(), testNow.Month(), testNow.Day(), 10, 0, 0, 0, time.UTC)
	lesson := storeLesson("L1", today, models.LessonAvailable)
	lesson.Tutor = nil
	source := &fakeLessonSource{
		lessons: []models.Lesson{lesson},
		patch:   &models.LessonPatch{Type: typePtr(models.LessonUpcoming)},
	}
	store := newTestStore(t, source)
	require.NoError(t, store.FetchAll(context.Background()))

	require.Len(t, store.Derive(schedule.SelectorToday, nil), 1)

	_, err := store.Claim(context.Background(), "L1", "Sam Rivera")
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Equal(t, models.StatusConfirmed, snap.Lessons[0].Status)
	assert.Equal(t, "Sam Rivera", *snap.Lessons[0].Tutor)
	assert.Empty(t, store.Derive(schedule.SelectorAvailable, nil))
	assert.Len(t, store.Derive(schedule.SelectorToday, nil), 1)
}

func TestBucketsHonorMonthSelection(t *testing.T) {
	inNextMonth := storeLesson("next", testNow.AddDate(0, 0, 40), models.LessonUpcoming)
	inCurrent := storeLesson("now", testNow.AddDate(0, 0, 1), models.LessonUpcoming)
	source := &fakeLessonSource{lessons: []models.Lesson{inNextMonth, inCurrent}}
	store := newTestStore(t, source)
	require.NoError(t, store.FetchAll(context.Background()))

	ctx := context.Background()
	require.NoError(t, store.SelectMonth(ctx, 5))
	buckets, _, err := store.Buckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets.Upcoming, 1)
	assert.Equal(t, "now", buckets.Upcoming[0].ID)

	require.NoError(t, store.SelectMonth(ctx, 6))
	buckets, _, err = store.Buckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets.Upcoming, 1)
	assert.Equal(t, "next", buckets.Upcoming[0].ID)
}

func TestFilterSelectionIsMutuallyExclusive(t *testing.T) {
	store := newTestStore(t, &fakeLessonSource{})
	ctx := context.Background()

	require.NoError(t, store.SelectMonth(ctx, 3))
	assert.Equal(t, models.FilterMonth, store.Selection().Kind)

	require.NoError(t, store.SelectRange(ctx, testNow, testNow.AddDate(0, 0, 7)))
	sel := store.Selection()
	assert.Equal(t, models.FilterRange, sel.Kind)
	assert.Zero(t, sel.MonthIndex)

	store.ClearFilter(ctx)
	assert.Equal(t, models.FilterNone, store.Selection().Kind)
}

func TestSelectionValidation(t *testing.T) {
	store := newTestStore(t, &fakeLessonSource{})
	ctx := context.Background()

	assert.Error(t, store.SelectMonth(ctx, 12))
	assert.Error(t, store.SelectMonth(ctx, -1))
	assert.Error(t, store.SelectRange(ctx, testNow, testNow.AddDate(0, 0, -1)))
	assert.Error(t, store.SelectRange(ctx, time.Time{}, testNow))
}

func TestBucketsUseCacheUntilInvalidated(t *testing.T) {
	lesson := storeLesson("l1", testNow.AddDate(0, 0, 1), models.LessonAvailable)
	source := &fakeLessonSource{
		lessons: []models.Lesson{lesson},
		patch:   &models.LessonPatch{},
	}
	store := NewLessonStore(LessonStoreParams{
		Source: source,
		Cache:  NewCacheService(newStubCacheRepo(), nil, time.Minute, zap.NewNop(), true),
		Logger: zap.NewNop(),
	})
	store.now = func() time.Time { return testNow }

	ctx := context.Background()
	require.NoError(t, store.FetchAll(ctx))

	_, hit, err := store.Buckets(ctx)
	require.NoError(t, err)
	assert.False(t, hit)

	_, hit, err = store.Buckets(ctx)
	require.NoError(t, err)
	assert.True(t, hit)

	// A claim invalidates the cached buckets.
	_, err = store.Claim(ctx, "l1", "Sam Rivera")
	require.NoError(t, err)

	buckets, hit, err := store.Buckets(ctx)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Empty(t, buckets.Available)
	assert.Len(t, buckets.Upcoming, 1)
}

func TestMonthSlotsExposeFullWindow(t *testing.T) {
	source := &fakeLessonSource{lessons: []models.Lesson{
		storeLesson("l1", testNow.AddDate(0, 1, 0), models.LessonUpcoming),
	}}
	store := newTestStore(t, source)
	require.NoError(t, store.FetchAll(context.Background()))

	slots := store.MonthSlots()
	require.Len(t, slots, schedule.WindowSlots)
	assert.True(t, slots[5].Current)
	assert.True(t, slots[6].HasData)
	assert.False(t, slots[4].HasData)
}

func typePtr(t models.LessonType) *models.LessonType {
	return &t
}
