package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/repository"
)

type fakeAvailabilityRepo struct {
	windows      map[uuid.UUID][]*model.AvailabilityWindow
	replaceCalls int
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{windows: make(map[uuid.UUID][]*model.AvailabilityWindow)}
}

func (f *fakeAvailabilityRepo) ReplaceForDoctor(_ context.Context, doctorID uuid.UUID, windows []*model.AvailabilityWindow) error {
	f.replaceCalls++
	stored := make([]*model.AvailabilityWindow, len(windows))
	for i, w := range windows {
		cp := *w
		if cp.ID == uuid.Nil {
			cp.ID = uuid.New()
		}
		stored[i] = &cp
	}
	f.windows[doctorID] = stored
	return nil
}

func (f *fakeAvailabilityRepo) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	return f.windows[doctorID], nil
}

func (f *fakeAvailabilityRepo) FindWindow(_ context.Context, doctorID uuid.UUID, day time.Weekday, start, end model.TimeOfDay) (*model.AvailabilityWindow, error) {
	for _, w := range f.windows[doctorID] {
		if w.Day == day && w.Start == start && w.End == end {
			return w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func mins(h, m int) model.TimeOfDay { return model.TimeOfDay(h*60 + m) }

func TestReplaceScheduleAcceptsValidWindows(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)
	doctorID := uuid.New()

	accepted, rejections, err := svc.ReplaceSchedule(context.Background(), doctorID, []model.WindowInput{
		{Day: 1, Start: mins(9, 0), End: mins(12, 0)},
		{Day: 1, Start: mins(13, 0), End: mins(17, 0)},
		{Day: 3, Start: mins(9, 0), End: mins(12, 0)},
	})
	require.NoError(t, err)
	assert.Empty(t, rejections)
	assert.Len(t, accepted, 3)
	assert.Len(t, repo.windows[doctorID], 3)

	// Resubmitting the same set replaces rather than appends.
	_, rejections, err = svc.ReplaceSchedule(context.Background(), doctorID, []model.WindowInput{
		{Day: 1, Start: mins(9, 0), End: mins(12, 0)},
		{Day: 1, Start: mins(13, 0), End: mins(17, 0)},
		{Day: 3, Start: mins(9, 0), End: mins(12, 0)},
	})
	require.NoError(t, err)
	assert.Empty(t, rejections)
	assert.Len(t, repo.windows[doctorID], 3)
}

func TestReplaceScheduleAdjacentWindowsDoNotConflict(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)

	accepted, rejections, err := svc.ReplaceSchedule(context.Background(), uuid.New(), []model.WindowInput{
		{Day: 2, Start: mins(9, 0), End: mins(12, 0)},
		{Day: 2, Start: mins(12, 0), End: mins(15, 0)},
	})
	require.NoError(t, err)
	assert.Empty(t, rejections)
	assert.Len(t, accepted, 2)
}

func TestReplaceScheduleRejectsAllOrNothing(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)
	doctorID := uuid.New()

	// Seed a valid schedule first.
	_, _, err := svc.ReplaceSchedule(context.Background(), doctorID, []model.WindowInput{
		{Day: 1, Start: mins(9, 0), End: mins(12, 0)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, repo.replaceCalls)

	// One overlapping window poisons the whole submission.
	accepted, rejections, err := svc.ReplaceSchedule(context.Background(), doctorID, []model.WindowInput{
		{Day: 1, Start: mins(8, 0), End: mins(10, 0)},
		{Day: 1, Start: mins(9, 30), End: mins(11, 0)},
	})
	require.NoError(t, err)
	assert.Nil(t, accepted)
	require.Len(t, rejections, 1)
	assert.Equal(t, model.RejectionOverlap, rejections[0].Kind)

	// The stored schedule is untouched.
	assert.Equal(t, 1, repo.replaceCalls)
	stored := repo.windows[doctorID]
	require.Len(t, stored, 1)
	assert.Equal(t, mins(9, 0), stored[0].Start)
}

func TestReplaceScheduleReportsMalformedWindows(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)

	_, rejections, err := svc.ReplaceSchedule(context.Background(), uuid.New(), []model.WindowInput{
		{Day: 9, Start: mins(9, 0), End: mins(12, 0)},
		{Day: 1, Start: mins(12, 0), End: mins(9, 0)},
		{Day: 1},
	})
	require.NoError(t, err)
	require.Len(t, rejections, 3)
	for _, r := range rejections {
		assert.Equal(t, model.RejectionMalformed, r.Kind)
	}
	assert.Equal(t, 0, repo.replaceCalls)
}

func TestReplaceScheduleReportsConflictOnSecondWindow(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)

	_, rejections, err := svc.ReplaceSchedule(context.Background(), uuid.New(), []model.WindowInput{
		{Day: 1, Start: mins(9, 0), End: mins(12, 0)},
		{Day: 1, Start: mins(11, 0), End: mins(14, 0)},
		{Day: 1, Start: mins(15, 0), End: mins(17, 0)},
	})
	require.NoError(t, err)
	require.Len(t, rejections, 1)
	assert.Equal(t, mins(11, 0), rejections[0].Start)
}

func TestListScheduleUsesCacheAfterReplace(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	svc := NewService(repo)
	doctorID := uuid.New()

	_, _, err := svc.ReplaceSchedule(context.Background(), doctorID, []model.WindowInput{
		{Day: 5, Start: mins(10, 0), End: mins(12, 0)},
	})
	require.NoError(t, err)

	first, err := svc.ListSchedule(context.Background(), doctorID)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Mutate the backing store directly; the cached copy should win.
	repo.windows[doctorID] = nil
	second, err := svc.ListSchedule(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Len(t, second, 1)
}
