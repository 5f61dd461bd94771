package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/repository"
)

const (
	cacheTTL   = 5 * time.Minute
	cacheSweep = 10 * time.Minute
)

// Service validates and stores doctors' weekly availability schedules.
type Service struct {
	repo      repository.AvailabilityRepository
	readCache *cache.Cache
}

func NewService(repo repository.AvailabilityRepository) *Service {
	return &Service{
		repo:      repo,
		readCache: cache.New(cacheTTL, cacheSweep),
	}
}

// ReplaceSchedule validates a full weekly schedule submission and, when every
// window is acceptable, atomically replaces the doctor's stored set.
//
// Windows are screened in submission order. A window that is not well formed
// is rejected as malformed; a well-formed window is then tested for overlap
// against the windows already accepted for the same weekday, so a
// conflicting pair is reported once, against whichever window came second.
// Any rejection fails the whole submission: nothing is persisted and the
// doctor's previous schedule stands.
func (s *Service) ReplaceSchedule(ctx context.Context, doctorID uuid.UUID, inputs []model.WindowInput) ([]*model.AvailabilityWindow, []model.WindowRejection, error) {
	var (
		accepted   []*model.AvailabilityWindow
		rejections []model.WindowRejection
	)

	for _, in := range inputs {
		if !in.WellFormed() {
			// The original flow dropped these silently; reporting them is a
			// deliberate change so callers learn their form data was bad.
			rejections = append(rejections, model.WindowRejection{
				Kind:  model.RejectionMalformed,
				Day:   in.Day,
				Start: in.Start,
				End:   in.End,
			})
			continue
		}

		overlaps := false
		for _, a := range accepted {
			if in.Overlaps(*a) {
				overlaps = true
				break
			}
		}
		if overlaps {
			rejections = append(rejections, model.WindowRejection{
				Kind:  model.RejectionOverlap,
				Day:   in.Day,
				Start: in.Start,
				End:   in.End,
			})
			continue
		}

		accepted = append(accepted, &model.AvailabilityWindow{
			DoctorID: doctorID,
			Day:      time.Weekday(in.Day),
			Start:    in.Start,
			End:      in.End,
		})
	}

	if len(rejections) > 0 {
		return nil, rejections, nil
	}

	if err := s.repo.ReplaceForDoctor(ctx, doctorID, accepted); err != nil {
		return nil, nil, fmt.Errorf("failed to replace schedule: %w", err)
	}
	s.readCache.Delete(doctorID.String())

	return accepted, nil, nil
}

// ListSchedule returns the doctor's current weekly windows, cached briefly
// since the booking page hits this on every view.
func (s *Service) ListSchedule(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	if cached, found := s.readCache.Get(doctorID.String()); found {
		return cached.([]*model.AvailabilityWindow), nil
	}

	windows, err := s.repo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule: %w", err)
	}

	s.readCache.Set(doctorID.String(), windows, cache.DefaultExpiration)
	return windows, nil
}
