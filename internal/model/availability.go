package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AvailabilityWindow is a recurring weekly time range during which a doctor
// accepts bookings. Windows are replaced as a set, never edited in place.
type AvailabilityWindow struct {
	ID       uuid.UUID    `db:"id" json:"id"`
	DoctorID uuid.UUID    `db:"doctor_id" json:"doctor_id"`
	Day      time.Weekday `db:"day" json:"day"`
	Start    TimeOfDay    `db:"start_minute" json:"start"`
	End      TimeOfDay    `db:"end_minute" json:"end"`
}

// WindowInput is one unvalidated window from a schedule submission.
type WindowInput struct {
	Day   int       `json:"day"`
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// WellFormed reports whether the window passes the basic screen: a known
// weekday, both times set, and start strictly before end.
func (w WindowInput) WellFormed() bool {
	if w.Day < int(time.Sunday) || w.Day > int(time.Saturday) {
		return false
	}
	if w.Start.IsZero() || w.End.IsZero() {
		return false
	}
	return w.Start < w.End
}

// Overlaps reports whether the window collides with an accepted window on
// the same weekday. Touching ranges (end == start) do not overlap.
func (w WindowInput) Overlaps(other AvailabilityWindow) bool {
	if time.Weekday(w.Day) != other.Day {
		return false
	}
	return (w.Start >= other.Start && w.Start < other.End) ||
		(w.End > other.Start && w.End <= other.End) ||
		(w.Start <= other.Start && w.End >= other.End)
}

type RejectionKind string

const (
	RejectionMalformed RejectionKind = "malformed"
	RejectionOverlap   RejectionKind = "overlap"
)

// WindowRejection explains why one submitted window was refused.
type WindowRejection struct {
	Kind  RejectionKind `json:"kind"`
	Day   int           `json:"day"`
	Start TimeOfDay     `json:"start"`
	End   TimeOfDay     `json:"end"`
}

func (r WindowRejection) String() string {
	day := "?"
	if r.Day >= int(time.Sunday) && r.Day <= int(time.Saturday) {
		day = time.Weekday(r.Day).String()
	}
	if r.Kind == RejectionMalformed {
		return fmt.Sprintf("malformed slot for %s (%s-%s)", day, r.Start, r.End)
	}
	return fmt.Sprintf("overlapping slot for %s (%s-%s)", day, r.Start, r.End)
}

// ReplaceScheduleRequest carries a doctor's full weekly schedule submission.
type ReplaceScheduleRequest struct {
	Windows []WindowInput `json:"windows" validate:"required"`
}
