package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare/booking-api/internal/lock"
	"github.com/medicare/booking-api/internal/model"
	"github.com/medicare/booking-api/internal/repository"
)

type fakePatients struct {
	byUser map[uuid.UUID]*model.Patient
}

func (f *fakePatients) Create(context.Context, *model.Patient) error { return nil }
func (f *fakePatients) Get(context.Context, uuid.UUID) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}
func (f *fakePatients) GetByUserID(_ context.Context, userID uuid.UUID) (*model.Patient, error) {
	if p, ok := f.byUser[userID]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakePatients) Update(context.Context, *model.Patient) error { return nil }

type fakeDoctors struct {
	byID map[uuid.UUID]*model.Doctor
}

func (f *fakeDoctors) Create(context.Context, *model.Doctor) error { return nil }
func (f *fakeDoctors) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}
func (f *fakeDoctors) GetByUserID(context.Context, uuid.UUID) (*model.Doctor, error) {
	return nil, repository.ErrNotFound
}
func (f *fakeDoctors) Update(context.Context, *model.Doctor) error { return nil }
func (f *fakeDoctors) Delete(context.Context, uuid.UUID) error     { return nil }
func (f *fakeDoctors) List(context.Context, *model.DoctorFilters) ([]*model.Doctor, error) {
	return nil, nil
}

type fakeWindows struct {
	windows []*model.AvailabilityWindow
}

func (f *fakeWindows) ReplaceForDoctor(context.Context, uuid.UUID, []*model.AvailabilityWindow) error {
	return nil
}
func (f *fakeWindows) ListForDoctor(context.Context, uuid.UUID) ([]*model.AvailabilityWindow, error) {
	return f.windows, nil
}
func (f *fakeWindows) FindWindow(_ context.Context, doctorID uuid.UUID, day time.Weekday, start, end model.TimeOfDay) (*model.AvailabilityWindow, error) {
	for _, w := range f.windows {
		if w.DoctorID == doctorID && w.Day == day && w.Start == start && w.End == end {
			return w, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeAppointments struct {
	byID map[uuid.UUID]*model.Appointment
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{byID: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointments) Create(_ context.Context, a *model.Appointment) error {
	for _, existing := range f.byID {
		if existing.DoctorID == a.DoctorID &&
			existing.ScheduledAt.Equal(a.ScheduledAt) &&
			existing.Status != model.AppointmentStatusCancelled {
			return repository.ErrDuplicate
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAppointments) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	if a, ok := f.byID[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAppointments) Update(_ context.Context, a *model.Appointment) error {
	if _, ok := f.byID[a.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAppointments) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, a := range f.byID {
		if filters != nil && filters.PatientID != uuid.Nil && a.PatientID != filters.PatientID {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeAppointments) ExistsAt(_ context.Context, doctorID uuid.UUID, at time.Time) (bool, error) {
	for _, a := range f.byID {
		if a.DoctorID == doctorID && a.ScheduledAt.Equal(at) && a.Status != model.AppointmentStatusCancelled {
			return true, nil
		}
	}
	return false, nil
}

type fakePayments struct {
	created []*model.Payment
}

func (f *fakePayments) Create(_ context.Context, p *model.Payment) error {
	f.created = append(f.created, p)
	return nil
}
func (f *fakePayments) GetByAppointment(_ context.Context, appointmentID uuid.UUID) (*model.Payment, error) {
	for _, p := range f.created {
		if p.AppointmentID == appointmentID {
			return p, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeFeedbacks struct {
	created []*model.Feedback
}

func (f *fakeFeedbacks) Create(_ context.Context, fb *model.Feedback) error {
	f.created = append(f.created, fb)
	return nil
}
func (f *fakeFeedbacks) ListForDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.Feedback, error) {
	var out []*model.Feedback
	for _, fb := range f.created {
		if fb.DoctorID == doctorID {
			out = append(out, fb)
		}
	}
	return out, nil
}

type fixture struct {
	svc          *Service
	userID       uuid.UUID
	patientID    uuid.UUID
	doctorID     uuid.UUID
	appointments *fakeAppointments
	payments     *fakePayments
	feedbacks    *fakeFeedbacks
}

func mins(h, m int) model.TimeOfDay { return model.TimeOfDay(h*60 + m) }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	userID := uuid.New()
	patientID := uuid.New()
	doctorID := uuid.New()

	patients := &fakePatients{byUser: map[uuid.UUID]*model.Patient{
		userID: {Base: model.Base{ID: patientID}, UserID: userID},
	}}
	doctors := &fakeDoctors{byID: map[uuid.UUID]*model.Doctor{
		doctorID: {Base: model.Base{ID: doctorID}, ConsultationFee: 150},
	}}
	windows := &fakeWindows{windows: []*model.AvailabilityWindow{
		{ID: uuid.New(), DoctorID: doctorID, Day: time.Monday, Start: mins(9, 0), End: mins(10, 0)},
		{ID: uuid.New(), DoctorID: doctorID, Day: time.Wednesday, Start: mins(14, 0), End: mins(15, 0)},
	}}
	appointments := newFakeAppointments()
	payments := &fakePayments{}
	feedbacks := &fakeFeedbacks{}

	svc := NewService(patients, doctors, windows, appointments, payments, feedbacks, lock.NewMemoryLocker(), nil)

	return &fixture{
		svc:          svc,
		userID:       userID,
		patientID:    patientID,
		doctorID:     doctorID,
		appointments: appointments,
		payments:     payments,
		feedbacks:    feedbacks,
	}
}

// Friday 2024-06-07 08:00 UTC.
var testNow = time.Date(2024, 6, 7, 8, 0, 0, 0, time.UTC)

func TestNextOccurrence(t *testing.T) {
	// From a Wednesday, the next Monday is five days out.
	wednesday := time.Date(2024, 6, 5, 11, 0, 0, 0, time.UTC)
	got := NextOccurrence(time.Monday, mins(9, 0), wednesday)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), got)

	// Same weekday resolves to today even when the start already passed.
	monday := time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC)
	got = NextOccurrence(time.Monday, mins(9, 0), monday)
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), got)
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, appt.Status)
	assert.Equal(t, f.patientID, appt.PatientID)
	assert.Equal(t, f.doctorID, appt.DoctorID)
	assert.Equal(t, 150.0, appt.Fee)
	// Friday + 3 days = Monday.
	assert.Equal(t, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC), appt.ScheduledAt)
	assert.Contains(t, appt.Notes, "Monday, 10 Jun 2024")
	assert.Contains(t, appt.Notes, "09:00-10:00")
}

func TestBookUnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), uuid.New(), f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestBookUnknownDoctor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), f.userID, uuid.New(), time.Monday, mins(9, 0), mins(10, 0), testNow)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestBookStaleSlot(t *testing.T) {
	f := newFixture(t)

	// The doctor never offered Monday 11:00.
	_, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(11, 0), mins(12, 0), testNow)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestBookSlotEarlierToday(t *testing.T) {
	f := newFixture(t)

	// It is Monday 10:30; the Monday 09:00 slot resolves to today and is
	// already in the past. No auto-advance to next week.
	mondayLate := time.Date(2024, 6, 10, 10, 30, 0, 0, time.UTC)
	_, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), mondayLate)
	assert.ErrorIs(t, err, ErrSlotInPast)
}

func TestBookDoubleBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)

	_, err = f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestBookAfterCancellationReopensSlot(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), appt.ID)
	require.NoError(t, err)

	_, err = f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	assert.NoError(t, err)
}

func TestLifecycleHappyPath(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)

	appt, err = f.svc.Confirm(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, appt.Status)

	appt, err = f.svc.MarkPaid(context.Background(), appt.ID, &model.RecordPaymentRequest{
		Method:        "card",
		TransactionID: "txn-1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPaid, appt.Status)
	require.Len(t, f.payments.created, 1)
	assert.Equal(t, 150.0, f.payments.created[0].Amount)

	appt, err = f.svc.Complete(context.Background(), appt.ID, "all good", "rest")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, appt.Status)
	require.NotNil(t, appt.Prescription)
	assert.Equal(t, "rest", *appt.Prescription)
}

func TestCompleteRequiresPayment(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)

	appt, err = f.svc.Confirm(context.Background(), appt.ID)
	require.NoError(t, err)

	_, err = f.svc.Complete(context.Background(), appt.ID, "", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelRefusedOncePaid(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(context.Background(), appt.ID, &model.RecordPaymentRequest{
		Method:        "cash",
		TransactionID: "txn-2",
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), appt.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRescheduleResetsToPending(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)

	appt, err = f.svc.Confirm(context.Background(), appt.ID)
	require.NoError(t, err)

	newSlot := time.Date(2024, 6, 12, 14, 0, 0, 0, time.UTC)
	appt, err = f.svc.Reschedule(context.Background(), appt.ID, newSlot, "patient request")
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPending, appt.Status)
	assert.Equal(t, newSlot, appt.ScheduledAt)
	require.NotNil(t, appt.RescheduleReason)
	assert.Equal(t, "patient request", *appt.RescheduleReason)
	assert.NotNil(t, appt.RescheduledAt)
}

func TestRescheduleRefusedWhenCompleted(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)
	_, err = f.svc.MarkPaid(context.Background(), appt.ID, &model.RecordPaymentRequest{Method: "card", TransactionID: "txn-3"})
	require.NoError(t, err)
	_, err = f.svc.Complete(context.Background(), appt.ID, "", "")
	require.NoError(t, err)

	_, err = f.svc.Reschedule(context.Background(), appt.ID, testNow.AddDate(0, 0, 14), "too late")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestRescheduleRefusedWhenTargetTaken(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)
	second, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Wednesday, mins(14, 0), mins(15, 0), testNow)
	require.NoError(t, err)

	_, err = f.svc.Reschedule(context.Background(), second.ID, first.ScheduledAt, "move up")
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestSubmitFeedback(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)

	// Not completed yet.
	_, err = f.svc.SubmitFeedback(context.Background(), f.userID, appt.ID, &model.SubmitFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrNotFeedbackEligible)

	_, err = f.svc.MarkPaid(context.Background(), appt.ID, &model.RecordPaymentRequest{Method: "card", TransactionID: "txn-4"})
	require.NoError(t, err)
	_, err = f.svc.Complete(context.Background(), appt.ID, "", "")
	require.NoError(t, err)

	// Someone else's appointment is off limits even when completed.
	_, err = f.svc.SubmitFeedback(context.Background(), uuid.New(), appt.ID, &model.SubmitFeedbackRequest{Rating: 5})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	fb, err := f.svc.SubmitFeedback(context.Background(), f.userID, appt.ID, &model.SubmitFeedbackRequest{
		Rating:   4,
		Comments: "helpful",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, fb.Rating)
	assert.Equal(t, f.doctorID, fb.DoctorID)
	require.Len(t, f.feedbacks.created, 1)
}

func TestGetReceipt(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)

	_, err = f.svc.GetReceipt(context.Background(), appt.ID)
	assert.ErrorIs(t, err, ErrNoPayment)

	_, err = f.svc.MarkPaid(context.Background(), appt.ID, &model.RecordPaymentRequest{Method: "card", TransactionID: "txn-5"})
	require.NoError(t, err)

	payment, err := f.svc.GetReceipt(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.ID, payment.AppointmentID)
	assert.Equal(t, 150.0, payment.Amount)

	_, err = f.svc.GetReceipt(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListDoctorFeedback(t *testing.T) {
	f := newFixture(t)

	appt, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)
	_, err = f.svc.MarkPaid(context.Background(), appt.ID, &model.RecordPaymentRequest{Method: "card", TransactionID: "txn-6"})
	require.NoError(t, err)
	_, err = f.svc.Complete(context.Background(), appt.ID, "", "")
	require.NoError(t, err)
	_, err = f.svc.SubmitFeedback(context.Background(), f.userID, appt.ID, &model.SubmitFeedbackRequest{Rating: 5})
	require.NoError(t, err)

	feedbacks, err := f.svc.ListDoctorFeedback(context.Background(), f.doctorID)
	require.NoError(t, err)
	assert.Len(t, feedbacks, 1)

	_, err = f.svc.ListDoctorFeedback(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestListForPatientUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), f.userID, f.doctorID, time.Monday, mins(9, 0), mins(10, 0), testNow)
	require.NoError(t, err)
	_, err = f.svc.Book(context.Background(), f.userID, f.doctorID, time.Wednesday, mins(14, 0), mins(15, 0), testNow)
	require.NoError(t, err)

	appointments, err := f.svc.ListForPatientUser(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Len(t, appointments, 2)

	_, err = f.svc.ListForPatientUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}
