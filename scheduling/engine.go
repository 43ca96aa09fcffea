package scheduling

import (
	"context"
	"strings"
	"time"

	"clinicdesk/models"
)

// AppointmentStore is the persistence adapter the engine reads and writes
// appointments through. FindByID returns (nil, nil) when the id is unknown.
type AppointmentStore interface {
	FindByDoctorAndRange(ctx context.Context, doctorID string, start, end time.Time) ([]models.Appointment, error)
	FindByID(ctx context.Context, id uint) (*models.Appointment, error)
	Save(ctx context.Context, appointment *models.Appointment) error
	Delete(ctx context.Context, appointment *models.Appointment) error
	DeleteAllForDoctor(ctx context.Context, doctorID string) error
}

// Directory answers existence checks for doctors and patients. It is never
// consulted for credentials.
type Directory interface {
	ExistsDoctor(ctx context.Context, id string) (bool, error)
	ExistsPatient(ctx context.Context, id string) (bool, error)
}

// DayLocker serializes mutations per (doctor, calendar day). Acquire blocks
// for at most a bounded wait and then fails with a Busy error; the returned
// release function must be called exactly once.
type DayLocker interface {
	Acquire(ctx context.Context, doctorID string, day time.Time) (release func(), err error)
}

// Engine is the appointment scheduling and slot-conflict core. Reads are
// lock-free; booking, updating, and cancelling serialize per doctor-day.
type Engine struct {
	store     AppointmentStore
	directory Directory
	locks     DayLocker
	now       func() time.Time
}

func NewEngine(store AppointmentStore, directory Directory, locks DayLocker) *Engine {
	return &Engine{store: store, directory: directory, locks: locks, now: time.Now}
}

// AvailableSlots returns the open slots for the doctor on the given day:
// the canonical grid minus the exact time-of-day of every non-cancelled
// appointment. A booking off the grid never shadows a neighbouring slot.
func (e *Engine) AvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]TimeOfDay, error) {
	booked, err := e.bookedOn(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[TimeOfDay]bool, len(booked))
	for _, a := range booked {
		taken[TimeOfDayOf(a.AppointmentTime)] = true
	}
	var open []TimeOfDay
	for _, slot := range Slots() {
		if !taken[slot] {
			open = append(open, slot)
		}
	}
	return open, nil
}

// Validate checks a proposed booking without reserving anything: the doctor
// must exist and the requested time must be an open slot. The commit-side
// re-check under the doctor-day lock closes the remaining race.
func (e *Engine) Validate(ctx context.Context, appointment *models.Appointment) error {
	exists, err := e.directory.ExistsDoctor(ctx, appointment.DoctorID)
	if err != nil {
		return Wrap(KindStorageUnavailable, "doctor lookup failed", err)
	}
	if !exists {
		return E(KindNotFound, "doctor not found")
	}
	open, err := e.AvailableSlots(ctx, appointment.DoctorID, appointment.AppointmentTime)
	if err != nil {
		return err
	}
	want := TimeOfDayOf(appointment.AppointmentTime)
	for _, slot := range open {
		if slot == want {
			return nil
		}
	}
	return E(KindSlotUnavailable, "requested slot is not available")
}

// Book validates and persists a new appointment atomically under the
// per-doctor-day exclusion scope. A slot grabbed by a concurrently committed
// booking after the initial validation is reported as unavailable.
func (e *Engine) Book(ctx context.Context, appointment *models.Appointment) error {
	if err := e.Validate(ctx, appointment); err != nil {
		return err
	}
	release, err := e.acquire(ctx, appointment.DoctorID, appointment.AppointmentTime)
	if err != nil {
		return err
	}
	defer release()

	free, err := e.slotFree(ctx, appointment.DoctorID, appointment.AppointmentTime, 0)
	if err != nil {
		return err
	}
	if !free {
		return E(KindSlotUnavailable, "requested slot is not available")
	}
	appointment.Status = models.StatusScheduled
	if err := e.store.Save(ctx, appointment); err != nil {
		return Wrap(KindStorageUnavailable, "failed to save appointment", err)
	}
	return nil
}

// Update replaces time, status, doctor, and patient of an existing
// appointment. The new time must be a free, future slot for the new doctor.
func (e *Engine) Update(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	existing, err := e.store.FindByID(ctx, appointment.ID)
	if err != nil {
		return nil, Wrap(KindStorageUnavailable, "failed to load appointment", err)
	}
	if existing == nil {
		return nil, E(KindNotFound, "appointment not found")
	}
	if err := e.validateUpdate(ctx, appointment); err != nil {
		return nil, err
	}

	release, err := e.acquire(ctx, appointment.DoctorID, appointment.AppointmentTime)
	if err != nil {
		return nil, err
	}
	defer release()

	free, err := e.slotFree(ctx, appointment.DoctorID, appointment.AppointmentTime, appointment.ID)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, E(KindSlotUnavailable, "requested slot is not available")
	}
	existing.AppointmentTime = appointment.AppointmentTime
	existing.Status = appointment.Status
	existing.DoctorID = appointment.DoctorID
	existing.PatientID = appointment.PatientID
	if err := e.store.Save(ctx, existing); err != nil {
		return nil, Wrap(KindStorageUnavailable, "failed to update appointment", err)
	}
	return existing, nil
}

// Cancel removes an appointment on behalf of the owning patient, releasing
// its slot for later bookings on that doctor-day.
func (e *Engine) Cancel(ctx context.Context, id uint, requesterPatientID string) error {
	appointment, err := e.store.FindByID(ctx, id)
	if err != nil {
		return Wrap(KindStorageUnavailable, "failed to load appointment", err)
	}
	if appointment == nil {
		return E(KindNotFound, "appointment not found")
	}
	// An empty requester means a trusted caller, skipping the ownership check.
	if requesterPatientID != "" && appointment.PatientID != requesterPatientID {
		return E(KindForbidden, "not authorized to cancel this appointment")
	}
	release, err := e.acquire(ctx, appointment.DoctorID, appointment.AppointmentTime)
	if err != nil {
		return err
	}
	defer release()

	if err := e.store.Delete(ctx, appointment); err != nil {
		return Wrap(KindStorageUnavailable, "failed to cancel appointment", err)
	}
	return nil
}

// ListForDoctorDay returns the doctor's non-cancelled appointments on the
// given day, optionally narrowed to patients whose name contains the filter,
// case-insensitively.
func (e *Engine) ListForDoctorDay(ctx context.Context, doctorID string, date time.Time, patientName string) ([]models.Appointment, error) {
	booked, err := e.bookedOn(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	if patientName == "" {
		return booked, nil
	}
	needle := strings.ToLower(patientName)
	var matched []models.Appointment
	for _, a := range booked {
		if strings.Contains(strings.ToLower(a.Patient.FullName()), needle) {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// validateUpdate applies the stricter update rules: both references must
// resolve and the new time must be strictly in the future.
func (e *Engine) validateUpdate(ctx context.Context, appointment *models.Appointment) error {
	exists, err := e.directory.ExistsDoctor(ctx, appointment.DoctorID)
	if err != nil {
		return Wrap(KindStorageUnavailable, "doctor lookup failed", err)
	}
	if !exists {
		return E(KindInvalid, "doctor reference does not exist")
	}
	exists, err = e.directory.ExistsPatient(ctx, appointment.PatientID)
	if err != nil {
		return Wrap(KindStorageUnavailable, "patient lookup failed", err)
	}
	if !exists {
		return E(KindInvalid, "patient reference does not exist")
	}
	if appointment.AppointmentTime.IsZero() || !appointment.AppointmentTime.After(e.now()) {
		return E(KindInvalid, "appointment time must be in the future")
	}
	return nil
}

// bookedOn fetches the doctor's non-cancelled appointments for a day.
func (e *Engine) bookedOn(ctx context.Context, doctorID string, date time.Time) ([]models.Appointment, error) {
	start, end := dayRange(date)
	appointments, err := e.store.FindByDoctorAndRange(ctx, doctorID, start, end)
	if err != nil {
		return nil, Wrap(KindStorageUnavailable, "failed to fetch appointments", err)
	}
	active := appointments[:0:0]
	for _, a := range appointments {
		if a.Status != models.StatusCancelled {
			active = append(active, a)
		}
	}
	return active, nil
}

// slotFree re-checks, under the doctor-day lock, that the slot at the given
// instant is on the grid and unoccupied. excludeID skips the appointment
// being moved so an update onto its own slot is not a conflict.
func (e *Engine) slotFree(ctx context.Context, doctorID string, at time.Time, excludeID uint) (bool, error) {
	want := TimeOfDayOf(at)
	onGrid := false
	for _, slot := range Slots() {
		if slot == want {
			onGrid = true
			break
		}
	}
	if !onGrid {
		return false, nil
	}
	booked, err := e.bookedOn(ctx, doctorID, at)
	if err != nil {
		return false, err
	}
	for _, a := range booked {
		if a.ID != excludeID && TimeOfDayOf(a.AppointmentTime) == want {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) acquire(ctx context.Context, doctorID string, day time.Time) (func(), error) {
	release, err := e.locks.Acquire(ctx, doctorID, day)
	if err != nil {
		if KindOf(err) != KindNone {
			return nil, err
		}
		return nil, Wrap(KindBusy, "doctor day is busy, retry later", err)
	}
	return release, nil
}
