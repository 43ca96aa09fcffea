package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clinicdesk/models"
)

// memStore is an in-memory AppointmentStore. Its map access is guarded so
// concurrent bookings only depend on the locker for slot exclusion.
type memStore struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Appointment
	err    error
}

func newMemStore() *memStore {
	return &memStore{rows: make(map[uint]models.Appointment)}
}

func (s *memStore) FindByDoctorAndRange(_ context.Context, doctorID string, start, end time.Time) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Appointment
	for _, a := range s.rows {
		if a.DoctorID == doctorID && !a.AppointmentTime.Before(start) && !a.AppointmentTime.After(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) FindByID(_ context.Context, id uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	a, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *memStore) Save(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if a.ID == 0 {
		s.nextID++
		a.ID = s.nextID
	}
	s.rows[a.ID] = *a
	return nil
}

func (s *memStore) Delete(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.rows, a.ID)
	return nil
}

func (s *memStore) DeleteAllForDoctor(_ context.Context, doctorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.rows {
		if a.DoctorID == doctorID {
			delete(s.rows, id)
		}
	}
	return nil
}

type memDirectory struct {
	doctors  map[string]bool
	patients map[string]bool
	err      error
}

func (d *memDirectory) ExistsDoctor(_ context.Context, id string) (bool, error) {
	return d.doctors[id], d.err
}

func (d *memDirectory) ExistsPatient(_ context.Context, id string) (bool, error) {
	return d.patients[id], d.err
}

// memLocker keys real mutexes by doctor-day, mirroring the redis locker's
// exclusion scope.
type memLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newMemLocker() *memLocker {
	return &memLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *memLocker) Acquire(_ context.Context, doctorID string, day time.Time) (func(), error) {
	key := doctorID + "@" + DayKey(day)
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

// busyLocker always reports the doctor-day as contended.
type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string, time.Time) (func(), error) {
	return nil, E(KindBusy, "doctor day is busy, retry later")
}

var (
	fixedNow = time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC)
	testDay  = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
)

func newTestEngine(store *memStore) *Engine {
	dir := &memDirectory{
		doctors:  map[string]bool{"DR-000001": true, "DR-000002": true},
		patients: map[string]bool{"PT-000001": true, "PT-000002": true},
	}
	e := NewEngine(store, dir, newMemLocker())
	e.now = func() time.Time { return fixedNow }
	return e
}

func at(hour int) time.Time {
	return time.Date(2024, 6, 1, hour, 0, 0, 0, time.UTC)
}

func appointmentAt(doctorID, patientID string, t time.Time) *models.Appointment {
	return &models.Appointment{DoctorID: doctorID, PatientID: patientID, AppointmentTime: t}
}

func TestAvailableSlotsEmptyDay(t *testing.T) {
	e := newTestEngine(newMemStore())
	open, err := e.AvailableSlots(context.Background(), "DR-000001", testDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 8 {
		t.Fatalf("expected 8 open slots, got %d", len(open))
	}
	if open[0].String() != "09:00" || open[7].String() != "16:00" {
		t.Fatalf("unexpected grid bounds: %s .. %s", open[0], open[7])
	}
}

func TestAvailableSlotsExactSetDifference(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	// On-grid booking at 10:00 and an off-grid row at 09:30 seeded directly.
	store.Save(ctx, appointmentAt("DR-000001", "PT-000001", at(10)))
	store.Save(ctx, &models.Appointment{
		DoctorID: "DR-000001", PatientID: "PT-000002",
		AppointmentTime: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
	})
	// A cancelled row must not block its slot.
	store.Save(ctx, &models.Appointment{
		DoctorID: "DR-000001", PatientID: "PT-000002",
		AppointmentTime: at(14), Status: models.StatusCancelled,
	})

	e := newTestEngine(store)
	open, err := e.AvailableSlots(ctx, "DR-000001", testDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(open) != 7 {
		t.Fatalf("expected 7 open slots, got %d: %v", len(open), open)
	}
	for _, slot := range open {
		if slot.String() == "10:00" {
			t.Error("10:00 should be removed by the exact-match booking")
		}
	}
	// 09:30 is off the grid: 09:00 stays open.
	if open[0].String() != "09:00" {
		t.Errorf("09:00 should remain open, got %s first", open[0])
	}
}

func TestAvailableSlotsIdempotent(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	store.Save(ctx, appointmentAt("DR-000001", "PT-000001", at(11)))
	e := newTestEngine(store)

	first, err := e.AvailableSlots(ctx, "DR-000001", testDay)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.AvailableSlots(ctx, "DR-000001", testDay)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("availability changed without mutation: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("availability changed without mutation at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestValidate(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	store.Save(ctx, appointmentAt("DR-000001", "PT-000001", at(10)))
	e := newTestEngine(store)

	tests := []struct {
		name string
		appt *models.Appointment
		want Kind
	}{
		{"unknown doctor", appointmentAt("DR-999999", "PT-000001", at(9)), KindNotFound},
		{"taken slot", appointmentAt("DR-000001", "PT-000002", at(10)), KindSlotUnavailable},
		{"off grid time", appointmentAt("DR-000001", "PT-000002", time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)), KindSlotUnavailable},
		{"outside working window", appointmentAt("DR-000001", "PT-000002", at(17)), KindSlotUnavailable},
		{"open slot", appointmentAt("DR-000001", "PT-000002", at(9)), KindNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Validate(ctx, tt.appt)
			if got := KindOf(err); got != tt.want {
				t.Fatalf("got kind %v (err %v), want %v", got, err, tt.want)
			}
		})
	}
}

// Full booking lifecycle on one doctor-day: book, double-book, move, cancel.
func TestBookUpdateCancelLifecycle(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	e := newTestEngine(store)

	appt := appointmentAt("DR-000001", "PT-000001", at(11))
	if err := e.Book(ctx, appt); err != nil {
		t.Fatalf("book 11:00: %v", err)
	}
	if appt.ID == 0 {
		t.Fatal("booking did not assign an id")
	}
	if appt.Status != models.StatusScheduled {
		t.Fatalf("booking status = %d, want scheduled", appt.Status)
	}

	open, _ := e.AvailableSlots(ctx, "DR-000001", testDay)
	if len(open) != 7 || containsSlot(open, "11:00") {
		t.Fatalf("11:00 should be gone after booking, got %v", open)
	}

	if err := e.Book(ctx, appointmentAt("DR-000001", "PT-000002", at(11))); KindOf(err) != KindSlotUnavailable {
		t.Fatalf("double booking should be rejected, got %v", err)
	}

	moved := appointmentAt("DR-000001", "PT-000001", at(13))
	moved.ID = appt.ID
	updated, err := e.Update(ctx, moved)
	if err != nil {
		t.Fatalf("update to 13:00: %v", err)
	}
	if got := TimeOfDayOf(updated.AppointmentTime).String(); got != "13:00" {
		t.Fatalf("updated time = %s", got)
	}
	open, _ = e.AvailableSlots(ctx, "DR-000001", testDay)
	if !containsSlot(open, "11:00") || containsSlot(open, "13:00") {
		t.Fatalf("after move, 11:00 should reappear and 13:00 vanish: %v", open)
	}

	if err := e.Cancel(ctx, appt.ID, "PT-000001"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	open, _ = e.AvailableSlots(ctx, "DR-000001", testDay)
	if len(open) != 8 {
		t.Fatalf("expected a fully open day after cancel, got %v", open)
	}
}

func TestConcurrentBookSameSlot(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	ctx := context.Background()

	const workers = 16
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- e.Book(ctx, appointmentAt("DR-000001", "PT-000001", at(12)))
		}()
	}
	wg.Wait()
	close(results)

	created, rejected := 0, 0
	for err := range results {
		switch KindOf(err) {
		case KindNone:
			created++
		case KindSlotUnavailable:
			rejected++
		default:
			t.Fatalf("unexpected outcome: %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("exactly one booking must win, got %d created / %d rejected", created, rejected)
	}
	if rejected != workers-1 {
		t.Fatalf("expected %d rejections, got %d", workers-1, rejected)
	}
}

func TestConcurrentBookIndependentSlots(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	ctx := context.Background()

	slots := Slots()
	var wg sync.WaitGroup
	errs := make(chan error, len(slots)*2)
	for _, slot := range slots {
		wg.Add(2)
		// Same doctor, distinct slots.
		go func(s TimeOfDay) {
			defer wg.Done()
			errs <- e.Book(ctx, appointmentAt("DR-000001", "PT-000001", s.At(testDay)))
		}(slot)
		// Same slot, different doctor.
		go func(s TimeOfDay) {
			defer wg.Done()
			errs <- e.Book(ctx, appointmentAt("DR-000002", "PT-000002", s.At(testDay)))
		}(slot)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("independent bookings must not conflict: %v", err)
		}
	}
	for _, doctor := range []string{"DR-000001", "DR-000002"} {
		open, _ := e.AvailableSlots(ctx, doctor, testDay)
		if len(open) != 0 {
			t.Fatalf("%s should be fully booked, still open: %v", doctor, open)
		}
	}
}

func TestCancelOwnership(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	ctx := context.Background()

	appt := appointmentAt("DR-000001", "PT-000001", at(15))
	if err := e.Book(ctx, appt); err != nil {
		t.Fatal(err)
	}
	if err := e.Cancel(ctx, appt.ID, "PT-000002"); KindOf(err) != KindForbidden {
		t.Fatalf("foreign patient cancel should be forbidden, got %v", err)
	}
	// Record must be untouched.
	kept, err := store.FindByID(ctx, appt.ID)
	if err != nil || kept == nil {
		t.Fatalf("appointment should survive a forbidden cancel: %v, %v", kept, err)
	}
	if err := e.Cancel(ctx, appt.ID, "PT-000001"); err != nil {
		t.Fatalf("owner cancel: %v", err)
	}
	if err := e.Cancel(ctx, appt.ID, "PT-000001"); KindOf(err) != KindNotFound {
		t.Fatalf("second cancel should be not found, got %v", err)
	}
}

func TestCancelTrustedCaller(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	ctx := context.Background()

	appt := appointmentAt("DR-000001", "PT-000001", at(15))
	if err := e.Book(ctx, appt); err != nil {
		t.Fatal(err)
	}
	// An empty requester id bypasses the ownership check.
	if err := e.Cancel(ctx, appt.ID, ""); err != nil {
		t.Fatalf("trusted cancel: %v", err)
	}
	if gone, _ := store.FindByID(ctx, appt.ID); gone != nil {
		t.Fatal("appointment should be gone after trusted cancel")
	}
}

func TestCancelThenRebook(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	ctx := context.Background()

	first := appointmentAt("DR-000001", "PT-000001", at(9))
	if err := e.Book(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := e.Cancel(ctx, first.ID, "PT-000001"); err != nil {
		t.Fatal(err)
	}
	if err := e.Book(ctx, appointmentAt("DR-000001", "PT-000002", at(9))); err != nil {
		t.Fatalf("slot should be reusable after cancel: %v", err)
	}
}

func TestUpdateValidation(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	ctx := context.Background()

	appt := appointmentAt("DR-000001", "PT-000001", at(10))
	if err := e.Book(ctx, appt); err != nil {
		t.Fatal(err)
	}

	missing := appointmentAt("DR-000001", "PT-000001", at(11))
	missing.ID = 9999
	if _, err := e.Update(ctx, missing); KindOf(err) != KindNotFound {
		t.Fatalf("unknown id should be not found, got %v", err)
	}

	badDoctor := appointmentAt("DR-999999", "PT-000001", at(11))
	badDoctor.ID = appt.ID
	if _, err := e.Update(ctx, badDoctor); KindOf(err) != KindInvalid {
		t.Fatalf("unknown doctor reference should be invalid, got %v", err)
	}

	badPatient := appointmentAt("DR-000001", "PT-999999", at(11))
	badPatient.ID = appt.ID
	if _, err := e.Update(ctx, badPatient); KindOf(err) != KindInvalid {
		t.Fatalf("unknown patient reference should be invalid, got %v", err)
	}

	past := appointmentAt("DR-000001", "PT-000001", time.Date(2024, 5, 30, 10, 0, 0, 0, time.UTC))
	past.ID = appt.ID
	if _, err := e.Update(ctx, past); KindOf(err) != KindInvalid {
		t.Fatalf("past-dated update should be invalid, got %v", err)
	}

	// Re-saving onto its own slot is not a conflict.
	same := appointmentAt("DR-000001", "PT-000001", at(10))
	same.ID = appt.ID
	same.Status = models.StatusCompleted
	updated, err := e.Update(ctx, same)
	if err != nil {
		t.Fatalf("update onto own slot: %v", err)
	}
	if updated.Status != models.StatusCompleted {
		t.Fatalf("status not replaced: %d", updated.Status)
	}
}

func TestUpdateIntoTakenSlot(t *testing.T) {
	store := newMemStore()
	e := newTestEngine(store)
	ctx := context.Background()

	blocker := appointmentAt("DR-000001", "PT-000002", at(14))
	if err := e.Book(ctx, blocker); err != nil {
		t.Fatal(err)
	}
	appt := appointmentAt("DR-000001", "PT-000001", at(10))
	if err := e.Book(ctx, appt); err != nil {
		t.Fatal(err)
	}

	moved := appointmentAt("DR-000001", "PT-000001", at(14))
	moved.ID = appt.ID
	if _, err := e.Update(ctx, moved); KindOf(err) != KindSlotUnavailable {
		t.Fatalf("moving onto a taken slot should be rejected, got %v", err)
	}
}

func TestListForDoctorDayNameFilter(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	store.Save(ctx, &models.Appointment{
		DoctorID: "DR-000001", PatientID: "PT-000001", AppointmentTime: at(9),
		Patient: models.Patient{FirstName: "Grace", LastName: "Hopper"},
	})
	store.Save(ctx, &models.Appointment{
		DoctorID: "DR-000001", PatientID: "PT-000002", AppointmentTime: at(10),
		Patient: models.Patient{FirstName: "Alan", LastName: "Turing"},
	})
	store.Save(ctx, &models.Appointment{
		DoctorID: "DR-000002", PatientID: "PT-000002", AppointmentTime: at(10),
		Patient: models.Patient{FirstName: "Alan", LastName: "Turing"},
	})
	e := newTestEngine(store)

	all, err := e.ListForDoctorDay(ctx, "DR-000001", testDay, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(all))
	}

	matched, err := e.ListForDoctorDay(ctx, "DR-000001", testDay, "zz")
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 0 {
		t.Fatalf("nonsense filter should match nothing, got %d", len(matched))
	}

	matched, err = e.ListForDoctorDay(ctx, "DR-000001", testDay, "hOpp")
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 1 || matched[0].Patient.LastName != "Hopper" {
		t.Fatalf("case-insensitive substring filter failed: %v", matched)
	}
}

func TestStorageFailuresAreClassified(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	e := newTestEngine(store)
	ctx := context.Background()

	if _, err := e.AvailableSlots(ctx, "DR-000001", testDay); KindOf(err) != KindStorageUnavailable {
		t.Fatalf("availability should surface storage failure, got %v", err)
	}
	if err := e.Book(ctx, appointmentAt("DR-000001", "PT-000001", at(9))); KindOf(err) != KindStorageUnavailable {
		t.Fatalf("book should surface storage failure, got %v", err)
	}
	if err := e.Cancel(ctx, 1, "PT-000001"); KindOf(err) != KindStorageUnavailable {
		t.Fatalf("cancel should surface storage failure, got %v", err)
	}
}

func TestBusyDoctorDay(t *testing.T) {
	store := newMemStore()
	dir := &memDirectory{doctors: map[string]bool{"DR-000001": true}, patients: map[string]bool{"PT-000001": true}}
	e := NewEngine(store, dir, busyLocker{})
	e.now = func() time.Time { return fixedNow }

	err := e.Book(context.Background(), appointmentAt("DR-000001", "PT-000001", at(9)))
	if KindOf(err) != KindBusy {
		t.Fatalf("contended doctor-day should report busy, got %v", err)
	}
	if len(store.rows) != 0 {
		t.Fatal("no write may happen without the lock")
	}
}

func containsSlot(slots []TimeOfDay, s string) bool {
	for _, slot := range slots {
		if slot.String() == s {
			return true
		}
	}
	return false
}
