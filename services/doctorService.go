package services

import (
	"context"
	"strconv"
	"strings"

	"clinicdesk/models"
	"clinicdesk/repositories"
	"clinicdesk/scheduling"
	"clinicdesk/utils"
)

// DoctorService covers the administrative doctor flows and the public
// doctor search. Deleting a doctor also removes their appointments through
// the scheduling store so no orphaned bookings hold slots.
type DoctorService struct {
	repository *repositories.DoctorRepository
	store      scheduling.AppointmentStore
}

func NewDoctorService(repository *repositories.DoctorRepository, store scheduling.AppointmentStore) *DoctorService {
	return &DoctorService{repository: repository, store: store}
}

func (s *DoctorService) Create(ctx context.Context, doctor *models.Doctor, password string) error {
	if err := utils.ValidateDoctorPayload(*doctor); err != nil {
		return scheduling.Wrap(scheduling.KindInvalid, "invalid doctor payload", err)
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	doctor.Password = hashed
	return s.repository.Create(ctx, doctor)
}

func (s *DoctorService) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *DoctorService) GetAll(ctx context.Context) ([]models.Doctor, error) {
	return s.repository.GetAll(ctx)
}

func (s *DoctorService) Update(ctx context.Context, doctor *models.Doctor) error {
	if err := utils.ValidateDoctorPayload(*doctor); err != nil {
		return scheduling.Wrap(scheduling.KindInvalid, "invalid doctor payload", err)
	}
	existing, err := s.repository.GetByID(ctx, doctor.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return scheduling.E(scheduling.KindNotFound, "doctor not found")
	}
	if doctor.Password == "" {
		doctor.Password = existing.Password
	} else {
		hashed, err := utils.HashPassword(doctor.Password)
		if err != nil {
			return err
		}
		doctor.Password = hashed
	}
	return s.repository.Update(ctx, doctor)
}

func (s *DoctorService) Delete(ctx context.Context, id string) error {
	existing, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return scheduling.E(scheduling.KindNotFound, "doctor not found")
	}
	if err := s.store.DeleteAllForDoctor(ctx, id); err != nil {
		return err
	}
	return s.repository.Delete(ctx, id)
}

// Filter searches doctors by partial name, specialty, and an optional AM/PM
// period matched against the doctor's declared availability markers.
func (s *DoctorService) Filter(ctx context.Context, name, specialty, period string) ([]models.Doctor, error) {
	doctors, err := s.repository.Search(ctx, name, specialty)
	if err != nil {
		return nil, err
	}
	return FilterDoctorsByPeriod(doctors, period), nil
}

// FilterDoctorsByPeriod keeps the doctors with at least one availability
// marker in the requested half of the day ("AM" or "PM"). An empty period
// keeps everyone. Markers are "HH:MM"; malformed ones never match.
func FilterDoctorsByPeriod(doctors []models.Doctor, period string) []models.Doctor {
	if period == "" {
		return doctors
	}
	wantAM := strings.EqualFold(period, "AM")

	var filtered []models.Doctor
	for _, doctor := range doctors {
		for _, marker := range doctor.Availability {
			hour, ok := markerHour(marker.Time)
			if !ok {
				continue
			}
			if (wantAM && hour < 12) || (!wantAM && hour >= 12) {
				filtered = append(filtered, doctor)
				break
			}
		}
	}
	return filtered
}

func markerHour(marker string) (int, bool) {
	parts := strings.SplitN(marker, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	return hour, true
}
