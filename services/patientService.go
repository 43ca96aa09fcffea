package services

import (
	"context"
	"strings"
	"time"

	"clinicdesk/models"
	"clinicdesk/repositories"
	"clinicdesk/scheduling"
	"clinicdesk/utils"
)

// Appointment view filters used by the patient dashboard.
const (
	ConditionPast   = "past"
	ConditionFuture = "future"
)

type PatientService struct {
	repository      *repositories.PatientRepository
	appointmentRepo *repositories.AppointmentRepository
}

func NewPatientService(repository *repositories.PatientRepository, appointmentRepo *repositories.AppointmentRepository) *PatientService {
	return &PatientService{repository: repository, appointmentRepo: appointmentRepo}
}

// Register creates a patient account. Email and phone act as natural
// uniqueness keys.
func (s *PatientService) Register(ctx context.Context, patient *models.Patient, password string) error {
	if err := utils.ValidatePatientSignup(*patient, password); err != nil {
		return scheduling.Wrap(scheduling.KindInvalid, "invalid patient payload", err)
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	patient.Password = hashed
	return s.repository.Create(ctx, patient)
}

func (s *PatientService) GetByID(ctx context.Context, id string) (*models.Patient, error) {
	return s.repository.GetByID(ctx, id)
}

// Appointments returns the patient's appointments, optionally narrowed by
// condition ("past"/"future") and/or a partial doctor name.
func (s *PatientService) Appointments(ctx context.Context, patientID, condition, doctorName string) ([]models.Appointment, error) {
	appointments, err := s.appointmentRepo.FindByPatient(ctx, patientID)
	if err != nil {
		return nil, scheduling.Wrap(scheduling.KindStorageUnavailable, "failed to fetch appointments", err)
	}
	return filterPatientAppointments(appointments, condition, doctorName, time.Now()), nil
}

func filterPatientAppointments(appointments []models.Appointment, condition, doctorName string, now time.Time) []models.Appointment {
	needle := strings.ToLower(doctorName)
	var filtered []models.Appointment
	for _, a := range appointments {
		if needle != "" && !strings.Contains(strings.ToLower(a.Doctor.FullName()), needle) {
			continue
		}
		switch strings.ToLower(condition) {
		case ConditionPast:
			if !a.AppointmentTime.Before(now) {
				continue
			}
		case ConditionFuture:
			if !a.AppointmentTime.After(now) {
				continue
			}
		case "":
		default:
			// Unknown conditions match nothing rather than everything.
			continue
		}
		filtered = append(filtered, a)
	}
	return filtered
}
