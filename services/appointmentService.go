package services

import (
	"context"
	"log"
	"time"

	"clinicdesk/models"
	"clinicdesk/repositories"
	"clinicdesk/scheduling"
	"clinicdesk/utils"
)

// AppointmentService fronts the scheduling engine and adds the non-core
// concerns around a booking: payload checks and the confirmation email.
type AppointmentService struct {
	engine      *scheduling.Engine
	doctorRepo  *repositories.DoctorRepository
	patientRepo *repositories.PatientRepository
}

func NewAppointmentService(engine *scheduling.Engine, doctorRepo *repositories.DoctorRepository, patientRepo *repositories.PatientRepository) *AppointmentService {
	return &AppointmentService{engine: engine, doctorRepo: doctorRepo, patientRepo: patientRepo}
}

// Availability returns the open slots for a doctor-day.
func (s *AppointmentService) Availability(ctx context.Context, doctorID string, date time.Time) ([]scheduling.TimeOfDay, error) {
	return s.engine.AvailableSlots(ctx, doctorID, date)
}

// Book places a new appointment and, on success, sends the confirmation
// email off the request path.
func (s *AppointmentService) Book(ctx context.Context, appointment *models.Appointment) error {
	if err := utils.ValidateAppointmentPayload(*appointment); err != nil {
		return scheduling.Wrap(scheduling.KindInvalid, "invalid appointment payload", err)
	}
	if err := s.engine.Book(ctx, appointment); err != nil {
		return err
	}
	go s.sendConfirmation(appointment.PatientID, appointment.DoctorID, appointment.AppointmentTime)
	return nil
}

func (s *AppointmentService) Update(ctx context.Context, appointment *models.Appointment) (*models.Appointment, error) {
	if err := utils.ValidateAppointmentPayload(*appointment); err != nil {
		return nil, scheduling.Wrap(scheduling.KindInvalid, "invalid appointment payload", err)
	}
	return s.engine.Update(ctx, appointment)
}

func (s *AppointmentService) Cancel(ctx context.Context, id uint, requesterPatientID string) error {
	return s.engine.Cancel(ctx, id, requesterPatientID)
}

// ListForDoctorDay returns a doctor's appointments for the day, optionally
// narrowed by patient name.
func (s *AppointmentService) ListForDoctorDay(ctx context.Context, doctorID string, date time.Time, patientName string) ([]models.Appointment, error) {
	return s.engine.ListForDoctorDay(ctx, doctorID, date, patientName)
}

func (s *AppointmentService) sendConfirmation(patientID, doctorID string, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	patient, err := s.patientRepo.GetByID(ctx, patientID)
	if err != nil || patient == nil {
		log.Printf("Skipping confirmation email, patient %s unavailable: %v", patientID, err)
		return
	}
	doctor, err := s.doctorRepo.GetByID(ctx, doctorID)
	if err != nil || doctor == nil {
		log.Printf("Skipping confirmation email, doctor %s unavailable: %v", doctorID, err)
		return
	}
	if err := utils.SendBookingConfirmationEmail(patient.Email, patient.FullName(), doctor.FullName(), at); err != nil {
		log.Printf("Failed to send confirmation email to %s: %v", patient.Email, err)
	}
}
