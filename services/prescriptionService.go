package services

import (
	"context"

	"clinicdesk/models"
	"clinicdesk/repositories"
	"clinicdesk/scheduling"
	"clinicdesk/utils"
)

// PrescriptionService writes and reads prescriptions against their
// appointment. Only the doctor who holds the appointment may write one.
type PrescriptionService struct {
	repository      *repositories.PrescriptionRepository
	appointmentRepo *repositories.AppointmentRepository
}

func NewPrescriptionService(repository *repositories.PrescriptionRepository, appointmentRepo *repositories.AppointmentRepository) *PrescriptionService {
	return &PrescriptionService{repository: repository, appointmentRepo: appointmentRepo}
}

func (s *PrescriptionService) Save(ctx context.Context, prescription *models.Prescription, doctorID string) error {
	if err := utils.ValidatePrescriptionPayload(*prescription); err != nil {
		return scheduling.Wrap(scheduling.KindInvalid, "invalid prescription payload", err)
	}
	appointment, err := s.appointmentRepo.FindByID(ctx, prescription.AppointmentID)
	if err != nil {
		return scheduling.Wrap(scheduling.KindStorageUnavailable, "failed to load appointment", err)
	}
	if appointment == nil {
		return scheduling.E(scheduling.KindNotFound, "appointment not found")
	}
	if appointment.DoctorID != doctorID {
		return scheduling.E(scheduling.KindForbidden, "appointment belongs to another doctor")
	}
	if err := s.repository.Save(ctx, prescription); err != nil {
		return scheduling.Wrap(scheduling.KindStorageUnavailable, "failed to save prescription", err)
	}
	return nil
}

func (s *PrescriptionService) GetByAppointment(ctx context.Context, appointmentID uint) ([]models.Prescription, error) {
	prescriptions, err := s.repository.FindByAppointmentID(ctx, appointmentID)
	if err != nil {
		return nil, scheduling.Wrap(scheduling.KindStorageUnavailable, "failed to fetch prescriptions", err)
	}
	return prescriptions, nil
}
