package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinicdesk/database"
	"clinicdesk/models"

	"gorm.io/gorm"
)

// AppointmentRepository is the gorm-backed appointment store consumed by the
// scheduling engine. Appointment rows are deliberately not read-cached: the
// engine's conflict re-check under the doctor-day lock must observe committed
// state, and a cache populate racing an invalidation could serve a listing
// that misses a just-committed booking.
type AppointmentRepository struct{}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{}
}

func (r *AppointmentRepository) FindByDoctorAndRange(ctx context.Context, doctorID string, start, end time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := database.DB.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, email, phone")
		}).
		Where("doctor_id = ? AND appointment_time BETWEEN ? AND ?", doctorID, start, end).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch appointments: %w", err)
	}
	return appointments, nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id uint) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointment models.Appointment
	err := database.DB.WithContext(ctx).
		Preload("Patient", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, email, phone")
		}).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, specialty")
		}).
		First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *AppointmentRepository) Save(ctx context.Context, appointment *models.Appointment) error {
	if err := database.DB.WithContext(ctx).Save(appointment).Error; err != nil {
		return fmt.Errorf("failed to save appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, appointment *models.Appointment) error {
	err := database.DB.WithContext(ctx).
		Delete(&models.Appointment{}, "id = ?", appointment.ID).Error
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) DeleteAllForDoctor(ctx context.Context, doctorID string) error {
	err := database.DB.WithContext(ctx).
		Delete(&models.Appointment{}, "doctor_id = ?", doctorID).Error
	if err != nil {
		return fmt.Errorf("failed to delete appointments for doctor: %w", err)
	}
	return nil
}

// FindByPatient returns a patient's appointments, soonest first, with the
// doctor preloaded for the name filters.
func (r *AppointmentRepository) FindByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var appointments []models.Appointment
	err := database.DB.WithContext(ctx).
		Preload("Doctor", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, first_name, last_name, specialty")
		}).
		Where("patient_id = ?", patientID).
		Order("appointment_time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch patient appointments: %w", err)
	}
	return appointments, nil
}
