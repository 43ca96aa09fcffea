package utils

import (
	"regexp"

	"clinicdesk/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidatePatientSignup validates a new patient registration payload.
func ValidatePatientSignup(patient models.Patient, password string) error {
	if err := validation.ValidateStruct(&patient,
		validation.Field(&patient.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&patient.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&patient.Email, validation.Required, is.Email),
		validation.Field(&patient.Phone, validation.Required, validation.Length(7, 20)),
	); err != nil {
		return err
	}
	return validation.Validate(password, validation.Required, validation.Length(8, 72))
}

// ValidateDoctorPayload validates doctor create/update payloads, including
// the recurring availability markers ("HH:MM").
func ValidateDoctorPayload(doctor models.Doctor) error {
	if err := validation.ValidateStruct(&doctor,
		validation.Field(&doctor.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&doctor.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&doctor.Specialty, validation.Required, validation.Length(2, 100)),
		validation.Field(&doctor.Email, validation.Required, is.Email),
	); err != nil {
		return err
	}
	for _, marker := range doctor.Availability {
		if err := validation.Validate(marker.Time,
			validation.Required,
			validation.Match(timeOfDayPattern).Error("must be a HH:MM time of day"),
		); err != nil {
			return validation.Errors{"availability": err}.Filter()
		}
	}
	return nil
}

// ValidateAppointmentPayload checks the parts of a booking request the
// scheduling engine does not own: references present and a time supplied.
func ValidateAppointmentPayload(appointment models.Appointment) error {
	return validation.ValidateStruct(&appointment,
		validation.Field(&appointment.DoctorID, validation.Required),
		validation.Field(&appointment.PatientID, validation.Required),
		validation.Field(&appointment.AppointmentTime, validation.Required),
	)
}

// ValidateLogin checks a login payload.
func ValidateLogin(identifier, password string) error {
	return validation.Errors{
		"identifier": validation.Validate(identifier, validation.Required),
		"password":   validation.Validate(password, validation.Required),
	}.Filter()
}

// ValidatePrescriptionPayload checks a prescription before it is stored.
func ValidatePrescriptionPayload(prescription models.Prescription) error {
	return validation.ValidateStruct(&prescription,
		validation.Field(&prescription.AppointmentID, validation.Required),
		validation.Field(&prescription.PatientName, validation.Required),
		validation.Field(&prescription.Medication, validation.Required),
		validation.Field(&prescription.Dosage, validation.Required),
	)
}
