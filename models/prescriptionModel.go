package models

import "time"

// Prescription is stored in MongoDB, keyed by the appointment it belongs to.
type Prescription struct {
	ID            string    `bson:"_id" json:"id"`
	AppointmentID uint      `bson:"appointment_id" json:"appointment_id"`
	PatientName   string    `bson:"patient_name" json:"patient_name"`
	Medication    string    `bson:"medication" json:"medication"`
	Dosage        string    `bson:"dosage" json:"dosage"`
	DoctorNotes   string    `bson:"doctor_notes,omitempty" json:"doctor_notes,omitempty"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
