package models

import (
	"strings"
	"time"
)

// Appointment status values. A cancelled row is normally deleted outright,
// but the value exists so a soft-cancel never blocks a slot.
const (
	StatusScheduled = 0
	StatusCompleted = 1
	StatusCancelled = 2
)

// Doctor model
type Doctor struct {
	ID           string               `gorm:"primaryKey;column:id" json:"id"`
	FirstName    string               `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string               `gorm:"column:last_name;not null;index" json:"last_name"`
	Specialty    string               `gorm:"column:specialty;not null;index" json:"specialty"`
	Email        string               `gorm:"column:email;unique;not null" json:"email"`
	Password     string               `gorm:"column:password;not null" json:"-"`
	Phone        string               `gorm:"column:phone" json:"phone"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Availability []DoctorAvailability `gorm:"foreignKey:DoctorID;references:ID" json:"availability"`
	Appointments []Appointment        `gorm:"foreignKey:DoctorID;references:ID" json:"-"`
}

func (Doctor) TableName() string {
	return "doctor"
}

// FullName returns the doctor's display name used by name filters.
func (d Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// DoctorAvailability is a recurring time-of-day marker declared by the doctor
// ("10:00", "14:30"). Markers feed the AM/PM doctor filter only; the bookable
// slot grid is a fixed clinic-wide policy.
type DoctorAvailability struct {
	ID       uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	DoctorID string `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	Time     string `gorm:"column:time;not null" json:"time"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availability"
}

// Patient model
type Patient struct {
	ID           string        `gorm:"primaryKey;column:id" json:"id"`
	FirstName    string        `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string        `gorm:"column:last_name;not null;index" json:"last_name"`
	Email        string        `gorm:"column:email;unique;not null" json:"email"`
	Phone        string        `gorm:"column:phone;unique;not null" json:"phone"`
	Password     string        `gorm:"column:password;not null" json:"-"`
	Address      string        `gorm:"column:address" json:"address"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Appointments []Appointment `gorm:"foreignKey:PatientID;references:ID" json:"-"`
}

func (Patient) TableName() string {
	return "patient"
}

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Appointment model. The scheduling engine owns its lifecycle; no two
// non-cancelled rows may share (doctor_id, appointment_time).
type Appointment struct {
	ID              uint      `gorm:"primaryKey;autoIncrement;column:id;index" json:"id"`
	DoctorID        string    `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	PatientID       string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	AppointmentTime time.Time `gorm:"column:appointment_time;not null;index" json:"appointment_time"`
	Status          int       `gorm:"column:status;not null;default:0" json:"status"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Doctor          Doctor    `gorm:"foreignKey:DoctorID;references:ID" json:"doctor"`
	Patient         Patient   `gorm:"foreignKey:PatientID;references:ID" json:"patient"`
}

func (Appointment) TableName() string {
	return "appointment"
}
