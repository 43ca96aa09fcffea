package services

import (
	"testing"
	"time"

	"clinicdesk/models"
)

func doctorWithMarkers(id string, markers ...string) models.Doctor {
	d := models.Doctor{ID: id}
	for _, m := range markers {
		d.Availability = append(d.Availability, models.DoctorAvailability{Time: m})
	}
	return d
}

func TestFilterDoctorsByPeriod(t *testing.T) {
	doctors := []models.Doctor{
		doctorWithMarkers("DR-000001", "09:00", "10:30"),
		doctorWithMarkers("DR-000002", "14:00"),
		doctorWithMarkers("DR-000003", "11:00", "16:00"),
		doctorWithMarkers("DR-000004"),
		doctorWithMarkers("DR-000005", "bogus"),
	}

	tests := []struct {
		period string
		want   []string
	}{
		{"", []string{"DR-000001", "DR-000002", "DR-000003", "DR-000004", "DR-000005"}},
		{"AM", []string{"DR-000001", "DR-000003"}},
		{"am", []string{"DR-000001", "DR-000003"}},
		{"PM", []string{"DR-000002", "DR-000003"}},
	}
	for _, tt := range tests {
		t.Run("period "+tt.period, func(t *testing.T) {
			got := FilterDoctorsByPeriod(doctors, tt.period)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d doctors, want %d", len(got), len(tt.want))
			}
			for i, d := range got {
				if d.ID != tt.want[i] {
					t.Errorf("at %d: got %s, want %s", i, d.ID, tt.want[i])
				}
			}
		})
	}
}

func TestFilterPatientAppointments(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	appointments := []models.Appointment{
		{ID: 1, AppointmentTime: now.AddDate(0, 0, -7), Doctor: models.Doctor{FirstName: "Grace", LastName: "Hopper"}},
		{ID: 2, AppointmentTime: now.AddDate(0, 0, 7), Doctor: models.Doctor{FirstName: "Grace", LastName: "Hopper"}},
		{ID: 3, AppointmentTime: now.AddDate(0, 0, 14), Doctor: models.Doctor{FirstName: "Alan", LastName: "Turing"}},
	}

	tests := []struct {
		name       string
		condition  string
		doctorName string
		want       []uint
	}{
		{"no filters", "", "", []uint{1, 2, 3}},
		{"past only", "past", "", []uint{1}},
		{"future only", "future", "", []uint{2, 3}},
		{"doctor name substring", "", "hopp", []uint{1, 2}},
		{"doctor and condition", "future", "HOPPER", []uint{2}},
		{"unknown condition", "someday", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := filterPatientAppointments(appointments, tt.condition, tt.doctorName, now)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d appointments, want %d", len(got), len(tt.want))
			}
			for i, a := range got {
				if a.ID != tt.want[i] {
					t.Errorf("at %d: got id %d, want %d", i, a.ID, tt.want[i])
				}
			}
		})
	}
}
