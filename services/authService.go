package services

import (
	"context"
	"errors"

	"clinicdesk/repositories"
	"clinicdesk/utils"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is the verified caller the rest of the system consumes: an id and
// a role string, nothing token-shaped.
type Identity struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// AuthService authenticates the three account kinds and issues tokens.
type AuthService struct {
	adminRepo   *repositories.AdminRepository
	doctorRepo  *repositories.DoctorRepository
	patientRepo *repositories.PatientRepository
}

func NewAuthService(adminRepo *repositories.AdminRepository, doctorRepo *repositories.DoctorRepository, patientRepo *repositories.PatientRepository) *AuthService {
	return &AuthService{adminRepo: adminRepo, doctorRepo: doctorRepo, patientRepo: patientRepo}
}

// LoginAdmin authenticates by username.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (Identity, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, username)
	if err != nil {
		return Identity{}, err
	}
	if admin == nil || !utils.CheckPassword(admin.Password, password) {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{UserID: admin.ID, Role: utils.RoleAdmin}, nil
}

// LoginDoctor authenticates by email.
func (s *AuthService) LoginDoctor(ctx context.Context, email, password string) (Identity, error) {
	doctor, err := s.doctorRepo.GetByEmail(ctx, email)
	if err != nil {
		return Identity{}, err
	}
	if doctor == nil || !utils.CheckPassword(doctor.Password, password) {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{UserID: doctor.ID, Role: utils.RoleDoctor}, nil
}

// LoginPatient authenticates by email.
func (s *AuthService) LoginPatient(ctx context.Context, email, password string) (Identity, error) {
	patient, err := s.patientRepo.GetByEmail(ctx, email)
	if err != nil {
		return Identity{}, err
	}
	if patient == nil || !utils.CheckPassword(patient.Password, password) {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{UserID: patient.ID, Role: utils.RolePatient}, nil
}
