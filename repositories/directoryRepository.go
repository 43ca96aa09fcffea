package repositories

import (
	"context"
	"fmt"
	"time"

	"clinicdesk/database"
	"clinicdesk/models"
)

// DirectoryRepository answers the engine's doctor/patient existence checks.
type DirectoryRepository struct{}

func NewDirectoryRepository() *DirectoryRepository {
	return &DirectoryRepository{}
}

func (r *DirectoryRepository) ExistsDoctor(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, &models.Doctor{}, id)
}

func (r *DirectoryRepository) ExistsPatient(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, &models.Patient{}, id)
}

func (r *DirectoryRepository) exists(ctx context.Context, model interface{}, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var count int64
	if err := database.DB.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed existence check: %w", err)
	}
	return count > 0, nil
}
