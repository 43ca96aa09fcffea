package repositories

import (
	"context"
	"fmt"
	"time"

	"clinicdesk/database"
	"clinicdesk/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const prescriptionCollection = "prescriptions"

// PrescriptionRepository stores prescriptions in MongoDB, keyed by the
// appointment they were written for.
type PrescriptionRepository struct{}

func NewPrescriptionRepository() *PrescriptionRepository {
	return &PrescriptionRepository{}
}

func (r *PrescriptionRepository) Save(ctx context.Context, prescription *models.Prescription) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if prescription.ID == "" {
		prescription.ID = uuid.New().String()
	}
	prescription.CreatedAt = time.Now()

	coll := database.MongoCollection(prescriptionCollection)
	if _, err := coll.InsertOne(ctx, prescription); err != nil {
		return fmt.Errorf("failed to save prescription: %w", err)
	}
	return nil
}

func (r *PrescriptionRepository) FindByAppointmentID(ctx context.Context, appointmentID uint) ([]models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	coll := database.MongoCollection(prescriptionCollection)
	cursor, err := coll.Find(ctx,
		bson.M{"appointment_id": appointmentID},
		options.Find().SetSort(bson.M{"created_at": -1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query prescriptions: %w", err)
	}
	defer cursor.Close(ctx)

	var prescriptions []models.Prescription
	if err := cursor.All(ctx, &prescriptions); err != nil {
		return nil, fmt.Errorf("failed to decode prescriptions: %w", err)
	}
	return prescriptions, nil
}
