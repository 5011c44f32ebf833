package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

const auditCollection = "order_audit"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// EnsureIndexes creates the actor/time index used to read one user's trail.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "actor", Value: 1}, {Key: "occurred_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}
	return nil
}

// InsertEvent appends an audit event to the order_audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.AuditEvent) error {
	_, err := r.db.Collection(auditCollection).InsertOne(ctx, auditDocument(event, time.Now()))
	return err
}

func auditDocument(event *domain.AuditEvent, processedAt time.Time) bson.M {
	doc := bson.M{
		"action":       string(event.Action),
		"actor":        event.Actor,
		"occurred_at":  event.OccurredAt.UTC(),
		"processed_at": processedAt.UTC(),
	}
	if event.OrderID != 0 {
		doc["order_id"] = event.OrderID
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}
	return doc
}
