package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

const auditCollection = "audit_events"

// MongoAuditRepository is the append-only audit log.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	UserID    string `bson:"user_id,omitempty"`
	Action    string `bson:"action"`
	Detail    string `bson:"detail,omitempty"`
	IP        string `bson:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	doc := mongoAuditEvent{
		UserID:    event.UserID,
		Action:    string(event.Action),
		Detail:    event.Detail,
		IP:        event.IP,
		UserAgent: event.UserAgent,
		CreatedAt: event.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
