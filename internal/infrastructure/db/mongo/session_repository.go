package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onboardhq/onboarding-system/internal/core/domain"
)

const sessionCollection = "sessions"

// MongoSessionRepository is the persistent session store. Session ids are
// service-generated, so they are stored directly as _id.
type MongoSessionRepository struct {
	coll *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *MongoSessionRepository {
	return &MongoSessionRepository{coll: db.Collection(sessionCollection)}
}

type mongoSession struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	IsActive  bool   `bson:"is_active"`
	ExpiresAt int64  `bson:"expires_at"`
	CreatedAt int64  `bson:"created_at"`
	IP        string `bson:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty"`
}

func (r *MongoSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	doc := mongoSession{
		ID:        session.ID,
		UserID:    session.UserID,
		IsActive:  session.IsActive,
		ExpiresAt: session.ExpiresAt.Unix(),
		CreatedAt: session.CreatedAt.Unix(),
		IP:        session.IP,
		UserAgent: session.UserAgent,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *MongoSessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	var ms mongoSession
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &domain.Session{
		ID:        ms.ID,
		UserID:    ms.UserID,
		IsActive:  ms.IsActive,
		ExpiresAt: unixToTime(ms.ExpiresAt),
		CreatedAt: unixToTime(ms.CreatedAt),
		IP:        ms.IP,
		UserAgent: ms.UserAgent,
	}, nil
}

func (r *MongoSessionRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_active": false}})
	if err != nil {
		return fmt.Errorf("deactivate session: %w", err)
	}
	return nil
}
