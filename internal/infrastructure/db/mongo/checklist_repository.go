package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/onboardhq/onboarding-system/internal/core/authz"
	"github.com/onboardhq/onboarding-system/internal/core/domain"
	"github.com/onboardhq/onboarding-system/internal/core/ports"
)

const checklistCollection = "checklists"

type MongoChecklistRepository struct {
	coll *mongo.Collection
}

func NewChecklistRepository(db *mongo.Database) *MongoChecklistRepository {
	return &MongoChecklistRepository{coll: db.Collection(checklistCollection)}
}

type mongoChecklistItem struct {
	Title       string `bson:"title"`
	Description string `bson:"description,omitempty"`
	Category    string `bson:"category,omitempty"`
	Done        bool   `bson:"done"`
}

type mongoChecklist struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Slug       string               `bson:"slug"`
	UserID     string               `bson:"user_id"`
	Role       string               `bson:"role"`
	Department string               `bson:"department"`
	Items      []mongoChecklistItem `bson:"items"`
	AssignedTo string               `bson:"assigned_to,omitempty"`
	CreatedAt  int64                `bson:"created_at"`
	UpdatedAt  int64                `bson:"updated_at"`
}

func toMongoChecklist(cl *domain.Checklist) mongoChecklist {
	items := make([]mongoChecklistItem, len(cl.Items))
	for i, item := range cl.Items {
		items[i] = mongoChecklistItem(item)
	}
	return mongoChecklist{
		Slug:       cl.Slug,
		UserID:     cl.UserID,
		Role:       cl.Role,
		Department: cl.Department,
		Items:      items,
		AssignedTo: cl.AssignedTo,
		CreatedAt:  cl.CreatedAt.Unix(),
		UpdatedAt:  cl.UpdatedAt.Unix(),
	}
}

func (mc mongoChecklist) toDomain() *domain.Checklist {
	items := make([]domain.ChecklistItem, len(mc.Items))
	for i, item := range mc.Items {
		items[i] = domain.ChecklistItem(item)
	}
	return &domain.Checklist{
		ID:         mc.ID.Hex(),
		Slug:       mc.Slug,
		UserID:     mc.UserID,
		Role:       mc.Role,
		Department: mc.Department,
		Items:      items,
		AssignedTo: mc.AssignedTo,
		CreatedAt:  unixToTime(mc.CreatedAt),
		UpdatedAt:  unixToTime(mc.UpdatedAt),
	}
}

func (r *MongoChecklistRepository) Create(ctx context.Context, checklist *domain.Checklist) (*domain.Checklist, error) {
	res, err := r.coll.InsertOne(ctx, toMongoChecklist(checklist))
	if err != nil {
		return nil, fmt.Errorf("insert checklist: %w", err)
	}

	created := *checklist
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoChecklistRepository) FindByID(ctx context.Context, id string) (*domain.Checklist, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrChecklistNotFound
	}

	var mc mongoChecklist
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrChecklistNotFound
		}
		return nil, fmt.Errorf("find checklist: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoChecklistRepository) FindBySlug(ctx context.Context, slug string) (*domain.Checklist, error) {
	var mc mongoChecklist
	if err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrChecklistNotFound
		}
		return nil, fmt.Errorf("find checklist by slug: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoChecklistRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Checklist, error) {
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list checklists: %w", err)
	}
	defer cur.Close(ctx)

	var checklists []*domain.Checklist
	for cur.Next(ctx) {
		var mc mongoChecklist
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode checklist: %w", err)
		}
		checklists = append(checklists, mc.toDomain())
	}
	return checklists, cur.Err()
}

func (r *MongoChecklistRepository) Update(ctx context.Context, checklist *domain.Checklist) (*domain.Checklist, error) {
	oid, err := primitive.ObjectIDFromHex(checklist.ID)
	if err != nil {
		return nil, domain.ErrChecklistNotFound
	}

	items := make([]mongoChecklistItem, len(checklist.Items))
	for i, item := range checklist.Items {
		items[i] = mongoChecklistItem(item)
	}

	update := bson.M{"$set": bson.M{
		"items":       items,
		"assigned_to": checklist.AssignedTo,
		"updated_at":  checklist.UpdatedAt.Unix(),
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return nil, fmt.Errorf("update checklist: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrChecklistNotFound
	}
	return checklist, nil
}

// ChecklistResourceQuery adapts the repository to the middleware's resource
// query shape: a missing checklist is (nil, nil), not an error, so the guard
// can answer 404 instead of 500.
func ChecklistResourceQuery(repo ports.ChecklistRepository) func(ctx context.Context, id string) (authz.Resource, error) {
	return func(ctx context.Context, id string) (authz.Resource, error) {
		checklist, err := repo.FindByID(ctx, id)
		if errors.Is(err, domain.ErrChecklistNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return checklist, nil
	}
}
