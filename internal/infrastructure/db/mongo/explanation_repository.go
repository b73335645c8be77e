package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codexplain/explainer-api/internal/core/domain"
)

const collectionExplanations = "explanations"

// ExplanationRepository is the MongoDB implementation of
// ports.ExplanationRepository.
type ExplanationRepository struct {
	col *mongo.Collection
}

func NewExplanationRepository(db *mongo.Database) *ExplanationRepository {
	return &ExplanationRepository{col: db.Collection(collectionExplanations)}
}

type explanationDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Code        string             `bson:"code"`
	Language    string             `bson:"language"`
	Explanation string             `bson:"explanation"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func (d *explanationDoc) toDomain() *domain.Explanation {
	return &domain.Explanation{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Code:        d.Code,
		Language:    d.Language,
		Explanation: d.Explanation,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

func (r *ExplanationRepository) Create(ctx context.Context, e *domain.Explanation) (*domain.Explanation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := explanationDoc{
		ID:          primitive.NewObjectID(),
		UserID:      e.UserID,
		Code:        e.Code,
		Language:    e.Language,
		Explanation: e.Explanation,
		CreatedAt:   e.CreatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert explanation: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ExplanationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Explanation, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

func (r *ExplanationRepository) ListAll(ctx context.Context) ([]*domain.Explanation, error) {
	return r.find(ctx, bson.M{})
}

func (r *ExplanationRepository) find(ctx context.Context, filter bson.M) ([]*domain.Explanation, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, newestFirst)
	if err != nil {
		return nil, fmt.Errorf("list explanations: %w", err)
	}
	defer cur.Close(ctx)

	var docs []explanationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode explanations: %w", err)
	}

	out := make([]*domain.Explanation, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// DeleteOwned deletes the explanation only when both id and owner match.
func (r *ExplanationRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrExplanationNotOwned
	}
	n, err := r.deleteOne(ctx, bson.M{"_id": oid, "userId": userID})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrExplanationNotOwned
	}
	return nil
}

func (r *ExplanationRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrExplanationNotFound
	}
	n, err := r.deleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrExplanationNotFound
	}
	return nil
}

func (r *ExplanationRepository) deleteOne(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("delete explanation: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *ExplanationRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, fmt.Errorf("delete explanations of %s: %w", userID, err)
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the per-owner listing index.
func (r *ExplanationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}
