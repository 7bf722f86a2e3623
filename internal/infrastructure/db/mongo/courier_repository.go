package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/entregadores67/dispatch/internal/core/domain"
)

const collectionCouriers = "couriers"

type CourierRepository struct {
	col *mongo.Collection
}

func NewCourierRepository(db *mongo.Database) *CourierRepository {
	return &CourierRepository{col: db.Collection(collectionCouriers)}
}

// Create relies on the unique user_id and tax_id indexes; either violation
// surfaces as domain.ErrConflict.
func (r *CourierRepository) Create(ctx context.Context, p *domain.CourierProfile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, courierFromDomain(p)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: courier already registered", domain.ErrConflict)
		}
		return fmt.Errorf("insert courier: %w", err)
	}
	return nil
}

func (r *CourierRepository) FindByUserID(ctx context.Context, userID string) (*domain.CourierProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc courierDocument
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCourierNotFound
		}
		return nil, fmt.Errorf("find courier: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CourierRepository) ExistsByTaxID(ctx context.Context, taxID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"tax_id": taxID}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count couriers: %w", err)
	}
	return n > 0, nil
}

func (r *CourierRepository) List(ctx context.Context) ([]*domain.CourierProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "registered_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list couriers: %w", err)
	}
	defer cur.Close(ctx)

	var docs []courierDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode couriers: %w", err)
	}
	out := make([]*domain.CourierProfile, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *CourierRepository) SetApproval(ctx context.Context, id string, status domain.CourierStatus, verified bool, approvedAt *time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"status": string(status), "verified": verified}}
	if approvedAt != nil {
		update["$set"].(bson.M)["approved_at"] = approvedAt.UTC()
	} else {
		update["$unset"] = bson.M{"approved_at": ""}
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update courier approval: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCourierNotFound
	}
	return nil
}

func (r *CourierRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "tax_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
