package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/donhauser001/dhs-atlas/internal/store"
)

// PricingCollection is the MongoDB collection holding service pricing records.
const PricingCollection = "servicepricings"

// ServicePricing is a priced service offering.
type ServicePricing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Unit        string             `bson:"unit"` // 千字、本、次 etc.
	BasePrice   float64            `bson:"basePrice"`
	Category    string             `bson:"category"`
	IsActive    bool               `bson:"isActive"`
}

// ToMap converts the record to a JSON-friendly map with the field names
// the frontend expects.
func (p *ServicePricing) ToMap() map[string]any {
	return map[string]any{
		"id":          p.ID.Hex(),
		"name":        p.Name,
		"description": p.Description,
		"unit":        p.Unit,
		"basePrice":   p.BasePrice,
		"category":    p.Category,
		"isActive":    p.IsActive,
	}
}

// Pricings is the data access layer for service pricing records.
type Pricings struct {
	store *store.Store
}

// NewPricings creates a pricing accessor bound to the store.
func NewPricings(s *store.Store) *Pricings {
	return &Pricings{store: s}
}

func (p *Pricings) collection() *mongo.Collection {
	return p.store.Collection(PricingCollection)
}

// FindByID looks up a pricing entry by its hex id. Returns (nil, nil)
// when no entry matches.
func (p *Pricings) FindByID(ctx context.Context, id string) (*ServicePricing, error) {
	oid, err := store.ToObjectID(id)
	if err != nil {
		return nil, err
	}
	var pricing ServicePricing
	err = p.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&pricing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find service pricing %s: %w", id, err)
	}
	return &pricing, nil
}

// FindByIDs batch-loads pricing entries by hex id. Ids that are empty or
// not valid ObjectIDs are skipped rather than failing the whole lookup.
func (p *Pricings) FindByIDs(ctx context.Context, ids []string) ([]ServicePricing, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, oid)
	}
	if len(objectIDs) == 0 {
		return nil, nil
	}

	cursor, err := p.collection().Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find service pricings: %w", err)
	}
	var pricings []ServicePricing
	if err := cursor.All(ctx, &pricings); err != nil {
		return nil, fmt.Errorf("failed to decode service pricings: %w", err)
	}
	return pricings, nil
}

// ListByCategory returns the active pricing entries in a category.
func (p *Pricings) ListByCategory(ctx context.Context, category string) ([]ServicePricing, error) {
	cursor, err := p.collection().Find(ctx, bson.M{"category": category, "isActive": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list service pricings: %w", err)
	}
	var pricings []ServicePricing
	if err := cursor.All(ctx, &pricings); err != nil {
		return nil, fmt.Errorf("failed to decode service pricings: %w", err)
	}
	return pricings, nil
}

// ListAll returns pricing entries, active ones only unless activeOnly is
// false.
func (p *Pricings) ListAll(ctx context.Context, activeOnly bool) ([]ServicePricing, error) {
	query := bson.M{}
	if activeOnly {
		query["isActive"] = true
	}
	cursor, err := p.collection().Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list service pricings: %w", err)
	}
	var pricings []ServicePricing
	if err := cursor.All(ctx, &pricings); err != nil {
		return nil, fmt.Errorf("failed to decode service pricings: %w", err)
	}
	return pricings, nil
}

// Categories returns the distinct service pricing categories.
func (p *Pricings) Categories(ctx context.Context) ([]string, error) {
	values, err := p.collection().Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

// Count returns the number of pricing entries matching query (all when nil).
func (p *Pricings) Count(ctx context.Context, query bson.M) (int64, error) {
	if query == nil {
		query = bson.M{}
	}
	count, err := p.collection().CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count service pricings: %w", err)
	}
	return count, nil
}
