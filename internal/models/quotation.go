package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/donhauser001/dhs-atlas/internal/store"
)

// QuotationCollection is the MongoDB collection holding quotation records.
const QuotationCollection = "quotations"

// Quotation is a price list a client can be bound to. SelectedServices
// holds the ids of the service pricing entries it covers.
type Quotation struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	Name             string             `bson:"name"`
	Status           string             `bson:"status"` // active | inactive
	ValidUntil       *time.Time         `bson:"validUntil,omitempty"`
	Description      string             `bson:"description"`
	IsDefault        bool               `bson:"isDefault"`
	SelectedServices []string           `bson:"selectedServices"`
	CreateTime       *time.Time         `bson:"createTime,omitempty"`
	UpdateTime       *time.Time         `bson:"updateTime,omitempty"`
}

// ToMap converts the record to a JSON-friendly map with the field names
// the frontend expects. Times are RFC 3339 strings, nil when unset.
func (q *Quotation) ToMap() map[string]any {
	services := q.SelectedServices
	if services == nil {
		services = []string{}
	}
	return map[string]any{
		"id":               q.ID.Hex(),
		"name":             q.Name,
		"status":           q.Status,
		"validUntil":       formatTime(q.ValidUntil),
		"description":      q.Description,
		"isDefault":        q.IsDefault,
		"selectedServices": services,
		"createTime":       formatTime(q.CreateTime),
		"updateTime":       formatTime(q.UpdateTime),
	}
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

// Quotations is the data access layer for quotation records.
type Quotations struct {
	store *store.Store
}

// NewQuotations creates a quotation accessor bound to the store.
func NewQuotations(s *store.Store) *Quotations {
	return &Quotations{store: s}
}

func (q *Quotations) collection() *mongo.Collection {
	return q.store.Collection(QuotationCollection)
}

// FindByID looks up a quotation by its hex id. Returns (nil, nil) when no
// quotation matches.
func (q *Quotations) FindByID(ctx context.Context, id string) (*Quotation, error) {
	oid, err := store.ToObjectID(id)
	if err != nil {
		return nil, err
	}
	var quotation Quotation
	err = q.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&quotation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find quotation %s: %w", id, err)
	}
	return &quotation, nil
}

// FindByName looks up a quotation by exact name.
func (q *Quotations) FindByName(ctx context.Context, name string) (*Quotation, error) {
	var quotation Quotation
	err := q.collection().FindOne(ctx, bson.M{"name": name}).Decode(&quotation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find quotation %q: %w", name, err)
	}
	return &quotation, nil
}

// FindDefault returns the active default quotation, or (nil, nil) when
// none is marked default.
func (q *Quotations) FindDefault(ctx context.Context) (*Quotation, error) {
	var quotation Quotation
	err := q.collection().FindOne(ctx, bson.M{"isDefault": true, "status": "active"}).Decode(&quotation)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find default quotation: %w", err)
	}
	return &quotation, nil
}

// ListAll returns all quotations with the given status.
func (q *Quotations) ListAll(ctx context.Context, status string) ([]Quotation, error) {
	if status == "" {
		status = "active"
	}
	cursor, err := q.collection().Find(ctx, bson.M{"status": status})
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	var quotations []Quotation
	if err := cursor.All(ctx, &quotations); err != nil {
		return nil, fmt.Errorf("failed to decode quotations: %w", err)
	}
	return quotations, nil
}

// Count returns the number of quotations matching query (all when nil).
func (q *Quotations) Count(ctx context.Context, query bson.M) (int64, error) {
	if query == nil {
		query = bson.M{}
	}
	count, err := q.collection().CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count quotations: %w", err)
	}
	return count, nil
}
