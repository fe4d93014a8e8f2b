// Package models provides typed access to the business record collections.
package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/donhauser001/dhs-atlas/internal/store"
)

// ClientCollection is the MongoDB collection holding client records.
const ClientCollection = "clients"

// FileItem is an attachment on a client record.
type FileItem struct {
	Path         string `bson:"path" json:"path"`
	OriginalName string `bson:"originalName" json:"originalName"`
	Size         int64  `bson:"size" json:"size"`
}

// Client is a customer record.
type Client struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Address     string             `bson:"address"`
	InvoiceType string             `bson:"invoiceType"` // 增值税专用发票 | 增值税普通发票 | 不开票
	InvoiceInfo string             `bson:"invoiceInfo"`
	Category    string             `bson:"category"`
	QuotationID string             `bson:"quotationId,omitempty"`
	Rating      int                `bson:"rating"` // 1-5
	Files       []FileItem         `bson:"files"`
	Summary     string             `bson:"summary"`
	Status      string             `bson:"status"` // active | inactive
	CreateTime  string             `bson:"createTime,omitempty"`
	UpdateTime  string             `bson:"updateTime,omitempty"`
}

// ToMap converts the record to a JSON-friendly map with the field names
// the frontend expects.
func (c *Client) ToMap() map[string]any {
	files := make([]map[string]any, 0, len(c.Files))
	for _, f := range c.Files {
		files = append(files, map[string]any{
			"path":         f.Path,
			"originalName": f.OriginalName,
			"size":         f.Size,
		})
	}
	return map[string]any{
		"id":          c.ID.Hex(),
		"name":        c.Name,
		"address":     c.Address,
		"invoiceType": c.InvoiceType,
		"invoiceInfo": c.InvoiceInfo,
		"category":    c.Category,
		"quotationId": c.QuotationID,
		"rating":      c.Rating,
		"files":       files,
		"summary":     c.Summary,
		"status":      c.Status,
		"createTime":  c.CreateTime,
		"updateTime":  c.UpdateTime,
	}
}

// Clients is the data access layer for client records.
type Clients struct {
	store *store.Store
}

// NewClients creates a client accessor bound to the store.
func NewClients(s *store.Store) *Clients {
	return &Clients{store: s}
}

func (c *Clients) collection() *mongo.Collection {
	return c.store.Collection(ClientCollection)
}

// FindByName looks up a client by exact name. Returns (nil, nil) when no
// client matches.
func (c *Clients) FindByName(ctx context.Context, name string) (*Client, error) {
	var client Client
	err := c.collection().FindOne(ctx, bson.M{"name": name}).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client %q: %w", name, err)
	}
	return &client, nil
}

// FindByID looks up a client by its hex id.
func (c *Clients) FindByID(ctx context.Context, id string) (*Client, error) {
	oid, err := store.ToObjectID(id)
	if err != nil {
		return nil, err
	}
	var client Client
	err = c.collection().FindOne(ctx, bson.M{"_id": oid}).Decode(&client)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client %s: %w", id, err)
	}
	return &client, nil
}

// Search finds active clients, optionally filtered by a keyword matching
// name or address and by category.
func (c *Clients) Search(ctx context.Context, keyword, category string, limit int64) ([]Client, error) {
	if limit <= 0 {
		limit = 20
	}

	query := bson.M{"status": "active"}
	if keyword != "" {
		query["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": keyword, "$options": "i"}},
			bson.M{"address": bson.M{"$regex": keyword, "$options": "i"}},
		}
	}
	if category != "" {
		query["category"] = category
	}

	cursor, err := c.collection().Find(ctx, query, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	var clients []Client
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, fmt.Errorf("failed to decode clients: %w", err)
	}
	return clients, nil
}

// Categories returns the distinct client categories.
func (c *Clients) Categories(ctx context.Context) ([]string, error) {
	values, err := c.collection().Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list client categories: %w", err)
	}
	categories := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			categories = append(categories, s)
		}
	}
	return categories, nil
}

// Count returns the number of clients matching query (all when nil).
func (c *Clients) Count(ctx context.Context, query bson.M) (int64, error) {
	if query == nil {
		query = bson.M{}
	}
	count, err := c.collection().CountDocuments(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}
