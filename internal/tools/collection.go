package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/donhauser001/dhs-atlas/internal/store"
)

// CollectionSchemaTool infers a collection's field structure from a
// sampled document, so the model can learn the shape of data it has no
// dedicated tool for.
type CollectionSchemaTool struct {
	BaseTool
	store *store.Store
}

// NewCollectionSchemaTool creates a get_collection_schema tool.
func NewCollectionSchemaTool(s *store.Store) *CollectionSchemaTool {
	return &CollectionSchemaTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name:        "get_collection_schema",
				Description: "获取集合的数据结构。当AI不确定某个集合有哪些字段时使用此工具。",
				Parameters: &JSONSchema{
					Type: "object",
					Properties: map[string]*JSONSchema{
						"collection_name": {Type: "string", Description: "集合名称，如'clients'、'quotations'"},
					},
					Required: []string{"collection_name"},
				},
			},
		},
		store: s,
	}
}

// Execute samples one document and reports per-field type and example.
func (t *CollectionSchemaTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	name := stringParam(params, "collection_name")
	collection := t.store.Collection(name)

	var sample bson.M
	err := collection.FindOne(ctx, bson.M{}).Decode(&sample)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return map[string]any{
			"collection": name,
			"fields":     []map[string]any{},
			"sample":     nil,
			"count":      0,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to sample collection %s: %w", name, err)
	}

	keys := make([]string, 0, len(sample))
	for key := range sample {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fields := make([]map[string]any, 0, len(sample))
	for _, key := range keys {
		value := sample[key]
		fields = append(fields, map[string]any{
			"name":    key,
			"type":    fieldTypeName(value),
			"example": fieldExample(value),
		})
	}

	count, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count collection %s: %w", name, err)
	}

	return map[string]any{
		"collection": name,
		"fields":     fields,
		"count":      count,
	}, nil
}

func fieldTypeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int32, int64, int:
		return "int"
	case float64:
		return "float"
	case primitive.ObjectID:
		return "objectId"
	case primitive.DateTime, time.Time:
		return "date"
	case bson.A, []any:
		return "array"
	case bson.M, bson.D, map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func fieldExample(value any) string {
	switch v := value.(type) {
	case string:
		if len(v) > 100 {
			return v[:100] + "..."
		}
		return v
	case bson.A:
		return fmt.Sprintf("[array with %d items]", len(v))
	case []any:
		return fmt.Sprintf("[array with %d items]", len(v))
	case bson.M:
		return fmt.Sprintf("{object with %d keys}", len(v))
	case bson.D:
		return fmt.Sprintf("{object with %d keys}", len(v))
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ListCollectionsTool lists the database's collections with their
// document counts, largest first.
type ListCollectionsTool struct {
	BaseTool
	store *store.Store
}

// NewListCollectionsTool creates a list_collections tool.
func NewListCollectionsTool(s *store.Store) *ListCollectionsTool {
	return &ListCollectionsTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name:        "list_collections",
				Description: "列出数据库中所有集合。当AI需要了解数据库有哪些数据表时使用。",
				Parameters:  &JSONSchema{Type: "object"},
			},
		},
		store: s,
	}
}

// Execute returns {name, count} per collection, skipping system
// collections, sorted by count descending.
func (t *ListCollectionsTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	names, err := t.store.ListCollectionNames(ctx)
	if err != nil {
		return nil, err
	}

	type entry struct {
		name  string
		count int64
	}
	entries := make([]entry, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, "system.") {
			continue
		}
		count, err := t.store.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("failed to count collection %s: %w", name, err)
		}
		entries = append(entries, entry{name: name, count: count})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})

	result := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		result = append(result, map[string]any{
			"name":  e.name,
			"count": e.count,
		})
	}
	return result, nil
}
