package tools

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/donhauser001/dhs-atlas/internal/store"
)

// QueryCollectionTool runs an ad-hoc find when no dedicated tool covers
// the question. Hex strings in _id positions are converted to ObjectIDs
// before the query runs.
type QueryCollectionTool struct {
	BaseTool
	store *store.Store
}

// NewQueryCollectionTool creates a query_collection tool.
func NewQueryCollectionTool(s *store.Store) *QueryCollectionTool {
	return &QueryCollectionTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name: "query_collection",
				Description: `通用数据库查询工具。当没有专门的工具可用时，可以使用此工具直接查询数据库。
优先使用专门的工具（如 get_client_detail、query_client_quotation）。`,
				Parameters: &JSONSchema{
					Type: "object",
					Properties: map[string]*JSONSchema{
						"collection": {Type: "string", Description: "集合名称"},
						"query":      {Type: "object", Description: "查询条件，MongoDB 查询语法"},
						"projection": {Type: "object", Description: "字段投影，指定返回哪些字段"},
						"sort":       {Type: "object", Description: "排序规则，如 {'createTime': -1}"},
						"limit":      {Type: "integer", Description: "返回数量限制，默认10"},
					},
					Required: []string{"collection"},
				},
			},
		},
		store: s,
	}
}

// Execute returns the matching documents as JSON-friendly maps.
func (t *QueryCollectionTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	collection := stringParam(params, "collection")
	query := store.NormalizeIDQuery(mapParam(params, "query"))
	if query == nil {
		query = map[string]any{}
	}

	opts := options.Find().SetLimit(int64(intParam(params, "limit", 10)))
	if projection := mapParam(params, "projection"); projection != nil {
		opts.SetProjection(toSortableDoc(projection))
	}
	if sortSpec := mapParam(params, "sort"); sortSpec != nil {
		opts.SetSort(toSortableDoc(sortSpec))
	}

	cursor, err := t.store.Collection(collection).Find(ctx, bson.M(query), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}

	result := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		result = append(result, store.SerializeDoc(doc))
	}
	return result, nil
}

// toSortableDoc converts a decoded JSON object to a bson.D so sort and
// projection values keep their integer meaning (JSON numbers arrive as
// float64).
func toSortableDoc(spec map[string]any) bson.D {
	doc := make(bson.D, 0, len(spec))
	for key, value := range spec {
		if f, ok := value.(float64); ok {
			doc = append(doc, bson.E{Key: key, Value: int(f)})
			continue
		}
		doc = append(doc, bson.E{Key: key, Value: value})
	}
	return doc
}

// CountDocumentsTool counts documents in a collection.
type CountDocumentsTool struct {
	BaseTool
	store *store.Store
}

// NewCountDocumentsTool creates a count_documents tool.
func NewCountDocumentsTool(s *store.Store) *CountDocumentsTool {
	return &CountDocumentsTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name:        "count_documents",
				Description: "统计集合中的文档数量。",
				Parameters: &JSONSchema{
					Type: "object",
					Properties: map[string]*JSONSchema{
						"collection": {Type: "string", Description: "集合名称"},
						"query":      {Type: "object", Description: "查询条件"},
					},
					Required: []string{"collection"},
				},
			},
		},
		store: s,
	}
}

// Execute returns the document count.
func (t *CountDocumentsTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	collection := stringParam(params, "collection")
	query := store.NormalizeIDQuery(mapParam(params, "query"))
	if query == nil {
		query = map[string]any{}
	}

	count, err := t.store.Collection(collection).CountDocuments(ctx, bson.M(query))
	if err != nil {
		return nil, fmt.Errorf("failed to count collection %s: %w", collection, err)
	}
	return count, nil
}
