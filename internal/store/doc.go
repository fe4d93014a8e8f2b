package store

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToObjectID converts a hex string to an ObjectID.
func ToObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid object id %q: %w", id, err)
	}
	return oid, nil
}

// SerializeDoc converts a decoded document into a JSON-friendly map,
// turning ObjectIDs into hex strings recursively.
func SerializeDoc(doc bson.M) map[string]any {
	if doc == nil {
		return nil
	}
	result := make(map[string]any, len(doc))
	for key, value := range doc {
		result[key] = serializeValue(value)
	}
	return result
}

func serializeValue(value any) any {
	switch v := value.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time()
	case bson.M:
		return SerializeDoc(v)
	case map[string]any:
		return SerializeDoc(bson.M(v))
	case bson.D:
		return SerializeDoc(v.Map())
	case bson.A:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = serializeValue(item)
		}
		return items
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = serializeValue(item)
		}
		return items
	default:
		return value
	}
}

// NormalizeIDQuery rewrites _id values inside a caller-supplied query so
// that 24-char hex strings become ObjectIDs. Handles the direct form
// {"_id": "..."} and the list form {"_id": {"$in": [...]}}; other keys
// are walked recursively. Strings that fail conversion are left as-is.
func NormalizeIDQuery(query map[string]any) map[string]any {
	if query == nil {
		return nil
	}
	result := make(map[string]any, len(query))
	for key, value := range query {
		if key == "_id" {
			result[key] = normalizeIDValue(value)
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			result[key] = NormalizeIDQuery(nested)
			continue
		}
		result[key] = value
	}
	return result
}

func normalizeIDValue(value any) any {
	switch v := value.(type) {
	case string:
		if oid, err := primitive.ObjectIDFromHex(v); err == nil {
			return oid
		}
		return v
	case map[string]any:
		in, ok := v["$in"]
		if !ok {
			return v
		}
		ids, ok := in.([]any)
		if !ok {
			return v
		}
		converted := make([]any, len(ids))
		for i, id := range ids {
			if s, ok := id.(string); ok && len(s) == 24 {
				if oid, err := primitive.ObjectIDFromHex(s); err == nil {
					converted[i] = oid
					continue
				}
			}
			converted[i] = id
		}
		return map[string]any{"$in": converted}
	default:
		return value
	}
}
