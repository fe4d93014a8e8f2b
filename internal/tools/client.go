package tools

import (
	"context"

	"github.com/donhauser001/dhs-atlas/internal/models"
)

// ClientDetailTool looks up a single client by name.
type ClientDetailTool struct {
	BaseTool
	clients *models.Clients
}

// NewClientDetailTool creates a get_client_detail tool.
func NewClientDetailTool(clients *models.Clients) *ClientDetailTool {
	return &ClientDetailTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name: "get_client_detail",
				Description: `获取客户详情。当用户询问某个客户的具体信息时使用此工具。
返回客户的完整信息，包括：名称、地址、发票类型、分类、评级、关联报价单ID等。

示例用户问题：
- "查看中信出版社的信息"
- "中信出版社的详情是什么"`,
				Parameters: &JSONSchema{
					Type: "object",
					Properties: map[string]*JSONSchema{
						"name": {Type: "string", Description: "客户名称，如'中信出版社'"},
					},
					Required: []string{"name"},
				},
			},
		},
		clients: clients,
	}
}

// Execute returns the client as a map, or nil when no client matches.
func (t *ClientDetailTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	client, err := t.clients.FindByName(ctx, stringParam(params, "name"))
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	return client.ToMap(), nil
}

// SearchClientsTool lists clients by keyword and category.
type SearchClientsTool struct {
	BaseTool
	clients *models.Clients
}

// NewSearchClientsTool creates a search_clients tool.
func NewSearchClientsTool(clients *models.Clients) *SearchClientsTool {
	return &SearchClientsTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name: "search_clients",
				Description: `搜索客户列表。当用户想要查找或列出多个客户时使用此工具。

示例用户问题：
- "列出所有客户"
- "搜索包含'出版'的客户"
- "北京出版社分类下有哪些客户"`,
				Parameters: &JSONSchema{
					Type: "object",
					Properties: map[string]*JSONSchema{
						"keyword":  {Type: "string", Description: "搜索关键词，可搜索名称或地址"},
						"category": {Type: "string", Description: "客户分类，如'北京出版社'"},
						"limit":    {Type: "integer", Description: "返回数量限制，默认20"},
					},
				},
			},
		},
		clients: clients,
	}
}

// Execute returns the matching clients as a list of maps.
func (t *SearchClientsTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	clients, err := t.clients.Search(ctx,
		stringParam(params, "keyword"),
		stringParam(params, "category"),
		int64(intParam(params, "limit", 20)))
	if err != nil {
		return nil, err
	}
	result := make([]map[string]any, 0, len(clients))
	for i := range clients {
		result = append(result, clients[i].ToMap())
	}
	return result, nil
}

// ClientCategoriesTool lists the distinct client categories.
type ClientCategoriesTool struct {
	BaseTool
	clients *models.Clients
}

// NewClientCategoriesTool creates a get_client_categories tool.
func NewClientCategoriesTool(clients *models.Clients) *ClientCategoriesTool {
	return &ClientCategoriesTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name:        "get_client_categories",
				Description: "获取所有客户分类。当用户询问有哪些客户分类时使用此工具。",
				Parameters:  &JSONSchema{Type: "object"},
			},
		},
		clients: clients,
	}
}

// Execute returns the category names.
func (t *ClientCategoriesTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	return t.clients.Categories(ctx)
}
