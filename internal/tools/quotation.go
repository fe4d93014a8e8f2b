package tools

import (
	"context"
	"fmt"

	"github.com/donhauser001/dhs-atlas/internal/models"
)

// QuotationDetailTool looks up a quotation by id or name.
type QuotationDetailTool struct {
	BaseTool
	quotations *models.Quotations
}

// NewQuotationDetailTool creates a get_quotation_detail tool.
func NewQuotationDetailTool(quotations *models.Quotations) *QuotationDetailTool {
	return &QuotationDetailTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name: "get_quotation_detail",
				Description: `获取报价单详情。当用户知道报价单ID或名称时直接查询。
需要提供 quotation_id 或 name 之一。`,
				Parameters: &JSONSchema{
					Type: "object",
					Properties: map[string]*JSONSchema{
						"quotation_id": {Type: "string", Description: "报价单ID"},
						"name":         {Type: "string", Description: "报价单名称"},
					},
				},
			},
		},
		quotations: quotations,
	}
}

// Execute returns the quotation as a map, or nil when no quotation matches.
func (t *QuotationDetailTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	var quotation *models.Quotation
	var err error

	if id := stringParam(params, "quotation_id"); id != "" {
		quotation, err = t.quotations.FindByID(ctx, id)
	} else if name := stringParam(params, "name"); name != "" {
		quotation, err = t.quotations.FindByName(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, nil
	}
	return quotation.ToMap(), nil
}

// ClientQuotationTool is the composite lookup: client by name, their
// bound quotation, and the pricing entries the quotation covers. It
// short-circuits with a message instead of an error when a step has no
// data, so the model can explain the situation to the user.
type ClientQuotationTool struct {
	BaseTool
	clients    *models.Clients
	quotations *models.Quotations
	pricings   *models.Pricings
}

// NewClientQuotationTool creates a query_client_quotation tool.
func NewClientQuotationTool(clients *models.Clients, quotations *models.Quotations, pricings *models.Pricings) *ClientQuotationTool {
	return &ClientQuotationTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name: "query_client_quotation",
				Description: `查询客户的完整报价单信息。这是一个组合工具，会自动完成：获取客户→获取报价单→获取服务定价。当用户问'XX的报价单'时使用此工具。

示例用户问题：
- "帮我查查中信出版社的报价单"
- "中信出版社的服务定价是多少"`,
				Parameters: &JSONSchema{
					Type: "object",
					Properties: map[string]*JSONSchema{
						"client_name": {Type: "string", Description: "客户名称，如'中信出版社'"},
					},
					Required: []string{"client_name"},
				},
			},
		},
		clients:    clients,
		quotations: quotations,
		pricings:   pricings,
	}
}

// Execute runs the three lookup steps in order.
func (t *ClientQuotationTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	clientName := stringParam(params, "client_name")

	result := map[string]any{
		"client":         nil,
		"quotation":      nil,
		"services":       []map[string]any{},
		"total_services": 0,
		"message":        nil,
	}

	client, err := t.clients.FindByName(ctx, clientName)
	if err != nil {
		return nil, err
	}
	if client == nil {
		result["message"] = fmt.Sprintf("未找到客户: %s", clientName)
		return result, nil
	}
	result["client"] = client.ToMap()

	if client.QuotationID == "" {
		result["message"] = "该客户没有关联的报价单"
		return result, nil
	}

	quotation, err := t.quotations.FindByID(ctx, client.QuotationID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		result["message"] = fmt.Sprintf("报价单不存在 (ID: %s)", client.QuotationID)
		return result, nil
	}
	result["quotation"] = quotation.ToMap()

	if len(quotation.SelectedServices) > 0 {
		services, err := t.pricings.FindByIDs(ctx, quotation.SelectedServices)
		if err != nil {
			return nil, err
		}
		serviceMaps := make([]map[string]any, 0, len(services))
		for i := range services {
			serviceMaps = append(serviceMaps, services[i].ToMap())
		}
		result["services"] = serviceMaps
		result["total_services"] = len(services)
	}

	return result, nil
}
