package tools

import (
	"context"

	"github.com/donhauser001/dhs-atlas/internal/models"
)

// ServicePricingTool lists pricing entries by ids, category, or all of
// them when neither is given.
type ServicePricingTool struct {
	BaseTool
	pricings *models.Pricings
}

// NewServicePricingTool creates a get_service_pricing tool.
func NewServicePricingTool(pricings *models.Pricings) *ServicePricingTool {
	return &ServicePricingTool{
		BaseTool: BaseTool{
			Def: ToolDefinition{
				Name: "get_service_pricing",
				Description: `获取服务定价列表。当用户询问有哪些服务或服务价格时使用。

示例用户问题：
- "有哪些服务定价"
- "翻译类服务的价格是多少"`,
				Parameters: &JSONSchema{
					Type: "object",
					Properties: map[string]*JSONSchema{
						"category":    {Type: "string", Description: "服务分类，如'校对'、'翻译'"},
						"service_ids": {Type: "array", Description: "服务ID列表", Items: &JSONSchema{Type: "string"}},
					},
				},
			},
		},
		pricings: pricings,
	}
}

// Execute returns the matching pricing entries as a list of maps.
func (t *ServicePricingTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	var (
		services []models.ServicePricing
		err      error
	)

	if ids := stringListParam(params, "service_ids"); len(ids) > 0 {
		services, err = t.pricings.FindByIDs(ctx, ids)
	} else if category := stringParam(params, "category"); category != "" {
		services, err = t.pricings.ListByCategory(ctx, category)
	} else {
		services, err = t.pricings.ListAll(ctx, true)
	}
	if err != nil {
		return nil, err
	}

	result := make([]map[string]any, 0, len(services))
	for i := range services {
		result = append(result, services[i].ToMap())
	}
	return result, nil
}
