package tools

import (
	"github.com/donhauser001/dhs-atlas/internal/models"
	"github.com/donhauser001/dhs-atlas/internal/store"
)

// DefaultRegistry builds the registry with every data-access tool bound
// to the store. Registration order is the order tools appear in the
// system prompt.
func DefaultRegistry(s *store.Store) *Registry {
	clients := models.NewClients(s)
	quotations := models.NewQuotations(s)
	pricings := models.NewPricings(s)

	r := NewRegistry()

	// CRM
	r.Register(NewClientDetailTool(clients))
	r.Register(NewSearchClientsTool(clients))
	r.Register(NewClientCategoriesTool(clients))

	// 财务
	r.Register(NewQuotationDetailTool(quotations))
	r.Register(NewClientQuotationTool(clients, quotations, pricings))
	r.Register(NewServicePricingTool(pricings))

	// Schema
	r.Register(NewCollectionSchemaTool(s))
	r.Register(NewListCollectionsTool(s))

	// 通用查询
	r.Register(NewQueryCollectionTool(s))
	r.Register(NewCountDocumentsTool(s))

	return r
}
