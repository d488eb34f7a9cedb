package review

import (
	"context"

	"findash-api/internal/models"
	"findash-api/internal/service"
)

// serviceStore binds a controller to the import service for one company.
type serviceStore struct {
	svc       *service.ImportService
	companyID string
}

func NewServiceStore(svc *service.ImportService, companyID string) Store {
	return &serviceStore{svc: svc, companyID: companyID}
}

func (s *serviceStore) Get(_ context.Context, importID string) (*models.ImportSession, error) {
	return s.svc.Get(s.companyID, importID)
}

func (s *serviceStore) UpdateItem(_ context.Context, importID, itemID string, patch models.UpdateImportItemRequest) (*models.ImportItem, error) {
	return s.svc.UpdateItem(s.companyID, importID, itemID, patch)
}

func (s *serviceStore) UpdateItemsBatch(_ context.Context, importID string, req models.BatchUpdateImportItemsRequest) ([]models.ImportItem, error) {
	return s.svc.UpdateItemsBatch(s.companyID, importID, req)
}

func (s *serviceStore) Confirm(_ context.Context, importID string) error {
	return s.svc.Confirm(s.companyID, importID)
}

func (s *serviceStore) Cancel(_ context.Context, importID string) error {
	return s.svc.Cancel(s.companyID, importID)
}

// CatalogSource is the slice of the catalog the resolver reads.
// *service.CatalogService satisfies it.
type CatalogSource interface {
	CategoryGroups(companyID string) ([]models.CategoryGroup, error)
	ActiveSuppliers(companyID string) ([]models.Supplier, error)
	ActiveClients(companyID string) ([]models.Client, error)
}

// catalogResolver serves lookup lists from the catalog for one company.
// Suppliers and clients share the counterparty list.
type catalogResolver struct {
	catalog   CatalogSource
	companyID string
}

func NewCatalogResolver(catalog CatalogSource, companyID string) Resolver {
	return &catalogResolver{catalog: catalog, companyID: companyID}
}

func (r *catalogResolver) Counterparties(context.Context) ([]Option, error) {
	suppliers, err := r.catalog.ActiveSuppliers(r.companyID)
	if err != nil {
		return nil, err
	}
	clients, err := r.catalog.ActiveClients(r.companyID)
	if err != nil {
		return nil, err
	}

	options := make([]Option, 0, len(suppliers)+len(clients))
	for _, s := range suppliers {
		options = append(options, Option{ID: s.ID, Name: s.Name})
	}
	for _, c := range clients {
		options = append(options, Option{ID: c.ID, Name: c.Name})
	}
	return options, nil
}

func (r *catalogResolver) Categories(context.Context) ([]Option, error) {
	groups, err := r.catalog.CategoryGroups(r.companyID)
	if err != nil {
		return nil, err
	}

	var options []Option
	for _, group := range groups {
		for _, cat := range group.Categories {
			options = append(options, Option{ID: cat.ID, Name: cat.Name})
		}
	}
	return options, nil
}
