package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"findash-api/internal/models"
	"findash-api/internal/repository"
)

// CatalogService groups the reference data the review screen needs:
// categories, suppliers and clients.
type CatalogService struct {
	categories *repository.CategoryRepository
	suppliers  *repository.SupplierRepository
	clients    *repository.ClientRepository
}

func NewCatalogService(
	categories *repository.CategoryRepository,
	suppliers *repository.SupplierRepository,
	clients *repository.ClientRepository,
) *CatalogService {
	return &CatalogService{
		categories: categories,
		suppliers:  suppliers,
		clients:    clients,
	}
}

func (s *CatalogService) CategoryGroups(companyID string) ([]models.CategoryGroup, error) {
	return s.categories.GroupsWithCategories(companyID)
}

func (s *CatalogService) CreateCategory(companyID string, req models.CategoryRequest) (*models.Category, error) {
	category := &models.Category{
		ID:        uuid.NewString(),
		GroupID:   req.GroupID,
		CompanyID: companyID,
		Name:      req.Name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := s.categories.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) Suppliers(companyID string, limit, offset int, search string) ([]models.Supplier, int, error) {
	return s.suppliers.FindAll(companyID, limit, offset, search)
}

func (s *CatalogService) ActiveSuppliers(companyID string) ([]models.Supplier, error) {
	return s.suppliers.ActiveByCompany(companyID)
}

func (s *CatalogService) CreateSupplier(companyID string, req models.PartyRequest) (*models.Supplier, error) {
	supplier := &models.Supplier{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Name:      req.Name,
		Document:  req.Document,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    true,
	}
	if err := s.suppliers.Create(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *CatalogService) UpdateSupplier(companyID, id string, req models.PartyRequest) (*models.Supplier, error) {
	supplier, err := s.suppliers.FindByID(companyID, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	applyPartyRequest(&supplier.Name, &supplier.Document, &supplier.Email, &supplier.Phone, &supplier.Active, req)
	if err := s.suppliers.Update(supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *CatalogService) DeleteSupplier(companyID, id string) error {
	if _, err := s.suppliers.FindByID(companyID, id); errors.Is(err, repository.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.suppliers.Delete(companyID, id)
}

func (s *CatalogService) Clients(companyID string, limit, offset int, search string) ([]models.Client, int, error) {
	return s.clients.FindAll(companyID, limit, offset, search)
}

func (s *CatalogService) ActiveClients(companyID string) ([]models.Client, error) {
	return s.clients.ActiveByCompany(companyID)
}

func (s *CatalogService) CreateClient(companyID string, req models.PartyRequest) (*models.Client, error) {
	client := &models.Client{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Name:      req.Name,
		Document:  req.Document,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    true,
	}
	if err := s.clients.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *CatalogService) UpdateClient(companyID, id string, req models.PartyRequest) (*models.Client, error) {
	client, err := s.clients.FindByID(companyID, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	applyPartyRequest(&client.Name, &client.Document, &client.Email, &client.Phone, &client.Active, req)
	if err := s.clients.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *CatalogService) DeleteClient(companyID, id string) error {
	if _, err := s.clients.FindByID(companyID, id); errors.Is(err, repository.ErrNoRows) {
		return ErrNotFound
	} else if err != nil {
		return err
	}
	return s.clients.Delete(companyID, id)
}

func applyPartyRequest(name, document, email, phone *string, active *bool, req models.PartyRequest) {
	if req.Name != "" {
		*name = req.Name
	}
	if req.Document != "" {
		*document = req.Document
	}
	if req.Email != "" {
		*email = req.Email
	}
	if req.Phone != "" {
		*phone = req.Phone
	}
	if req.Active != nil {
		*active = *req.Active
	}
}
