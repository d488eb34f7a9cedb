package service

import (
	"findash-api/internal/models"
	"findash-api/internal/repository"
)

// repoPartyStore adapts the supplier and client repositories to the single
// PartyStore surface the import workflow uses.
type repoPartyStore struct {
	suppliers *repository.SupplierRepository
	clients   *repository.ClientRepository
}

func NewPartyStore(suppliers *repository.SupplierRepository, clients *repository.ClientRepository) PartyStore {
	return &repoPartyStore{suppliers: suppliers, clients: clients}
}

func (p *repoPartyStore) ActiveSuppliers(companyID string) ([]models.Supplier, error) {
	return p.suppliers.ActiveByCompany(companyID)
}

func (p *repoPartyStore) ActiveClients(companyID string) ([]models.Client, error) {
	return p.clients.ActiveByCompany(companyID)
}

func (p *repoPartyStore) SupplierExists(id string) (bool, error) {
	return p.suppliers.ExistsByID(id)
}
