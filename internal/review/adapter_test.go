package review

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findash-api/internal/models"
	"findash-api/internal/repository"
	"findash-api/internal/service"
)

// In-memory backends for the real import service, so the controller can be
// exercised end to end through NewServiceStore and NewCatalogResolver.

type memImportStore struct {
	sessions map[string]*models.ImportSession
	items    map[string][]models.ImportItem
}

func newMemImportStore() *memImportStore {
	return &memImportStore{
		sessions: make(map[string]*models.ImportSession),
		items:    make(map[string][]models.ImportItem),
	}
}

func (m *memImportStore) CreateSession(session *models.ImportSession, items []models.ImportItem) error {
	copied := *session
	m.sessions[session.ID] = &copied
	m.items[session.ID] = append([]models.ImportItem{}, items...)
	return nil
}

func (m *memImportStore) SessionByID(companyID, id string) (*models.ImportSession, error) {
	session, ok := m.sessions[id]
	if !ok || session.CompanyID != companyID {
		return nil, repository.ErrNoRows
	}
	copied := *session
	return &copied, nil
}

func (m *memImportStore) ItemsByImportID(importID string) ([]models.ImportItem, error) {
	return append([]models.ImportItem{}, m.items[importID]...), nil
}

func (m *memImportStore) Item(importID, itemID string) (*models.ImportItem, error) {
	for _, item := range m.items[importID] {
		if item.ID == itemID {
			copied := item
			return &copied, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (m *memImportStore) Summaries(companyID string) ([]models.ImportSummary, error) {
	summaries := []models.ImportSummary{}
	for _, session := range m.sessions {
		if session.CompanyID == companyID {
			summaries = append(summaries, models.ImportSummary{
				ID:           session.ID,
				FileName:     session.FileName,
				FileType:     session.FileType,
				Status:       session.Status,
				TotalRecords: session.TotalRecords,
				CreatedAt:    session.CreatedAt,
			})
		}
	}
	return summaries, nil
}

func (m *memImportStore) SaveItemClassification(item *models.ImportItem) error {
	items := m.items[item.ImportID]
	for i := range items {
		if items[i].ID == item.ID {
			items[i].SupplierID = item.SupplierID
			items[i].CategoryID = item.CategoryID
			items[i].AccountType = item.AccountType
		}
	}
	return nil
}

func (m *memImportStore) SaveItemClassifications(items []models.ImportItem) error {
	for i := range items {
		if err := m.SaveItemClassification(&items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memImportStore) SetSessionStatus(id, status string) error {
	if session, ok := m.sessions[id]; ok {
		session.Status = status
	}
	return nil
}

func (m *memImportStore) DeleteItems(importID string) error {
	delete(m.items, importID)
	return nil
}

type memEntryStore struct {
	inserted []models.Entry
}

func (m *memEntryStore) BulkInsert(entries []models.Entry) error {
	m.inserted = append(m.inserted, entries...)
	return nil
}

func (m *memEntryStore) ExistsSimilar(string, time.Time, decimal.Decimal, string) (bool, error) {
	return false, nil
}

type memRuleStore struct {
	upserts int
}

func (m *memRuleStore) ByCompany(string) ([]models.SupplierMatchRule, error) { return nil, nil }

func (m *memRuleStore) Upsert(string, string, string, *string) error {
	m.upserts++
	return nil
}

type memPartyStore struct{}

func (m *memPartyStore) ActiveSuppliers(string) ([]models.Supplier, error) {
	return []models.Supplier{{ID: "sup-1", Name: "ACME", Active: true}}, nil
}

func (m *memPartyStore) ActiveClients(string) ([]models.Client, error) {
	return []models.Client{{ID: "cli-1", Name: "Beta", Active: true}}, nil
}

func (m *memPartyStore) SupplierExists(id string) (bool, error) {
	return id == "sup-1", nil
}

type memCatalogSource struct{}

func (m *memCatalogSource) CategoryGroups(string) ([]models.CategoryGroup, error) {
	return []models.CategoryGroup{{
		ID:   "grp-1",
		Name: "Operations",
		Kind: "EXPENSE",
		Categories: []models.Category{
			{ID: "cat-1", GroupID: "grp-1", Name: "Services", Active: true},
		},
	}}, nil
}

func (m *memCatalogSource) ActiveSuppliers(string) ([]models.Supplier, error) {
	return []models.Supplier{{ID: "sup-1", Name: "ACME", Active: true}}, nil
}

func (m *memCatalogSource) ActiveClients(string) ([]models.Client, error) {
	return []models.Client{{ID: "cli-1", Name: "Beta", Active: true}}, nil
}

const adapterCSV = "data,descricao,valor,tipo\n" +
	"2026-01-10,PAGAMENTO FORNECEDOR ACME,150.50,DEBIT\n" +
	"2026-01-12,TED CLIENTE BETA,2500.00,CREDIT\n"

func newAdapterService() (*service.ImportService, *memEntryStore) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	entries := &memEntryStore{}
	svc := service.NewImportService(newMemImportStore(), entries, &memRuleStore{}, &memPartyStore{}, nil, 5*1024*1024, log)
	return svc, entries
}

func TestControllerOverServiceAdapters(t *testing.T) {
	ctx := context.Background()

	svc, entries := newAdapterService()
	session, err := svc.Upload("co1", "u1", "extrato.csv", []byte(adapterCSV))
	require.NoError(t, err)

	ctrl := NewController(
		NewServiceStore(svc, "co1"),
		NewCatalogResolver(&memCatalogSource{}, "co1"),
	)

	require.NoError(t, ctrl.Load(ctx, session.ID))
	require.NotNil(t, ctrl.Session())
	require.Len(t, ctrl.Session().Items, 2)

	assert.Equal(t, "ACME", ctrl.CounterpartyName("sup-1"))
	assert.Equal(t, "Beta", ctrl.CounterpartyName("cli-1"))
	assert.Equal(t, "Services", ctrl.CategoryName("cat-1"))

	// Both items were auto-matched by counterparty name; neither has a
	// category yet, so the session cannot be confirmed.
	assert.Equal(t, 0, ctrl.ReadyCount())
	assert.False(t, ctrl.AllReady())
	assert.ErrorIs(t, ctrl.Confirm(ctx), service.ErrIncompleteClassification)

	first := ctrl.Session().Items[0]
	require.NoError(t, ctrl.EditSingle(ctx, first.ID, models.UpdateImportItemRequest{
		CategoryID: strp("cat-1"),
	}))
	assert.Equal(t, 1, ctrl.ReadyCount())

	ctrl.ToggleSelectAll()
	require.NoError(t, ctrl.ApplyBulk(ctx, models.UpdateImportItemRequest{
		CategoryID: strp("cat-1"),
	}))
	assert.True(t, ctrl.AllReady())

	require.NoError(t, ctrl.Confirm(ctx))
	assert.Equal(t, models.ImportStatusCompleted, ctrl.Session().Status)
	assert.False(t, ctrl.IsEditable())

	require.Len(t, entries.inserted, 2)
	require.NotNil(t, entries.inserted[0].SupplierID)
	assert.Equal(t, "sup-1", *entries.inserted[0].SupplierID)
	require.NotNil(t, entries.inserted[1].ClientID)
	assert.Equal(t, "cli-1", *entries.inserted[1].ClientID)

	err = ctrl.EditSingle(ctx, first.ID, models.UpdateImportItemRequest{CategoryID: strp("cat-1")})
	assert.ErrorIs(t, err, service.ErrSessionNotEditable)
}

func TestControllerOverServiceAdaptersCancel(t *testing.T) {
	ctx := context.Background()

	svc, entries := newAdapterService()
	session, err := svc.Upload("co1", "u1", "extrato.csv", []byte(adapterCSV))
	require.NoError(t, err)

	ctrl := NewController(
		NewServiceStore(svc, "co1"),
		NewCatalogResolver(&memCatalogSource{}, "co1"),
	)
	require.NoError(t, ctrl.Load(ctx, session.ID))

	require.NoError(t, ctrl.Cancel(ctx))
	assert.Equal(t, models.ImportStatusCancelled, ctrl.Session().Status)
	assert.Empty(t, ctrl.Session().Items)
	assert.Empty(t, entries.inserted)

	assert.ErrorIs(t, ctrl.Cancel(ctx), service.ErrSessionNotEditable)
}
