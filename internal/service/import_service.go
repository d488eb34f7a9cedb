package service

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"findash-api/internal/models"
	"findash-api/internal/parser"
	"findash-api/internal/repository"
)

// ImportStore is the persistence surface the import workflow needs.
// *repository.ImportRepository satisfies it; tests use fakes.
type ImportStore interface {
	CreateSession(session *models.ImportSession, items []models.ImportItem) error
	SessionByID(companyID, id string) (*models.ImportSession, error)
	ItemsByImportID(importID string) ([]models.ImportItem, error)
	Item(importID, itemID string) (*models.ImportItem, error)
	Summaries(companyID string) ([]models.ImportSummary, error)
	SaveItemClassification(item *models.ImportItem) error
	SaveItemClassifications(items []models.ImportItem) error
	SetSessionStatus(id, status string) error
	DeleteItems(importID string) error
}

// EntryStore materializes confirmed items and feeds duplicate detection.
type EntryStore interface {
	BulkInsert(entries []models.Entry) error
	ExistsSimilar(companyID string, date time.Time, amount decimal.Decimal, description string) (bool, error)
}

// MatchRuleStore holds the learned description-pattern suggestions.
type MatchRuleStore interface {
	ByCompany(companyID string) ([]models.SupplierMatchRule, error)
	Upsert(companyID, pattern, supplierID string, categoryID *string) error
}

// PartyStore supplies active counterparties for name-based auto-matching
// and disambiguates supplier vs client references on confirm.
type PartyStore interface {
	ActiveSuppliers(companyID string) ([]models.Supplier, error)
	ActiveClients(companyID string) ([]models.Client, error)
	SupplierExists(id string) (bool, error)
}

// TypeImportNotify is enqueued after a successful confirm so the worker can
// do post-confirm bookkeeping out of the request path.
const TypeImportNotify = "import:notify"

// ImportNotifyPayload is the import:notify task body.
type ImportNotifyPayload struct {
	ImportID  string `json:"import_id"`
	CompanyID string `json:"company_id"`
	FileName  string `json:"file_name"`
	Records   int    `json:"records"`
}

// ImportService owns the import session state machine: upload creates a
// PENDING_REVIEW session with a fixed item set, classification edits are the
// only permitted mutation, and confirm/cancel are one-way transitions.
type ImportService struct {
	imports     ImportStore
	entries     EntryStore
	rules       MatchRuleStore
	parties     PartyStore
	asynqClient *asynq.Client
	maxFileSize int
	log         *logrus.Logger
}

func NewImportService(
	imports ImportStore,
	entries EntryStore,
	rules MatchRuleStore,
	parties PartyStore,
	asynqClient *asynq.Client,
	maxFileSize int,
	log *logrus.Logger,
) *ImportService {
	return &ImportService{
		imports:     imports,
		entries:     entries,
		rules:       rules,
		parties:     parties,
		asynqClient: asynqClient,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// Upload parses the statement and creates the session with every item in
// one shot. The item count is fixed here and never changes afterwards.
func (s *ImportService) Upload(companyID, userID, fileName string, data []byte) (*models.ImportSession, error) {
	if len(data) > s.maxFileSize {
		return nil, ErrFileTooLarge
	}

	fileType, err := parser.DetectFileType(fileName)
	if err != nil {
		return nil, err
	}

	transactions, err := parser.Parse(data, fileName)
	if err != nil {
		return nil, err
	}

	session := &models.ImportSession{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		FileName:     fileName,
		FileType:     fileType,
		Status:       models.ImportStatusPendingReview,
		TotalRecords: len(transactions),
		ImportedBy:   userID,
		CreatedAt:    time.Now(),
	}

	rules, err := s.rules.ByCompany(companyID)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.parties.ActiveSuppliers(companyID)
	if err != nil {
		return nil, err
	}
	clients, err := s.parties.ActiveClients(companyID)
	if err != nil {
		return nil, err
	}

	items := make([]models.ImportItem, 0, len(transactions))
	for i, tx := range transactions {
		accountType := models.EntryTypePayable
		if tx.Type == models.ItemTypeCredit {
			accountType = models.EntryTypeReceivable
		}

		item := models.ImportItem{
			ID:          uuid.NewString(),
			ImportID:    session.ID,
			LineNo:      i + 1,
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.Amount,
			Type:        tx.Type,
			AccountType: accountType,
			CreatedAt:   time.Now(),
		}

		// Advisory only: a matching ledger entry already exists. Never
		// blocks confirmation.
		duplicate, err := s.entries.ExistsSimilar(companyID, tx.Date, tx.Amount, tx.Description)
		if err != nil {
			return nil, err
		}
		item.PossibleDuplicate = duplicate

		s.suggestClassification(&item, rules, suppliers, clients)

		items = append(items, item)
	}

	if err := s.imports.CreateSession(session, items); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"import_id": session.ID,
		"file_name": fileName,
		"file_type": fileType,
		"records":   len(items),
	}).Info("import session created")

	return s.Get(companyID, session.ID)
}

// suggestClassification pre-fills counterparty/category from learned match
// rules, falling back to counterparty-name containment in the description.
func (s *ImportService) suggestClassification(
	item *models.ImportItem,
	rules []models.SupplierMatchRule,
	suppliers []models.Supplier,
	clients []models.Client,
) {
	descLower := strings.ToLower(item.Description)

	for _, rule := range rules {
		if strings.Contains(descLower, strings.ToLower(rule.Pattern)) {
			supplierID := rule.SupplierID
			item.SupplierID = &supplierID
			if rule.CategoryID != nil {
				categoryID := *rule.CategoryID
				item.CategoryID = &categoryID
			}
			return
		}
	}

	if item.AccountType == models.EntryTypePayable {
		for _, supplier := range suppliers {
			if strings.Contains(descLower, strings.ToLower(supplier.Name)) {
				id := supplier.ID
				item.SupplierID = &id
				return
			}
		}
		return
	}
	for _, client := range clients {
		if strings.Contains(descLower, strings.ToLower(client.Name)) {
			id := client.ID
			item.SupplierID = &id
			return
		}
	}
}

func (s *ImportService) List(companyID string) ([]models.ImportSummary, error) {
	return s.imports.Summaries(companyID)
}

// Get returns the session with all items in statement order.
func (s *ImportService) Get(companyID, importID string) (*models.ImportSession, error) {
	session, err := s.findSession(companyID, importID)
	if err != nil {
		return nil, err
	}

	items, err := s.imports.ItemsByImportID(importID)
	if err != nil {
		return nil, err
	}
	session.Items = items

	return session, nil
}

// UpdateItem applies a partial classification patch to one item and returns
// the authoritative result.
func (s *ImportService) UpdateItem(companyID, importID, itemID string, req models.UpdateImportItemRequest) (*models.ImportItem, error) {
	session, err := s.findSession(companyID, importID)
	if err != nil {
		return nil, err
	}
	if !session.IsEditable() {
		return nil, ErrSessionNotEditable
	}

	item, err := s.imports.Item(importID, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := applyPatch(item, req); err != nil {
		return nil, err
	}
	if err := s.imports.SaveItemClassification(item); err != nil {
		return nil, err
	}

	// Re-read so the response carries resolved display names.
	return s.imports.Item(importID, itemID)
}

// UpdateItemsBatch applies one patch uniformly to every listed item. Ids
// that do not belong to the session are skipped and simply absent from the
// response; the caller learns which items actually changed from what it
// gets back.
func (s *ImportService) UpdateItemsBatch(companyID, importID string, req models.BatchUpdateImportItemsRequest) ([]models.ImportItem, error) {
	session, err := s.findSession(companyID, importID)
	if err != nil {
		return nil, err
	}
	if !session.IsEditable() {
		return nil, ErrSessionNotEditable
	}

	patch := req.Patch()
	patched := make([]models.ImportItem, 0, len(req.ItemIDs))
	for _, itemID := range req.ItemIDs {
		item, err := s.imports.Item(importID, itemID)
		if errors.Is(err, repository.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := applyPatch(item, patch); err != nil {
			return nil, err
		}
		patched = append(patched, *item)
	}

	if len(patched) == 0 {
		return []models.ImportItem{}, nil
	}

	// One save for the whole batch so a mid-batch failure cannot leave the
	// session half-updated.
	if err := s.imports.SaveItemClassifications(patched); err != nil {
		return nil, err
	}

	updated := make([]models.ImportItem, 0, len(patched))
	for _, item := range patched {
		fresh, err := s.imports.Item(importID, item.ID)
		if err != nil {
			return nil, err
		}
		updated = append(updated, *fresh)
	}

	return updated, nil
}

// Confirm materializes every item into a ledger entry, learns a match rule
// per description and closes the session. Fails without side effects while
// any item is unclassified.
func (s *ImportService) Confirm(companyID, importID string) error {
	session, err := s.findSession(companyID, importID)
	if err != nil {
		return err
	}
	if !session.IsEditable() {
		return ErrSessionNotEditable
	}

	items, err := s.imports.ItemsByImportID(importID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if !item.IsClassified() {
			return ErrIncompleteClassification
		}
	}

	entries := make([]models.Entry, 0, len(items))
	for _, item := range items {
		entry := models.Entry{
			ID:          uuid.NewString(),
			CompanyID:   companyID,
			Type:        item.AccountType,
			Description: item.Description,
			Amount:      item.Amount,
			DueDate:     item.Date,
			Status:      models.EntryStatusPending,
			CategoryID:  item.CategoryID,
		}

		// The classification field holds either a supplier or a client id;
		// probe the supplier table to decide which ledger column it fills.
		isSupplier, err := s.parties.SupplierExists(*item.SupplierID)
		if err != nil {
			return err
		}
		if isSupplier {
			entry.SupplierID = item.SupplierID
		} else {
			entry.ClientID = item.SupplierID
		}

		entries = append(entries, entry)

		if err := s.rules.Upsert(companyID, matchPattern(item.Description), *item.SupplierID, item.CategoryID); err != nil {
			return err
		}
	}

	if err := s.entries.BulkInsert(entries); err != nil {
		return err
	}
	if err := s.imports.SetSessionStatus(importID, models.ImportStatusCompleted); err != nil {
		return err
	}

	s.enqueueNotify(session, len(items))

	s.log.WithFields(logrus.Fields{
		"import_id": importID,
		"entries":   len(entries),
	}).Info("import session confirmed")

	return nil
}

// Cancel discards the session and its items. One-way, like Confirm.
func (s *ImportService) Cancel(companyID, importID string) error {
	session, err := s.findSession(companyID, importID)
	if err != nil {
		return err
	}
	if !session.IsEditable() {
		return ErrSessionNotEditable
	}

	if err := s.imports.SetSessionStatus(importID, models.ImportStatusCancelled); err != nil {
		return err
	}
	if err := s.imports.DeleteItems(importID); err != nil {
		return err
	}

	s.log.WithField("import_id", importID).Info("import session cancelled")
	return nil
}

func (s *ImportService) findSession(companyID, importID string) (*models.ImportSession, error) {
	session, err := s.imports.SessionByID(companyID, importID)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *ImportService) enqueueNotify(session *models.ImportSession, records int) {
	if s.asynqClient == nil {
		return
	}

	payload, _ := json.Marshal(ImportNotifyPayload{
		ImportID:  session.ID,
		CompanyID: session.CompanyID,
		FileName:  session.FileName,
		Records:   records,
	})
	if _, err := s.asynqClient.Enqueue(asynq.NewTask(TypeImportNotify, payload)); err != nil {
		s.log.WithError(err).Warn("failed to enqueue import notification")
	}
}

func applyPatch(item *models.ImportItem, req models.UpdateImportItemRequest) error {
	if req.AccountType != nil {
		if *req.AccountType != models.EntryTypePayable && *req.AccountType != models.EntryTypeReceivable {
			return ErrInvalidEntryType
		}
		item.AccountType = *req.AccountType
	}
	if req.SupplierID != nil {
		supplierID := *req.SupplierID
		item.SupplierID = &supplierID
	}
	if req.CategoryID != nil {
		categoryID := *req.CategoryID
		item.CategoryID = &categoryID
	}
	return nil
}

// matchPattern normalizes a description into the learned rule key: its
// first three words, lowercased.
func matchPattern(description string) string {
	words := strings.Fields(strings.TrimSpace(description))
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.ToLower(strings.Join(words, " "))
}
