package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"findash-api/internal/models"
	"findash-api/internal/repository"
)

type EntryService struct {
	entries *repository.EntryRepository
}

func NewEntryService(entries *repository.EntryRepository) *EntryService {
	return &EntryService{entries: entries}
}

func (s *EntryService) List(companyID, entryType, status string, limit, offset int) ([]models.Entry, int, error) {
	return s.entries.FindAll(companyID, entryType, status, limit, offset)
}

func (s *EntryService) Get(companyID, id string) (*models.Entry, error) {
	entry, err := s.entries.FindByID(companyID, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, ErrNotFound
	}
	return entry, err
}

func (s *EntryService) Create(companyID string, req models.EntryRequest) (*models.Entry, error) {
	if req.Type != models.EntryTypePayable && req.Type != models.EntryTypeReceivable {
		return nil, ErrInvalidEntryType
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Type:        req.Type,
		Description: req.Description,
		Amount:      req.Amount,
		DueDate:     dueDate,
		Status:      models.EntryStatusPending,
		CategoryID:  req.CategoryID,
		SupplierID:  req.SupplierID,
		ClientID:    req.ClientID,
	}
	if err := s.entries.Create(entry); err != nil {
		return nil, err
	}

	return s.Get(companyID, entry.ID)
}

func (s *EntryService) MarkPaid(companyID, id string) (*models.Entry, error) {
	if _, err := s.Get(companyID, id); err != nil {
		return nil, err
	}
	if err := s.entries.MarkPaid(companyID, id, time.Now()); err != nil {
		return nil, err
	}
	return s.Get(companyID, id)
}
