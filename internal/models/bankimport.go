package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Import session lifecycle. COMPLETED and CANCELLED are terminal.
const (
	ImportStatusPendingReview = "PENDING_REVIEW"
	ImportStatusCompleted     = "COMPLETED"
	ImportStatusCancelled     = "CANCELLED"
)

// Statement file formats accepted by the upload endpoint.
const (
	ImportFileTypeOFX = "OFX"
	ImportFileTypeCSV = "CSV"
)

// Transaction direction of a parsed statement line.
const (
	ItemTypeCredit = "CREDIT"
	ItemTypeDebit  = "DEBIT"
)

// Ledger an item materializes into on confirm.
const (
	EntryTypePayable    = "PAYABLE"
	EntryTypeReceivable = "RECEIVABLE"
)

type ImportSession struct {
	ID           string    `db:"id" json:"id"`
	CompanyID    string    `db:"company_id" json:"companyId"`
	FileName     string    `db:"file_name" json:"fileName"`
	FileType     string    `db:"file_type" json:"fileType"`
	Status       string    `db:"status" json:"status"`
	TotalRecords int       `db:"total_records" json:"totalRecords"`
	ImportedBy   string    `db:"imported_by" json:"importedBy"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`

	Items []ImportItem `db:"-" json:"items"`
}

// IsEditable reports whether item mutations and terminal transitions are
// still allowed on this session.
func (s *ImportSession) IsEditable() bool {
	return s.Status == ImportStatusPendingReview
}

type ImportItem struct {
	ID                string          `db:"id" json:"id"`
	ImportID          string          `db:"import_id" json:"importId"`
	LineNo            int             `db:"line_no" json:"lineNo"`
	Date              time.Time       `db:"date" json:"date"`
	Description       string          `db:"description" json:"description"`
	Amount            decimal.Decimal `db:"amount" json:"amount"`
	Type              string          `db:"type" json:"type"`
	AccountType       string          `db:"account_type" json:"accountType"`
	SupplierID        *string         `db:"supplier_id" json:"supplierId"`
	CategoryID        *string         `db:"category_id" json:"categoryId"`
	PossibleDuplicate bool            `db:"possible_duplicate" json:"possibleDuplicate"`
	CreatedAt         time.Time       `db:"created_at" json:"-"`

	// Display names resolved from the counterparty/category lookups.
	SupplierName *string `db:"supplier_name" json:"supplierName"`
	CategoryName *string `db:"category_name" json:"categoryName"`
}

// IsClassified reports whether the item carries both a counterparty and a
// category and can therefore become a ledger entry. PossibleDuplicate is
// advisory and never blocks confirmation.
func (i *ImportItem) IsClassified() bool {
	return i.SupplierID != nil && *i.SupplierID != "" &&
		i.CategoryID != nil && *i.CategoryID != ""
}

type ImportSummary struct {
	ID           string    `db:"id" json:"id"`
	FileName     string    `db:"file_name" json:"fileName"`
	FileType     string    `db:"file_type" json:"fileType"`
	Status       string    `db:"status" json:"status"`
	TotalRecords int       `db:"total_records" json:"totalRecords"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// UpdateImportItemRequest is a partial patch: nil fields are left untouched.
type UpdateImportItemRequest struct {
	SupplierID  *string `json:"supplierId"`
	CategoryID  *string `json:"categoryId"`
	AccountType *string `json:"accountType"`
}

// BatchUpdateImportItemsRequest applies one patch uniformly to every listed
// item. Ids that do not belong to the session are skipped, not rejected.
type BatchUpdateImportItemsRequest struct {
	ItemIDs     []string `json:"itemIds"`
	SupplierID  *string  `json:"supplierId"`
	CategoryID  *string  `json:"categoryId"`
	AccountType *string  `json:"accountType"`
}

func (r *BatchUpdateImportItemsRequest) Patch() UpdateImportItemRequest {
	return UpdateImportItemRequest{
		SupplierID:  r.SupplierID,
		CategoryID:  r.CategoryID,
		AccountType: r.AccountType,
	}
}
