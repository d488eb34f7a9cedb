package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry statuses.
const (
	EntryStatusPending = "PENDING"
	EntryStatusPaid    = "PAID"
	EntryStatusOverdue = "OVERDUE"
)

// Entry is one accounts payable/receivable row. Confirmed import items
// materialize into entries; entries can also be created by hand.
type Entry struct {
	ID          string          `db:"id" json:"id"`
	CompanyID   string          `db:"company_id" json:"companyId"`
	Type        string          `db:"type" json:"type"` // PAYABLE | RECEIVABLE
	Description string          `db:"description" json:"description"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	DueDate     time.Time       `db:"due_date" json:"dueDate"`
	Status      string          `db:"status" json:"status"`
	CategoryID  *string         `db:"category_id" json:"categoryId"`
	SupplierID  *string         `db:"supplier_id" json:"supplierId"`
	ClientID    *string         `db:"client_id" json:"clientId"`
	PaidAt      *time.Time      `db:"paid_at" json:"paidAt"`
	CreatedAt   time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updatedAt"`
}

type EntryRequest struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     string          `json:"dueDate"`
	CategoryID  *string         `json:"categoryId"`
	SupplierID  *string         `json:"supplierId"`
	ClientID    *string         `json:"clientId"`
}
