package models

import "time"

// Catalog entities referenced by import item classification: categories,
// suppliers and clients. The import workflow only reads them.

type CategoryGroup struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"companyId"`
	Name      string    `db:"name" json:"name"`
	Kind      string    `db:"kind" json:"kind"` // EXPENSE | REVENUE
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Categories []Category `db:"-" json:"categories"`
}

type Category struct {
	ID        string    `db:"id" json:"id"`
	GroupID   string    `db:"group_id" json:"groupId"`
	CompanyID string    `db:"company_id" json:"companyId"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type Supplier struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"companyId"`
	Name      string    `db:"name" json:"name"`
	Document  string    `db:"document" json:"document"` // CNPJ/CPF
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type Client struct {
	ID        string    `db:"id" json:"id"`
	CompanyID string    `db:"company_id" json:"companyId"`
	Name      string    `db:"name" json:"name"`
	Document  string    `db:"document" json:"document"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type PartyRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Active   *bool  `json:"active"`
}

type CategoryRequest struct {
	GroupID string `json:"groupId"`
	Name    string `json:"name"`
}

// SupplierMatchRule suggests a counterparty/category for statement lines
// whose description contains the pattern. Rules are learned on confirm.
type SupplierMatchRule struct {
	ID         string    `db:"id" json:"id"`
	CompanyID  string    `db:"company_id" json:"companyId"`
	Pattern    string    `db:"pattern" json:"pattern"`
	SupplierID string    `db:"supplier_id" json:"supplierId"`
	CategoryID *string   `db:"category_id" json:"categoryId"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}
