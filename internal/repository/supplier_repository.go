package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"findash-api/internal/models"
)

type SupplierRepository struct {
	db *sqlx.DB
}

func NewSupplierRepository(db *sqlx.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) FindAll(companyID string, limit, offset int, search string) ([]models.Supplier, int, error) {
	where := "WHERE company_id = ?"
	args := []interface{}{companyID}

	if search != "" {
		where += " AND (name LIKE ? OR document LIKE ?)"
		args = append(args, "%"+search+"%", "%"+search+"%")
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM suppliers "+where, args...); err != nil {
		return nil, 0, err
	}

	suppliers := []models.Supplier{}
	query := "SELECT * FROM suppliers " + where + " ORDER BY name LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&suppliers, query, args...); err != nil {
		return nil, 0, err
	}

	return suppliers, total, nil
}

func (r *SupplierRepository) ActiveByCompany(companyID string) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	query := "SELECT * FROM suppliers WHERE company_id = ? AND active = TRUE ORDER BY name"
	err := r.db.Select(&suppliers, query, companyID)
	return suppliers, err
}

func (r *SupplierRepository) FindByID(companyID, id string) (*models.Supplier, error) {
	var supplier models.Supplier
	query := "SELECT * FROM suppliers WHERE id = ? AND company_id = ? LIMIT 1"
	err := r.db.Get(&supplier, query, id, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// ExistsByID ignores company scoping on purpose: it disambiguates whether a
// counterparty reference points at a supplier or a client.
func (r *SupplierRepository) ExistsByID(id string) (bool, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM suppliers WHERE id = ?", id)
	return count > 0, err
}

func (r *SupplierRepository) Create(supplier *models.Supplier) error {
	query := `INSERT INTO suppliers (id, company_id, name, document, email, phone,
	          active, created_at, updated_at)
	          VALUES (:id, :company_id, :name, :document, :email, :phone, :active,
	          NOW(), NOW())`
	_, err := r.db.NamedExec(query, supplier)
	return err
}

func (r *SupplierRepository) Update(supplier *models.Supplier) error {
	query := `UPDATE suppliers SET name = :name, document = :document,
	          email = :email, phone = :phone, active = :active, updated_at = NOW()
	          WHERE id = :id AND company_id = :company_id`
	_, err := r.db.NamedExec(query, supplier)
	return err
}

func (r *SupplierRepository) Delete(companyID, id string) error {
	_, err := r.db.Exec("DELETE FROM suppliers WHERE id = ? AND company_id = ?", id, companyID)
	return err
}
