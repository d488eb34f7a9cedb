package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"findash-api/internal/models"
)

type MatchRuleRepository struct {
	db *sqlx.DB
}

func NewMatchRuleRepository(db *sqlx.DB) *MatchRuleRepository {
	return &MatchRuleRepository{db: db}
}

func (r *MatchRuleRepository) ByCompany(companyID string) ([]models.SupplierMatchRule, error) {
	rules := []models.SupplierMatchRule{}
	query := "SELECT * FROM supplier_match_rules WHERE company_id = ?"
	err := r.db.Select(&rules, query, companyID)
	return rules, err
}

// Upsert creates the rule for the pattern or repoints an existing one at
// the latest counterparty/category choice.
func (r *MatchRuleRepository) Upsert(companyID, pattern, supplierID string, categoryID *string) error {
	var existing models.SupplierMatchRule
	query := "SELECT * FROM supplier_match_rules WHERE company_id = ? AND pattern = ? LIMIT 1"
	err := r.db.Get(&existing, query, companyID, pattern)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		rule := models.SupplierMatchRule{
			ID:         uuid.NewString(),
			CompanyID:  companyID,
			Pattern:    pattern,
			SupplierID: supplierID,
			CategoryID: categoryID,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		insert := `INSERT INTO supplier_match_rules (id, company_id, pattern,
		          supplier_id, category_id, created_at, updated_at)
		          VALUES (:id, :company_id, :pattern, :supplier_id, :category_id,
		          NOW(), NOW())`
		_, err = r.db.NamedExec(insert, rule)
		return err
	}

	update := `UPDATE supplier_match_rules SET supplier_id = ?, category_id = ?,
	          updated_at = NOW() WHERE id = ?`
	_, err = r.db.Exec(update, supplierID, categoryID, existing.ID)
	return err
}
