package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"findash-api/internal/models"
)

// ErrNoRows normalizes sql.ErrNoRows so callers do not depend on
// database/sql directly.
var ErrNoRows = errors.New("no rows found")

// itemColumns selects import items together with resolved display names.
// The counterparty id may point at either a supplier or a client, so both
// tables are probed (confirm disambiguates the same way).
const itemColumns = `
	i.id, i.import_id, i.line_no, i.date, i.description, i.amount, i.type,
	i.account_type, i.supplier_id, i.category_id, i.possible_duplicate,
	i.created_at,
	COALESCE(s.name, cl.name) AS supplier_name,
	cat.name AS category_name`

const itemJoins = `
	LEFT JOIN suppliers s ON s.id = i.supplier_id
	LEFT JOIN clients cl ON cl.id = i.supplier_id
	LEFT JOIN categories cat ON cat.id = i.category_id`

type ImportRepository struct {
	db *sqlx.DB
}

func NewImportRepository(db *sqlx.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// CreateSession inserts the session and all of its items in one
// transaction. Items are chunked to stay under the MySQL placeholder limit.
func (r *ImportRepository) CreateSession(session *models.ImportSession, items []models.ImportItem) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	sessionQuery := `INSERT INTO bank_imports (id, company_id, file_name, file_type,
	          status, total_records, imported_by, created_at)
	          VALUES (:id, :company_id, :file_name, :file_type, :status,
	          :total_records, :imported_by, NOW())`
	if _, err := tx.NamedExec(sessionQuery, session); err != nil {
		return err
	}

	const chunkSize = 500
	for i := 0; i < len(items); i += chunkSize {
		end := i + chunkSize
		if end > len(items) {
			end = len(items)
		}

		chunk := items[i:end]
		itemQuery := `INSERT INTO bank_import_items (id, import_id, line_no, date,
		          description, amount, type, account_type, supplier_id, category_id,
		          possible_duplicate, created_at)
		          VALUES (:id, :import_id, :line_no, :date, :description, :amount, :type,
		          :account_type, :supplier_id, :category_id, :possible_duplicate, NOW())`
		if _, err := tx.NamedExec(itemQuery, chunk); err != nil {
			return fmt.Errorf("error inserting items %d-%d: %w", i+1, end, err)
		}
	}

	return tx.Commit()
}

func (r *ImportRepository) SessionByID(companyID, id string) (*models.ImportSession, error) {
	var session models.ImportSession
	query := `SELECT id, company_id, file_name, file_type, status, total_records,
	          imported_by, created_at
	          FROM bank_imports WHERE id = ? AND company_id = ? LIMIT 1`
	err := r.db.Get(&session, query, id, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// ItemsByImportID returns all items of a session in statement order.
// line_no is assigned from the file at upload time and never changes, so the
// review screen always shows transactions the way the bank listed them.
func (r *ImportRepository) ItemsByImportID(importID string) ([]models.ImportItem, error) {
	items := []models.ImportItem{}
	query := `SELECT` + itemColumns + `
	          FROM bank_import_items i` + itemJoins + `
	          WHERE i.import_id = ?
	          ORDER BY i.line_no`
	err := r.db.Select(&items, query, importID)
	return items, err
}

func (r *ImportRepository) Item(importID, itemID string) (*models.ImportItem, error) {
	var item models.ImportItem
	query := `SELECT` + itemColumns + `
	          FROM bank_import_items i` + itemJoins + `
	          WHERE i.id = ? AND i.import_id = ? LIMIT 1`
	err := r.db.Get(&item, query, itemID, importID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ImportRepository) Summaries(companyID string) ([]models.ImportSummary, error) {
	summaries := []models.ImportSummary{}
	query := `SELECT id, file_name, file_type, status, total_records, created_at
	          FROM bank_imports WHERE company_id = ?
	          ORDER BY created_at DESC`
	err := r.db.Select(&summaries, query, companyID)
	return summaries, err
}

// SaveItemClassification persists the mutable classification fields only.
// Parsed fields (date, description, amount, type) are immutable.
func (r *ImportRepository) SaveItemClassification(item *models.ImportItem) error {
	query := `UPDATE bank_import_items SET supplier_id = :supplier_id,
	          category_id = :category_id, account_type = :account_type
	          WHERE id = :id AND import_id = :import_id`
	_, err := r.db.NamedExec(query, item)
	return err
}

// SaveItemClassifications persists a batch of classification patches in one
// transaction: either every item is updated or none.
func (r *ImportRepository) SaveItemClassifications(items []models.ImportItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `UPDATE bank_import_items SET supplier_id = :supplier_id,
	          category_id = :category_id, account_type = :account_type
	          WHERE id = :id AND import_id = :import_id`
	for i := range items {
		if _, err := tx.NamedExec(query, items[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *ImportRepository) SetSessionStatus(id, status string) error {
	query := "UPDATE bank_imports SET status = ? WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	return err
}

func (r *ImportRepository) DeleteItems(importID string) error {
	query := "DELETE FROM bank_import_items WHERE import_id = ?"
	_, err := r.db.Exec(query, importID)
	return err
}
