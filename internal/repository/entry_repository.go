package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"findash-api/internal/models"
)

type EntryRepository struct {
	db *sqlx.DB
}

func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Create(entry *models.Entry) error {
	query := `INSERT INTO entries (id, company_id, type, description, amount,
	          due_date, status, category_id, supplier_id, client_id,
	          created_at, updated_at)
	          VALUES (:id, :company_id, :type, :description, :amount, :due_date,
	          :status, :category_id, :supplier_id, :client_id, NOW(), NOW())`
	_, err := r.db.NamedExec(query, entry)
	return err
}

// BulkInsert writes materialized ledger entries in chunks.
func (r *EntryRepository) BulkInsert(entries []models.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	const chunkSize = 500
	for i := 0; i < len(entries); i += chunkSize {
		end := i + chunkSize
		if end > len(entries) {
			end = len(entries)
		}

		chunk := entries[i:end]
		query := `INSERT INTO entries (id, company_id, type, description, amount,
		          due_date, status, category_id, supplier_id, client_id,
		          created_at, updated_at)
		          VALUES (:id, :company_id, :type, :description, :amount, :due_date,
		          :status, :category_id, :supplier_id, :client_id, NOW(), NOW())`
		if _, err := r.db.NamedExec(query, chunk); err != nil {
			return fmt.Errorf("error inserting entries %d-%d: %w", i+1, end, err)
		}
	}
	return nil
}

// ExistsSimilar feeds the possible-duplicate flag on import items: an entry
// with the same due date, amount and description already exists.
func (r *EntryRepository) ExistsSimilar(companyID string, date time.Time, amount decimal.Decimal, description string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM entries
	          WHERE company_id = ? AND due_date = ? AND amount = ? AND description = ?`
	err := r.db.Get(&count, query, companyID, date, amount, description)
	return count > 0, err
}

func (r *EntryRepository) FindAll(companyID, entryType, status string, limit, offset int) ([]models.Entry, int, error) {
	where := "WHERE company_id = ?"
	args := []interface{}{companyID}

	if entryType != "" {
		where += " AND type = ?"
		args = append(args, entryType)
	}
	if status != "" {
		where += " AND status = ?"
		args = append(args, status)
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM entries "+where, args...); err != nil {
		return nil, 0, err
	}

	entries := []models.Entry{}
	query := "SELECT * FROM entries " + where + " ORDER BY due_date, created_at LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&entries, query, args...); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func (r *EntryRepository) FindByID(companyID, id string) (*models.Entry, error) {
	var entry models.Entry
	query := "SELECT * FROM entries WHERE id = ? AND company_id = ? LIMIT 1"
	err := r.db.Get(&entry, query, id, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *EntryRepository) MarkPaid(companyID, id string, paidAt time.Time) error {
	query := `UPDATE entries SET status = ?, paid_at = ?, updated_at = NOW()
	          WHERE id = ? AND company_id = ?`
	_, err := r.db.Exec(query, models.EntryStatusPaid, paidAt, id, companyID)
	return err
}

// MarkOverdue flips every pending entry past its due date to OVERDUE and
// returns how many rows changed. Runs from the periodic worker sweep.
func (r *EntryRepository) MarkOverdue(now time.Time) (int64, error) {
	query := `UPDATE entries SET status = ?, updated_at = NOW()
	          WHERE status = ? AND due_date < ?`
	result, err := r.db.Exec(query, models.EntryStatusOverdue, models.EntryStatusPending, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// EntryTotals aggregates open amounts per ledger for the dashboard.
type EntryTotals struct {
	PayableOpen       decimal.Decimal `db:"payable_open"`
	ReceivableOpen    decimal.Decimal `db:"receivable_open"`
	PayableOverdue    int             `db:"payable_overdue"`
	ReceivableOverdue int             `db:"receivable_overdue"`
}

func (r *EntryRepository) Totals(companyID string) (*EntryTotals, error) {
	var totals EntryTotals
	query := `SELECT
	          COALESCE(SUM(CASE WHEN type = 'PAYABLE' AND status <> 'PAID' THEN amount ELSE 0 END), 0) AS payable_open,
	          COALESCE(SUM(CASE WHEN type = 'RECEIVABLE' AND status <> 'PAID' THEN amount ELSE 0 END), 0) AS receivable_open,
	          COALESCE(SUM(CASE WHEN type = 'PAYABLE' AND status = 'OVERDUE' THEN 1 ELSE 0 END), 0) AS payable_overdue,
	          COALESCE(SUM(CASE WHEN type = 'RECEIVABLE' AND status = 'OVERDUE' THEN 1 ELSE 0 END), 0) AS receivable_overdue
	          FROM entries WHERE company_id = ?`
	err := r.db.Get(&totals, query, companyID)
	if err != nil {
		return nil, err
	}
	return &totals, nil
}
