package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"findash-api/internal/models"
)

type ClientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) FindAll(companyID string, limit, offset int, search string) ([]models.Client, int, error) {
	where := "WHERE company_id = ?"
	args := []interface{}{companyID}

	if search != "" {
		where += " AND (name LIKE ? OR document LIKE ?)"
		args = append(args, "%"+search+"%", "%"+search+"%")
	}

	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) FROM clients "+where, args...); err != nil {
		return nil, 0, err
	}

	clients := []models.Client{}
	query := "SELECT * FROM clients " + where + " ORDER BY name LIMIT ? OFFSET ?"
	args = append(args, limit, offset)
	if err := r.db.Select(&clients, query, args...); err != nil {
		return nil, 0, err
	}

	return clients, total, nil
}

func (r *ClientRepository) ActiveByCompany(companyID string) ([]models.Client, error) {
	clients := []models.Client{}
	query := "SELECT * FROM clients WHERE company_id = ? AND active = TRUE ORDER BY name"
	err := r.db.Select(&clients, query, companyID)
	return clients, err
}

func (r *ClientRepository) FindByID(companyID, id string) (*models.Client, error) {
	var client models.Client
	query := "SELECT * FROM clients WHERE id = ? AND company_id = ? LIMIT 1"
	err := r.db.Get(&client, query, id, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) Create(client *models.Client) error {
	query := `INSERT INTO clients (id, company_id, name, document, email, phone,
	          active, created_at, updated_at)
	          VALUES (:id, :company_id, :name, :document, :email, :phone, :active,
	          NOW(), NOW())`
	_, err := r.db.NamedExec(query, client)
	return err
}

func (r *ClientRepository) Update(client *models.Client) error {
	query := `UPDATE clients SET name = :name, document = :document,
	          email = :email, phone = :phone, active = :active, updated_at = NOW()
	          WHERE id = :id AND company_id = :company_id`
	_, err := r.db.NamedExec(query, client)
	return err
}

func (r *ClientRepository) Delete(companyID, id string) error {
	_, err := r.db.Exec("DELETE FROM clients WHERE id = ? AND company_id = ?", id, companyID)
	return err
}
