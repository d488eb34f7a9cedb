package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"findash-api/internal/models"
)

type CategoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GroupsWithCategories returns every category group of the company with its
// categories attached, the shape the review screen consumes.
func (r *CategoryRepository) GroupsWithCategories(companyID string) ([]models.CategoryGroup, error) {
	groups := []models.CategoryGroup{}
	query := "SELECT * FROM category_groups WHERE company_id = ? ORDER BY name"
	if err := r.db.Select(&groups, query, companyID); err != nil {
		return nil, err
	}

	categories := []models.Category{}
	query = "SELECT * FROM categories WHERE company_id = ? ORDER BY name"
	if err := r.db.Select(&categories, query, companyID); err != nil {
		return nil, err
	}

	byGroup := make(map[string][]models.Category, len(groups))
	for _, cat := range categories {
		byGroup[cat.GroupID] = append(byGroup[cat.GroupID], cat)
	}
	for i := range groups {
		groups[i].Categories = byGroup[groups[i].ID]
	}

	return groups, nil
}

func (r *CategoryRepository) AllByCompany(companyID string) ([]models.Category, error) {
	categories := []models.Category{}
	query := "SELECT * FROM categories WHERE company_id = ? ORDER BY name"
	err := r.db.Select(&categories, query, companyID)
	return categories, err
}

func (r *CategoryRepository) FindByID(companyID, id string) (*models.Category, error) {
	var category models.Category
	query := "SELECT * FROM categories WHERE id = ? AND company_id = ? LIMIT 1"
	err := r.db.Get(&category, query, id, companyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(category *models.Category) error {
	query := `INSERT INTO categories (id, group_id, company_id, name, active, created_at)
	          VALUES (:id, :group_id, :company_id, :name, :active, NOW())`
	_, err := r.db.NamedExec(query, category)
	return err
}

func (r *CategoryRepository) Update(category *models.Category) error {
	query := `UPDATE categories SET name = :name, active = :active, group_id = :group_id
	          WHERE id = :id AND company_id = :company_id`
	_, err := r.db.NamedExec(query, category)
	return err
}

func (r *CategoryRepository) Delete(companyID, id string) error {
	_, err := r.db.Exec("DELETE FROM categories WHERE id = ? AND company_id = ?", id, companyID)
	return err
}

func (r *CategoryRepository) CreateGroup(group *models.CategoryGroup) error {
	query := `INSERT INTO category_groups (id, company_id, name, kind, created_at)
	          VALUES (:id, :company_id, :name, :kind, NOW())`
	_, err := r.db.NamedExec(query, group)
	return err
}
