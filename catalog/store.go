package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/kbukum/catalog/database"
	"github.com/kbukum/catalog/database/query"
)

// ErrNotFound is returned when no row matches the requested ID.
var ErrNotFound = errors.New("catalog: not found")

// ErrHasProducts is returned by DeleteOrganization while products still
// reference the organization.
var ErrHasProducts = errors.New("catalog: organization has products")

var organizationQuery = query.Config{
	SearchFields:      []string{"name"},
	AllowedSortFields: []string{"id", "name", "created_at", "updated_at"},
	AllowedFilters:    []string{"name"},
	DefaultSort:       "id",
}

var productQuery = query.Config{
	SearchFields:      []string{"name", "sku"},
	AllowedSortFields: []string{"id", "name", "price_cents", "created_at", "updated_at"},
	AllowedFilters:    []string{"organization_id", "price_cents", "sku"},
	FieldAliases:      map[string]string{"price": "price_cents"},
	DefaultSort:       "id",
}

// Store persists organizations and products with GORM.
type Store struct {
	db *database.DB
}

// NewStore creates a Store over db.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// --- Organizations ---

// CreateOrganization inserts o and sets its ID and timestamps.
func (s *Store) CreateOrganization(ctx context.Context, o *Organization) error {
	return s.db.WithContext(ctx).Create(o).Error
}

// GetOrganization returns the organization with id, or ErrNotFound.
func (s *Store) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	var o Organization
	if err := s.db.WithContext(ctx).Take(&o, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// ListOrganizations returns one page of organizations.
func (s *Store) ListOrganizations(ctx context.Context, params query.Params) (*query.Result[Organization], error) {
	return query.ApplyToGorm[Organization](s.db.WithContext(ctx).Model(&Organization{}), params, organizationQuery)
}

// UpdateOrganization writes o's mutable columns.
func (s *Store) UpdateOrganization(ctx context.Context, o *Organization) error {
	res := s.db.WithContext(ctx).Model(o).Select("name", "updated_at").Updates(o)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrganization removes the organization with id. It fails with
// ErrHasProducts while any product references it.
func (s *Store) DeleteOrganization(ctx context.Context, id int64) error {
	return s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&Product{}).Where("organization_id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if n > 0 {
			return ErrHasProducts
		}
		res := tx.Delete(&Organization{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// --- Products ---

// CreateProduct inserts p and sets its ID and timestamps.
func (s *Store) CreateProduct(ctx context.Context, p *Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// GetProduct returns the product with id, or ErrNotFound.
func (s *Store) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	if err := s.db.WithContext(ctx).Take(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// ListProducts returns one page of products.
func (s *Store) ListProducts(ctx context.Context, params query.Params) (*query.Result[Product], error) {
	return query.ApplyToGorm[Product](s.db.WithContext(ctx).Model(&Product{}), params, productQuery)
}

// UpdateProduct writes p's mutable columns, including cleared optional ones.
func (s *Store) UpdateProduct(ctx context.Context, p *Product) error {
	res := s.db.WithContext(ctx).Model(p).
		Select("name", "sku", "price_cents", "organization_id", "updated_at").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct removes the product with id.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if database.IsNotFoundError(err) {
		return ErrNotFound
	}
	return err
}
