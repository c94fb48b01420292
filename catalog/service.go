package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/kbukum/catalog/database"
	"github.com/kbukum/catalog/database/query"
	apperrors "github.com/kbukum/catalog/errors"
	"github.com/kbukum/catalog/logger"
	"github.com/kbukum/catalog/observability"
	"github.com/kbukum/catalog/util"
)

const (
	resourceOrganization = "organization"
	resourceProduct      = "product"
)

// OrganizationInput is the writable part of an organization.
type OrganizationInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// ProductInput is the writable part of a product. An empty SKU clears it.
type ProductInput struct {
	Name           string  `json:"name" validate:"required,max=255"`
	SKU            *string `json:"sku" validate:"omitempty,max=64"`
	PriceCents     int64   `json:"price_cents" validate:"gte=0"`
	OrganizationID *int64  `json:"organization_id" validate:"omitempty,gt=0"`
}

// Service applies the catalog's rules on top of Store. All errors it
// returns are AppErrors.
type Service struct {
	store *Store
	log   *logger.Logger
}

// NewService creates a Service.
func NewService(store *Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log.WithComponent("catalog")}
}

// --- Organizations ---

// CreateOrganization creates an organization.
func (s *Service) CreateOrganization(ctx context.Context, in OrganizationInput) (*Organization, error) {
	ctx, span := observability.StartSpan(ctx, "catalog.organization.create")
	defer span.End()

	o := &Organization{Name: strings.TrimSpace(in.Name)}
	if o.Name == "" {
		return nil, apperrors.MissingField("name")
	}
	if err := s.store.CreateOrganization(ctx, o); err != nil {
		return nil, s.fail(ctx, "create organization", err, resourceOrganization)
	}
	return o, nil
}

// GetOrganization returns the organization with id.
func (s *Service) GetOrganization(ctx context.Context, id int64) (*Organization, error) {
	o, err := s.store.GetOrganization(ctx, id)
	if err != nil {
		return nil, s.lookupFailure(ctx, err, resourceOrganization, id)
	}
	return o, nil
}

// ListOrganizations returns one page of organizations.
func (s *Service) ListOrganizations(ctx context.Context, params query.Params) (*query.Result[Organization], error) {
	res, err := s.store.ListOrganizations(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, "list organizations", err, resourceOrganization)
	}
	return res, nil
}

// UpdateOrganization replaces the organization's writable fields.
func (s *Service) UpdateOrganization(ctx context.Context, id int64, in OrganizationInput) (*Organization, error) {
	ctx, span := observability.StartSpan(ctx, "catalog.organization.update")
	defer span.End()

	o, err := s.GetOrganization(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Name = strings.TrimSpace(in.Name)
	if o.Name == "" {
		return nil, apperrors.MissingField("name")
	}
	if err := s.store.UpdateOrganization(ctx, o); err != nil {
		return nil, s.lookupFailure(ctx, err, resourceOrganization, id)
	}
	return o, nil
}

// DeleteOrganization removes an organization that owns no products.
func (s *Service) DeleteOrganization(ctx context.Context, id int64) error {
	ctx, span := observability.StartSpan(ctx, "catalog.organization.delete")
	defer span.End()

	err := s.store.DeleteOrganization(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrHasProducts), database.IsForeignKeyError(err):
		return apperrors.Conflict("The organization still has products.").WithCause(err)
	}
	return s.lookupFailure(ctx, err, resourceOrganization, id)
}

// --- Products ---

// CreateProduct creates a product. The organization, when given, must exist.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	ctx, span := observability.StartSpan(ctx, "catalog.product.create")
	defer span.End()

	p := &Product{}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, s.productWriteFailure(ctx, "create product", err)
	}
	return p, nil
}

// GetProduct returns the product with id.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, s.lookupFailure(ctx, err, resourceProduct, id)
	}
	return p, nil
}

// ListProducts returns one page of products.
func (s *Service) ListProducts(ctx context.Context, params query.Params) (*query.Result[Product], error) {
	res, err := s.store.ListProducts(ctx, params)
	if err != nil {
		return nil, s.fail(ctx, "list products", err, resourceProduct)
	}
	return res, nil
}

// UpdateProduct replaces the product's writable fields.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductInput) (*Product, error) {
	ctx, span := observability.StartSpan(ctx, "catalog.product.update")
	defer span.End()

	p, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.NotFound(resourceProduct, strconv.FormatInt(id, 10))
		}
		return nil, s.productWriteFailure(ctx, "update product", err)
	}
	return p, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return s.lookupFailure(ctx, err, resourceProduct, id)
	}
	return nil
}

// apply copies in onto p after normalizing it and checking the organization.
func (s *Service) apply(ctx context.Context, p *Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperrors.MissingField("name")
	}
	if in.PriceCents < 0 {
		return apperrors.InvalidInput("price_cents", "price_cents must not be negative")
	}

	var sku *string
	if v := strings.TrimSpace(util.Deref(in.SKU)); v != "" {
		sku = util.Ptr(v)
	}

	if in.OrganizationID != nil {
		if _, err := s.store.GetOrganization(ctx, *in.OrganizationID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return unknownOrganization()
			}
			return s.fail(ctx, "check organization", err, resourceOrganization)
		}
	}

	p.Name = name
	p.SKU = sku
	p.PriceCents = in.PriceCents
	p.OrganizationID = in.OrganizationID
	return nil
}

func (s *Service) productWriteFailure(ctx context.Context, op string, err error) error {
	if database.IsForeignKeyError(err) {
		return unknownOrganization().WithCause(err)
	}
	return s.fail(ctx, op, err, resourceProduct)
}

func (s *Service) lookupFailure(ctx context.Context, err error, resource string, id int64) error {
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound(resource, strconv.FormatInt(id, 10))
	}
	return s.fail(ctx, "load "+resource, err, resource)
}

// fail maps a storage error to an AppError, logging the ones that are not
// the client's fault.
func (s *Service) fail(ctx context.Context, op string, err error, resource string) error {
	appErr := database.FromDatabase(err, resource)
	if appErr.HTTPStatus >= 500 {
		observability.SetSpanError(ctx, err)
		s.log.WithContext(ctx).Error("catalog storage failed", logger.ErrorFields(op, err))
	}
	return appErr
}

func unknownOrganization() *apperrors.AppError {
	return apperrors.InvalidInput("organization_id", "organization does not exist")
}
