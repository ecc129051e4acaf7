package repository

import (
	"context"

	"gorm.io/gorm"

	"rosterup/internal/model"
)

// TenantRepository defines tenant persistence operations. Listing methods are
// paginated with offset/limit and return the total row count alongside the
// page.
type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	Update(ctx context.Context, tenant *model.Tenant) error
	Delete(ctx context.Context, tenant *model.Tenant) error
	FindByID(ctx context.Context, id uint) (*model.Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
	List(ctx context.Context, offset, limit int, order string) ([]model.Tenant, int64, error)
	FindByName(ctx context.Context, name string, offset, limit int) ([]model.Tenant, int64, error)
	FindByActive(ctx context.Context, active bool, offset, limit int) ([]model.Tenant, int64, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TenantRepository) error) error
}

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository builds a GORM-backed tenant repository.
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepository) Update(ctx context.Context, tenant *model.Tenant) error {
	return r.db.WithContext(ctx).Save(tenant).Error
}

func (r *tenantRepository) Delete(ctx context.Context, tenant *model.Tenant) error {
	return r.db.WithContext(ctx).Delete(tenant).Error
}

func (r *tenantRepository) FindByID(ctx context.Context, id uint) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := r.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := r.db.WithContext(ctx).Where("subdomain = ?", subdomain).First(&tenant).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context, offset, limit int, order string) ([]model.Tenant, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Tenant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tenants []model.Tenant
	if err := r.db.WithContext(ctx).Order(order).Offset(offset).Limit(limit).Find(&tenants).Error; err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

// FindByName matches against the normalized stored name: spaces replaced with
// hyphens, compared case-insensitively. This is an exact normalized match,
// not a substring search.
func (r *tenantRepository) FindByName(ctx context.Context, name string, offset, limit int) ([]model.Tenant, int64, error) {
	const cond = "LOWER(REPLACE(name, ' ', '-')) = LOWER(?)"

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Tenant{}).Where(cond, name).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tenants []model.Tenant
	if err := r.db.WithContext(ctx).Where(cond, name).
		Order("id").Offset(offset).Limit(limit).Find(&tenants).Error; err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

func (r *tenantRepository) FindByActive(ctx context.Context, active bool, offset, limit int) ([]model.Tenant, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Tenant{}).Where("is_active = ?", active).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var tenants []model.Tenant
	if err := r.db.WithContext(ctx).Where("is_active = ?", active).
		Order("id").Offset(offset).Limit(limit).Find(&tenants).Error; err != nil {
		return nil, 0, err
	}
	return tenants, total, nil
}

// WithTransaction executes fn against a repository bound to one transaction.
// The subdomain existence check and the write must share the transaction.
func (r *tenantRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TenantRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &tenantRepository{db: tx})
	})
}
