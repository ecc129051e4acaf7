package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"rosterup/internal/cache"
	apperrors "rosterup/internal/errors"
	"rosterup/internal/model"
	"rosterup/internal/repository"
)

const tenantCacheTTL = 5 * time.Minute

// TenantPage is one page of tenants plus paging metadata.
type TenantPage struct {
	Content       []model.Tenant `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
}

// TenantService provides CRUD and search over the tenant directory and
// enforces the subdomain uniqueness invariant.
type TenantService interface {
	GetAll(ctx context.Context, page PageRequest) (*TenantPage, error)
	GetByID(ctx context.Context, idParam string) (*model.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)
	GetByName(ctx context.Context, name string, page PageRequest) (*TenantPage, error)
	GetByActive(ctx context.Context, active bool, page PageRequest) (*TenantPage, error)
	Create(ctx context.Context, name, subdomain string, active *bool) (*model.Tenant, error)
	Update(ctx context.Context, idParam, name, subdomain string, active bool) (*model.Tenant, error)
	Delete(ctx context.Context, idParam string) error
}

type tenantService struct {
	repo  repository.TenantRepository
	cache *cache.Client
}

// NewTenantService creates a new tenant service.
func NewTenantService(repo repository.TenantRepository, cache *cache.Client) TenantService {
	return &tenantService{repo: repo, cache: cache}
}

// ParseTenantID validates a path parameter as a positive integer id. It runs
// before any repository access.
func ParseTenantID(idParam string) (uint, error) {
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		return 0, &apperrors.InvalidTenantParameterError{Parameter: idParam, Message: "id must be a number"}
	}
	if id <= 0 {
		return 0, &apperrors.InvalidTenantParameterError{Parameter: idParam, Message: "id must be a positive number"}
	}
	return uint(id), nil
}

func (s *tenantService) cacheKey(subdomain string) string {
	return fmt.Sprintf("tenant:subdomain:%s", subdomain)
}

func (s *tenantService) GetAll(ctx context.Context, page PageRequest) (*TenantPage, error) {
	page = page.Normalize()
	tenants, total, err := s.repo.List(ctx, page.Offset(), page.Size, page.OrderClause())
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return s.toPage(tenants, total, page), nil
}

func (s *tenantService) GetByID(ctx context.Context, idParam string) (*model.Tenant, error) {
	id, err := ParseTenantID(idParam)
	if err != nil {
		return nil, err
	}
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &apperrors.TenantNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return tenant, nil
}

// GetBySubdomain serves reads through the cache; the subdomain is the routing
// key and is looked up on every tenant-scoped request.
func (s *tenantService) GetBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(subdomain)); data != nil {
		var cached model.Tenant
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	tenant, err := s.repo.FindBySubdomain(ctx, subdomain)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &apperrors.TenantNotFoundError{Subdomain: subdomain}
		}
		return nil, fmt.Errorf("find tenant by subdomain: %w", err)
	}

	if payload, err := json.Marshal(tenant); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(subdomain), payload, tenantCacheTTL)
	}
	return tenant, nil
}

func (s *tenantService) GetByName(ctx context.Context, name string, page PageRequest) (*TenantPage, error) {
	page = page.Normalize()
	tenants, total, err := s.repo.FindByName(ctx, name, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("find tenants by name: %w", err)
	}
	return s.toPage(tenants, total, page), nil
}

func (s *tenantService) GetByActive(ctx context.Context, active bool, page PageRequest) (*TenantPage, error) {
	page = page.Normalize()
	tenants, total, err := s.repo.FindByActive(ctx, active, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("find tenants by active: %w", err)
	}
	return s.toPage(tenants, total, page), nil
}

// Create persists a new tenant after checking subdomain uniqueness. The check
// and the insert share one transaction; the unique index on subdomain is the
// backstop for concurrent creates.
func (s *tenantService) Create(ctx context.Context, name, subdomain string, active *bool) (*model.Tenant, error) {
	tenant := &model.Tenant{
		Name:      name,
		Subdomain: subdomain,
		Active:    true,
	}
	if active != nil {
		tenant.Active = *active
	}

	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.TenantRepository) error {
		_, err := repo.FindBySubdomain(ctx, subdomain)
		if err == nil {
			return &apperrors.DuplicateSubdomainError{Subdomain: subdomain}
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check subdomain: %w", err)
		}
		return repo.Create(ctx, tenant)
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// Update overwrites name, subdomain, and active flag. A changed subdomain is
// re-checked for uniqueness against other tenants; keeping the current
// subdomain never conflicts.
func (s *tenantService) Update(ctx context.Context, idParam, name, subdomain string, active bool) (*model.Tenant, error) {
	id, err := ParseTenantID(idParam)
	if err != nil {
		return nil, err
	}

	var updated *model.Tenant
	var previousSubdomain string
	err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.TenantRepository) error {
		tenant, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return &apperrors.TenantNotFoundError{ID: id}
			}
			return fmt.Errorf("find tenant: %w", err)
		}
		previousSubdomain = tenant.Subdomain

		if tenant.Subdomain != subdomain {
			if _, err := repo.FindBySubdomain(ctx, subdomain); err == nil {
				return &apperrors.DuplicateSubdomainError{Subdomain: subdomain}
			} else if err != gorm.ErrRecordNotFound {
				return fmt.Errorf("check subdomain: %w", err)
			}
		}

		tenant.Name = name
		tenant.Subdomain = subdomain
		tenant.Active = active
		if err := repo.Update(ctx, tenant); err != nil {
			return fmt.Errorf("update tenant: %w", err)
		}
		updated = tenant
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, s.cacheKey(previousSubdomain))
	_ = s.cache.Delete(ctx, s.cacheKey(updated.Subdomain))
	return updated, nil
}

func (s *tenantService) Delete(ctx context.Context, idParam string) error {
	id, err := ParseTenantID(idParam)
	if err != nil {
		return err
	}
	tenant, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &apperrors.TenantNotFoundError{ID: id}
		}
		return fmt.Errorf("find tenant: %w", err)
	}
	if err := s.repo.Delete(ctx, tenant); err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(tenant.Subdomain))
	return nil
}

func (s *tenantService) toPage(tenants []model.Tenant, total int64, page PageRequest) *TenantPage {
	if tenants == nil {
		tenants = []model.Tenant{}
	}
	return &TenantPage{
		Content:       tenants,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: total,
		TotalPages:    totalPages(total, page.Size),
	}
}
