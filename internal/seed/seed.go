package seed

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rosterup/internal/config"
	"rosterup/internal/model"
	"rosterup/internal/repository"
)

const bcryptCost = 10

// Run bootstraps reference data: every role from the fixed enumeration, plus
// a developer user holding all roles. It is idempotent and safe to run on
// every startup; existing rows are left untouched.
func Run(ctx context.Context, cfg *config.Config, roleRepo repository.RoleRepository, userRepo repository.UserRepository) error {
	roles := make([]model.Role, 0, len(model.AllRoleNames()))
	for _, name := range model.AllRoleNames() {
		role, err := roleRepo.FindByName(ctx, name)
		if err == gorm.ErrRecordNotFound {
			role = &model.Role{Name: name}
			if err := roleRepo.Create(ctx, role); err != nil {
				return fmt.Errorf("seed role %s: %w", name, err)
			}
			log.Printf("seeded role %s", name)
		} else if err != nil {
			return fmt.Errorf("find role %s: %w", name, err)
		}
		roles = append(roles, *role)
	}

	if _, err := userRepo.FindByUsername(ctx, cfg.SeedUsername); err == nil {
		return nil
	} else if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("find seed user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.SeedPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	user := &model.User{
		Username:              cfg.SeedUsername,
		Email:                 cfg.SeedEmail,
		PasswordHash:          string(hash),
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Enabled:               true,
		Roles:                 roles,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("seed user: %w", err)
	}
	log.Printf("seeded developer user %s", cfg.SeedUsername)
	return nil
}
