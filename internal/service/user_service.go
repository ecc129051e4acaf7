package service

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "rosterup/internal/errors"
	"rosterup/internal/model"
	"rosterup/internal/repository"
)

// UserPage is one page of users plus paging metadata.
type UserPage struct {
	Content       []model.User `json:"content"`
	Page          int          `json:"page"`
	Size          int          `json:"size"`
	TotalElements int64        `json:"totalElements"`
	TotalPages    int          `json:"totalPages"`
}

// CreateUserInput carries the fields for user creation.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// UpdateUserInput carries the fields for user updates. A nil Password leaves
// the stored hash untouched.
type UpdateUserInput struct {
	Username string
	Email    string
	Password string
	Roles    []string
	Enabled  bool
}

// UserService administers API users and their role assignments.
type UserService interface {
	GetAll(ctx context.Context, page PageRequest) (*UserPage, error)
	GetByID(ctx context.Context, idParam string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, input CreateUserInput) (*model.User, error)
	Update(ctx context.Context, idParam string, input UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, idParam string) error
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

// NewUserService creates a new user administration service.
func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{userRepo: userRepo, roleRepo: roleRepo}
}

func parseUserID(idParam string) (uint, error) {
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		return 0, &apperrors.UserNotFoundError{Username: idParam}
	}
	return uint(id), nil
}

func (s *userService) GetAll(ctx context.Context, page PageRequest) (*UserPage, error) {
	page = page.Normalize()
	users, total, err := s.userRepo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}
	return &UserPage{
		Content:       users,
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: total,
		TotalPages:    totalPages(total, page.Size),
	}, nil
}

func (s *userService) GetByID(ctx context.Context, idParam string) (*model.User, error) {
	id, err := parseUserID(idParam)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &apperrors.UserNotFoundError{ID: id}
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &apperrors.UserNotFoundError{Username: username}
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return user, nil
}

// Create registers a new user. Username and email must be unique, every
// requested role must belong to the fixed enumeration, and lifecycle flags
// default to true.
func (s *userService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	roles, err := s.validateAndFetchRoles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:              input.Username,
		Email:                 input.Email,
		PasswordHash:          string(hash),
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Enabled:               true,
		Roles:                 roles,
	}

	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		if taken, err := repo.ExistsByUsername(ctx, input.Username); err != nil {
			return fmt.Errorf("check username: %w", err)
		} else if taken {
			return &apperrors.DuplicateUsernameError{Username: input.Username}
		}
		if taken, err := repo.ExistsByEmail(ctx, input.Email); err != nil {
			return fmt.Errorf("check email: %w", err)
		} else if taken {
			return &apperrors.DuplicateEmailError{Email: input.Email}
		}
		return repo.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update overwrites username, email, enabled flag, and role set. Username and
// email changes are re-checked for uniqueness against other users. A non-empty
// password replaces the stored hash.
func (s *userService) Update(ctx context.Context, idParam string, input UpdateUserInput) (*model.User, error) {
	id, err := parseUserID(idParam)
	if err != nil {
		return nil, err
	}

	roles, err := s.validateAndFetchRoles(ctx, input.Roles)
	if err != nil {
		return nil, err
	}

	var updated *model.User
	err = s.userRepo.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return &apperrors.UserNotFoundError{ID: id}
			}
			return fmt.Errorf("find user: %w", err)
		}

		if user.Username != input.Username {
			if taken, err := repo.ExistsByUsername(ctx, input.Username); err != nil {
				return fmt.Errorf("check username: %w", err)
			} else if taken {
				return &apperrors.DuplicateUsernameError{Username: input.Username}
			}
		}
		if user.Email != input.Email {
			if taken, err := repo.ExistsByEmail(ctx, input.Email); err != nil {
				return fmt.Errorf("check email: %w", err)
			} else if taken {
				return &apperrors.DuplicateEmailError{Email: input.Email}
			}
		}

		user.Username = input.Username
		user.Email = input.Email
		user.Enabled = input.Enabled
		if input.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = string(hash)
		}

		if err := repo.Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if err := repo.ReplaceRoles(ctx, user, roles); err != nil {
			return fmt.Errorf("replace roles: %w", err)
		}
		user.Roles = roles
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete disables the user. User rows are never hard-deleted; their tokens
// and audit trail stay intact.
func (s *userService) Delete(ctx context.Context, idParam string) error {
	id, err := parseUserID(idParam)
	if err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &apperrors.UserNotFoundError{ID: id}
		}
		return fmt.Errorf("find user: %w", err)
	}
	user.Enabled = false
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("disable user: %w", err)
	}
	return nil
}

// validateAndFetchRoles rejects any role name outside the enumeration, then
// resolves the seeded role rows. All invalid names are reported together.
func (s *userService) validateAndFetchRoles(ctx context.Context, names []string) ([]model.Role, error) {
	var invalid []string
	for _, name := range names {
		if !model.RoleName(name).Valid() {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return nil, &apperrors.InvalidRoleNameError{Names: invalid}
	}

	roles := make([]model.Role, 0, len(names))
	for _, name := range names {
		role, err := s.roleRepo.FindByName(ctx, model.RoleName(name))
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, &apperrors.InvalidRoleNameError{Names: []string{name}}
			}
			return nil, fmt.Errorf("find role %s: %w", name, err)
		}
		roles = append(roles, *role)
	}
	return roles, nil
}
