package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rosterup/internal/auth"
	apperrors "rosterup/internal/errors"
	"rosterup/internal/model"
	"rosterup/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ReplaceRoles(ctx context.Context, user *model.User, roles []model.Role) error {
	args := m.Called(ctx, user, roles)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.UserRepository) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m)
}

// MockTokenRepository is a mock implementation of TokenRepository.
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *model.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) FindByToken(ctx context.Context, token string) (*model.Token, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Token), args.Error(1)
}

func (m *MockTokenRepository) FindAllValidByUserID(ctx context.Context, userID uint) ([]model.Token, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Token), args.Error(1)
}

func (m *MockTokenRepository) RevokeAllByUserID(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTokenRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.TokenRepository) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx, m)
}

func enabledUser(id uint, username, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return &model.User{
		ID:                    id,
		Username:              username,
		Email:                 username + "@example.com",
		PasswordHash:          string(hash),
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
		Enabled:               true,
		Roles:                 []model.Role{{ID: 1, Name: model.RoleAdmin}},
	}
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenRepository)
		expectedError error
	}{
		{
			name:     "successful login rotates tokens",
			username: "alice",
			password: "password123",
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				mUser.On("FindByUsername", mock.Anything, "alice").Return(enabledUser(1, "alice", "password123"), nil)
				mToken.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				mToken.On("RevokeAllByUserID", mock.Anything, uint(1)).Return(nil)
				mToken.On("Create", mock.Anything, mock.AnythingOfType("*model.Token")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "password123",
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				mUser.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong-password",
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				mUser.On("FindByUsername", mock.Anything, "alice").Return(enabledUser(1, "alice", "password123"), nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "disabled user",
			username: "alice",
			password: "password123",
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				user := enabledUser(1, "alice", "password123")
				user.Enabled = false
				mUser.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "locked user",
			username: "alice",
			password: "password123",
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				user := enabledUser(1, "alice", "password123")
				user.AccountNonLocked = false
				mUser.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockTokenRepo := new(MockTokenRepository)
			tt.setupMock(mockUserRepo, mockTokenRepo)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockUserRepo, mockTokenRepo, jwtService)

			accessToken, refreshToken, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotEqual(t, accessToken, refreshToken)
			}

			mockUserRepo.AssertExpectations(t)
			mockTokenRepo.AssertExpectations(t)
		})
	}
}

// Every successful login must revoke the previous tokens before persisting the
// new one, so a user never accumulates more than one valid token.
func TestAuthService_Login_RotationPersistsExactlyOneToken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockTokenRepo := new(MockTokenRepository)
	user := enabledUser(7, "alice", "password123")
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	var persisted []*model.Token
	mockTokenRepo.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
	mockTokenRepo.On("RevokeAllByUserID", mock.Anything, uint(7)).
		Run(func(args mock.Arguments) {
			for _, tok := range persisted {
				tok.Revoked = true
				tok.Expired = true
			}
		}).Return(nil)
	mockTokenRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Token")).
		Run(func(args mock.Arguments) {
			persisted = append(persisted, args.Get(1).(*model.Token))
		}).Return(nil)

	jwtService := auth.NewJWTService("test-secret")
	service := NewAuthService(mockUserRepo, mockTokenRepo, jwtService)

	for i := 0; i < 3; i++ {
		_, _, err := service.Login(context.Background(), "alice", "password123")
		assert.NoError(t, err)
	}

	assert.Len(t, persisted, 3)
	valid := 0
	for _, tok := range persisted {
		if tok.Valid() {
			valid++
		}
	}
	assert.Equal(t, 1, valid)
	assert.True(t, persisted[len(persisted)-1].Valid())
	assert.Equal(t, model.TokenTypeBearer, persisted[len(persisted)-1].TokenType)
}

func TestAuthService_Refresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	validRefresh, err := jwtService.GenerateRefreshToken(7, "alice")
	assert.NoError(t, err)

	tests := []struct {
		name          string
		authHeader    string
		setupMock     func(*MockUserRepository, *MockTokenRepository)
		expectedError error
		expectEmpty   bool
	}{
		{
			name:          "missing header is a silent no-op",
			authHeader:    "",
			setupMock:     func(mUser *MockUserRepository, mToken *MockTokenRepository) {},
			expectedError: nil,
			expectEmpty:   true,
		},
		{
			name:          "non-bearer header is a silent no-op",
			authHeader:    "Basic YWxpY2U6cGFzc3dvcmQ=",
			setupMock:     func(mUser *MockUserRepository, mToken *MockTokenRepository) {},
			expectedError: nil,
			expectEmpty:   true,
		},
		{
			name:          "garbage token",
			authHeader:    "Bearer not-a-jwt",
			setupMock:     func(mUser *MockUserRepository, mToken *MockTokenRepository) {},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name:       "unknown subject",
			authHeader: "Bearer " + validRefresh,
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				mUser.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name:       "disabled subject",
			authHeader: "Bearer " + validRefresh,
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				user := enabledUser(7, "alice", "password123")
				user.Enabled = false
				mUser.On("FindByUsername", mock.Anything, "alice").Return(user, nil)
			},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name:       "successful refresh",
			authHeader: "Bearer " + validRefresh,
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				mUser.On("FindByUsername", mock.Anything, "alice").Return(enabledUser(7, "alice", "password123"), nil)
				mToken.On("WithTransaction", mock.Anything, mock.Anything).Return(nil)
				mToken.On("RevokeAllByUserID", mock.Anything, uint(7)).Return(nil)
				mToken.On("Create", mock.Anything, mock.AnythingOfType("*model.Token")).Return(nil)
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockTokenRepo := new(MockTokenRepository)
			tt.setupMock(mockUserRepo, mockTokenRepo)

			service := NewAuthService(mockUserRepo, mockTokenRepo, jwtService)
			accessToken, refreshToken, err := service.Refresh(context.Background(), tt.authHeader)

			switch {
			case tt.expectedError != nil:
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
			case tt.expectEmpty:
				assert.NoError(t, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
			default:
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				// The refresh token comes back unchanged.
				assert.Equal(t, validRefresh, refreshToken)
			}

			mockUserRepo.AssertExpectations(t)
			mockTokenRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(7, "alice", []string{"ADMIN"})
	assert.NoError(t, err)

	tests := []struct {
		name          string
		authHeader    string
		setupMock     func(*MockUserRepository, *MockTokenRepository)
		expectedError error
	}{
		{
			name:          "missing header is a no-op",
			authHeader:    "",
			setupMock:     func(mUser *MockUserRepository, mToken *MockTokenRepository) {},
			expectedError: nil,
		},
		{
			name:          "garbage token",
			authHeader:    "Bearer not-a-jwt",
			setupMock:     func(mUser *MockUserRepository, mToken *MockTokenRepository) {},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name:       "revokes all tokens for the subject",
			authHeader: "Bearer " + accessToken,
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				mUser.On("FindByUsername", mock.Anything, "alice").Return(enabledUser(7, "alice", "password123"), nil)
				mToken.On("RevokeAllByUserID", mock.Anything, uint(7)).Return(nil)
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockTokenRepo := new(MockTokenRepository)
			tt.setupMock(mockUserRepo, mockTokenRepo)

			service := NewAuthService(mockUserRepo, mockTokenRepo, jwtService)
			err := service.Logout(context.Background(), tt.authHeader)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}

			mockUserRepo.AssertExpectations(t)
			mockTokenRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_ValidateAccessToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(7, "alice", []string{"ADMIN"})
	assert.NoError(t, err)

	tests := []struct {
		name          string
		token         string
		setupMock     func(*MockUserRepository, *MockTokenRepository)
		expectedError error
	}{
		{
			name:  "valid persisted token",
			token: accessToken,
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				mToken.On("FindByToken", mock.Anything, accessToken).Return(&model.Token{Token: accessToken, UserID: 7}, nil)
				mUser.On("FindByUsername", mock.Anything, "alice").Return(enabledUser(7, "alice", "password123"), nil)
			},
			expectedError: nil,
		},
		{
			name:  "revoked persisted token",
			token: accessToken,
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				mToken.On("FindByToken", mock.Anything, accessToken).
					Return(&model.Token{Token: accessToken, UserID: 7, Revoked: true, Expired: true}, nil)
			},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name:  "token not persisted",
			token: accessToken,
			setupMock: func(mUser *MockUserRepository, mToken *MockTokenRepository) {
				mToken.On("FindByToken", mock.Anything, accessToken).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name:          "bad signature",
			token:         accessToken + "tampered",
			setupMock:     func(mUser *MockUserRepository, mToken *MockTokenRepository) {},
			expectedError: apperrors.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUserRepo := new(MockUserRepository)
			mockTokenRepo := new(MockTokenRepository)
			tt.setupMock(mockUserRepo, mockTokenRepo)

			service := NewAuthService(mockUserRepo, mockTokenRepo, jwtService)
			user, claims, err := service.ValidateAccessToken(context.Background(), tt.token)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, user)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "alice", user.Username)
				assert.Equal(t, uint(7), claims.UserID)
				assert.Contains(t, claims.Roles, "ADMIN")
			}

			mockUserRepo.AssertExpectations(t)
			mockTokenRepo.AssertExpectations(t)
		})
	}
}
