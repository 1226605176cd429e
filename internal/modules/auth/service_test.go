package auth

import (
	"context"
	"testing"
	"time"

	"smap/internal/domain"
	jwtsvc "smap/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func testUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return &domain.User{
		ID:           1,
		Name:         "System Administrator",
		Username:     "admin",
		Email:        "admin@smap.local",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
}

func TestService_Login_Success(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByUsername", mock.Anything, "admin").Return(testUser(t, "admin123"), nil)

	j := jwtsvc.New("test-secret", time.Hour)
	service := NewService(mockUsers, j)

	res, err := service.Login(context.Background(), LoginRequest{Username: "admin", Password: "admin123"})

	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "admin", res.User.Username)
	assert.Equal(t, domain.RoleAdmin, res.User.Role)

	claims, err := j.ValidateToken(res.Token)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestService_Login_WrongPassword(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByUsername", mock.Anything, "admin").Return(testUser(t, "admin123"), nil)

	service := NewService(mockUsers, jwtsvc.New("test-secret", time.Hour))

	_, err := service.Login(context.Background(), LoginRequest{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownUser(t *testing.T) {
	mockUsers := new(MockUserRepository)
	mockUsers.On("GetByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	service := NewService(mockUsers, jwtsvc.New("test-secret", time.Hour))

	_, err := service.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})

	// Same error as a wrong password so responses don't leak which
	// accounts exist.
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_EmptyFields(t *testing.T) {
	service := NewService(new(MockUserRepository), jwtsvc.New("test-secret", time.Hour))

	_, err := service.Login(context.Background(), LoginRequest{Username: "  ", Password: ""})
	assert.ErrorIs(t, err, ErrValidation)
}
