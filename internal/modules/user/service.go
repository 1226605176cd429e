package user

import (
	"context"
	"errors"
	"strings"

	"smap/internal/domain"
	"smap/internal/pkg/validator"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultPassword is applied when an admin creates an account without one.
// The user is expected to change it on first login.
const defaultPassword = "password123"

type Service struct {
	users UserRepository
}

func NewService(users UserRepository) *Service {
	return &Service{users: users}
}

func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*UserView, error) {
	if !req.Role.Valid() {
		return nil, ErrValidation
	}

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrValidation
	}

	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateUsername
	}
	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateEmail
	}

	password := req.Password
	if password == "" {
		password = defaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:           req.Name,
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		Role:           req.Role,
		EmployeeNumber: req.EmployeeNumber,
		Position:       req.Position,
		Division:       req.Division,
	}
	if fields := validator.Validate(u); len(fields) > 0 {
		return nil, ErrValidation
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	v := toView(u)
	return &v, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*UserView, error) {
	if !req.Role.Valid() {
		return nil, ErrValidation
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != u.Email {
		if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
			return nil, err
		} else if taken {
			return nil, ErrDuplicateEmail
		}
	}

	u.Name = req.Name
	u.Email = email
	u.Role = req.Role
	u.EmployeeNumber = req.EmployeeNumber
	u.Position = req.Position
	u.Division = req.Division

	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if fields := validator.Validate(u); len(fields) > 0 {
		return nil, ErrValidation
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	v := toView(u)
	return &v, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*UserView, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	v := toView(u)
	return &v, nil
}

func (s *Service) List(ctx context.Context, page, size int, sortBy, sortDir string) ([]UserView, int64, error) {
	users, total, err := s.users.List(ctx, page, size, sortBy, sortDir)
	if err != nil {
		return nil, 0, err
	}

	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, toView(&users[i]))
	}
	return views, total, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.users.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
