package repository

import (
	"context"
	"strings"
	"time"

	"smap/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	Name           string    `gorm:"column:name;not null"`
	Username       string    `gorm:"column:username;uniqueIndex;not null"`
	Email          string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash   string    `gorm:"column:password_hash;not null"`
	Role           string    `gorm:"column:role;not null"`
	EmployeeNumber *string   `gorm:"column:employee_number"`
	Position       *string   `gorm:"column:position"`
	Division       *string   `gorm:"column:division"`
	Deleted        bool      `gorm:"column:deleted;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:             m.ID,
		Name:           m.Name,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		Role:           domain.UserRole(m.Role),
		EmployeeNumber: strVal(m.EmployeeNumber),
		Position:       strVal(m.Position),
		Division:       strVal(m.Division),
		Deleted:        m.Deleted,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:             u.ID,
		Name:           u.Name,
		Username:       strings.TrimSpace(u.Username),
		Email:          strings.TrimSpace(strings.ToLower(u.Email)),
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		EmployeeNumber: strPtr(u.EmployeeNumber),
		Position:       strPtr(u.Position),
		Division:       strPtr(u.Division),
		Deleted:        u.Deleted,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, "id = ? AND deleted = ?", id, false)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, "username = ? AND deleted = ?", username, false)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

var userSortColumns = map[string]string{
	"id":         "id",
	"name":       "name",
	"username":   "username",
	"role":       "role",
	"created_at": "created_at",
}

func (r *UserRepository) List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&userModel{}).Where("deleted = ?", false)

	var total int64
	if tx := q.Count(&total); tx.Error != nil {
		return nil, 0, tx.Error
	}

	var ms []userModel
	tx := q.Order(orderClause(userSortColumns, sortBy, sortDir)).
		Limit(size).Offset(page * size).
		Find(&ms)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	out := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainUser(m))
	}
	return out, total, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND deleted = ?", u.ID, false).
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("username = ?", username).Count(&n)
	return n > 0, tx.Error
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("email = ?", strings.ToLower(email)).Count(&n)
	return n > 0, tx.Error
}
