package item

import (
	"context"
	"errors"
	"strings"

	"smap/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Service struct {
	items ItemRepository
	inval SummaryInvalidator
}

func NewService(items ItemRepository, inval SummaryInvalidator) *Service {
	return &Service{items: items, inval: inval}
}

// Create registers a new item. Every item enters the register as available;
// condition defaults to good when the caller omits it.
func (s *Service) Create(ctx context.Context, req CreateItemRequest) (*domain.Item, error) {
	if strings.TrimSpace(req.Code) == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrValidation
	}

	condition := req.Condition
	if condition == "" {
		condition = domain.ConditionGood
	}
	if !condition.Valid() {
		return nil, ErrValidation
	}

	it := &domain.Item{
		Code:            req.Code,
		AssetNumber:     req.AssetNumber,
		Name:            req.Name,
		Brand:           req.Brand,
		Size:            req.Size,
		Category:        req.Category,
		Warehouse:       req.Warehouse,
		Location:        req.Location,
		Condition:       condition,
		Status:          domain.ItemAvailable,
		AcquisitionDate: req.AcquisitionDate,
		PhotoURL:        req.PhotoURL,
		ProductBarcode:  req.ProductBarcode,
		SerialBarcode:   req.SerialBarcode,
		Notes:           req.Notes,
	}

	if err := s.items.Create(ctx, it); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}

	if s.inval != nil {
		s.inval.InvalidateSummary(ctx)
	}
	return it, nil
}

// Update edits descriptive fields and the assessed condition. Code and status
// are immutable here: code is the item's identity, status is moved only by the
// workflow engines.
func (s *Service) Update(ctx context.Context, id int64, req UpdateItemRequest) (*domain.Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrValidation
	}
	condition := req.Condition
	if condition != "" && !condition.Valid() {
		return nil, ErrValidation
	}

	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	it.AssetNumber = req.AssetNumber
	it.Name = req.Name
	it.Brand = req.Brand
	it.Size = req.Size
	it.Category = req.Category
	it.Warehouse = req.Warehouse
	it.Location = req.Location
	it.AcquisitionDate = req.AcquisitionDate
	it.PhotoURL = req.PhotoURL
	it.ProductBarcode = req.ProductBarcode
	it.SerialBarcode = req.SerialBarcode
	it.Notes = req.Notes
	if condition != "" {
		it.Condition = condition
	}

	if err := s.items.Update(ctx, it); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.inval != nil {
		s.inval.InvalidateSummary(ctx)
	}
	return it, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Item, error) {
	it, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return it, nil
}

func (s *Service) List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.Item, int64, error) {
	return s.items.List(ctx, page, size, sortBy, sortDir)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.items.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if s.inval != nil {
		s.inval.InvalidateSummary(ctx)
	}
	return nil
}

// isUniqueViolation recognizes a duplicate item code on both backends:
// Postgres reports SQLSTATE 23505, SQLite reports a constraint message.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
