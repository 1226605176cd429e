package repository

import (
	"context"
	"time"

	"smap/internal/domain"

	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

type itemModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	Code            string     `gorm:"column:code;uniqueIndex;not null"`
	AssetNumber     *string    `gorm:"column:asset_number"`
	Name            string     `gorm:"column:name;not null"`
	Brand           *string    `gorm:"column:brand"`
	Size            *string    `gorm:"column:size"`
	Category        *string    `gorm:"column:category"`
	Warehouse       *string    `gorm:"column:warehouse"`
	Location        *string    `gorm:"column:location"`
	Condition       string     `gorm:"column:condition;not null"`
	Status          string     `gorm:"column:status;not null"`
	AcquisitionDate *time.Time `gorm:"column:acquisition_date"`
	PhotoURL        *string    `gorm:"column:photo_url"`
	ProductBarcode  *string    `gorm:"column:product_barcode"`
	SerialBarcode   *string    `gorm:"column:serial_barcode"`
	Notes           *string    `gorm:"column:notes;type:text"`
	Deleted         bool       `gorm:"column:deleted;not null;default:false"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (itemModel) TableName() string { return "items" }

func toDomainItem(m itemModel) *domain.Item {
	return &domain.Item{
		ID:              m.ID,
		Code:            m.Code,
		AssetNumber:     strVal(m.AssetNumber),
		Name:            m.Name,
		Brand:           strVal(m.Brand),
		Size:            strVal(m.Size),
		Category:        strVal(m.Category),
		Warehouse:       strVal(m.Warehouse),
		Location:        strVal(m.Location),
		Condition:       domain.ItemCondition(m.Condition),
		Status:          domain.ItemStatus(m.Status),
		AcquisitionDate: m.AcquisitionDate,
		PhotoURL:        strVal(m.PhotoURL),
		ProductBarcode:  strVal(m.ProductBarcode),
		SerialBarcode:   strVal(m.SerialBarcode),
		Notes:           strVal(m.Notes),
		Deleted:         m.Deleted,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toItemModel(it *domain.Item) itemModel {
	return itemModel{
		ID:              it.ID,
		Code:            it.Code,
		AssetNumber:     strPtr(it.AssetNumber),
		Name:            it.Name,
		Brand:           strPtr(it.Brand),
		Size:            strPtr(it.Size),
		Category:        strPtr(it.Category),
		Warehouse:       strPtr(it.Warehouse),
		Location:        strPtr(it.Location),
		Condition:       string(it.Condition),
		Status:          string(it.Status),
		AcquisitionDate: it.AcquisitionDate,
		PhotoURL:        strPtr(it.PhotoURL),
		ProductBarcode:  strPtr(it.ProductBarcode),
		SerialBarcode:   strPtr(it.SerialBarcode),
		Notes:           strPtr(it.Notes),
		Deleted:         it.Deleted,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}
}

func (r *ItemRepository) Create(ctx context.Context, it *domain.Item) error {
	m := toItemModel(it)
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}
	*it = *toDomainItem(m)
	return nil
}

// GetByID returns a non-deleted item. Soft-deleted rows behave like missing
// ones: gorm.ErrRecordNotFound.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	var m itemModel
	tx := r.db.WithContext(ctx).First(&m, "id = ? AND deleted = ?", id, false)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainItem(m), nil
}

var itemSortColumns = map[string]string{
	"id":         "id",
	"code":       "code",
	"name":       "name",
	"status":     "status",
	"condition":  "condition",
	"created_at": "created_at",
}

func (r *ItemRepository) List(ctx context.Context, page, size int, sortBy, sortDir string) ([]domain.Item, int64, error) {
	q := r.db.WithContext(ctx).Model(&itemModel{}).Where("deleted = ?", false)

	var total int64
	if tx := q.Count(&total); tx.Error != nil {
		return nil, 0, tx.Error
	}

	var ms []itemModel
	tx := q.Order(orderClause(itemSortColumns, sortBy, sortDir)).
		Limit(size).Offset(page * size).
		Find(&ms)
	if tx.Error != nil {
		return nil, 0, tx.Error
	}

	out := make([]domain.Item, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainItem(m))
	}
	return out, total, nil
}

// ListActive returns every non-deleted item, for the CSV register export.
func (r *ItemRepository) ListActive(ctx context.Context) ([]domain.Item, error) {
	var ms []itemModel
	tx := r.db.WithContext(ctx).Where("deleted = ?", false).Order("id").Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Item, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainItem(m))
	}
	return out, nil
}

func (r *ItemRepository) Update(ctx context.Context, it *domain.Item) error {
	m := toItemModel(it)
	tx := r.db.WithContext(ctx).Model(&itemModel{}).
		Where("id = ? AND deleted = ?", it.ID, false).
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ItemRepository) SoftDelete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Model(&itemModel{}).
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

func (r *ItemRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&itemModel{}).
		Where("deleted = ?", false).Count(&n)
	return n, tx.Error
}

func (r *ItemRepository) CountByStatus(ctx context.Context, status domain.ItemStatus) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&itemModel{}).
		Where("status = ? AND deleted = ?", string(status), false).Count(&n)
	return n, tx.Error
}
