package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sweetshop/internal/db"
	"sweetshop/internal/model"
)

// SweetRepository defines sweet persistence operations. Every write is a
// single parameterized statement; nothing here builds SQL from strings.
type SweetRepository interface {
	Create(ctx context.Context, sweet *model.Sweet) error
	Save(ctx context.Context, sweet *model.Sweet) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sweet, error)
	FindByNameAndCategory(ctx context.Context, name, category string) (*model.Sweet, error)
	List(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (int64, error)
}

// sweetRepository goes through the gateway so the pool is built lazily, on
// the first statement, rather than at wiring time.
type sweetRepository struct {
	gw *db.Gateway
}

// NewSweetRepository creates a GORM-backed sweet repository.
func NewSweetRepository(gw *db.Gateway) SweetRepository {
	return &sweetRepository{gw: gw}
}

func (r *sweetRepository) Create(ctx context.Context, sweet *model.Sweet) error {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return err
	}
	return dbc.WithContext(ctx).Create(sweet).Error
}

func (r *sweetRepository) Save(ctx context.Context, sweet *model.Sweet) error {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return err
	}
	return dbc.WithContext(ctx).Save(sweet).Error
}

func (r *sweetRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sweet, error) {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return nil, err
	}
	var sweet model.Sweet
	if err := dbc.WithContext(ctx).Where("id = ?", id).First(&sweet).Error; err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (r *sweetRepository) FindByNameAndCategory(ctx context.Context, name, category string) (*model.Sweet, error) {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return nil, err
	}
	var sweet model.Sweet
	err = dbc.WithContext(ctx).
		Where("name = ? AND category = ?", name, category).
		First(&sweet).Error
	if err != nil {
		return nil, err
	}
	return &sweet, nil
}

// List returns sweets in insertion order, optionally filtered by exact
// category and case-insensitive name substring.
func (r *sweetRepository) List(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return nil, err
	}

	q := dbc.WithContext(ctx).Model(&model.Sweet{})
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var sweets []model.Sweet
	if err := q.Order("created_at, id").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

// UpdateFields applies only the supplied columns and reports rows affected.
func (r *sweetRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return 0, err
	}
	res := dbc.WithContext(ctx).Model(&model.Sweet{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *sweetRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return 0, err
	}
	res := dbc.WithContext(ctx).Where("id = ?", id).Delete(&model.Sweet{})
	return res.RowsAffected, res.Error
}

// AdjustQuantity applies a signed delta in one conditional statement. The row
// guard keeps the quantity from going negative without an explicit
// transaction; zero rows affected means the row is missing or the stock is
// insufficient, which the service disambiguates.
func (r *sweetRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (int64, error) {
	dbc, err := r.gw.DB(ctx)
	if err != nil {
		return 0, err
	}
	res := dbc.WithContext(ctx).Model(&model.Sweet{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	return res.RowsAffected, res.Error
}
