package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sweetshop/internal/cache"
	"sweetshop/internal/errors"
	"sweetshop/internal/model"
	"sweetshop/internal/repository"
)

const sweetCacheTTL = 5 * time.Minute

// CreateSweetInput carries the fields for a new sweet.
type CreateSweetInput struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int
	ImageURL *string
}

// SweetService handles inventory operations over the sweets table.
type SweetService interface {
	List(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Sweet, error)
	Create(ctx context.Context, input CreateSweetInput) (*model.Sweet, error)
	Update(ctx context.Context, id uuid.UUID, update model.SweetUpdate) (*model.Sweet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*model.Sweet, error)
	SeedSweets(ctx context.Context, sweets []model.Sweet) (created, updated int, err error)
}

type sweetService struct {
	repo  repository.SweetRepository
	cache *cache.Client
}

// NewSweetService creates a new sweet service.
func NewSweetService(repo repository.SweetRepository, cache *cache.Client) SweetService {
	return &sweetService{repo: repo, cache: cache}
}

func (s *sweetService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("sweet:%s", id.String())
}

// List returns sweets in insertion order, optionally filtered.
func (s *sweetService) List(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	return s.repo.List(ctx, filter)
}

// Get retrieves a sweet by ID with read-through caching.
func (s *sweetService) Get(ctx context.Context, id uuid.UUID) (*model.Sweet, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Sweet
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	sweet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrSweetNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(sweet); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, sweetCacheTTL)
	}
	return sweet, nil
}

// Create validates and inserts a new sweet.
func (s *sweetService) Create(ctx context.Context, input CreateSweetInput) (*model.Sweet, error) {
	if err := validateName(input.Name); err != nil {
		return nil, err
	}
	if err := validateCategory(input.Category); err != nil {
		return nil, err
	}
	if err := validatePrice(input.Price); err != nil {
		return nil, err
	}
	if err := validateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	sweet := &model.Sweet{
		Name:     strings.TrimSpace(input.Name),
		Category: strings.TrimSpace(input.Category),
		Price:    input.Price,
		Quantity: input.Quantity,
		ImageURL: normalizeImage(input.ImageURL),
	}
	if err := s.repo.Create(ctx, sweet); err != nil {
		return nil, err
	}
	return sweet, nil
}

// Update applies a partial update: only supplied fields change, and an
// explicit null image clears the stored one. The update and the read-back are
// separate autocommitted statements, not one transaction.
func (s *sweetService) Update(ctx context.Context, id uuid.UUID, update model.SweetUpdate) (*model.Sweet, error) {
	fields := map[string]interface{}{}

	if update.Name != nil {
		if err := validateName(*update.Name); err != nil {
			return nil, err
		}
		fields["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Category != nil {
		if err := validateCategory(*update.Category); err != nil {
			return nil, err
		}
		fields["category"] = strings.TrimSpace(*update.Category)
	}
	if update.Price != nil {
		if err := validatePrice(*update.Price); err != nil {
			return nil, err
		}
		fields["price"] = *update.Price
	}
	if update.Quantity != nil {
		if err := validateQuantity(*update.Quantity); err != nil {
			return nil, err
		}
		fields["quantity"] = *update.Quantity
	}
	if update.Image.Set {
		fields["image_url"] = normalizeImage(update.Image.Value)
	}

	if len(fields) == 0 {
		return s.Get(ctx, id)
	}

	rows, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, errors.ErrSweetNotFound
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return s.Get(ctx, id)
}

// Delete removes a sweet permanently.
func (s *sweetService) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.ErrSweetNotFound
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// AdjustQuantity applies a signed delta. A sale is a negative delta, a
// restock a positive one; the stored quantity never goes below zero.
func (s *sweetService) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (*model.Sweet, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: delta must not be zero", errors.ErrValidation)
	}

	rows, err := s.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// The guarded update rejects both a missing row and an overdraw.
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, errors.ErrSweetNotFound
			}
			return nil, err
		}
		return nil, errors.ErrInsufficientStock
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return s.Get(ctx, id)
}

// SeedSweets upserts sweets by name and category, reporting counts.
func (s *sweetService) SeedSweets(ctx context.Context, sweets []model.Sweet) (created, updated int, err error) {
	for _, sweet := range sweets {
		existing, err := s.repo.FindByNameAndCategory(ctx, sweet.Name, sweet.Category)
		if err != nil && err != gorm.ErrRecordNotFound {
			return created, updated, fmt.Errorf("seed sweet %q: %w", sweet.Name, err)
		}

		if existing != nil {
			existing.Price = sweet.Price
			existing.Quantity = sweet.Quantity
			existing.ImageURL = normalizeImage(sweet.ImageURL)
			if err := s.repo.Save(ctx, existing); err != nil {
				return created, updated, fmt.Errorf("update sweet %q: %w", sweet.Name, err)
			}
			_ = s.cache.Delete(ctx, s.cacheKey(existing.ID))
			updated++
		} else {
			sweet := sweet
			sweet.ImageURL = normalizeImage(sweet.ImageURL)
			if err := s.repo.Create(ctx, &sweet); err != nil {
				return created, updated, fmt.Errorf("create sweet %q: %w", sweet.Name, err)
			}
			created++
		}
	}
	return created, updated, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name must not be empty", errors.ErrValidation)
	}
	return nil
}

func validateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category must not be empty", errors.ErrValidation)
	}
	return nil
}

// validatePrice requires a strictly positive price. This is the single price
// policy for both create and update.
func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", errors.ErrValidation)
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", errors.ErrValidation)
	}
	return nil
}

// normalizeImage maps empty or whitespace-only values to nil so the stored
// image is either null, a URL, or a data payload, never an empty string.
func normalizeImage(image *string) *string {
	if image == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*image)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
