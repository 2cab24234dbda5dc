package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "sweetshop/internal/errors"
	"sweetshop/internal/model"
)

// MockSweetRepository is a mock implementation of SweetRepository.
type MockSweetRepository struct {
	mock.Mock
}

func (m *MockSweetRepository) Create(ctx context.Context, sweet *model.Sweet) error {
	args := m.Called(ctx, sweet)
	return args.Error(0)
}

func (m *MockSweetRepository) Save(ctx context.Context, sweet *model.Sweet) error {
	args := m.Called(ctx, sweet)
	return args.Error(0)
}

func (m *MockSweetRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sweet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sweet), args.Error(1)
}

func (m *MockSweetRepository) FindByNameAndCategory(ctx context.Context, name, category string) (*model.Sweet, error) {
	args := m.Called(ctx, name, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sweet), args.Error(1)
}

func (m *MockSweetRepository) List(ctx context.Context, filter model.SweetFilter) ([]model.Sweet, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Sweet), args.Error(1)
}

func (m *MockSweetRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSweetRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSweetRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func strPtr(s string) *string { return &s }

func TestSweetService_Create(t *testing.T) {
	tests := []struct {
		name        string
		input       CreateSweetInput
		setupMock   func(*MockSweetRepository)
		expectError error
	}{
		{
			name: "valid sweet",
			input: CreateSweetInput{
				Name:     "Gulab Jamun",
				Category: "Milk-Based",
				Price:    decimal.RequireFromString("2.50"),
				Quantity: 50,
			},
			setupMock: func(m *MockSweetRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Sweet")).Return(nil)
			},
		},
		{
			name: "empty name rejected",
			input: CreateSweetInput{
				Name:     "   ",
				Category: "Milk-Based",
				Price:    decimal.RequireFromString("2.50"),
				Quantity: 50,
			},
			setupMock:   func(m *MockSweetRepository) {},
			expectError: apperrors.ErrValidation,
		},
		{
			name: "zero price rejected",
			input: CreateSweetInput{
				Name:     "Gulab Jamun",
				Category: "Milk-Based",
				Price:    decimal.Zero,
				Quantity: 50,
			},
			setupMock:   func(m *MockSweetRepository) {},
			expectError: apperrors.ErrValidation,
		},
		{
			name: "negative price rejected",
			input: CreateSweetInput{
				Name:     "Gulab Jamun",
				Category: "Milk-Based",
				Price:    decimal.RequireFromString("-1"),
				Quantity: 50,
			},
			setupMock:   func(m *MockSweetRepository) {},
			expectError: apperrors.ErrValidation,
		},
		{
			name: "negative quantity rejected",
			input: CreateSweetInput{
				Name:     "Gulab Jamun",
				Category: "Milk-Based",
				Price:    decimal.RequireFromString("2.50"),
				Quantity: -1,
			},
			setupMock:   func(m *MockSweetRepository) {},
			expectError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockSweetRepository)
			tt.setupMock(mockRepo)

			svc := NewSweetService(mockRepo, nil)
			sweet, err := svc.Create(context.Background(), tt.input)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, sweet)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.input.Name, sweet.Name)
				assert.Equal(t, tt.input.Category, sweet.Category)
				assert.True(t, tt.input.Price.Equal(sweet.Price))
				assert.Equal(t, tt.input.Quantity, sweet.Quantity)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSweetService_Create_NormalizesEmptyImage(t *testing.T) {
	mockRepo := new(MockSweetRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Sweet")).Return(nil)

	svc := NewSweetService(mockRepo, nil)
	sweet, err := svc.Create(context.Background(), CreateSweetInput{
		Name:     "Jalebi",
		Category: "Fried",
		Price:    decimal.RequireFromString("1.50"),
		Quantity: 10,
		ImageURL: strPtr("   "),
	})

	assert.NoError(t, err)
	assert.Nil(t, sweet.ImageURL)
}

func TestSweetService_Get_NotFound(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockSweetRepository)
	mockRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	svc := NewSweetService(mockRepo, nil)
	sweet, err := svc.Get(context.Background(), id)

	assert.ErrorIs(t, err, apperrors.ErrSweetNotFound)
	assert.Nil(t, sweet)
	mockRepo.AssertExpectations(t)
}

func TestSweetService_Update_OnlySuppliedFields(t *testing.T) {
	id := uuid.New()
	stored := &model.Sweet{ID: id, Name: "Rasgulla", Category: "Milk-Based",
		Price: decimal.RequireFromString("2.00"), Quantity: 40}

	mockRepo := new(MockSweetRepository)
	mockRepo.On("UpdateFields", mock.Anything, id, map[string]interface{}{
		"price": decimal.RequireFromString("2.25"),
	}).Return(int64(1), nil)
	mockRepo.On("FindByID", mock.Anything, id).Return(stored, nil)

	price := decimal.RequireFromString("2.25")
	svc := NewSweetService(mockRepo, nil)
	_, err := svc.Update(context.Background(), id, model.SweetUpdate{Price: &price})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSweetService_Update_NullImageClears(t *testing.T) {
	id := uuid.New()
	stored := &model.Sweet{ID: id, Name: "Rasgulla", Category: "Milk-Based",
		Price: decimal.RequireFromString("2.00"), Quantity: 40}

	mockRepo := new(MockSweetRepository)
	mockRepo.On("UpdateFields", mock.Anything, id, map[string]interface{}{
		"image_url": (*string)(nil),
	}).Return(int64(1), nil)
	mockRepo.On("FindByID", mock.Anything, id).Return(stored, nil)

	svc := NewSweetService(mockRepo, nil)
	_, err := svc.Update(context.Background(), id, model.SweetUpdate{
		Image: model.NullableString{Set: true, Value: nil},
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSweetService_Update_OmittedImageUntouched(t *testing.T) {
	id := uuid.New()
	stored := &model.Sweet{ID: id, Name: "Rasgulla", Category: "Milk-Based",
		Price: decimal.RequireFromString("2.00"), Quantity: 40}

	mockRepo := new(MockSweetRepository)
	mockRepo.On("UpdateFields", mock.Anything, id, map[string]interface{}{
		"quantity": 35,
	}).Return(int64(1), nil)
	mockRepo.On("FindByID", mock.Anything, id).Return(stored, nil)

	quantity := 35
	svc := NewSweetService(mockRepo, nil)
	_, err := svc.Update(context.Background(), id, model.SweetUpdate{Quantity: &quantity})

	// The fields map asserted above must not contain image_url at all.
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestSweetService_Update_NotFound(t *testing.T) {
	id := uuid.New()
	mockRepo := new(MockSweetRepository)
	mockRepo.On("UpdateFields", mock.Anything, id, mock.Anything).Return(int64(0), nil)

	name := "New Name"
	svc := NewSweetService(mockRepo, nil)
	_, err := svc.Update(context.Background(), id, model.SweetUpdate{Name: &name})

	assert.ErrorIs(t, err, apperrors.ErrSweetNotFound)
	mockRepo.AssertExpectations(t)
}

func TestSweetService_Delete(t *testing.T) {
	id := uuid.New()

	t.Run("deletes existing sweet", func(t *testing.T) {
		mockRepo := new(MockSweetRepository)
		mockRepo.On("Delete", mock.Anything, id).Return(int64(1), nil)

		svc := NewSweetService(mockRepo, nil)
		assert.NoError(t, svc.Delete(context.Background(), id))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing sweet is not found", func(t *testing.T) {
		mockRepo := new(MockSweetRepository)
		mockRepo.On("Delete", mock.Anything, id).Return(int64(0), nil)

		svc := NewSweetService(mockRepo, nil)
		assert.ErrorIs(t, svc.Delete(context.Background(), id), apperrors.ErrSweetNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestSweetService_AdjustQuantity(t *testing.T) {
	id := uuid.New()
	stored := &model.Sweet{ID: id, Name: "Kaju Katli", Category: "Nut-Based",
		Price: decimal.RequireFromString("4.75"), Quantity: 25}

	tests := []struct {
		name        string
		delta       int
		setupMock   func(*MockSweetRepository)
		expectError error
	}{
		{
			name:  "restock succeeds",
			delta: 10,
			setupMock: func(m *MockSweetRepository) {
				m.On("AdjustQuantity", mock.Anything, id, 10).Return(int64(1), nil)
				m.On("FindByID", mock.Anything, id).Return(stored, nil)
			},
		},
		{
			name:  "sale succeeds",
			delta: -5,
			setupMock: func(m *MockSweetRepository) {
				m.On("AdjustQuantity", mock.Anything, id, -5).Return(int64(1), nil)
				m.On("FindByID", mock.Anything, id).Return(stored, nil)
			},
		},
		{
			name:  "overdraw is insufficient stock",
			delta: -100,
			setupMock: func(m *MockSweetRepository) {
				m.On("AdjustQuantity", mock.Anything, id, -100).Return(int64(0), nil)
				m.On("FindByID", mock.Anything, id).Return(stored, nil)
			},
			expectError: apperrors.ErrInsufficientStock,
		},
		{
			name:  "missing sweet is not found",
			delta: -1,
			setupMock: func(m *MockSweetRepository) {
				m.On("AdjustQuantity", mock.Anything, id, -1).Return(int64(0), nil)
				m.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)
			},
			expectError: apperrors.ErrSweetNotFound,
		},
		{
			name:        "zero delta rejected",
			delta:       0,
			setupMock:   func(m *MockSweetRepository) {},
			expectError: apperrors.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockSweetRepository)
			tt.setupMock(mockRepo)

			svc := NewSweetService(mockRepo, nil)
			sweet, err := svc.AdjustQuantity(context.Background(), id, tt.delta)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, sweet)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, sweet)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSweetService_SeedSweets(t *testing.T) {
	existing := &model.Sweet{ID: uuid.New(), Name: "Jalebi", Category: "Fried",
		Price: decimal.RequireFromString("1.00"), Quantity: 5}

	mockRepo := new(MockSweetRepository)
	mockRepo.On("FindByNameAndCategory", mock.Anything, "Jalebi", "Fried").Return(existing, nil)
	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("*model.Sweet")).Return(nil)
	mockRepo.On("FindByNameAndCategory", mock.Anything, "Ladoo", "Flour-Based").Return(nil, gorm.ErrRecordNotFound)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Sweet")).Return(nil)

	svc := NewSweetService(mockRepo, nil)
	created, updated, err := svc.SeedSweets(context.Background(), []model.Sweet{
		{Name: "Jalebi", Category: "Fried", Price: decimal.RequireFromString("1.50"), Quantity: 80},
		{Name: "Ladoo", Category: "Flour-Based", Price: decimal.RequireFromString("3.25"), Quantity: 60},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, updated)
	mockRepo.AssertExpectations(t)
}
