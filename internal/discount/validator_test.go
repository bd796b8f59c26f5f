package discount

import (
	"context"
	"errors"
	"testing"
	"time"

	"loocal/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDiscountRepository is a mock implementation of DiscountRepository.
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) GetByCode(ctx context.Context, code string) (*model.Discount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *MockDiscountRepository) GetUserUsage(ctx context.Context, discountID uuid.UUID, email string) (int, error) {
	args := m.Called(ctx, discountID, email)
	return args.Int(0), args.Error(1)
}

func (m *MockDiscountRepository) LockForRedeem(ctx context.Context, tx pgx.Tx, discountID uuid.UUID) (*model.Discount, error) {
	args := m.Called(ctx, tx, discountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Discount), args.Error(1)
}

func (m *MockDiscountRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, discountID uuid.UUID, email string) (int, error) {
	args := m.Called(ctx, tx, discountID, email)
	return args.Int(0), args.Error(1)
}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func activeDiscount() *model.Discount {
	return &model.Discount{
		ID:             uuid.New(),
		Code:           "SAVE10",
		DiscountType:   model.DiscountPercentage,
		DiscountValue:  decimal.NewFromInt(10),
		StartDate:      testNow.AddDate(0, 0, -7),
		EndDate:        testNow.AddDate(0, 0, 7),
		MaxUsesTotal:   100,
		MaxUsesPerUser: 2,
		TimesUsed:      5,
		Status:         model.DiscountActive,
	}
}

func TestValidate_Success(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	d := activeDiscount()
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)
	repo.On("GetUserUsage", mock.Anything, d.ID, "ana@example.com").Return(1, nil)

	got, err := v.Validate(context.Background(), "SAVE10", "ana@example.com", testNow)
	require.NoError(t, err)
	assert.Equal(t, d, got)
	repo.AssertExpectations(t)
}

func TestValidate_NotFound(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	repo.On("GetByCode", mock.Anything, "NOPE").Return(nil, nil)

	_, err := v.Validate(context.Background(), "NOPE", "", testNow)
	assert.ErrorIs(t, err, model.ErrDiscountNotFound)
}

func TestValidate_InactiveStatuses(t *testing.T) {
	cases := []struct {
		status model.DiscountStatus
		want   error
	}{
		{model.DiscountExpired, model.ErrDiscountExpired},
		// Suspended and redeemed codes are reported as unknown.
		{model.DiscountSuspended, model.ErrDiscountNotFound},
		{model.DiscountRedeemed, model.ErrDiscountNotFound},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			repo := new(MockDiscountRepository)
			v := NewValidator(repo, zerolog.Nop())

			d := activeDiscount()
			d.Status = tc.status
			repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)

			_, err := v.Validate(context.Background(), "SAVE10", "", testNow)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestValidate_OutsideWindow(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"not yet started", testNow.AddDate(0, 0, 1), testNow.AddDate(0, 0, 10)},
		{"already ended", testNow.AddDate(0, 0, -10), testNow.AddDate(0, 0, -1)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockDiscountRepository)
			v := NewValidator(repo, zerolog.Nop())

			d := activeDiscount()
			d.StartDate, d.EndDate = tc.start, tc.end
			repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)

			_, err := v.Validate(context.Background(), "SAVE10", "", testNow)
			assert.ErrorIs(t, err, model.ErrDiscountExpired)
		})
	}
}

func TestValidate_WindowBoundsAreInclusiveDays(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	// Window ends today at midnight; a request later the same day is
	// still inside the window because comparison is by calendar date.
	d := activeDiscount()
	d.StartDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	d.EndDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	d.MaxUsesPerUser = 0
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)

	_, err := v.Validate(context.Background(), "SAVE10", "", testNow)
	assert.NoError(t, err)
}

func TestValidate_GlobalLimit(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	d := activeDiscount()
	d.MaxUsesTotal = 5
	d.TimesUsed = 5
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)

	_, err := v.Validate(context.Background(), "SAVE10", "ana@example.com", testNow)
	assert.ErrorIs(t, err, model.ErrDiscountGlobalLimit)
	repo.AssertNotCalled(t, "GetUserUsage")
}

func TestValidate_ZeroMaxUsesMeansUncapped(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	d := activeDiscount()
	d.MaxUsesTotal = 0
	d.MaxUsesPerUser = 0
	d.TimesUsed = 100000
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)

	_, err := v.Validate(context.Background(), "SAVE10", "ana@example.com", testNow)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "GetUserUsage")
}

func TestValidate_PerUserLimit(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	d := activeDiscount()
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)
	repo.On("GetUserUsage", mock.Anything, d.ID, "ana@example.com").Return(2, nil)

	_, err := v.Validate(context.Background(), "SAVE10", "ana@example.com", testNow)
	assert.ErrorIs(t, err, model.ErrDiscountPerUserLimit)
}

func TestValidate_PerUserLimitSkippedWithoutEmail(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	d := activeDiscount()
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)

	_, err := v.Validate(context.Background(), "SAVE10", "", testNow)
	assert.NoError(t, err)
	repo.AssertNotCalled(t, "GetUserUsage")
}

func TestValidate_RepositoryError(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	boom := errors.New("connection reset")
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(nil, boom)

	_, err := v.Validate(context.Background(), "SAVE10", "", testNow)
	assert.ErrorIs(t, err, boom)
}

func TestQuote_Valid(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	d := activeDiscount()
	d.ApplicableToTransport = true
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)
	repo.On("GetUserUsage", mock.Anything, d.ID, "ana@example.com").Return(0, nil)

	result, err := v.Quote(context.Background(), &model.QuoteRequest{
		Code:          "SAVE10",
		Email:         "ana@example.com",
		Subtotal:      decimal.NewFromInt(100000),
		TransportCost: decimal.NewFromInt(8000),
	}, testNow)
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.True(t, result.DiscountValue.Equal(decimal.NewFromInt(10000)))
	assert.True(t, result.AppliesToTransport)
	assert.True(t, result.TransportDiscount.Equal(decimal.NewFromInt(800)))
}

func TestQuote_BusinessRejectionIsNotAnError(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	repo.On("GetByCode", mock.Anything, "NOPE").Return(nil, nil)

	result, err := v.Quote(context.Background(), &model.QuoteRequest{
		Code:     "NOPE",
		Subtotal: decimal.NewFromInt(100000),
	}, testNow)
	require.NoError(t, err)

	assert.False(t, result.Valid)
	assert.True(t, result.DiscountValue.IsZero())
	assert.True(t, result.TransportDiscount.IsZero())
}

func TestQuote_InfrastructureErrorPropagates(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	boom := errors.New("timeout")
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(nil, boom)

	_, err := v.Quote(context.Background(), &model.QuoteRequest{Code: "SAVE10"}, testNow)
	assert.ErrorIs(t, err, boom)
}

func TestQuote_NeverIncrementsUsage(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	d := activeDiscount()
	d.MaxUsesPerUser = 0
	repo.On("GetByCode", mock.Anything, "SAVE10").Return(d, nil)

	_, err := v.Quote(context.Background(), &model.QuoteRequest{
		Code:     "SAVE10",
		Subtotal: decimal.NewFromInt(50000),
	}, testNow)
	require.NoError(t, err)

	repo.AssertNotCalled(t, "IncrementUsage")
	repo.AssertNotCalled(t, "LockForRedeem")
}

func TestRedeem_Success(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	d := activeDiscount()
	repo.On("LockForRedeem", mock.Anything, mock.Anything, d.ID).Return(d, nil)
	repo.On("IncrementUsage", mock.Anything, mock.Anything, d.ID, "ana@example.com").Return(1, nil)

	err := v.Redeem(context.Background(), nil, d.ID, "ana@example.com")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRedeem_GlobalLimitUnderLock(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	// A concurrent checkout consumed the last use between the read-only
	// validation and the locked re-read.
	d := activeDiscount()
	d.MaxUsesTotal = 6
	d.TimesUsed = 6
	repo.On("LockForRedeem", mock.Anything, mock.Anything, d.ID).Return(d, nil)

	err := v.Redeem(context.Background(), nil, d.ID, "ana@example.com")
	assert.ErrorIs(t, err, model.ErrDiscountGlobalLimit)
	repo.AssertNotCalled(t, "IncrementUsage")
}

func TestRedeem_PerUserLimitUnderLock(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	d := activeDiscount()
	repo.On("LockForRedeem", mock.Anything, mock.Anything, d.ID).Return(d, nil)
	// Post-increment counter already past the cap of 2.
	repo.On("IncrementUsage", mock.Anything, mock.Anything, d.ID, "ana@example.com").Return(3, nil)

	err := v.Redeem(context.Background(), nil, d.ID, "ana@example.com")
	assert.ErrorIs(t, err, model.ErrDiscountPerUserLimit)
}

func TestRedeem_DiscountGone(t *testing.T) {
	repo := new(MockDiscountRepository)
	v := NewValidator(repo, zerolog.Nop())

	id := uuid.New()
	repo.On("LockForRedeem", mock.Anything, mock.Anything, id).Return(nil, nil)

	err := v.Redeem(context.Background(), nil, id, "ana@example.com")
	assert.ErrorIs(t, err, model.ErrDiscountNotFound)
}
