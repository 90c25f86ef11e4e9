package service

import (
	"errors"
	"io"
	"testing"
	"time"

	"lab-booking-engine/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

type resolverFixture struct {
	services *mockLabServiceRepository
	pricing  *mockServicePricingRepository
	addOns   *mockAddOnRepository
	resolver PricingResolver
}

func newResolverFixture() *resolverFixture {
	f := &resolverFixture{
		services: new(mockLabServiceRepository),
		pricing:  new(mockServicePricingRepository),
		addOns:   new(mockAddOnRepository),
	}
	f.resolver = NewPricingResolver(quietLogger(), f.services, f.pricing, f.addOns)
	return f
}

func TestResolveUnitPrice_PicksLatestEffectiveRow(t *testing.T) {
	f := newResolverFixture()
	serviceID := uuid.New()
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	f.pricing.On("FindByServiceAndUserType", mock.Anything, serviceID, entity.UserTypeAcademic).Return([]entity.ServicePricing{
		{Price: decimal.NewFromInt(100), EffectiveFrom: asOf.AddDate(-1, 0, 0)},
		{Price: decimal.NewFromInt(80), EffectiveFrom: asOf.AddDate(0, -1, 0)},
	}, nil)

	price, err := f.resolver.ResolveUnitPrice(nil, serviceID, entity.UserTypeAcademic, asOf)

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(80).Equal(price))
}

func TestResolveUnitPrice_MissingIsConfigurationError(t *testing.T) {
	f := newResolverFixture()
	serviceID := uuid.New()
	f.pricing.On("FindByServiceAndUserType", mock.Anything, serviceID, entity.UserTypeIndustry).Return([]entity.ServicePricing{}, nil)

	_, err := f.resolver.ResolveUnitPrice(nil, serviceID, entity.UserTypeIndustry, time.Now())

	var pricingErr *PricingMissingError
	require.ErrorAs(t, err, &pricingErr)
	assert.Equal(t, serviceID, pricingErr.ServiceID)
	assert.ErrorIs(t, err, ErrPricingNotFound)
}

func TestResolveAddOnAmount_Precedence(t *testing.T) {
	serviceID := uuid.New()

	tests := []struct {
		name       string
		mapping    *entity.ServiceAddOnMapping
		catalog    *entity.AddOnCatalog
		wantOK     bool
		wantAmount string
	}{
		{
			name:       "override wins even on inactive catalog",
			mapping:    &entity.ServiceAddOnMapping{IsEnabled: true, OverrideAmount: decimalPtr("7500")},
			catalog:    &entity.AddOnCatalog{Name: "Express", DefaultAmount: decimal.NewFromInt(5000), IsActive: false},
			wantOK:     true,
			wantAmount: "7500",
		},
		{
			name:       "active catalog default",
			mapping:    &entity.ServiceAddOnMapping{IsEnabled: true},
			catalog:    &entity.AddOnCatalog{Name: "Express", DefaultAmount: decimal.NewFromInt(5000), IsActive: true},
			wantOK:     true,
			wantAmount: "5000",
		},
		{
			name:    "inactive catalog without override is skipped",
			mapping: &entity.ServiceAddOnMapping{IsEnabled: true},
			catalog: &entity.AddOnCatalog{Name: "Express", DefaultAmount: decimal.NewFromInt(5000), IsActive: false},
		},
		{
			name:    "disabled mapping is skipped",
			mapping: &entity.ServiceAddOnMapping{IsEnabled: false, OverrideAmount: decimalPtr("1")},
		},
		{
			name: "unmapped add-on is skipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newResolverFixture()
			addOnID := uuid.New()
			f.addOns.On("FindMapping", mock.Anything, serviceID, addOnID).Return(tt.mapping, nil)
			f.addOns.On("FindCatalogByID", mock.Anything, addOnID).Return(tt.catalog, nil).Maybe()

			resolved, ok, err := f.resolver.ResolveAddOnAmount(nil, serviceID, addOnID)

			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, decimal.RequireFromString(tt.wantAmount).Equal(resolved.Amount))
				assert.Equal(t, addOnID, resolved.AddOnID)
			}
		})
	}
}

func TestResolveWorkspaceRate(t *testing.T) {
	t.Run("no working space service prices at zero", func(t *testing.T) {
		f := newResolverFixture()
		f.services.On("FindActiveByCategory", mock.Anything, entity.ServiceCategoryWorkingSpace).Return(nil, nil)

		rate, err := f.resolver.ResolveWorkspaceRate(nil, entity.UserTypeInternal, time.Now())

		require.NoError(t, err)
		assert.Nil(t, rate.ServiceID)
		assert.True(t, rate.MonthlyRate.IsZero())
	})

	t.Run("uses the service price for the user type", func(t *testing.T) {
		f := newResolverFixture()
		svc := &entity.LabService{ID: uuid.New(), Category: entity.ServiceCategoryWorkingSpace, IsActive: true}
		f.services.On("FindActiveByCategory", mock.Anything, entity.ServiceCategoryWorkingSpace).Return(svc, nil)
		f.pricing.On("FindByServiceAndUserType", mock.Anything, svc.ID, entity.UserTypeInternal).Return([]entity.ServicePricing{
			{Price: decimal.NewFromInt(2000000), EffectiveFrom: time.Now().AddDate(0, -1, 0)},
		}, nil)

		rate, err := f.resolver.ResolveWorkspaceRate(nil, entity.UserTypeInternal, time.Now())

		require.NoError(t, err)
		assert.Equal(t, svc.ID, *rate.ServiceID)
		assert.True(t, decimal.NewFromInt(2000000).Equal(rate.MonthlyRate))
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		f := newResolverFixture()
		f.services.On("FindActiveByCategory", mock.Anything, entity.ServiceCategoryWorkingSpace).Return(nil, errors.New("connection reset"))

		_, err := f.resolver.ResolveWorkspaceRate(nil, entity.UserTypeInternal, time.Now())

		assert.Error(t, err)
	})
}
