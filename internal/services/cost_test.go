package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/apperrors"
)

func floatPtr(f float64) *float64 { return &f }

func TestValidateCostBreakdown_Success(t *testing.T) {
	out, err := ValidateCostBreakdown(CostBreakdownInput{
		HotelCost:     400,
		TransportCost: 150,
		GuideCost:     100,
		DriverCost:    80,
		Taxes:         73,
		TotalCost:     floatPtr(803),
	})
	require.NoError(t, err)
	assert.Equal(t, 400.0, out.HotelCost)
	assert.Equal(t, 803.0, out.TotalCost)
}

func TestValidateCostBreakdown_ComponentsDefaultToZero(t *testing.T) {
	out, err := ValidateCostBreakdown(CostBreakdownInput{TotalCost: floatPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.HotelCost)
	assert.Equal(t, 0.0, out.TotalCost)
}

func TestValidateCostBreakdown_TotalRequired(t *testing.T) {
	_, err := ValidateCostBreakdown(CostBreakdownInput{HotelCost: 100})
	require.Error(t, err)
	verr, ok := err.(*apperrors.ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "costBreakdown.totalCost")
}

func TestValidateCostBreakdown_NegativeRejected(t *testing.T) {
	_, err := ValidateCostBreakdown(CostBreakdownInput{
		HotelCost: -1,
		Taxes:     -2,
		TotalCost: floatPtr(-3),
	})
	require.Error(t, err)
	verr, ok := err.(*apperrors.ValidationError)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "costBreakdown.hotelCost")
	assert.Contains(t, verr.Fields, "costBreakdown.taxes")
	assert.Contains(t, verr.Fields, "costBreakdown.totalCost")
}

func TestValidateCostBreakdown_TotalNotRecomputed(t *testing.T) {
	// A total that disagrees with the component sum is accepted as submitted.
	out, err := ValidateCostBreakdown(CostBreakdownInput{
		HotelCost: 500,
		TotalCost: floatPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, out.TotalCost)
}
