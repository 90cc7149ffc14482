package services

import (
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/apperrors"
	"github.com/sandunudayakantha/Travel-Agency-App-sub001/internal/models"
)

// CostBreakdownInput is the cost breakdown as submitted. Components default to
// zero when absent; TotalCost is a pointer so a missing total can be told
// apart from an explicit zero.
type CostBreakdownInput struct {
	HotelCost     float64  `json:"hotelCost"`
	TransportCost float64  `json:"transportCost"`
	GuideCost     float64  `json:"guideCost"`
	DriverCost    float64  `json:"driverCost"`
	Taxes         float64  `json:"taxes"`
	TotalCost     *float64 `json:"totalCost"`
}

// ValidateCostBreakdown checks the submitted breakdown and returns the
// canonical form. Every component and the total must be non-negative.
//
// TotalCost is accepted as given: it is NOT checked against the component sum.
// The admin UI computes the total client-side and staff re-price during
// quoting anyway, so a mismatched total is tolerated rather than rejected.
func ValidateCostBreakdown(in CostBreakdownInput) (models.CostBreakdown, error) {
	verr := apperrors.NewValidation()

	components := []struct {
		field string
		value float64
	}{
		{"costBreakdown.hotelCost", in.HotelCost},
		{"costBreakdown.transportCost", in.TransportCost},
		{"costBreakdown.guideCost", in.GuideCost},
		{"costBreakdown.driverCost", in.DriverCost},
		{"costBreakdown.taxes", in.Taxes},
	}
	for _, c := range components {
		if c.value < 0 {
			verr.Add(c.field, "cannot be negative")
		}
	}

	if in.TotalCost == nil {
		verr.Add("costBreakdown.totalCost", "total cost is required")
	} else if *in.TotalCost < 0 {
		verr.Add("costBreakdown.totalCost", "cannot be negative")
	}

	if verr.HasErrors() {
		return models.CostBreakdown{}, verr
	}

	return models.CostBreakdown{
		HotelCost:     in.HotelCost,
		TransportCost: in.TransportCost,
		GuideCost:     in.GuideCost,
		DriverCost:    in.DriverCost,
		Taxes:         in.Taxes,
		TotalCost:     *in.TotalCost,
	}, nil
}
