package advisory

import (
	"context"
	"fmt"
	"math"
	"strings"

	contractx "github.com/fairmontlabs/advisor-assistant/agent/contract"
)

// ModelPortfolioBuilder allocates an amount across asset classes using a
// static model allocation per risk profile.
type ModelPortfolioBuilder struct{}

var _ contractx.PortfolioBuilder = ModelPortfolioBuilder{}

type weightedClass struct {
	assetClass string
	weight     float64
}

var modelAllocations = map[string][]weightedClass{
	"conservative": {
		{assetClass: "government bonds", weight: 0.50},
		{assetClass: "corporate bonds", weight: 0.25},
		{assetClass: "equity", weight: 0.15},
		{assetClass: "cash", weight: 0.10},
	},
	"balanced": {
		{assetClass: "equity", weight: 0.45},
		{assetClass: "government bonds", weight: 0.30},
		{assetClass: "corporate bonds", weight: 0.15},
		{assetClass: "cash", weight: 0.10},
	},
	"aggressive": {
		{assetClass: "equity", weight: 0.70},
		{assetClass: "corporate bonds", weight: 0.15},
		{assetClass: "emerging markets", weight: 0.10},
		{assetClass: "cash", weight: 0.05},
	},
}

func (ModelPortfolioBuilder) Build(ctx context.Context, advisor contractx.Identity, riskProfile string, amount float64) (*contractx.Portfolio, error) {
	profile := strings.ToLower(strings.TrimSpace(riskProfile))
	if profile == "" {
		profile = "balanced"
	}

	classes, ok := modelAllocations[profile]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported risk profile %q", contractx.ErrValidation, riskProfile)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: amount must be positive", contractx.ErrValidation)
	}

	allocations := make([]contractx.Allocation, 0, len(classes))
	for _, wc := range classes {
		allocations = append(allocations, contractx.Allocation{
			AssetClass: wc.assetClass,
			Weight:     wc.weight,
			Amount:     math.Round(amount*wc.weight*100) / 100,
		})
	}

	return &contractx.Portfolio{
		RiskProfile: profile,
		Amount:      amount,
		Allocations: allocations,
	}, nil
}
