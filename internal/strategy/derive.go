package strategy

import (
	"github.com/shopspring/decimal"
)

// DerivedValues are computed from a validated config in one place so the
// trading engine and the dashboard never disagree on them. They are never
// stored in the document itself.
type DerivedValues struct {
	// EffectiveRiskBudget is the total percent of the account at risk when
	// every position slot is filled, capped by max_account_risk.
	EffectiveRiskBudget decimal.Decimal `json:"effective_risk_budget"`

	// EffectiveLeverage is the leverage actually applied. With
	// auto_leverage off it equals default_leverage; with it on, the
	// suggestion is clamped so max_leverage stays a hard ceiling and the
	// result never drops below default_leverage.
	EffectiveLeverage int `json:"effective_leverage"`

	// TakeProfitResidual is the implicit remainder of the position
	// (100 - sum of ladder quantities) left under trailing-stop management.
	TakeProfitResidual decimal.Decimal `json:"take_profit_residual"`
}

// Derive computes the derived values for an already-validated config.
// It never mutates cfg and never fails: its preconditions are exactly the
// invariants Parse enforces.
func Derive(cfg *StrategyConfig) DerivedValues {
	perSlot := cfg.AccountRiskPerTrade.Mul(decimal.NewFromInt(int64(cfg.MaxOpenPositions)))
	budget := decimal.Min(perSlot, cfg.MaxAccountRisk)

	sum := decZero
	for _, q := range cfg.TakeProfitQuantities {
		sum = sum.Add(q)
	}

	return DerivedValues{
		EffectiveRiskBudget: budget,
		EffectiveLeverage:   effectiveLeverage(cfg),
		TakeProfitResidual:  decHundred.Sub(sum),
	}
}

// effectiveLeverage scales default_leverage down by the volatility
// threshold: a higher threshold means the operator tolerates more
// volatility before protection kicks in, so the suggestion stays closer to
// the default. The exact curve is advisory; the clamp to
// [default_leverage, max_leverage] is the contract.
func effectiveLeverage(cfg *StrategyConfig) int {
	if !cfg.AutoLeverage {
		return cfg.DefaultLeverage
	}
	suggested := cfg.DefaultLeverage
	if cfg.VolatilityThreshold.IsPositive() {
		raw := decimal.NewFromInt(int64(cfg.DefaultLeverage)).Div(cfg.VolatilityThreshold)
		suggested = int(raw.Round(0).IntPart())
	}
	if suggested < cfg.DefaultLeverage {
		suggested = cfg.DefaultLeverage
	}
	if suggested > cfg.MaxLeverage {
		suggested = cfg.MaxLeverage
	}
	return suggested
}
