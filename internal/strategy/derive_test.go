package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveRiskBudget(t *testing.T) {
	t.Run("capped by max account risk", func(t *testing.T) {
		doc := DefaultDocument()
		doc["account_risk_per_trade"] = "1.0"
		doc["max_open_positions"] = 5
		doc["max_account_risk"] = "4.0"
		cfg, _, err := Parse(doc)
		require.NoError(t, err)

		derived := Derive(cfg)
		assert.True(t, derived.EffectiveRiskBudget.Equal(decimal.RequireFromString("4.0")),
			"got %s", derived.EffectiveRiskBudget)
	})

	t.Run("below the cap", func(t *testing.T) {
		doc := DefaultDocument()
		doc["account_risk_per_trade"] = "0.5"
		doc["max_open_positions"] = 4
		doc["max_account_risk"] = "5.0"
		cfg, _, err := Parse(doc)
		require.NoError(t, err)

		derived := Derive(cfg)
		assert.True(t, derived.EffectiveRiskBudget.Equal(decimal.NewFromInt(2)),
			"got %s", derived.EffectiveRiskBudget)
	})
}

func TestDeriveEffectiveLeverage(t *testing.T) {
	t.Run("auto off uses default", func(t *testing.T) {
		doc := DefaultDocument()
		doc["auto_leverage"] = false
		doc["default_leverage"] = 4
		cfg, _, err := Parse(doc)
		require.NoError(t, err)
		assert.Equal(t, 4, Derive(cfg).EffectiveLeverage)
	})

	t.Run("suggestion clamped to max", func(t *testing.T) {
		doc := DefaultDocument()
		doc["auto_leverage"] = true
		doc["default_leverage"] = 8
		doc["max_leverage"] = 10
		doc["volatility_threshold"] = "0.5" // doubles the suggestion
		cfg, _, err := Parse(doc)
		require.NoError(t, err)
		assert.Equal(t, 10, Derive(cfg).EffectiveLeverage)
	})

	t.Run("never below default", func(t *testing.T) {
		doc := DefaultDocument()
		doc["auto_leverage"] = true
		doc["default_leverage"] = 3
		doc["max_leverage"] = 10
		doc["volatility_threshold"] = "6.0" // would suggest well under default
		cfg, _, err := Parse(doc)
		require.NoError(t, err)
		assert.Equal(t, 3, Derive(cfg).EffectiveLeverage)
	})

	t.Run("invariant holds across settings", func(t *testing.T) {
		for _, vol := range []string{"0.1", "0.5", "1.0", "2.0", "10"} {
			doc := DefaultDocument()
			doc["auto_leverage"] = true
			doc["default_leverage"] = 5
			doc["max_leverage"] = 15
			doc["volatility_threshold"] = vol
			cfg, _, err := Parse(doc)
			require.NoError(t, err)

			eff := Derive(cfg).EffectiveLeverage
			assert.GreaterOrEqual(t, eff, cfg.DefaultLeverage, "vol=%s", vol)
			assert.LessOrEqual(t, eff, cfg.MaxLeverage, "vol=%s", vol)
		}
	})
}

func TestDeriveTakeProfitResidual(t *testing.T) {
	doc := DefaultDocument()
	doc["take_profit_targets"] = []string{"1.5", "3.0"}
	doc["take_profit_quantities"] = []string{"30", "30"}
	cfg, _, err := Parse(doc)
	require.NoError(t, err)

	derived := Derive(cfg)
	assert.True(t, derived.TakeProfitResidual.Equal(decimal.NewFromInt(40)),
		"got %s", derived.TakeProfitResidual)
}

func TestDeriveDoesNotMutate(t *testing.T) {
	cfg, _, err := Parse(DefaultDocument())
	require.NoError(t, err)

	before := cfg.Document()
	_ = Derive(cfg)
	assert.Equal(t, before, cfg.Document())
}
