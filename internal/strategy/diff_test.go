package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeConfig(t *testing.T, edits Document) *StrategyConfig {
	t.Helper()
	doc := DefaultDocument()
	for k, v := range edits {
		doc[k] = v
	}
	cfg, _, err := Parse(doc)
	require.NoError(t, err)
	return cfg
}

func TestMergeOmittedKeysInherit(t *testing.T) {
	active := activeConfig(t, Document{"rsi_weight": "1.2"})

	// A partial edit that says nothing about rsi_weight.
	next, changes, unknown, err := Merge(active, Document{"max_daily_trades": 30})
	require.NoError(t, err)
	require.Empty(t, unknown)

	assert.True(t, next.RSIWeight.Equal(decimal.RequireFromString("1.2")))
	assert.Equal(t, 30, next.MaxDailyTrades)

	require.Len(t, changes, 1)
	assert.Equal(t, "max_daily_trades", changes[0].Field)
	assert.Equal(t, "20", changes[0].Old)
	assert.Equal(t, "30", changes[0].New)
	for _, c := range changes {
		assert.NotEqual(t, "rsi_weight", c.Field)
	}
}

func TestMergeRejectionKeepsNothing(t *testing.T) {
	active := activeConfig(t, nil)

	next, changes, _, err := Merge(active, Document{
		"default_leverage": 50, // above max_leverage
	})
	require.Error(t, err)
	assert.Nil(t, next)
	assert.Nil(t, changes)

	_, ok := AsValidationErrors(err)
	assert.True(t, ok)
}

func TestMergeEqualValueSpellingIsNotAChange(t *testing.T) {
	active := activeConfig(t, nil)

	// "1.00" and the active "1.0" are the same decimal.
	_, changes, _, err := Merge(active, Document{"account_risk_per_trade": "1.00"})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestMergeChangeListOrder(t *testing.T) {
	active := activeConfig(t, nil)

	_, changes, _, err := Merge(active, Document{
		"check_interval":     30,
		"max_open_positions": 8,
		"quote_asset":        "USDC",
	})
	require.NoError(t, err)
	require.Len(t, changes, 3)

	// Canonical field order, not submission order.
	assert.Equal(t, "max_open_positions", changes[0].Field)
	assert.Equal(t, "quote_asset", changes[1].Field)
	assert.Equal(t, "check_interval", changes[2].Field)
}

func TestMergeUnknownKeysExcluded(t *testing.T) {
	active := activeConfig(t, nil)

	next, changes, unknown, err := Merge(active, Document{
		"max_daily_trades": 25,
		"mystery_field":    "abc",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"mystery_field"}, unknown)
	assert.Equal(t, 25, next.MaxDailyTrades)
	require.Len(t, changes, 1)
}

func TestMergeFullReplacementValidation(t *testing.T) {
	// An edit that is fine on its own but violates a cross-field invariant
	// against inherited values must be rejected.
	active := activeConfig(t, Document{"max_account_risk": "2.0", "account_risk_per_trade": "1.0"})

	_, _, _, err := Merge(active, Document{"account_risk_per_trade": "3.0"})
	require.Error(t, err)
	batch, ok := AsValidationErrors(err)
	require.True(t, ok)
	assert.NotEmpty(t, batch.Messages())
}

func TestMergeUnknownVersionRejected(t *testing.T) {
	active := activeConfig(t, nil)

	_, _, _, err := Merge(active, Document{"config_version": 99})
	require.Error(t, err)

	batch, ok := AsValidationErrors(err)
	require.True(t, ok)
	require.Len(t, batch.Errors, 1)
	assert.IsType(t, &UnknownConfigVersionError{}, batch.Errors[0])
}

func TestDiffListsOnlyChangedFields(t *testing.T) {
	a := activeConfig(t, nil)
	b := activeConfig(t, Document{"trading_type": "LONG", "max_leverage": 12})

	changes := Diff(a, b)
	require.Len(t, changes, 2)
	assert.Equal(t, "trading_type", changes[0].Field)
	assert.Equal(t, "BOTH", changes[0].Old)
	assert.Equal(t, "LONG", changes[0].New)
	assert.Equal(t, "max_leverage", changes[1].Field)
}
