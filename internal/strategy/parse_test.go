package strategy

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultDocument(t *testing.T) {
	cfg, unknown, err := Parse(DefaultDocument())
	require.NoError(t, err)
	require.Empty(t, unknown)

	assert.Equal(t, 5, cfg.MaxOpenPositions)
	assert.Equal(t, TradingBoth, cfg.TradingType)
	assert.Equal(t, "USDT", cfg.QuoteAsset)
	assert.Equal(t, 3, cfg.DefaultLeverage)
	assert.Equal(t, 10, cfg.MaxLeverage)
	assert.Equal(t, MarginIsolated, cfg.MarginType)
	assert.Equal(t, Timeframe("4h"), cfg.PrimaryTimeframe)
	assert.Equal(t, []Timeframe{"1h", "1d"}, cfg.SecondaryTimeframes)
	assert.Equal(t, LogInfo, cfg.LogLevel)
	assert.True(t, cfg.AccountRiskPerTrade.Equal(decimal.NewFromInt(1)))
	assert.Len(t, cfg.TakeProfitTargets, 3)
	assert.Len(t, cfg.TakeProfitQuantities, 3)
}

func TestParseCoercion(t *testing.T) {
	doc := DefaultDocument()

	t.Run("numeric strings", func(t *testing.T) {
		doc["max_open_positions"] = "7"
		doc["account_risk_per_trade"] = "1.5"
		cfg, _, err := Parse(doc)
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.MaxOpenPositions)
		assert.True(t, cfg.AccountRiskPerTrade.Equal(decimal.RequireFromString("1.5")))
	})

	t.Run("float integers", func(t *testing.T) {
		doc["max_open_positions"] = float64(4)
		cfg, _, err := Parse(doc)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.MaxOpenPositions)
	})

	t.Run("boolean strings", func(t *testing.T) {
		doc["auto_leverage"] = "false"
		cfg, _, err := Parse(doc)
		require.NoError(t, err)
		assert.False(t, cfg.AutoLeverage)
	})

	t.Run("comma separated lists", func(t *testing.T) {
		doc["blacklist_symbols"] = "DOGEUSDT, SHIBUSDT"
		doc["take_profit_targets"] = "1.0,2.0,4.0"
		cfg, _, err := Parse(doc)
		require.NoError(t, err)
		assert.Equal(t, []string{"DOGEUSDT", "SHIBUSDT"}, cfg.BlacklistSymbols)
		require.Len(t, cfg.TakeProfitTargets, 3)
		assert.True(t, cfg.TakeProfitTargets[2].Equal(decimal.NewFromInt(4)))
	})
}

func TestParseMissingField(t *testing.T) {
	doc := DefaultDocument()
	delete(doc, "max_leverage")
	delete(doc, "log_level")

	_, _, err := Parse(doc)
	require.Error(t, err)

	batch, ok := AsValidationErrors(err)
	require.True(t, ok)

	var missing []string
	for _, e := range batch.Errors {
		if m, ok := e.(*MissingFieldError); ok {
			missing = append(missing, m.Field)
		}
	}
	assert.ElementsMatch(t, []string{"max_leverage", "log_level"}, missing)
}

func TestParseTypeMismatch(t *testing.T) {
	doc := DefaultDocument()
	doc["min_volume_usdt"] = "not-a-number"
	doc["debug_mode"] = 12
	doc["trading_type"] = "SIDEWAYS"

	_, _, err := Parse(doc)
	require.Error(t, err)

	batch, ok := AsValidationErrors(err)
	require.True(t, ok)

	fields := map[string]bool{}
	for _, e := range batch.Errors {
		if m, ok := e.(*TypeMismatchError); ok {
			fields[m.Field] = true
		}
	}
	assert.True(t, fields["min_volume_usdt"])
	assert.True(t, fields["debug_mode"])
	assert.True(t, fields["trading_type"])
}

func TestParseReportsAllViolationsAtOnce(t *testing.T) {
	doc := DefaultDocument()
	doc["max_open_positions"] = 0
	doc["default_leverage"] = 20
	doc["max_leverage"] = 15
	doc["partial_close_percentage"] = "150"
	delete(doc, "quote_asset")

	_, _, err := Parse(doc)
	require.Error(t, err)

	batch, ok := AsValidationErrors(err)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(batch.Errors), 4)
}

func TestLeverageOrdering(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		doc := DefaultDocument()
		doc["default_leverage"] = 5
		doc["max_leverage"] = 15
		_, _, err := Parse(doc)
		assert.NoError(t, err)
	})

	t.Run("rejected citing both fields", func(t *testing.T) {
		doc := DefaultDocument()
		doc["default_leverage"] = 20
		doc["max_leverage"] = 15
		_, _, err := Parse(doc)
		require.Error(t, err)

		batch, ok := AsValidationErrors(err)
		require.True(t, ok)
		found := false
		for _, e := range batch.Errors {
			if v, ok := e.(*ConstraintViolationError); ok {
				if assert.ObjectsAreEqual([]string{"default_leverage", "max_leverage"}, v.Fields) {
					found = true
				}
			}
		}
		assert.True(t, found, "expected a violation citing default_leverage and max_leverage")
	})
}

func TestTakeProfitLadder(t *testing.T) {
	t.Run("quantities over 100 rejected", func(t *testing.T) {
		doc := DefaultDocument()
		doc["take_profit_targets"] = []string{"1.0", "2.0", "3.0"}
		doc["take_profit_quantities"] = []string{"50", "40", "30"}
		_, _, err := Parse(doc)
		require.Error(t, err)
		assertViolationOn(t, err, "take_profit_quantities")
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		doc := DefaultDocument()
		doc["take_profit_targets"] = []string{"1.0", "2.0"}
		doc["take_profit_quantities"] = []string{"30", "30", "40"}
		_, _, err := Parse(doc)
		require.Error(t, err)
	})

	t.Run("non increasing targets rejected", func(t *testing.T) {
		doc := DefaultDocument()
		doc["take_profit_targets"] = []string{"2.0", "2.0", "5.0"}
		_, _, err := Parse(doc)
		require.Error(t, err)
		assertViolationOn(t, err, "take_profit_targets")
	})
}

func TestEMAOrdering(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		doc := DefaultDocument()
		doc["ema_short"] = 8
		doc["ema_medium"] = 21
		doc["ema_long"] = 50
		_, _, err := Parse(doc)
		assert.NoError(t, err)
	})

	t.Run("rejected", func(t *testing.T) {
		doc := DefaultDocument()
		doc["ema_short"] = 25
		doc["ema_medium"] = 21
		_, _, err := Parse(doc)
		require.Error(t, err)
		assertViolationOn(t, err, "ema_short")
	})
}

func TestTradingHours(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		doc := DefaultDocument()
		doc["trading_hours_only"] = true
		doc["trading_hours_start"] = 9
		doc["trading_hours_end"] = 17
		_, _, err := Parse(doc)
		assert.NoError(t, err)
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		doc := DefaultDocument()
		doc["trading_hours_only"] = true
		doc["trading_hours_start"] = 18
		doc["trading_hours_end"] = 9
		_, _, err := Parse(doc)
		require.Error(t, err)
		assertViolationOn(t, err, "trading_hours_start")
	})

	t.Run("window ignored when disabled", func(t *testing.T) {
		doc := DefaultDocument()
		doc["trading_hours_only"] = false
		doc["trading_hours_start"] = 18
		doc["trading_hours_end"] = 9
		_, _, err := Parse(doc)
		assert.NoError(t, err)
	})
}

func TestBacktestWindow(t *testing.T) {
	t.Run("disabled with empty dates accepted", func(t *testing.T) {
		cfg, _, err := Parse(DefaultDocument())
		require.NoError(t, err)
		assert.False(t, cfg.BacktestingMode)
		assert.True(t, cfg.SaveTradesToDB)
	})

	t.Run("enabled with window accepted", func(t *testing.T) {
		doc := DefaultDocument()
		doc["backtesting_mode"] = true
		doc["backtest_from"] = "2023-01-01"
		doc["backtest_to"] = "2023-06-30"
		cfg, _, err := Parse(doc)
		require.NoError(t, err)
		assert.Equal(t, "2023-01-01", cfg.BacktestFrom)
	})

	t.Run("enabled without dates rejected", func(t *testing.T) {
		doc := DefaultDocument()
		doc["backtesting_mode"] = true
		_, _, err := Parse(doc)
		require.Error(t, err)
		assertViolationOn(t, err, "backtesting_mode")
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		doc := DefaultDocument()
		doc["backtest_from"] = "2023-06-30"
		doc["backtest_to"] = "2023-01-01"
		_, _, err := Parse(doc)
		require.Error(t, err)
		assertViolationOn(t, err, "backtest_from")
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		doc := DefaultDocument()
		doc["backtest_from"] = "01/01/2023"
		_, _, err := Parse(doc)
		require.Error(t, err)

		batch, ok := AsValidationErrors(err)
		require.True(t, ok)
		found := false
		for _, e := range batch.Errors {
			if m, ok := e.(*TypeMismatchError); ok && m.Field == "backtest_from" {
				found = true
			}
		}
		assert.True(t, found, "expected a type mismatch on backtest_from")
	})
}

func TestBlacklistWhitelistDisjoint(t *testing.T) {
	doc := DefaultDocument()
	doc["blacklist_symbols"] = []string{"BTCUSDT", "ETHUSDT"}
	doc["whitelist_symbols"] = []string{"ETHUSDT", "SOLUSDT"}
	_, _, err := Parse(doc)
	require.Error(t, err)
	assertViolationOn(t, err, "blacklist_symbols")
}

func TestUnknownKeysRecordedNotRejected(t *testing.T) {
	doc := DefaultDocument()
	doc["future_knob"] = 42
	doc["another_future_knob"] = "x"

	cfg, unknown, err := Parse(doc)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"another_future_knob", "future_knob"}, unknown)
}

func TestUnknownConfigVersion(t *testing.T) {
	doc := DefaultDocument()
	doc["config_version"] = 99

	_, _, err := Parse(doc)
	require.Error(t, err)

	// Version failures travel in the same batch type as every other
	// validation failure, so callers need a single rejection path.
	batch, ok := AsValidationErrors(err)
	require.True(t, ok)
	require.Len(t, batch.Errors, 1)

	var verr *UnknownConfigVersionError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 99, verr.Version)
}

func TestRoundTrip(t *testing.T) {
	cfg, _, err := Parse(DefaultDocument())
	require.NoError(t, err)

	again, unknown, err := Parse(cfg.Document())
	require.NoError(t, err)
	assert.Empty(t, unknown)

	// Idempotence: reparsing the serialized form yields the same config.
	assert.Equal(t, cfg, again)
}

func TestRoundTripAfterEdits(t *testing.T) {
	doc := DefaultDocument()
	doc["max_open_positions"] = "8"
	doc["account_risk_per_trade"] = 0.75
	doc["whitelist_symbols"] = "BTCUSDT,ETHUSDT"

	cfg, _, err := Parse(doc)
	require.NoError(t, err)

	again, _, err := Parse(cfg.Document())
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func assertViolationOn(t *testing.T, err error, field string) {
	t.Helper()
	batch, ok := AsValidationErrors(err)
	require.True(t, ok, "expected a ValidationErrors batch, got %T", err)
	for _, e := range batch.Errors {
		if v, ok := e.(*ConstraintViolationError); ok {
			for _, f := range v.Fields {
				if f == field {
					return
				}
			}
		}
	}
	t.Fatalf("no constraint violation citing %q in %v", field, batch.Messages())
}
