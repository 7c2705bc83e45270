package strategy

import (
	"github.com/shopspring/decimal"
)

// Document serializes the config back to its canonical flat form.
// Decimals are emitted as exact strings so Parse(cfg.Document()) yields an
// equivalent config (round-trip law). The returned map and its slices are
// fresh copies.
func (c *StrategyConfig) Document() Document {
	doc := Document{
		versionKey: ConfigVersion,

		"max_open_positions": c.MaxOpenPositions,
		"max_daily_trades":   c.MaxDailyTrades,

		"trading_type": string(c.TradingType),

		"quote_asset":       c.QuoteAsset,
		"blacklist_symbols": copyStrings(c.BlacklistSymbols),
		"whitelist_symbols": copyStrings(c.WhitelistSymbols),
		"min_volume_usdt":   c.MinVolumeUSDT.String(),

		"account_risk_per_trade": c.AccountRiskPerTrade.String(),
		"max_account_risk":       c.MaxAccountRisk.String(),
		"max_drawdown":           c.MaxDrawdown.String(),

		"default_leverage": c.DefaultLeverage,
		"max_leverage":     c.MaxLeverage,
		"auto_leverage":    c.AutoLeverage,
		"margin_type":      string(c.MarginType),

		"adaptive_position_sizing":       c.AdaptivePositionSizing,
		"protection_mode_enabled":        c.ProtectionModeEnabled,
		"protection_mode_duration":       c.ProtectionModeDuration,
		"volatility_threshold":           c.VolatilityThreshold.String(),
		"rapid_drawdown_threshold":       c.RapidDrawdownThreshold.String(),
		"position_change_rate_threshold": c.PositionChangeRateThreshold.String(),

		"static_sl_percent":      c.StaticSLPercent.String(),
		"trailing_sl":            c.TrailingSL,
		"trailing_sl_distance":   c.TrailingSLDistance.String(),
		"trailing_sl_interval":   c.TrailingSLInterval.String(),
		"take_profit_targets":    decimalStrings(c.TakeProfitTargets),
		"take_profit_quantities": decimalStrings(c.TakeProfitQuantities),

		"partial_close_enabled":    c.PartialCloseEnabled,
		"partial_close_threshold":  c.PartialCloseThreshold.String(),
		"partial_close_percentage": c.PartialClosePercentage.String(),

		"primary_timeframe":    string(c.PrimaryTimeframe),
		"secondary_timeframes": timeframeStrings(c.SecondaryTimeframes),

		"rsi_weight":      c.RSIWeight.String(),
		"macd_weight":     c.MACDWeight.String(),
		"bb_weight":       c.BBWeight.String(),
		"ema_weight":      c.EMAWeight.String(),
		"stoch_weight":    c.StochWeight.String(),
		"adx_weight":      c.ADXWeight.String(),
		"atr_weight":      c.ATRWeight.String(),
		"obv_weight":      c.OBVWeight.String(),
		"vpt_weight":      c.VPTWeight.String(),
		"ichimoku_weight": c.IchimokuWeight.String(),

		"rsi_length":       c.RSILength,
		"rsi_overbought":   c.RSIOverbought.String(),
		"rsi_oversold":     c.RSIOversold.String(),
		"macd_fast":        c.MACDFast,
		"macd_slow":        c.MACDSlow,
		"macd_signal":      c.MACDSignal,
		"bb_length":        c.BBLength,
		"bb_std_dev":       c.BBStdDev.String(),
		"ema_short":        c.EMAShort,
		"ema_medium":       c.EMAMedium,
		"ema_long":         c.EMALong,
		"stoch_k":          c.StochK,
		"stoch_d":          c.StochD,
		"stoch_overbought": c.StochOverbought.String(),
		"stoch_oversold":   c.StochOversold.String(),
		"adx_length":       c.ADXLength,
		"adx_threshold":    c.ADXThreshold.String(),
		"atr_length":       c.ATRLength,
		"atr_multiplier":   c.ATRMultiplier.String(),
		"ichimoku_fast":    c.IchimokuFast,
		"ichimoku_med":     c.IchimokuMed,
		"ichimoku_slow":    c.IchimokuSlow,

		"min_score_to_trade":    c.MinScoreToTrade.String(),
		"score_threshold_long":  c.ScoreThresholdLong.String(),
		"score_threshold_short": c.ScoreThresholdShort.String(),
		"min_timing_score":      c.MinTimingScore.String(),
		"timing_weight":         c.TimingWeight.String(),
		"timing_check_enabled":  c.TimingCheckEnabled,

		"strategy_optimization_enabled": c.StrategyOptimizationEnabled,
		"optimization_interval_hours":   c.OptimizationIntervalHours,
		"optimization_min_trades":       c.OptimizationMinTrades,
		"win_rate_threshold_low":        c.WinRateThresholdLow.String(),
		"win_rate_threshold_high":       c.WinRateThresholdHigh.String(),

		"adaptive_params":         c.AdaptiveParams,
		"volatility_multiplier":   c.VolatilityMultiplier.String(),
		"trend_strength_factor":   c.TrendStrengthFactor.String(),
		"bearish_btc_affect":      c.BearishBTCAffect.String(),
		"market_condition_weight": c.MarketConditionWeight.String(),

		"trading_hours_only":  c.TradingHoursOnly,
		"trading_hours_start": c.TradingHoursStart,
		"trading_hours_end":   c.TradingHoursEnd,
		"weekend_mode":        string(c.WeekendMode),

		"avoid_high_funding":     c.AvoidHighFunding,
		"funding_rate_threshold": c.FundingRateThreshold.String(),

		"profit_threshold_daily": c.ProfitThresholdDaily.String(),
		"loss_threshold_daily":   c.LossThresholdDaily.String(),

		"position_size_type":  string(c.PositionSizeType),
		"fixed_position_size": c.FixedPositionSize.String(),

		"backtesting_mode": c.BacktestingMode,
		"backtest_from":    c.BacktestFrom,
		"backtest_to":      c.BacktestTo,

		"debug_mode":            c.DebugMode,
		"save_trades_to_db":     c.SaveTradesToDB,
		"log_level":             string(c.LogLevel),
		"check_interval":        c.CheckInterval,
		"health_check_interval": c.HealthCheckInterval,
	}
	return doc
}

// DefaultDocument is the explicit bootstrap document used when no config
// has ever been activated. Values mirror the engine's shipped settings
// file. Nothing in the validator falls back to these; a fresh deployment
// activates this document through the same Parse path as any other.
func DefaultDocument() Document {
	return Document{
		versionKey: ConfigVersion,

		"max_open_positions": 5,
		"max_daily_trades":   20,

		"trading_type": "BOTH",

		"quote_asset":       "USDT",
		"blacklist_symbols": []string{},
		"whitelist_symbols": []string{},
		"min_volume_usdt":   "5000000",

		"account_risk_per_trade": "1.0",
		"max_account_risk":       "5.0",
		"max_drawdown":           "10.0",

		"default_leverage": 3,
		"max_leverage":     10,
		"auto_leverage":    true,
		"margin_type":      "ISOLATED",

		"adaptive_position_sizing":       true,
		"protection_mode_enabled":        true,
		"protection_mode_duration":       60,
		"volatility_threshold":           "3.0",
		"rapid_drawdown_threshold":       "5.0",
		"position_change_rate_threshold": "300",

		"static_sl_percent":      "2.0",
		"trailing_sl":            true,
		"trailing_sl_distance":   "1.0",
		"trailing_sl_interval":   "0.5",
		"take_profit_targets":    []string{"1.5", "3.0", "5.0"},
		"take_profit_quantities": []string{"30", "30", "40"},

		"partial_close_enabled":    true,
		"partial_close_threshold":  "2.0",
		"partial_close_percentage": "50.0",

		"primary_timeframe":    "4h",
		"secondary_timeframes": []string{"1h", "1d"},

		"rsi_weight":      "1.0",
		"macd_weight":     "1.0",
		"bb_weight":       "1.0",
		"ema_weight":      "1.0",
		"stoch_weight":    "1.0",
		"adx_weight":      "1.0",
		"atr_weight":      "1.0",
		"obv_weight":      "1.0",
		"vpt_weight":      "1.0",
		"ichimoku_weight": "1.0",

		"rsi_length":       14,
		"rsi_overbought":   "70.0",
		"rsi_oversold":     "30.0",
		"macd_fast":        12,
		"macd_slow":        26,
		"macd_signal":      9,
		"bb_length":        20,
		"bb_std_dev":       "2.0",
		"ema_short":        9,
		"ema_medium":       21,
		"ema_long":         50,
		"stoch_k":          14,
		"stoch_d":          3,
		"stoch_overbought": "80.0",
		"stoch_oversold":   "20.0",
		"adx_length":       14,
		"adx_threshold":    "25.0",
		"atr_length":       14,
		"atr_multiplier":   "3.0",
		"ichimoku_fast":    9,
		"ichimoku_med":     26,
		"ichimoku_slow":    52,

		"min_score_to_trade":    "60.0",
		"score_threshold_long":  "70.0",
		"score_threshold_short": "70.0",
		"min_timing_score":      "50.0",
		"timing_weight":         "1.0",
		"timing_check_enabled":  true,

		"strategy_optimization_enabled": true,
		"optimization_interval_hours":   24,
		"optimization_min_trades":       20,
		"win_rate_threshold_low":        "40.0",
		"win_rate_threshold_high":       "60.0",

		"adaptive_params":         true,
		"volatility_multiplier":   "2.0",
		"trend_strength_factor":   "1.0",
		"bearish_btc_affect":      "0.5",
		"market_condition_weight": "1.0",

		"trading_hours_only":  false,
		"trading_hours_start": 9,
		"trading_hours_end":   17,
		"weekend_mode":        "REDUCED",

		"avoid_high_funding":     true,
		"funding_rate_threshold": "0.0005",

		"profit_threshold_daily": "3.0",
		"loss_threshold_daily":   "5.0",

		"position_size_type":  "DYNAMIC",
		"fixed_position_size": "100.0",

		"backtesting_mode": false,
		"backtest_from":    "",
		"backtest_to":      "",

		"debug_mode":            false,
		"save_trades_to_db":     true,
		"log_level":             "INFO",
		"check_interval":        60,
		"health_check_interval": 3600,
	}
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func decimalStrings(in []decimal.Decimal) []string {
	out := make([]string, 0, len(in))
	for _, d := range in {
		out = append(out, d.String())
	}
	return out
}

func timeframeStrings(in []Timeframe) []string {
	out := make([]string, 0, len(in))
	for _, tf := range in {
		out = append(out, string(tf))
	}
	return out
}
