package strategy

// versionKey may appear in any document; it is metadata, not a field.
const versionKey = "config_version"

// fieldOrder is the canonical key order. It drives serialization, change
// lists and unknown-key detection, so the engine and the dashboard always
// see fields in the same sequence. Keys are verbatim from the engine's
// settings file and must not be renamed.
var fieldOrder = []string{
	"max_open_positions",
	"max_daily_trades",
	"trading_type",
	"quote_asset",
	"blacklist_symbols",
	"whitelist_symbols",
	"min_volume_usdt",
	"account_risk_per_trade",
	"max_account_risk",
	"max_drawdown",
	"default_leverage",
	"max_leverage",
	"auto_leverage",
	"margin_type",
	"adaptive_position_sizing",
	"protection_mode_enabled",
	"protection_mode_duration",
	"volatility_threshold",
	"rapid_drawdown_threshold",
	"position_change_rate_threshold",
	"static_sl_percent",
	"trailing_sl",
	"trailing_sl_distance",
	"trailing_sl_interval",
	"take_profit_targets",
	"take_profit_quantities",
	"partial_close_enabled",
	"partial_close_threshold",
	"partial_close_percentage",
	"primary_timeframe",
	"secondary_timeframes",
	"rsi_weight",
	"macd_weight",
	"bb_weight",
	"ema_weight",
	"stoch_weight",
	"adx_weight",
	"atr_weight",
	"obv_weight",
	"vpt_weight",
	"ichimoku_weight",
	"rsi_length",
	"rsi_overbought",
	"rsi_oversold",
	"macd_fast",
	"macd_slow",
	"macd_signal",
	"bb_length",
	"bb_std_dev",
	"ema_short",
	"ema_medium",
	"ema_long",
	"stoch_k",
	"stoch_d",
	"stoch_overbought",
	"stoch_oversold",
	"adx_length",
	"adx_threshold",
	"atr_length",
	"atr_multiplier",
	"ichimoku_fast",
	"ichimoku_med",
	"ichimoku_slow",
	"min_score_to_trade",
	"score_threshold_long",
	"score_threshold_short",
	"min_timing_score",
	"timing_weight",
	"timing_check_enabled",
	"strategy_optimization_enabled",
	"optimization_interval_hours",
	"optimization_min_trades",
	"win_rate_threshold_low",
	"win_rate_threshold_high",
	"adaptive_params",
	"volatility_multiplier",
	"trend_strength_factor",
	"bearish_btc_affect",
	"market_condition_weight",
	"trading_hours_only",
	"trading_hours_start",
	"trading_hours_end",
	"weekend_mode",
	"avoid_high_funding",
	"funding_rate_threshold",
	"profit_threshold_daily",
	"loss_threshold_daily",
	"position_size_type",
	"fixed_position_size",
	"backtesting_mode",
	"backtest_from",
	"backtest_to",
	"debug_mode",
	"save_trades_to_db",
	"log_level",
	"check_interval",
	"health_check_interval",
}

var knownFields = func() map[string]bool {
	m := make(map[string]bool, len(fieldOrder))
	for _, k := range fieldOrder {
		m[k] = true
	}
	return m
}()

// FieldOrder returns a copy of the canonical key order.
func FieldOrder() []string {
	out := make([]string, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// validTimeframes is the interval vocabulary the exchange API accepts.
var validTimeframes = map[Timeframe]bool{
	"1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
	"1d": true, "3d": true, "1w": true,
}

var validTradingTypes = map[TradingType]bool{
	TradingLong: true, TradingShort: true, TradingBoth: true,
}

var validMarginTypes = map[MarginType]bool{
	MarginIsolated: true, MarginCross: true,
}

var validWeekendModes = map[WeekendMode]bool{
	WeekendNormal: true, WeekendReduced: true, WeekendOff: true,
}

var validPositionSizeTypes = map[PositionSizeType]bool{
	PositionSizeFixed: true, PositionSizeDynamic: true,
}

var validLogLevels = map[LogLevel]bool{
	LogDebug: true, LogInfo: true, LogWarn: true, LogError: true,
}
