package strategy

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	decZero    = decimal.Zero
	decHundred = decimal.NewFromInt(100)
)

// Parse coerces a flat document into a validated StrategyConfig.
//
// The whole document is checked in one pass: every missing key, type
// mismatch and violated invariant is collected into a single
// ValidationErrors batch so the operator sees all problems at once.
// Unknown keys never fail the parse; they are returned for diagnostics.
// Parse performs no I/O and has no side effects.
func Parse(doc Document) (*StrategyConfig, []string, error) {
	if raw, ok := doc[versionKey]; ok {
		version, ok := coerceInt(raw)
		if !ok {
			return nil, nil, &ValidationErrors{Errors: []error{
				&TypeMismatchError{Field: versionKey, Expected: "integer", Value: raw},
			}}
		}
		if version != ConfigVersion {
			return nil, nil, &ValidationErrors{Errors: []error{
				&UnknownConfigVersionError{Version: version},
			}}
		}
	}

	p := &parser{
		doc:    doc,
		errs:   &ValidationErrors{},
		parsed: make(map[string]bool),
	}

	cfg := &StrategyConfig{}

	// Position limits
	cfg.MaxOpenPositions = p.integer("max_open_positions")
	cfg.MaxDailyTrades = p.integer("max_daily_trades")

	// Trading mode
	cfg.TradingType = TradingType(p.enum("trading_type", "LONG|SHORT|BOTH", func(s string) bool {
		return validTradingTypes[TradingType(s)]
	}))

	// Market filter
	cfg.QuoteAsset = p.str("quote_asset")
	cfg.BlacklistSymbols = p.strSet("blacklist_symbols")
	cfg.WhitelistSymbols = p.strSet("whitelist_symbols")
	cfg.MinVolumeUSDT = p.dec("min_volume_usdt")

	// Risk
	cfg.AccountRiskPerTrade = p.dec("account_risk_per_trade")
	cfg.MaxAccountRisk = p.dec("max_account_risk")
	cfg.MaxDrawdown = p.dec("max_drawdown")

	// Leverage
	cfg.DefaultLeverage = p.integer("default_leverage")
	cfg.MaxLeverage = p.integer("max_leverage")
	cfg.AutoLeverage = p.boolean("auto_leverage")
	cfg.MarginType = MarginType(p.enum("margin_type", "ISOLATED|CROSS", func(s string) bool {
		return validMarginTypes[MarginType(s)]
	}))

	// Adaptive risk
	cfg.AdaptivePositionSizing = p.boolean("adaptive_position_sizing")
	cfg.ProtectionModeEnabled = p.boolean("protection_mode_enabled")
	cfg.ProtectionModeDuration = p.integer("protection_mode_duration")
	cfg.VolatilityThreshold = p.dec("volatility_threshold")
	cfg.RapidDrawdownThreshold = p.dec("rapid_drawdown_threshold")
	cfg.PositionChangeRateThreshold = p.dec("position_change_rate_threshold")

	// Stop loss / take profit
	cfg.StaticSLPercent = p.dec("static_sl_percent")
	cfg.TrailingSL = p.boolean("trailing_sl")
	cfg.TrailingSLDistance = p.dec("trailing_sl_distance")
	cfg.TrailingSLInterval = p.dec("trailing_sl_interval")
	cfg.TakeProfitTargets = p.decList("take_profit_targets")
	cfg.TakeProfitQuantities = p.decList("take_profit_quantities")

	// Partial close
	cfg.PartialCloseEnabled = p.boolean("partial_close_enabled")
	cfg.PartialCloseThreshold = p.dec("partial_close_threshold")
	cfg.PartialClosePercentage = p.dec("partial_close_percentage")

	// Timeframes
	cfg.PrimaryTimeframe = Timeframe(p.enum("primary_timeframe", "interval (1m..1w)", func(s string) bool {
		return validTimeframes[Timeframe(s)]
	}))
	for _, s := range p.strList("secondary_timeframes") {
		cfg.SecondaryTimeframes = append(cfg.SecondaryTimeframes, Timeframe(s))
	}

	// Indicator weights
	cfg.RSIWeight = p.dec("rsi_weight")
	cfg.MACDWeight = p.dec("macd_weight")
	cfg.BBWeight = p.dec("bb_weight")
	cfg.EMAWeight = p.dec("ema_weight")
	cfg.StochWeight = p.dec("stoch_weight")
	cfg.ADXWeight = p.dec("adx_weight")
	cfg.ATRWeight = p.dec("atr_weight")
	cfg.OBVWeight = p.dec("obv_weight")
	cfg.VPTWeight = p.dec("vpt_weight")
	cfg.IchimokuWeight = p.dec("ichimoku_weight")

	// Indicator parameters
	cfg.RSILength = p.integer("rsi_length")
	cfg.RSIOverbought = p.dec("rsi_overbought")
	cfg.RSIOversold = p.dec("rsi_oversold")
	cfg.MACDFast = p.integer("macd_fast")
	cfg.MACDSlow = p.integer("macd_slow")
	cfg.MACDSignal = p.integer("macd_signal")
	cfg.BBLength = p.integer("bb_length")
	cfg.BBStdDev = p.dec("bb_std_dev")
	cfg.EMAShort = p.integer("ema_short")
	cfg.EMAMedium = p.integer("ema_medium")
	cfg.EMALong = p.integer("ema_long")
	cfg.StochK = p.integer("stoch_k")
	cfg.StochD = p.integer("stoch_d")
	cfg.StochOverbought = p.dec("stoch_overbought")
	cfg.StochOversold = p.dec("stoch_oversold")
	cfg.ADXLength = p.integer("adx_length")
	cfg.ADXThreshold = p.dec("adx_threshold")
	cfg.ATRLength = p.integer("atr_length")
	cfg.ATRMultiplier = p.dec("atr_multiplier")
	cfg.IchimokuFast = p.integer("ichimoku_fast")
	cfg.IchimokuMed = p.integer("ichimoku_med")
	cfg.IchimokuSlow = p.integer("ichimoku_slow")

	// Entry thresholds
	cfg.MinScoreToTrade = p.dec("min_score_to_trade")
	cfg.ScoreThresholdLong = p.dec("score_threshold_long")
	cfg.ScoreThresholdShort = p.dec("score_threshold_short")
	cfg.MinTimingScore = p.dec("min_timing_score")
	cfg.TimingWeight = p.dec("timing_weight")
	cfg.TimingCheckEnabled = p.boolean("timing_check_enabled")

	// Optimization
	cfg.StrategyOptimizationEnabled = p.boolean("strategy_optimization_enabled")
	cfg.OptimizationIntervalHours = p.integer("optimization_interval_hours")
	cfg.OptimizationMinTrades = p.integer("optimization_min_trades")
	cfg.WinRateThresholdLow = p.dec("win_rate_threshold_low")
	cfg.WinRateThresholdHigh = p.dec("win_rate_threshold_high")

	// Adaptation
	cfg.AdaptiveParams = p.boolean("adaptive_params")
	cfg.VolatilityMultiplier = p.dec("volatility_multiplier")
	cfg.TrendStrengthFactor = p.dec("trend_strength_factor")
	cfg.BearishBTCAffect = p.dec("bearish_btc_affect")
	cfg.MarketConditionWeight = p.dec("market_condition_weight")

	// Schedule
	cfg.TradingHoursOnly = p.boolean("trading_hours_only")
	cfg.TradingHoursStart = p.integer("trading_hours_start")
	cfg.TradingHoursEnd = p.integer("trading_hours_end")
	cfg.WeekendMode = WeekendMode(p.enum("weekend_mode", "NORMAL|REDUCED|OFF", func(s string) bool {
		return validWeekendModes[WeekendMode(s)]
	}))

	// Funding
	cfg.AvoidHighFunding = p.boolean("avoid_high_funding")
	cfg.FundingRateThreshold = p.dec("funding_rate_threshold")

	// Daily thresholds
	cfg.ProfitThresholdDaily = p.dec("profit_threshold_daily")
	cfg.LossThresholdDaily = p.dec("loss_threshold_daily")

	// Position sizing
	cfg.PositionSizeType = PositionSizeType(p.enum("position_size_type", "FIXED|DYNAMIC", func(s string) bool {
		return validPositionSizeTypes[PositionSizeType(s)]
	}))
	cfg.FixedPositionSize = p.dec("fixed_position_size")

	// Backtesting
	cfg.BacktestingMode = p.boolean("backtesting_mode")
	cfg.BacktestFrom = p.date("backtest_from")
	cfg.BacktestTo = p.date("backtest_to")

	// Operational
	cfg.DebugMode = p.boolean("debug_mode")
	cfg.SaveTradesToDB = p.boolean("save_trades_to_db")
	cfg.LogLevel = LogLevel(p.enum("log_level", "DEBUG|INFO|WARN|ERROR", func(s string) bool {
		return validLogLevels[LogLevel(s)]
	}))
	cfg.CheckInterval = p.integer("check_interval")
	cfg.HealthCheckInterval = p.integer("health_check_interval")

	p.checkInvariants(cfg)

	unknown := p.unknownKeys()
	if err := p.errs.orNil(); err != nil {
		return nil, unknown, err
	}
	return cfg, unknown, nil
}

// parser walks a document collecting errors instead of stopping at the
// first problem. parsed tracks which keys coerced cleanly so cross-field
// checks only run on values that exist.
type parser struct {
	doc    Document
	errs   *ValidationErrors
	parsed map[string]bool
}

func (p *parser) raw(key string) (interface{}, bool) {
	v, ok := p.doc[key]
	if !ok {
		p.errs.add(&MissingFieldError{Field: key})
		return nil, false
	}
	return v, true
}

func (p *parser) mismatch(key, expected string, v interface{}) {
	p.errs.add(&TypeMismatchError{Field: key, Expected: expected, Value: v})
}

func (p *parser) have(keys ...string) bool {
	for _, k := range keys {
		if !p.parsed[k] {
			return false
		}
	}
	return true
}

func (p *parser) violation(invariant string, fields ...string) {
	p.errs.add(&ConstraintViolationError{Invariant: invariant, Fields: fields})
}

func (p *parser) integer(key string) int {
	v, ok := p.raw(key)
	if !ok {
		return 0
	}
	n, ok := coerceInt(v)
	if !ok {
		p.mismatch(key, "integer", v)
		return 0
	}
	p.parsed[key] = true
	return n
}

func (p *parser) dec(key string) decimal.Decimal {
	v, ok := p.raw(key)
	if !ok {
		return decimal.Decimal{}
	}
	d, ok := coerceDecimal(v)
	if !ok {
		p.mismatch(key, "decimal", v)
		return decimal.Decimal{}
	}
	p.parsed[key] = true
	return d
}

func (p *parser) boolean(key string) bool {
	v, ok := p.raw(key)
	if !ok {
		return false
	}
	b, ok := coerceBool(v)
	if !ok {
		p.mismatch(key, "boolean", v)
		return false
	}
	p.parsed[key] = true
	return b
}

func (p *parser) str(key string) string {
	v, ok := p.raw(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		p.mismatch(key, "string", v)
		return ""
	}
	p.parsed[key] = true
	return s
}

func (p *parser) enum(key, expected string, valid func(string) bool) string {
	v, ok := p.raw(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok || !valid(s) {
		p.mismatch(key, expected, v)
		return ""
	}
	p.parsed[key] = true
	return s
}

func (p *parser) strList(key string) []string {
	v, ok := p.raw(key)
	if !ok {
		return nil
	}
	list, ok := coerceStringList(v)
	if !ok {
		p.mismatch(key, "list of strings", v)
		return nil
	}
	p.parsed[key] = true
	return list
}

// date parses a YYYY-MM-DD string. Empty means unset.
func (p *parser) date(key string) string {
	v, ok := p.raw(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		p.mismatch(key, "date (YYYY-MM-DD)", v)
		return ""
	}
	s = strings.TrimSpace(s)
	if s != "" {
		if _, err := time.Parse("2006-01-02", s); err != nil {
			p.mismatch(key, "date (YYYY-MM-DD)", v)
			return ""
		}
	}
	p.parsed[key] = true
	return s
}

// strSet parses a string list with set semantics: deduplicated, sorted.
func (p *parser) strSet(key string) []string {
	list := p.strList(key)
	if list == nil {
		return nil
	}
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func (p *parser) decList(key string) []decimal.Decimal {
	v, ok := p.raw(key)
	if !ok {
		return nil
	}
	list, ok := coerceDecimalList(v)
	if !ok {
		p.mismatch(key, "list of decimals", v)
		return nil
	}
	p.parsed[key] = true
	return list
}

// unknownKeys returns document keys outside the schema, sorted. They are
// tolerated for forward compatibility but surfaced for diagnostics.
func (p *parser) unknownKeys() []string {
	var out []string
	for k := range p.doc {
		if k != versionKey && !knownFields[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// checkInvariants runs every cross-field and range constraint. Each check
// guards on have() so a key that already failed coercion does not also
// produce a spurious constraint error.
func (p *parser) checkInvariants(cfg *StrategyConfig) {
	// Position limits
	if p.have("max_open_positions") && cfg.MaxOpenPositions < 1 {
		p.violation("max_open_positions must be >= 1", "max_open_positions")
	}
	if p.have("max_daily_trades") && cfg.MaxDailyTrades < 1 {
		p.violation("max_daily_trades must be >= 1", "max_daily_trades")
	}

	// Market filter
	if p.have("quote_asset") && cfg.QuoteAsset == "" {
		p.violation("quote_asset must not be empty", "quote_asset")
	}
	if p.have("min_volume_usdt") && cfg.MinVolumeUSDT.IsNegative() {
		p.violation("min_volume_usdt must be >= 0", "min_volume_usdt")
	}
	if p.have("blacklist_symbols", "whitelist_symbols") {
		black := make(map[string]bool, len(cfg.BlacklistSymbols))
		for _, s := range cfg.BlacklistSymbols {
			black[s] = true
		}
		var both []string
		for _, s := range cfg.WhitelistSymbols {
			if black[s] {
				both = append(both, s)
			}
		}
		if len(both) > 0 {
			p.violation("blacklist_symbols and whitelist_symbols must be disjoint (shared: "+strings.Join(both, ", ")+")",
				"blacklist_symbols", "whitelist_symbols")
		}
	}

	// Risk percents
	p.percentRange(cfg.AccountRiskPerTrade, "account_risk_per_trade")
	p.percentRange(cfg.MaxAccountRisk, "max_account_risk")
	p.percentRange(cfg.MaxDrawdown, "max_drawdown")
	if p.have("account_risk_per_trade", "max_account_risk") &&
		cfg.AccountRiskPerTrade.GreaterThan(cfg.MaxAccountRisk) {
		p.violation("account_risk_per_trade must be <= max_account_risk",
			"account_risk_per_trade", "max_account_risk")
	}

	// Leverage
	if p.have("default_leverage") && cfg.DefaultLeverage < 1 {
		p.violation("default_leverage must be >= 1", "default_leverage")
	}
	if p.have("max_leverage") && cfg.MaxLeverage < 1 {
		p.violation("max_leverage must be >= 1", "max_leverage")
	}
	if p.have("default_leverage", "max_leverage") && cfg.DefaultLeverage > cfg.MaxLeverage {
		p.violation("default_leverage must be <= max_leverage", "default_leverage", "max_leverage")
	}

	// Adaptive risk
	if p.have("protection_mode_duration") && cfg.ProtectionModeDuration <= 0 {
		p.violation("protection_mode_duration must be > 0", "protection_mode_duration")
	}
	p.positiveDec(cfg.VolatilityThreshold, "volatility_threshold")
	p.positiveDec(cfg.RapidDrawdownThreshold, "rapid_drawdown_threshold")
	p.positiveDec(cfg.PositionChangeRateThreshold, "position_change_rate_threshold")

	// Stop loss / take profit
	p.positiveDec(cfg.StaticSLPercent, "static_sl_percent")
	p.positiveDec(cfg.TrailingSLDistance, "trailing_sl_distance")
	p.positiveDec(cfg.TrailingSLInterval, "trailing_sl_interval")
	if p.have("take_profit_targets", "take_profit_quantities") {
		p.checkTakeProfitLadder(cfg)
	}

	// Partial close
	p.positiveDec(cfg.PartialCloseThreshold, "partial_close_threshold")
	if p.have("partial_close_percentage") &&
		(!cfg.PartialClosePercentage.IsPositive() || cfg.PartialClosePercentage.GreaterThan(decHundred)) {
		p.violation("partial_close_percentage must be in (0, 100]", "partial_close_percentage")
	}

	// Timeframes
	if p.have("secondary_timeframes") {
		for _, tf := range cfg.SecondaryTimeframes {
			if !validTimeframes[tf] {
				p.violation("secondary_timeframes contains unsupported interval "+string(tf), "secondary_timeframes")
			}
		}
	}
	if p.have("primary_timeframe", "secondary_timeframes") {
		for _, tf := range cfg.SecondaryTimeframes {
			if tf == cfg.PrimaryTimeframe {
				p.violation("primary_timeframe must not appear in secondary_timeframes",
					"primary_timeframe", "secondary_timeframes")
				break
			}
		}
	}

	// Indicator weights
	p.nonNegativeDec(cfg.RSIWeight, "rsi_weight")
	p.nonNegativeDec(cfg.MACDWeight, "macd_weight")
	p.nonNegativeDec(cfg.BBWeight, "bb_weight")
	p.nonNegativeDec(cfg.EMAWeight, "ema_weight")
	p.nonNegativeDec(cfg.StochWeight, "stoch_weight")
	p.nonNegativeDec(cfg.ADXWeight, "adx_weight")
	p.nonNegativeDec(cfg.ATRWeight, "atr_weight")
	p.nonNegativeDec(cfg.OBVWeight, "obv_weight")
	p.nonNegativeDec(cfg.VPTWeight, "vpt_weight")
	p.nonNegativeDec(cfg.IchimokuWeight, "ichimoku_weight")

	// Indicator parameters
	p.positiveInt(cfg.RSILength, "rsi_length")
	p.positiveInt(cfg.MACDFast, "macd_fast")
	p.positiveInt(cfg.MACDSlow, "macd_slow")
	p.positiveInt(cfg.MACDSignal, "macd_signal")
	p.positiveInt(cfg.BBLength, "bb_length")
	p.positiveInt(cfg.EMAShort, "ema_short")
	p.positiveInt(cfg.EMAMedium, "ema_medium")
	p.positiveInt(cfg.EMALong, "ema_long")
	p.positiveInt(cfg.StochK, "stoch_k")
	p.positiveInt(cfg.StochD, "stoch_d")
	p.positiveInt(cfg.ADXLength, "adx_length")
	p.positiveInt(cfg.ATRLength, "atr_length")
	p.positiveInt(cfg.IchimokuFast, "ichimoku_fast")
	p.positiveInt(cfg.IchimokuMed, "ichimoku_med")
	p.positiveInt(cfg.IchimokuSlow, "ichimoku_slow")
	p.positiveDec(cfg.BBStdDev, "bb_std_dev")
	p.positiveDec(cfg.ATRMultiplier, "atr_multiplier")
	p.nonNegativeDec(cfg.ADXThreshold, "adx_threshold")

	if p.have("macd_fast", "macd_slow") && cfg.MACDFast >= cfg.MACDSlow {
		p.violation("macd_fast must be < macd_slow", "macd_fast", "macd_slow")
	}
	if p.have("ema_short", "ema_medium", "ema_long") &&
		!(cfg.EMAShort < cfg.EMAMedium && cfg.EMAMedium < cfg.EMALong) {
		p.violation("ema periods must satisfy ema_short < ema_medium < ema_long",
			"ema_short", "ema_medium", "ema_long")
	}
	if p.have("ichimoku_fast", "ichimoku_med", "ichimoku_slow") &&
		!(cfg.IchimokuFast < cfg.IchimokuMed && cfg.IchimokuMed < cfg.IchimokuSlow) {
		p.violation("ichimoku periods must satisfy ichimoku_fast < ichimoku_med < ichimoku_slow",
			"ichimoku_fast", "ichimoku_med", "ichimoku_slow")
	}
	if p.have("rsi_overbought", "rsi_oversold") && !cfg.RSIOversold.LessThan(cfg.RSIOverbought) {
		p.violation("rsi_oversold must be < rsi_overbought", "rsi_oversold", "rsi_overbought")
	}
	if p.have("stoch_overbought", "stoch_oversold") && !cfg.StochOversold.LessThan(cfg.StochOverbought) {
		p.violation("stoch_oversold must be < stoch_overbought", "stoch_oversold", "stoch_overbought")
	}

	// Entry thresholds
	p.percentRange(cfg.MinScoreToTrade, "min_score_to_trade")
	p.percentRange(cfg.ScoreThresholdLong, "score_threshold_long")
	p.percentRange(cfg.ScoreThresholdShort, "score_threshold_short")
	p.percentRange(cfg.MinTimingScore, "min_timing_score")
	p.nonNegativeDec(cfg.TimingWeight, "timing_weight")

	// Optimization
	if p.have("optimization_interval_hours") && cfg.OptimizationIntervalHours <= 0 {
		p.violation("optimization_interval_hours must be > 0", "optimization_interval_hours")
	}
	if p.have("optimization_min_trades") && cfg.OptimizationMinTrades < 1 {
		p.violation("optimization_min_trades must be >= 1", "optimization_min_trades")
	}
	p.percentRange(cfg.WinRateThresholdLow, "win_rate_threshold_low")
	p.percentRange(cfg.WinRateThresholdHigh, "win_rate_threshold_high")
	if p.have("win_rate_threshold_low", "win_rate_threshold_high") &&
		!cfg.WinRateThresholdLow.LessThan(cfg.WinRateThresholdHigh) {
		p.violation("win_rate_threshold_low must be < win_rate_threshold_high",
			"win_rate_threshold_low", "win_rate_threshold_high")
	}

	// Adaptation
	p.positiveDec(cfg.VolatilityMultiplier, "volatility_multiplier")
	p.positiveDec(cfg.TrendStrengthFactor, "trend_strength_factor")
	p.nonNegativeDec(cfg.BearishBTCAffect, "bearish_btc_affect")
	p.nonNegativeDec(cfg.MarketConditionWeight, "market_condition_weight")

	// Schedule
	p.hourRange(cfg.TradingHoursStart, "trading_hours_start")
	p.hourRange(cfg.TradingHoursEnd, "trading_hours_end")
	if p.have("trading_hours_only", "trading_hours_start", "trading_hours_end") &&
		cfg.TradingHoursOnly && cfg.TradingHoursStart >= cfg.TradingHoursEnd {
		p.violation("trading_hours_start must be < trading_hours_end when trading_hours_only is enabled",
			"trading_hours_start", "trading_hours_end", "trading_hours_only")
	}

	// Funding
	p.nonNegativeDec(cfg.FundingRateThreshold, "funding_rate_threshold")

	// Daily thresholds
	p.positiveDec(cfg.ProfitThresholdDaily, "profit_threshold_daily")
	p.positiveDec(cfg.LossThresholdDaily, "loss_threshold_daily")

	// Position sizing
	if p.have("position_size_type", "fixed_position_size") &&
		cfg.PositionSizeType == PositionSizeFixed && !cfg.FixedPositionSize.IsPositive() {
		p.violation("fixed_position_size must be > 0 when position_size_type is FIXED",
			"fixed_position_size", "position_size_type")
	}

	// Backtesting
	if p.have("backtesting_mode", "backtest_from", "backtest_to") &&
		cfg.BacktestingMode && (cfg.BacktestFrom == "" || cfg.BacktestTo == "") {
		p.violation("backtest_from and backtest_to are required when backtesting_mode is enabled",
			"backtesting_mode", "backtest_from", "backtest_to")
	}
	if p.have("backtest_from", "backtest_to") &&
		cfg.BacktestFrom != "" && cfg.BacktestTo != "" && cfg.BacktestFrom >= cfg.BacktestTo {
		p.violation("backtest_from must be before backtest_to", "backtest_from", "backtest_to")
	}

	// Operational
	if p.have("check_interval") && cfg.CheckInterval <= 0 {
		p.violation("check_interval must be > 0", "check_interval")
	}
	if p.have("health_check_interval") && cfg.HealthCheckInterval <= 0 {
		p.violation("health_check_interval must be > 0", "health_check_interval")
	}
}

func (p *parser) checkTakeProfitLadder(cfg *StrategyConfig) {
	targets, quantities := cfg.TakeProfitTargets, cfg.TakeProfitQuantities
	if len(targets) != len(quantities) {
		p.violation("take_profit_targets and take_profit_quantities must have the same length",
			"take_profit_targets", "take_profit_quantities")
	}
	if len(targets) == 0 {
		p.violation("take_profit_targets must not be empty", "take_profit_targets")
		return
	}
	for i, t := range targets {
		if !t.IsPositive() {
			p.violation("take_profit_targets must all be > 0", "take_profit_targets")
			break
		}
		if i > 0 && !targets[i-1].LessThan(t) {
			p.violation("take_profit_targets must be strictly increasing", "take_profit_targets")
			break
		}
	}
	sum := decZero
	for _, q := range quantities {
		if !q.IsPositive() {
			p.violation("take_profit_quantities must all be > 0", "take_profit_quantities")
			return
		}
		sum = sum.Add(q)
	}
	if sum.GreaterThan(decHundred) {
		p.violation("take_profit_quantities must sum to at most 100 (got "+sum.String()+")",
			"take_profit_quantities")
	}
}

func (p *parser) percentRange(d decimal.Decimal, key string) {
	if p.have(key) && (d.IsNegative() || d.GreaterThan(decHundred)) {
		p.violation(key+" must be within [0, 100]", key)
	}
}

func (p *parser) positiveDec(d decimal.Decimal, key string) {
	if p.have(key) && !d.IsPositive() {
		p.violation(key+" must be > 0", key)
	}
}

func (p *parser) nonNegativeDec(d decimal.Decimal, key string) {
	if p.have(key) && d.IsNegative() {
		p.violation(key+" must be >= 0", key)
	}
}

func (p *parser) positiveInt(n int, key string) {
	if p.have(key) && n < 1 {
		p.violation(key+" must be >= 1", key)
	}
}

func (p *parser) hourRange(h int, key string) {
	if p.have(key) && (h < 0 || h > 23) {
		p.violation(key+" must be an hour in [0, 23]", key)
	}
}

// Coercion helpers. Documents arrive from YAML (typed scalars), JSON
// (float64 numbers) and form submissions (strings), so each coercion
// accepts every reasonable source representation.

func coerceInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
		return 0, false
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func coerceDecimal(v interface{}) (decimal.Decimal, bool) {
	var d decimal.Decimal
	switch n := v.(type) {
	case int:
		d = decimal.NewFromInt(int64(n))
	case int64:
		d = decimal.NewFromInt(n)
	case uint64:
		d = decimal.NewFromInt(int64(n))
	case float64:
		d = decimal.NewFromFloat(n)
	case json.Number:
		parsed, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Decimal{}, false
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, false
		}
		d = parsed
	default:
		return decimal.Decimal{}, false
	}
	return canonicalDecimal(d), true
}

// canonicalDecimal normalizes scale ("1.0" and "1" become the same value)
// so equal configs compare equal field-by-field regardless of how the
// source document spelled its numbers.
func canonicalDecimal(d decimal.Decimal) decimal.Decimal {
	canon, err := decimal.NewFromString(d.String())
	if err != nil {
		return d
	}
	return canon
}

func coerceBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}

// coerceStringList accepts a native list or the engine's legacy
// comma-separated form. An empty string means an empty list.
func coerceStringList(v interface{}) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, true
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		trimmed := strings.TrimSpace(list)
		if trimmed == "" {
			return []string{}, true
		}
		parts := strings.Split(trimmed, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func coerceDecimalList(v interface{}) ([]decimal.Decimal, bool) {
	switch list := v.(type) {
	case []interface{}:
		out := make([]decimal.Decimal, 0, len(list))
		for _, item := range list {
			d, ok := coerceDecimal(item)
			if !ok {
				return nil, false
			}
			out = append(out, d)
		}
		return out, true
	case []string:
		out := make([]decimal.Decimal, 0, len(list))
		for _, item := range list {
			d, ok := coerceDecimal(item)
			if !ok {
				return nil, false
			}
			out = append(out, d)
		}
		return out, true
	case []float64:
		out := make([]decimal.Decimal, 0, len(list))
		for _, item := range list {
			out = append(out, canonicalDecimal(decimal.NewFromFloat(item)))
		}
		return out, true
	case string:
		parts, ok := coerceStringList(list)
		if !ok {
			return nil, false
		}
		out := make([]decimal.Decimal, 0, len(parts))
		for _, part := range parts {
			d, ok := coerceDecimal(part)
			if !ok {
				return nil, false
			}
			out = append(out, d)
		}
		return out, true
	default:
		return nil, false
	}
}
