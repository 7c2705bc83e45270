package strategy

import (
	"github.com/shopspring/decimal"
)

// ConfigVersion is the document schema version this package understands.
// Documents may carry a config_version key; any other value is rejected
// with UnknownConfigVersionError.
const ConfigVersion = 1

// Document is the flat key/value form a configuration travels in: YAML
// files, dashboard form submissions and optimizer proposals all reduce to
// this shape before parsing.
type Document map[string]interface{}

// TradingType restricts which position directions the engine may open.
type TradingType string

const (
	TradingLong  TradingType = "LONG"
	TradingShort TradingType = "SHORT"
	TradingBoth  TradingType = "BOTH"
)

// MarginType selects the futures margin mode.
type MarginType string

const (
	MarginIsolated MarginType = "ISOLATED"
	MarginCross    MarginType = "CROSS"
)

// WeekendMode controls weekend trading behaviour.
type WeekendMode string

const (
	WeekendNormal  WeekendMode = "NORMAL"
	WeekendReduced WeekendMode = "REDUCED"
	WeekendOff     WeekendMode = "OFF"
)

// PositionSizeType selects fixed or risk-driven position sizing.
type PositionSizeType string

const (
	PositionSizeFixed   PositionSizeType = "FIXED"
	PositionSizeDynamic PositionSizeType = "DYNAMIC"
)

// LogLevel is the engine-side logging verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "DEBUG"
	LogInfo  LogLevel = "INFO"
	LogWarn  LogLevel = "WARN"
	LogError LogLevel = "ERROR"
)

// Timeframe is a candle interval string as the exchange API spells it.
type Timeframe string

// StrategyConfig is the validated aggregate of every tunable trading
// parameter. It is built in full by Parse, never mutated afterwards, and
// replaced wholesale through Merge. Treat all fields, including slices,
// as read-only; Document() hands out copies.
type StrategyConfig struct {
	// Position limits
	MaxOpenPositions int
	MaxDailyTrades   int

	// Trading mode
	TradingType TradingType

	// Market filter
	QuoteAsset       string
	BlacklistSymbols []string
	WhitelistSymbols []string
	MinVolumeUSDT    decimal.Decimal

	// Risk (percent of account)
	AccountRiskPerTrade decimal.Decimal
	MaxAccountRisk      decimal.Decimal
	MaxDrawdown         decimal.Decimal

	// Leverage
	DefaultLeverage int
	MaxLeverage     int
	AutoLeverage    bool
	MarginType      MarginType

	// Adaptive risk / protection mode
	AdaptivePositionSizing      bool
	ProtectionModeEnabled       bool
	ProtectionModeDuration      int // minutes
	VolatilityThreshold         decimal.Decimal
	RapidDrawdownThreshold      decimal.Decimal
	PositionChangeRateThreshold decimal.Decimal

	// Stop loss / take profit
	StaticSLPercent      decimal.Decimal
	TrailingSL           bool
	TrailingSLDistance   decimal.Decimal
	TrailingSLInterval   decimal.Decimal
	TakeProfitTargets    []decimal.Decimal
	TakeProfitQuantities []decimal.Decimal

	// Partial close
	PartialCloseEnabled    bool
	PartialCloseThreshold  decimal.Decimal
	PartialClosePercentage decimal.Decimal

	// Timeframes
	PrimaryTimeframe    Timeframe
	SecondaryTimeframes []Timeframe

	// Indicator weights (relative, need not sum to 1)
	RSIWeight      decimal.Decimal
	MACDWeight     decimal.Decimal
	BBWeight       decimal.Decimal
	EMAWeight      decimal.Decimal
	StochWeight    decimal.Decimal
	ADXWeight      decimal.Decimal
	ATRWeight      decimal.Decimal
	OBVWeight      decimal.Decimal
	VPTWeight      decimal.Decimal
	IchimokuWeight decimal.Decimal

	// Indicator parameters
	RSILength       int
	RSIOverbought   decimal.Decimal
	RSIOversold     decimal.Decimal
	MACDFast        int
	MACDSlow        int
	MACDSignal      int
	BBLength        int
	BBStdDev        decimal.Decimal
	EMAShort        int
	EMAMedium       int
	EMALong         int
	StochK          int
	StochD          int
	StochOverbought decimal.Decimal
	StochOversold   decimal.Decimal
	ADXLength       int
	ADXThreshold    decimal.Decimal
	ATRLength       int
	ATRMultiplier   decimal.Decimal
	IchimokuFast    int
	IchimokuMed     int
	IchimokuSlow    int

	// Entry thresholds
	MinScoreToTrade     decimal.Decimal
	ScoreThresholdLong  decimal.Decimal
	ScoreThresholdShort decimal.Decimal
	MinTimingScore      decimal.Decimal
	TimingWeight        decimal.Decimal
	TimingCheckEnabled  bool

	// Optimization
	StrategyOptimizationEnabled bool
	OptimizationIntervalHours   int
	OptimizationMinTrades       int
	WinRateThresholdLow         decimal.Decimal
	WinRateThresholdHigh        decimal.Decimal

	// Adaptation
	AdaptiveParams        bool
	VolatilityMultiplier  decimal.Decimal
	TrendStrengthFactor   decimal.Decimal
	BearishBTCAffect      decimal.Decimal
	MarketConditionWeight decimal.Decimal

	// Schedule
	TradingHoursOnly  bool
	TradingHoursStart int // hour, UTC
	TradingHoursEnd   int
	WeekendMode       WeekendMode

	// Funding
	AvoidHighFunding     bool
	FundingRateThreshold decimal.Decimal

	// Daily thresholds (percent)
	ProfitThresholdDaily decimal.Decimal
	LossThresholdDaily   decimal.Decimal

	// Position sizing
	PositionSizeType  PositionSizeType
	FixedPositionSize decimal.Decimal // USDT, used only when FIXED

	// Backtesting
	BacktestingMode bool
	BacktestFrom    string // YYYY-MM-DD, empty when unset
	BacktestTo      string

	// Operational
	DebugMode           bool
	SaveTradesToDB      bool
	LogLevel            LogLevel
	CheckInterval       int // seconds
	HealthCheckInterval int // seconds
}
