package main

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"botcontrol/internal/models"
	"botcontrol/internal/strategy"
	dbconfig "botcontrol/pkg/config"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"
)

const defaultRetentionKeep = 500

// pruneRevisions keeps the newest N revisions and deletes the rest.
func pruneRevisions(keep int) error {
	var cutoff models.StrategyRevision
	err := dbconfig.DB.Order("version desc").Offset(keep).First(&cutoff).Error
	if err != nil {
		// Fewer than keep revisions exist, nothing to prune.
		return nil
	}

	result := dbconfig.DB.Where("version <= ?", cutoff.Version).Delete(&models.StrategyRevision{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Infof("Pruned %d old strategy revisions (kept %d)", result.RowsAffected, keep)
	}
	return nil
}

// loadActiveFromLatestRevision refreshes the in-process active config
// from the newest persisted revision.
func loadActiveFromLatestRevision() (uint, error) {
	var revision models.StrategyRevision
	if err := dbconfig.DB.Order("version desc").First(&revision).Error; err != nil {
		return 0, err
	}

	var doc strategy.Document
	if err := json.Unmarshal(revision.Document, &doc); err != nil {
		return 0, err
	}

	cfg, _, err := strategy.Parse(doc)
	if err != nil {
		return 0, err
	}

	strategy.Activate(cfg)
	return revision.Version, nil
}

// healthSnapshot logs the state of the active config and its derived
// values, at the cadence the config itself requests.
func healthSnapshot() {
	version, err := loadActiveFromLatestRevision()
	if err != nil {
		logger.Warnf("No persisted revision available for health snapshot: %v", err)
		return
	}

	cfg := strategy.Active()
	derived := strategy.Derive(cfg)

	logger.WithFields(logger.Fields{
		"version":              version,
		"trading_type":         cfg.TradingType,
		"effective_risk":       derived.EffectiveRiskBudget.String(),
		"effective_leverage":   derived.EffectiveLeverage,
		"take_profit_residual": derived.TakeProfitResidual.String(),
	}).Info("Strategy config health snapshot")
}

func main() {
	os.MkdirAll("logs", 0755)
	file, err := os.OpenFile("logs/maintenance.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		logger.SetOutput(file)
	} else {
		logger.Warn("Cannot open log file, logging to stdout")
	}

	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetLevel(logger.InfoLevel)

	dbconfig.InitDB()
	logger.Info("Database connection initialized")

	keep := defaultRetentionKeep
	if raw := os.Getenv("REVISION_RETENTION_KEEP"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			keep = parsed
		}
	}

	c := cron.New(cron.WithSeconds())

	// Prune old revisions hourly
	_, err = c.AddFunc("0 0 * * * *", func() {
		if err := pruneRevisions(keep); err != nil {
			logger.Errorf("Failed to prune strategy revisions: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("Failed to register prune job: %v", err)
	}

	c.Start()
	logger.Infof("Maintenance scheduler started, keeping %d revisions", keep)

	// The snapshot cadence comes from the config itself, so it is read
	// again after every cycle instead of being fixed in a cron spec.
	for {
		healthSnapshot()

		interval := 3600
		if cfg := strategy.Active(); cfg != nil {
			interval = cfg.HealthCheckInterval
		}
		time.Sleep(time.Duration(interval) * time.Second)
	}
}
