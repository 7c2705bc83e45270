package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"botcontrol/internal/models"
	"botcontrol/internal/strategy"
	"botcontrol/internal/telemetry"
	dbconfig "botcontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ConfigUpdatesQueue receives one message per accepted configuration
// revision, consumed by the trading engine and the optimizer.
const ConfigUpdatesQueue = "strategy_config_updates"

var errNoActiveConfig = errors.New("no active strategy config")

var (
	// Hub, when set, receives a broadcast per accepted revision.
	Hub *telemetry.Hub

	// Publisher, when set, forwards accepted revisions to RabbitMQ.
	Publisher *dbconfig.Publisher

	// updateMu serializes revision-number allocation and the swap of the
	// active config. Reads never take it.
	updateMu sync.Mutex
)

// ConfigChangeEvent is the payload published and broadcast after an
// accepted configuration update.
type ConfigChangeEvent struct {
	Version   uint                   `json:"version"`
	Source    string                 `json:"source"`
	Changes   []strategy.FieldChange `json:"changes"`
	Derived   strategy.DerivedValues `json:"derived"`
	Timestamp int64                  `json:"timestamp"`
}

// GetActiveStrategyConfig returns the currently active configuration
// document together with its derived values.
func GetActiveStrategyConfig(c *gin.Context) {
	cfg := strategy.Active()
	if cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active strategy config"})
		return
	}

	c.JSON(http.StatusOK, ActiveConfigResp{
		Version:  latestRevisionVersion(),
		Document: cfg.Document(),
		Derived:  strategy.Derive(cfg),
	})
}

// GetDerivedValues returns only the derived values of the active config.
func GetDerivedValues(c *gin.Context) {
	cfg := strategy.Active()
	if cfg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active strategy config"})
		return
	}
	c.JSON(http.StatusOK, strategy.Derive(cfg))
}

// GetDefaultStrategyConfig returns the built-in default document.
func GetDefaultStrategyConfig(c *gin.Context) {
	c.JSON(http.StatusOK, strategy.DefaultDocument())
}

// ValidateStrategyConfig dry-runs a submitted document without changing
// any state. Like the real update, the document is merged onto the active
// config first, so a partial edit is judged against the values it would
// actually run with. All problems are reported in one response. Before
// bootstrap the document is validated standalone.
func ValidateStrategyConfig(c *gin.Context) {
	var doc strategy.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var unknown []string
	var err error
	if active := strategy.Active(); active != nil {
		_, _, unknown, err = strategy.Merge(active, doc)
	} else {
		_, unknown, err = strategy.Parse(doc)
	}
	if err != nil {
		ve, ok := strategy.AsValidationErrors(err)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, ValidationResp{
			Valid:       false,
			Issues:      BuildValidationIssues(ve),
			UnknownKeys: unknown,
		})
		return
	}

	c.JSON(http.StatusOK, ValidationResp{Valid: true, UnknownKeys: unknown})
}

// UpdateStrategyConfig applies a partial document on top of the active
// config. Omitted fields keep their active values; the merged result is
// fully revalidated before anything is swapped or persisted.
func UpdateStrategyConfig(c *gin.Context) {
	var doc strategy.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	applyUpdate(c, doc, models.RevisionSourceOperator, c.Query("comment"))
}

// applyUpdate merges, validates, persists and activates a candidate
// document. On rejection the active config is left untouched.
func applyUpdate(c *gin.Context, doc strategy.Document, source, comment string) {
	updateMu.Lock()
	defer updateMu.Unlock()

	active := strategy.Active()
	if active == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "No active strategy config to update"})
		return
	}

	merged, changes, unknown, err := strategy.Merge(active, doc)
	if err != nil {
		ve, ok := strategy.AsValidationErrors(err)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, ValidationResp{
			Valid:       false,
			Issues:      BuildValidationIssues(ve),
			UnknownKeys: unknown,
		})
		return
	}

	if len(changes) == 0 {
		c.JSON(http.StatusOK, UpdateResp{
			Version:     latestRevisionVersion(),
			Source:      source,
			Changes:     []strategy.FieldChange{},
			UnknownKeys: unknown,
			Derived:     strategy.Derive(merged),
		})
		return
	}

	revision, err := persistRevision(merged, changes, source, comment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	strategy.Activate(merged)
	notifyConfigChange(revision, changes, merged)

	c.JSON(http.StatusOK, UpdateResp{
		Version:     revision.Version,
		Source:      source,
		Changes:     changes,
		UnknownKeys: unknown,
		Derived:     strategy.Derive(merged),
	})
}

// ListStrategyRevisions returns revision metadata, newest first.
func ListStrategyRevisions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit format"})
			return
		}
		limit = parsed
	}

	var revisions []models.StrategyRevision
	if err := dbconfig.DB.Order("version desc").Limit(limit).Find(&revisions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, revisions)
}

// GetStrategyRevision returns a single revision including its document.
func GetStrategyRevision(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var revision models.StrategyRevision
	if err := dbconfig.DB.First(&revision, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, revision)
}

// RollbackStrategyConfig re-applies the document of an earlier revision
// as a new revision. The old document is revalidated against the current
// schema before activation.
func RollbackStrategyConfig(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var revision models.StrategyRevision
	if err := dbconfig.DB.First(&revision, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	var doc strategy.Document
	if err := json.Unmarshal(revision.Document, &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	applyUpdate(c, doc, models.RevisionSourceRollback, "rollback to revision "+strconv.Itoa(id))
}

// ApplyProposal is the worker entry point for optimizer proposals. It
// runs the same merge path as the HTTP update but reports over logs
// instead of a response writer.
func ApplyProposal(doc strategy.Document, comment string) error {
	updateMu.Lock()
	defer updateMu.Unlock()

	active := strategy.Active()
	if active == nil {
		return errNoActiveConfig
	}

	merged, changes, unknown, err := strategy.Merge(active, doc)
	if err != nil {
		return err
	}
	if len(unknown) > 0 {
		logrus.Warnf("Optimizer proposal carries unknown keys: %v", unknown)
	}
	if len(changes) == 0 {
		logrus.Info("Optimizer proposal is a no-op, skipping")
		return nil
	}

	revision, err := persistRevision(merged, changes, models.RevisionSourceOptimizer, comment)
	if err != nil {
		return err
	}

	strategy.Activate(merged)
	notifyConfigChange(revision, changes, merged)
	logrus.Infof("Applied optimizer proposal as revision %d (%d changes)", revision.Version, len(changes))
	return nil
}

// persistRevision stores the merged document and its change list as the
// next revision. Callers must hold updateMu.
func persistRevision(cfg *strategy.StrategyConfig, changes []strategy.FieldChange, source, comment string) (*models.StrategyRevision, error) {
	docJSON, err := json.Marshal(cfg.Document())
	if err != nil {
		return nil, err
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return nil, err
	}

	revision := models.StrategyRevision{
		Version:  latestRevisionVersion() + 1,
		Document: docJSON,
		Changes:  changesJSON,
		Source:   source,
		Comment:  comment,
	}
	if err := dbconfig.DB.Create(&revision).Error; err != nil {
		return nil, err
	}
	return &revision, nil
}

func latestRevisionVersion() uint {
	if dbconfig.DB == nil {
		return 0
	}
	var revision models.StrategyRevision
	if err := dbconfig.DB.Order("version desc").First(&revision).Error; err != nil {
		return 0
	}
	return revision.Version
}

// notifyConfigChange fans the accepted revision out to RabbitMQ and the
// websocket hub. Delivery failures are logged, never surfaced: the swap
// already happened.
func notifyConfigChange(revision *models.StrategyRevision, changes []strategy.FieldChange, cfg *strategy.StrategyConfig) {
	event := ConfigChangeEvent{
		Version:   revision.Version,
		Source:    revision.Source,
		Changes:   changes,
		Derived:   strategy.Derive(cfg),
		Timestamp: time.Now().UnixMilli(),
	}

	if Publisher != nil {
		if err := Publisher.Publish(ConfigUpdatesQueue, event); err != nil {
			logrus.Errorf("Failed to publish config change event: %v", err)
		}
	}

	if Hub != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			logrus.Errorf("Failed to marshal config change event: %v", err)
			return
		}
		Hub.Broadcast(payload)
	}
}

// WatchStrategyConfig upgrades the request to a websocket subscription
// for configuration change events.
func WatchStrategyConfig(c *gin.Context) {
	if Hub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Change stream not available"})
		return
	}
	Hub.ServeWS(c.Writer, c.Request)
}
