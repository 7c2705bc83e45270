package models

import (
	"encoding/json"
	"time"
)

// StrategyRevision is one accepted version of the strategy configuration.
// Document holds the full flattened config at that version, Changes the
// ordered field-level diff against the previous version.
type StrategyRevision struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	Version   uint            `gorm:"not null;uniqueIndex" json:"version"`
	Document  json.RawMessage `gorm:"type:jsonb;not null" json:"document"`
	Changes   json.RawMessage `gorm:"type:jsonb" json:"changes"`
	Source    string          `gorm:"size:20;not null;default:operator" json:"source"`
	Comment   string          `gorm:"size:255" json:"comment"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

func (StrategyRevision) TableName() string {
	return "strategy_revisions"
}

// Revision sources.
const (
	RevisionSourceOperator  = "operator"
	RevisionSourceOptimizer = "optimizer"
	RevisionSourceRollback  = "rollback"
)
