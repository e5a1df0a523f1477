package models

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"gorm.io/gorm"
)

// MatchRule assigns a category to new commitments whose name matches a glob
// pattern. Rules are applied in priority order, the first match wins.
type MatchRule struct {
	DefaultModel
	Priority   uint
	Match      string
	CategoryID uuid.UUID
	Category   Category `json:"-"`
}

func (r *MatchRule) BeforeSave(_ *gorm.DB) error {
	r.Match = strings.TrimSpace(r.Match)

	return nil
}

// BeforeCreate verifies that the category exists.
func (r *MatchRule) BeforeCreate(tx *gorm.DB) error {
	_ = r.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*MatchRule)
	return tx.First(&Category{}, toSave.CategoryID).Error
}

// matchCategory returns the category the highest-priority matching rule
// assigns to a transaction name, or nil when no rule matches.
func matchCategory(tx *gorm.DB, name string) (*uuid.UUID, error) {
	var rules []MatchRule
	err := tx.Order("priority ASC, match ASC").Find(&rules).Error
	if err != nil {
		return nil, err
	}

	for _, rule := range rules {
		if glob.Glob(rule.Match, name) {
			id := rule.CategoryID
			return &id, nil
		}
	}

	return nil, nil
}

// Returns all match rules on this instance for export
func (MatchRule) Export() (json.RawMessage, error) {
	var matchRules []MatchRule
	err := DB.Unscoped().Where(&MatchRule{}).Find(&matchRules).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&matchRules)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
