package models

import (
	"encoding/json"
	"strings"

	"gorm.io/gorm"
)

// Payee is the counterparty of a transaction.
type Payee struct {
	DefaultModel
	Name     string `gorm:"uniqueIndex:payee_name"`
	Note     string
	Archived bool
}

func (p *Payee) BeforeSave(_ *gorm.DB) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Note = strings.TrimSpace(p.Note)

	return nil
}

// Returns all payees on this instance for export
func (Payee) Export() (json.RawMessage, error) {
	var payees []Payee
	err := DB.Unscoped().Where(&Payee{}).Find(&payees).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&payees)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
