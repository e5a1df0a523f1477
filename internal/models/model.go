// Package models implements the ledger resources and the series, anticipation
// and invoice engines that operate on them.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultModel is the base model for all resources.
type DefaultModel struct {
	ID uuid.UUID `json:"id" example:"65392deb-5e92-4268-b114-297faad6cdce"` // UUID for the resource
	Timestamps
}

// Timestamps contains the timestamps that gorm sets automatically.
type Timestamps struct {
	CreatedAt time.Time       `json:"createdAt" example:"2022-04-02T19:28:44.491514Z"` // Time the resource was created
	UpdatedAt time.Time       `json:"updatedAt" example:"2022-04-17T20:14:01.048145Z"` // Last time the resource was updated
	DeletedAt *gorm.DeletedAt `json:"deletedAt" gorm:"index" example:"2022-04-22T21:01:05.058161Z" swaggertype:"primitive,string"` // Time the resource was marked as deleted
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
//
// We already store them in UTC, but somehow reading
// them from the database returns them as +0000.
func (m *DefaultModel) AfterFind(_ *gorm.DB) (err error) {
	m.CreatedAt = m.CreatedAt.In(time.UTC)
	m.UpdatedAt = m.UpdatedAt.In(time.UTC)

	if m.DeletedAt != nil {
		m.DeletedAt.Time = m.DeletedAt.Time.In(time.UTC)
	}

	return nil
}

// BeforeCreate generates the UUID for the resource.
func (m *DefaultModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
