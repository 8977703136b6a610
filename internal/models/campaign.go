package models

import (
	"time"
)

// Campaign represents a city-scoped collection drive that aggregates results.
// CampaignInfos and InstructionInfos are free-form JSON blobs shaped by the
// mobile app; the backend stores them opaquely.
type Campaign struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	Title            string `gorm:"not null"`
	Description      string `gorm:"not null"`
	CampaignInfos    *JSON  `gorm:"type:json"`
	InstructionInfos *JSON  `gorm:"type:json"`
	CreatedAt        time.Time
	FinishAt         *time.Time
	City             string   `gorm:"size:100;not null;index"`
	Results          []Result `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName overrides the table name for Campaign
func (Campaign) TableName() string {
	return "campaign"
}
