package models

import (
	"time"
)

// ResultType classifies the kind of site on the submitted image.
type ResultType string

const (
	ResultTypeTerreno     ResultType = "terreno"
	ResultTypePropriedade ResultType = "propriedade"
)

// Valid reports whether the value is one of the enumerated result types.
func (t ResultType) Valid() bool {
	switch t {
	case ResultTypeTerreno, ResultTypePropriedade:
		return true
	}
	return false
}

// ResultStatus is the lifecycle state of a detection result.
type ResultStatus string

const (
	StatusProcessing ResultStatus = "processing"
	StatusFinished   ResultStatus = "finished"
	StatusFailed     ResultStatus = "failed"
	StatusVisualized ResultStatus = "visualized"
)

// Valid reports whether the value is one of the enumerated result statuses.
func (s ResultStatus) Valid() bool {
	switch s {
	case StatusProcessing, StatusFinished, StatusFailed, StatusVisualized:
		return true
	}
	return false
}

// Result represents one image-classification job record.
// CampaignID and UserID are nullable on purpose: either parent may be removed
// after creation (SET NULL), the result row itself survives.
type Result struct {
	ID              uint  `gorm:"primaryKey;autoIncrement"`
	CampaignID      *uint `gorm:"index"`
	UserID          *uint `gorm:"index:idx_result_user"`
	OriginalImage   string
	ResultImage     *string
	Type            ResultType   `gorm:"size:32;not null"`
	Status          ResultStatus `gorm:"size:32;not null"`
	CreatedAt       time.Time
	ProcessedAt     *time.Time
	ObjectCount     *int
	FeedbackLike    bool `gorm:"not null;default:false"`
	FeedbackComment *string
	Lat             *string `gorm:"size:50"`
	Lng             *string `gorm:"size:50"`
}

// TableName overrides the table name for Result
func (Result) TableName() string {
	return "result"
}
