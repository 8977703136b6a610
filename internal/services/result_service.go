// result_service.go
//
// Integration backend for the mosquito breeding-site detection program
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of breedwatch.
// breedwatch is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// breedwatch is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with breedwatch.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"fmt"
	"time"

	"github.com/localnerve/breedwatch/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Uploader stores raw image bytes and returns a stable URL.
type Uploader interface {
	Upload(data []byte, extension string) (string, error)
}

// ResultFeedbackInput is the optional feedback block on result creation.
type ResultFeedbackInput struct {
	Like    *bool   `json:"like"`
	Comment *string `json:"comment"`
}

// ResultCreateInput is the input for direct result creation.
type ResultCreateInput struct {
	CampaignID    *uint
	UserID        *uint
	OriginalImage string
	ResultImage   *string
	Type          models.ResultType
	Status        models.ResultStatus
	Feedback      *ResultFeedbackInput
	Lat           *string
	Lng           *string
}

// ResultUploadInput is the input for creation via image upload.
type ResultUploadInput struct {
	Data       []byte
	Extension  string
	UserID     uint
	CampaignID *uint
	Type       models.ResultType
	Lat        *string
	Lng        *string
}

// CreateResult inserts a new result in the given status. The status is not
// forced here: direct creation is used by operators and backfills.
func CreateResult(db *gorm.DB, in ResultCreateInput) (*models.Result, error) {
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}
	if !in.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if in.CampaignID != nil {
		var count int64
		if err := db.Model(&models.Campaign{}).Where("id = ?", *in.CampaignID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrCampaignNotFound
		}
	}

	if in.UserID != nil {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", *in.UserID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrUserNotFound
		}
	}

	feedbackLike := false
	var feedbackComment *string
	if in.Feedback != nil {
		if in.Feedback.Like != nil {
			feedbackLike = *in.Feedback.Like
		}
		feedbackComment = in.Feedback.Comment
	}

	result := models.Result{
		CampaignID:      in.CampaignID,
		UserID:          in.UserID,
		OriginalImage:   in.OriginalImage,
		ResultImage:     in.ResultImage,
		Type:            in.Type,
		Status:          in.Status,
		CreatedAt:       time.Now().UTC(),
		FeedbackLike:    feedbackLike,
		FeedbackComment: feedbackComment,
		Lat:             in.Lat,
		Lng:             in.Lng,
	}

	if err := db.Create(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateResultFromUpload uploads the raw bytes first, then inserts a result
// in processing status pointing at the returned URL. The two steps are not
// transactional: a failed insert after a successful upload leaves the blob
// orphaned.
func CreateResultFromUpload(db *gorm.DB, store Uploader, in ResultUploadInput) (*models.Result, error) {
	resultType := in.Type
	if resultType == "" {
		resultType = models.ResultTypeTerreno
	}
	if !resultType.Valid() {
		return nil, ErrInvalidType
	}

	var user models.User
	if err := db.Preload("Address").First(&user, in.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if in.CampaignID != nil {
		var count int64
		if err := db.Model(&models.Campaign{}).Where("id = ?", *in.CampaignID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrCampaignNotFound
		}
	}

	lat, lng := in.Lat, in.Lng
	if lat == nil && lng == nil && user.Address != nil {
		lat, lng = &user.Address.Lat, &user.Address.Lng
	}

	url, err := store.Upload(in.Data, in.Extension)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	userID := in.UserID
	result := models.Result{
		CampaignID:    in.CampaignID,
		UserID:        &userID,
		OriginalImage: url,
		Type:          resultType,
		Status:        models.StatusProcessing,
		CreatedAt:     time.Now().UTC(),
		Lat:           lat,
		Lng:           lng,
	}

	if err := db.Create(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

// GetResultByID retrieves a result by id
func GetResultByID(db *gorm.DB, id uint) (*models.Result, error) {
	var result models.Result
	if err := db.First(&result, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetResultsByUser retrieves all results owned by a user. An empty slice is a
// valid outcome here; the boundary decides how to report it.
func GetResultsByUser(db *gorm.DB, userID uint) ([]models.Result, error) {
	var results []models.Result
	tx := db
	if db.Dialector.Name() == "mysql" {
		tx = tx.Clauses(hints.UseIndex("idx_result_user"))
	}
	if err := tx.Where("user_id = ?", userID).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetAllResults retrieves every result
func GetAllResults(db *gorm.DB) ([]models.Result, error) {
	var results []models.Result
	if err := db.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// UpdateResultStatus sets the status without touching images or counts. Any
// enumerated status may be set from any current status; this is the loose
// transition used for marking results visualized.
func UpdateResultStatus(db *gorm.DB, id uint, status models.ResultStatus) (*models.Result, error) {
	result, err := GetResultByID(db, id)
	if err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	result.Status = status
	if err := db.Save(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateResultImage records the detection outcome: the processed image plus a
// terminal status. Only finished and failed are accepted here, and finished
// demands an object count. ProcessedAt is stamped on finished only.
func UpdateResultImage(db *gorm.DB, id uint, resultImage string, status models.ResultStatus, objectCount *int) (*models.Result, error) {
	result, err := GetResultByID(db, id)
	if err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if status != models.StatusFinished && status != models.StatusFailed {
		return nil, ErrInvalidStatusForImageUpdate
	}
	if status == models.StatusFinished && objectCount == nil {
		return nil, ErrObjectCountRequired
	}

	result.ResultImage = &resultImage
	result.Status = status
	if status == models.StatusFinished {
		result.ObjectCount = objectCount
		now := time.Now().UTC()
		result.ProcessedAt = &now
	}

	if err := db.Save(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateResultFeedback applies user feedback. Orthogonal to status; valid in
// any state.
func UpdateResultFeedback(db *gorm.DB, id uint, like bool, comment *string) (*models.Result, error) {
	result, err := GetResultByID(db, id)
	if err != nil {
		return nil, err
	}

	result.FeedbackLike = like
	result.FeedbackComment = comment
	if err := db.Save(result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteResult hard-deletes a result
func DeleteResult(db *gorm.DB, id uint) error {
	result, err := GetResultByID(db, id)
	if err != nil {
		return err
	}
	return db.Delete(result).Error
}
