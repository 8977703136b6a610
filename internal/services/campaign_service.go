// campaign_service.go
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
	"time"

	"github.com/localnerve/breedwatch/internal/models"
	"gorm.io/gorm"
)

// CampaignCreateInput is the input for campaign creation.
type CampaignCreateInput struct {
	Title            string
	Description      string
	City             string
	CampaignInfos    *models.JSON
	InstructionInfos *models.JSON
	CreatedAt        *time.Time
	FinishAt         *time.Time
}

// CampaignUpdateInput is a partial update; only non-nil fields overwrite.
type CampaignUpdateInput struct {
	Title            *string
	Description      *string
	City             *string
	CampaignInfos    *models.JSON
	InstructionInfos *models.JSON
	CreatedAt        *time.Time
	FinishAt         *time.Time
}

// CampaignSummary is the per-campaign home view with the count of the user's
// results not yet seen.
type CampaignSummary struct {
	ID                  uint   `json:"id"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	ResultsNotDisplayed int    `json:"resultsNotDisplayed"`
}

// CreateCampaign inserts a new campaign
func CreateCampaign(db *gorm.DB, in CampaignCreateInput) (*models.Campaign, error) {
	createdAt := time.Now().UTC()
	if in.CreatedAt != nil {
		createdAt = *in.CreatedAt
	}

	campaign := models.Campaign{
		Title:            in.Title,
		Description:      in.Description,
		City:             in.City,
		CampaignInfos:    in.CampaignInfos,
		InstructionInfos: in.InstructionInfos,
		CreatedAt:        createdAt,
		FinishAt:         in.FinishAt,
	}

	if err := db.Create(&campaign).Error; err != nil {
		return nil, err
	}
	return &campaign, nil
}

// GetCampaignByID retrieves a campaign with its results
func GetCampaignByID(db *gorm.DB, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := db.Preload("Results").First(&campaign, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// GetCampaignsByCity retrieves all campaigns for a city, results included
func GetCampaignsByCity(db *gorm.DB, city string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := db.Preload("Results").Where("city = ?", city).Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetAllCampaigns retrieves every campaign with results
func GetAllCampaigns(db *gorm.DB) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if err := db.Preload("Results").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetCampaignsForUser resolves the campaigns relevant to a mobile user:
// user -> address -> city -> campaigns in that city. A missing address is a
// distinct, reportable condition, not an empty list.
func GetCampaignsForUser(db *gorm.DB, userID uint) ([]models.Campaign, string, error) {
	var user models.User
	if err := db.Preload("Address").First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if user.Address == nil {
		return nil, "", ErrAddressNotFound
	}

	campaigns, err := GetCampaignsByCity(db, user.Address.City)
	if err != nil {
		return nil, "", err
	}
	return campaigns, user.Address.City, nil
}

// GetCampaignsForPortalUser resolves campaigns through the portal user's own
// city field; portal users have no address.
func GetCampaignsForPortalUser(db *gorm.DB, portalUserID uint) ([]models.Campaign, string, error) {
	var portalUser models.PortalUser
	if err := db.First(&portalUser, portalUserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", ErrPortalUserNotFound
		}
		return nil, "", err
	}

	campaigns, err := GetCampaignsByCity(db, portalUser.City)
	if err != nil {
		return nil, "", err
	}
	return campaigns, portalUser.City, nil
}

// GetCampaignHome builds the home summary for a user: for each campaign in the
// user's city, the count of that user's results whose status value is not
// "visualized".
func GetCampaignHome(db *gorm.DB, userID uint) ([]CampaignSummary, error) {
	campaigns, _, err := GetCampaignsForUser(db, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]CampaignSummary, 0, len(campaigns))
	for _, campaign := range campaigns {
		notDisplayed := 0
		for _, result := range campaign.Results {
			if result.UserID == nil || *result.UserID != userID {
				continue
			}
			if string(result.Status) != string(models.StatusVisualized) {
				notDisplayed++
			}
		}
		summaries = append(summaries, CampaignSummary{
			ID:                  campaign.ID,
			Title:               campaign.Title,
			Description:         campaign.Description,
			ResultsNotDisplayed: notDisplayed,
		})
	}

	return summaries, nil
}

// UpdateCampaign applies a partial update; only non-nil fields overwrite
func UpdateCampaign(db *gorm.DB, id uint, in CampaignUpdateInput) (*models.Campaign, error) {
	campaign, err := GetCampaignByID(db, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		campaign.Title = *in.Title
	}
	if in.Description != nil {
		campaign.Description = *in.Description
	}
	if in.City != nil {
		campaign.City = *in.City
	}
	if in.CampaignInfos != nil {
		campaign.CampaignInfos = in.CampaignInfos
	}
	if in.InstructionInfos != nil {
		campaign.InstructionInfos = in.InstructionInfos
	}
	if in.CreatedAt != nil {
		campaign.CreatedAt = *in.CreatedAt
	}
	if in.FinishAt != nil {
		campaign.FinishAt = in.FinishAt
	}

	if err := db.Omit("Results").Save(campaign).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

// DeleteCampaign removes a campaign and its results. The results delete is
// explicit so the cascade holds on drivers without enforced foreign keys.
func DeleteCampaign(db *gorm.DB, id uint) error {
	var campaign models.Campaign
	if err := db.First(&campaign, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrCampaignNotFound
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("campaign_id = ?", id).Delete(&models.Result{}).Error; err != nil {
			return err
		}
		return tx.Delete(&campaign).Error
	})
}
