// common.go
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

package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/breedwatch/internal/models"
)

// FeedbackView is the feedback block on result payloads
type FeedbackView struct {
	Like    bool    `json:"like"`
	Comment *string `json:"comment"`
}

// ResultView is the API output shape of a result. Field naming mirrors the
// mobile client contract: entity refs camelCase, timestamps snake_case.
type ResultView struct {
	ID            uint         `json:"id"`
	CampaignID    *uint        `json:"campaignId"`
	UserID        *uint        `json:"userId"`
	OriginalImage string       `json:"originalImage"`
	ResultImage   *string      `json:"resultImage"`
	Type          string       `json:"type"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	ProcessedAt   *time.Time   `json:"processed_at"`
	ObjectCount   *int         `json:"object_count"`
	Feedback      FeedbackView `json:"feedback"`
	Lat           *string      `json:"lat,omitempty"`
	Lng           *string      `json:"lng,omitempty"`
}

// CampaignResultView is the trimmed result shape nested in campaign payloads
type CampaignResultView struct {
	ID            uint         `json:"id"`
	OriginalImage string       `json:"originalImage"`
	ResultImage   *string      `json:"resultImage"`
	Type          string       `json:"type"`
	Status        string       `json:"status"`
	Feedback      FeedbackView `json:"feedback"`
}

// CampaignView is the full campaign output shape
type CampaignView struct {
	ID               uint                 `json:"id"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	CampaignInfos    *models.JSON         `json:"campaignInfos"`
	InstructionInfos *models.JSON         `json:"instructionInfos"`
	CreatedAt        time.Time            `json:"created_at"`
	FinishAt         *time.Time           `json:"finish_at"`
	City             string               `json:"city"`
	Results          []CampaignResultView `json:"results"`
}

// CampaignBasicView is a campaign without its results
type CampaignBasicView struct {
	ID               uint         `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	CampaignInfos    *models.JSON `json:"campaignInfos"`
	InstructionInfos *models.JSON `json:"instructionInfos"`
	CreatedAt        time.Time    `json:"created_at"`
	FinishAt         *time.Time   `json:"finish_at"`
	City             string       `json:"city"`
}

func mapFeedback(result *models.Result) FeedbackView {
	return FeedbackView{
		Like:    result.FeedbackLike,
		Comment: result.FeedbackComment,
	}
}

func mapResult(result *models.Result) ResultView {
	return ResultView{
		ID:            result.ID,
		CampaignID:    result.CampaignID,
		UserID:        result.UserID,
		OriginalImage: result.OriginalImage,
		ResultImage:   result.ResultImage,
		Type:          string(result.Type),
		Status:        string(result.Status),
		CreatedAt:     result.CreatedAt,
		ProcessedAt:   result.ProcessedAt,
		ObjectCount:   result.ObjectCount,
		Feedback:      mapFeedback(result),
		Lat:           result.Lat,
		Lng:           result.Lng,
	}
}

func mapCampaignResult(result *models.Result) CampaignResultView {
	return CampaignResultView{
		ID:            result.ID,
		OriginalImage: result.OriginalImage,
		ResultImage:   result.ResultImage,
		Type:          string(result.Type),
		Status:        string(result.Status),
		Feedback:      mapFeedback(result),
	}
}

// mapCampaign shapes a campaign view. When onlyUserID is non-nil, the nested
// results are filtered down to that user's; when includeResults is false the
// results array is empty.
func mapCampaign(campaign *models.Campaign, onlyUserID *uint, includeResults bool) CampaignView {
	results := make([]CampaignResultView, 0)
	if includeResults {
		for i := range campaign.Results {
			result := &campaign.Results[i]
			if onlyUserID != nil && (result.UserID == nil || *result.UserID != *onlyUserID) {
				continue
			}
			results = append(results, mapCampaignResult(result))
		}
	}

	return CampaignView{
		ID:               campaign.ID,
		Title:            campaign.Title,
		Description:      campaign.Description,
		CampaignInfos:    campaign.CampaignInfos,
		InstructionInfos: campaign.InstructionInfos,
		CreatedAt:        campaign.CreatedAt,
		FinishAt:         campaign.FinishAt,
		City:             campaign.City,
		Results:          results,
	}
}

func mapCampaignBasic(campaign *models.Campaign) CampaignBasicView {
	return CampaignBasicView{
		ID:               campaign.ID,
		Title:            campaign.Title,
		Description:      campaign.Description,
		CampaignInfos:    campaign.CampaignInfos,
		InstructionInfos: campaign.InstructionInfos,
		CreatedAt:        campaign.CreatedAt,
		FinishAt:         campaign.FinishAt,
		City:             campaign.City,
	}
}

// parseIDParam parses a positive integer route parameter
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return uint(id), nil
}
