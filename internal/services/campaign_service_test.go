package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/localnerve/breedwatch/internal/models"
	"github.com/localnerve/breedwatch/internal/services"
)

func TestGetCampaignsForUser(t *testing.T) {
	db := setupTestDB(t)

	user := createUserWithAddress(t, db, "recife@test.com", "Recife")
	createCampaign(t, db, "Verao sem Dengue", "Recife")
	createCampaign(t, db, "Foco Zero", "Recife")
	createCampaign(t, db, "Outra Cidade", "Olinda")

	campaigns, city, err := services.GetCampaignsForUser(db, user.ID)
	if err != nil {
		t.Fatalf("Failed to fetch campaigns: %v", err)
	}
	if city != "Recife" {
		t.Errorf("Expected city Recife, got %s", city)
	}
	if len(campaigns) != 2 {
		t.Errorf("Expected 2 campaigns, got %d", len(campaigns))
	}
}

func TestGetCampaignsForUserMissingPieces(t *testing.T) {
	db := setupTestDB(t)

	_, _, err := services.GetCampaignsForUser(db, 999)
	if !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	// A user row without its address row reports the address as missing
	user := models.User{Name: "No Address", Email: "noaddr@test.com", Password: "x", Phone: "11900000000"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	_, _, err = services.GetCampaignsForUser(db, user.ID)
	if !errors.Is(err, services.ErrAddressNotFound) {
		t.Errorf("Expected ErrAddressNotFound, got %v", err)
	}
}

func TestGetCampaignsForPortalUser(t *testing.T) {
	db := setupTestDB(t)

	portalUser, err := services.CreatePortalUser(db, services.PortalUserCreateInput{
		Name:     "Agente",
		Email:    "agente@test.com",
		Password: "secret123",
		City:     "Recife",
	})
	if err != nil {
		t.Fatalf("Failed to create portal user: %v", err)
	}
	createCampaign(t, db, "Verao sem Dengue", "Recife")
	createCampaign(t, db, "Outra Cidade", "Olinda")

	campaigns, city, err := services.GetCampaignsForPortalUser(db, portalUser.ID)
	if err != nil {
		t.Fatalf("Failed to fetch campaigns: %v", err)
	}
	if city != "Recife" {
		t.Errorf("Expected city Recife, got %s", city)
	}
	if len(campaigns) != 1 {
		t.Errorf("Expected 1 campaign, got %d", len(campaigns))
	}

	_, _, err = services.GetCampaignsForPortalUser(db, 999)
	if !errors.Is(err, services.ErrPortalUserNotFound) {
		t.Errorf("Expected ErrPortalUserNotFound, got %v", err)
	}
}

func TestGetCampaignHomeCounts(t *testing.T) {
	db := setupTestDB(t)

	user := createUserWithAddress(t, db, "home@test.com", "Recife")
	other := createUserWithAddress(t, db, "homeother@test.com", "Recife")
	campaign := createCampaign(t, db, "Verao sem Dengue", "Recife")

	mkResult := func(userID uint, status models.ResultStatus) {
		if _, err := services.CreateResult(db, services.ResultCreateInput{
			CampaignID:    &campaign.ID,
			UserID:        &userID,
			OriginalImage: "http://storage.local/images/a.jpg",
			Type:          models.ResultTypeTerreno,
			Status:        status,
		}); err != nil {
			t.Fatalf("Failed to create result: %v", err)
		}
	}

	mkResult(user.ID, models.StatusProcessing)
	mkResult(user.ID, models.StatusFinished)
	mkResult(user.ID, models.StatusFailed)
	mkResult(user.ID, models.StatusVisualized)
	// Another user's results never count toward this user's summary
	mkResult(other.ID, models.StatusFinished)

	summaries, err := services.GetCampaignHome(db, user.ID)
	if err != nil {
		t.Fatalf("Failed to fetch home summary: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].ID != campaign.ID {
		t.Errorf("Expected campaign %d, got %d", campaign.ID, summaries[0].ID)
	}
	// processing + finished + failed count; visualized does not
	if summaries[0].ResultsNotDisplayed != 3 {
		t.Errorf("Expected 3 results not displayed, got %d", summaries[0].ResultsNotDisplayed)
	}
}

func TestUpdateCampaignPartial(t *testing.T) {
	db := setupTestDB(t)

	campaign := createCampaign(t, db, "Original", "Recife")

	title := "Renamed"
	finishAt := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	updated, err := services.UpdateCampaign(db, campaign.ID, services.CampaignUpdateInput{
		Title:    &title,
		FinishAt: &finishAt,
	})
	if err != nil {
		t.Fatalf("Failed to update campaign: %v", err)
	}

	if updated.Title != "Renamed" {
		t.Errorf("Expected renamed title, got %s", updated.Title)
	}
	if updated.City != "Recife" {
		t.Errorf("Expected city untouched, got %s", updated.City)
	}
	if updated.FinishAt == nil || !updated.FinishAt.Equal(finishAt) {
		t.Errorf("Unexpected finish_at: %v", updated.FinishAt)
	}

	_, err = services.UpdateCampaign(db, 999, services.CampaignUpdateInput{Title: &title})
	if !errors.Is(err, services.ErrCampaignNotFound) {
		t.Errorf("Expected ErrCampaignNotFound, got %v", err)
	}
}

func TestDeleteCampaignCascades(t *testing.T) {
	db := setupTestDB(t)

	campaign := createCampaign(t, db, "Cascade", "Recife")
	kept := createCampaign(t, db, "Kept", "Recife")

	for _, id := range []uint{campaign.ID, kept.ID} {
		campaignID := id
		if _, err := services.CreateResult(db, services.ResultCreateInput{
			CampaignID:    &campaignID,
			OriginalImage: "http://storage.local/images/a.jpg",
			Type:          models.ResultTypeTerreno,
			Status:        models.StatusProcessing,
		}); err != nil {
			t.Fatalf("Failed to create result: %v", err)
		}
	}

	if err := services.DeleteCampaign(db, campaign.ID); err != nil {
		t.Fatalf("Failed to delete campaign: %v", err)
	}

	var count int64
	db.Model(&models.Result{}).Where("campaign_id = ?", campaign.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected deleted campaign's results removed, found %d", count)
	}
	db.Model(&models.Result{}).Where("campaign_id = ?", kept.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected other campaign's results kept, found %d", count)
	}

	if err := services.DeleteCampaign(db, campaign.ID); !errors.Is(err, services.ErrCampaignNotFound) {
		t.Errorf("Expected ErrCampaignNotFound on second delete, got %v", err)
	}
}
