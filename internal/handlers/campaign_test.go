package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/breedwatch/internal/handlers"
	"github.com/localnerve/breedwatch/internal/models"
	"github.com/localnerve/breedwatch/internal/services"
	"gorm.io/gorm"
)

func setupCampaignApp(db *gorm.DB) *fiber.App {
	app := fiber.New()
	handler := &handlers.CampaignHandler{DB: db}
	app.Post("/campaigns/createCampaign", handler.CreateCampaign)
	app.Get("/campaigns/getCampaign/:campaignId", handler.GetCampaign)
	app.Get("/campaigns/getCampaignByUser/:userId", handler.GetCampaignsByUser)
	app.Get("/campaigns/getCampaignByUserPortal/:portalUserId", handler.GetCampaignsByPortalUser)
	app.Get("/campaigns/getCampaignHome/:userId", handler.GetCampaignHome)
	app.Get("/campaigns/getAllCampaigns", handler.GetAllCampaigns)
	app.Put("/campaigns/updateCampaign/:campaignId", handler.UpdateCampaign)
	app.Delete("/campaigns/deleteCampaign/:campaignId", handler.DeleteCampaign)
	return app
}

func seedCampaign(t *testing.T, db *gorm.DB, title, city string) *models.Campaign {
	t.Helper()
	campaign, err := services.CreateCampaign(db, services.CampaignCreateInput{
		Title:       title,
		Description: "desc",
		City:        city,
	})
	if err != nil {
		t.Fatalf("Failed to create campaign: %v", err)
	}
	return campaign
}

// TestCreateCampaignRoute tests the POST /campaigns/createCampaign endpoint
func TestCreateCampaignRoute(t *testing.T) {
	db := setupTestDB(t)
	app := setupCampaignApp(db)

	body, _ := json.Marshal(map[string]interface{}{
		"title":       "Verao sem Dengue",
		"description": "Mutirao de verao",
		"city":        "Recife",
		"campaignInfos": map[string]interface{}{
			"banner": "http://cdn.local/banner.png",
		},
	})
	req := httptest.NewRequest("POST", "/campaigns/createCampaign", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["title"] != "Verao sem Dengue" {
		t.Errorf("Unexpected title: %v", result["title"])
	}
	if result["campaignInfos"] == nil {
		t.Error("Expected campaignInfos in response")
	}

	// Missing required fields
	body, _ = json.Marshal(map[string]interface{}{"description": "no title"})
	req = httptest.NewRequest("POST", "/campaigns/createCampaign", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestGetCampaignsByUserRoute tests the city aggregation with result filtering
func TestGetCampaignsByUserRoute(t *testing.T) {
	db := setupTestDB(t)
	app := setupCampaignApp(db)

	user := seedUser(t, db, "agg@test.com")
	other := seedUser(t, db, "aggother@test.com")
	campaign := seedCampaign(t, db, "Verao sem Dengue", "Recife")
	seedCampaign(t, db, "Longe", "Manaus")

	for _, owner := range []*models.User{user, other} {
		ownerID := owner.ID
		if _, err := services.CreateResult(db, services.ResultCreateInput{
			CampaignID:    &campaign.ID,
			UserID:        &ownerID,
			OriginalImage: "http://storage.local/images/a.jpg",
			Type:          models.ResultTypeTerreno,
			Status:        models.StatusFinished,
		}); err != nil {
			t.Fatalf("Failed to create result: %v", err)
		}
	}

	req := httptest.NewRequest("GET", fmt.Sprintf("/campaigns/getCampaignByUser/%d", user.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result []handlers.CampaignView
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("Expected 1 campaign in the user's city, got %d", len(result))
	}
	// Nested results are the requesting user's only
	if len(result[0].Results) != 1 {
		t.Errorf("Expected 1 result for the user, got %d", len(result[0].Results))
	}

	req = httptest.NewRequest("GET", "/campaigns/getCampaignByUser/999", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404 for unknown user, got %d", resp.StatusCode)
	}
}

// TestGetCampaignsByPortalUserRoute tests that the portal view lists the
// city's campaigns without nesting their results
func TestGetCampaignsByPortalUserRoute(t *testing.T) {
	db := setupTestDB(t)
	app := setupCampaignApp(db)

	portalUser, err := services.CreatePortalUser(db, services.PortalUserCreateInput{
		Name:     "Agente",
		Email:    "portalagg@test.com",
		Password: "secret123",
		City:     "Recife",
	})
	if err != nil {
		t.Fatalf("Failed to create portal user: %v", err)
	}

	user := seedUser(t, db, "portalowner@test.com")
	campaign := seedCampaign(t, db, "Verao sem Dengue", "Recife")
	seedCampaign(t, db, "Longe", "Manaus")

	userID := user.ID
	if _, err := services.CreateResult(db, services.ResultCreateInput{
		CampaignID:    &campaign.ID,
		UserID:        &userID,
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusFinished,
	}); err != nil {
		t.Fatalf("Failed to create result: %v", err)
	}

	req := httptest.NewRequest("GET", fmt.Sprintf("/campaigns/getCampaignByUserPortal/%d", portalUser.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("Expected 1 campaign in the portal user's city, got %d", len(result))
	}
	if result[0]["title"] != "Verao sem Dengue" {
		t.Errorf("Unexpected title: %v", result[0]["title"])
	}
	if _, nested := result[0]["results"]; nested {
		t.Error("Portal campaign view must not nest results")
	}

	req = httptest.NewRequest("GET", "/campaigns/getCampaignByUserPortal/999", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404 for unknown portal user, got %d", resp.StatusCode)
	}
}

// TestGetAllCampaignsRoute tests that the full listing nests every result,
// unfiltered by user
func TestGetAllCampaignsRoute(t *testing.T) {
	db := setupTestDB(t)
	app := setupCampaignApp(db)

	campaign := seedCampaign(t, db, "Verao sem Dengue", "Recife")
	for _, email := range []string{"alla@test.com", "allb@test.com"} {
		owner := seedUser(t, db, email)
		ownerID := owner.ID
		if _, err := services.CreateResult(db, services.ResultCreateInput{
			CampaignID:    &campaign.ID,
			UserID:        &ownerID,
			OriginalImage: "http://storage.local/images/a.jpg",
			Type:          models.ResultTypeTerreno,
			Status:        models.StatusProcessing,
		}); err != nil {
			t.Fatalf("Failed to create result: %v", err)
		}
	}

	req := httptest.NewRequest("GET", "/campaigns/getAllCampaigns", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result []handlers.CampaignView
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("Expected 1 campaign, got %d", len(result))
	}
	if len(result[0].Results) != 2 {
		t.Errorf("Expected both users' results in the listing, got %d", len(result[0].Results))
	}
}

// TestGetCampaignHomeRoute tests the GET /campaigns/getCampaignHome/:userId endpoint
func TestGetCampaignHomeRoute(t *testing.T) {
	db := setupTestDB(t)
	app := setupCampaignApp(db)

	user := seedUser(t, db, "homer@test.com")
	campaign := seedCampaign(t, db, "Verao sem Dengue", "Recife")

	for _, status := range []models.ResultStatus{models.StatusProcessing, models.StatusFinished, models.StatusVisualized} {
		userID := user.ID
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

	req := httptest.NewRequest("GET", fmt.Sprintf("/campaigns/getCampaignHome/%d", user.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result []services.CampaignSummary
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(result))
	}
	if result[0].ResultsNotDisplayed != 2 {
		t.Errorf("Expected 2 results not displayed, got %d", result[0].ResultsNotDisplayed)
	}
}

// TestDeleteCampaignRoute tests cascade delete over HTTP
func TestDeleteCampaignRoute(t *testing.T) {
	db := setupTestDB(t)
	app := setupCampaignApp(db)

	campaign := seedCampaign(t, db, "Cascade", "Recife")
	if _, err := services.CreateResult(db, services.ResultCreateInput{
		CampaignID:    &campaign.ID,
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusProcessing,
	}); err != nil {
		t.Fatalf("Failed to create result: %v", err)
	}

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/campaigns/deleteCampaign/%d", campaign.ID), nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Result{}).Where("campaign_id = ?", campaign.ID).Count(&count)
	if count != 0 {
		t.Errorf("Expected campaign results removed, found %d", count)
	}
}
