package services_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/localnerve/breedwatch/internal/models"
	"github.com/localnerve/breedwatch/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.PortalUser{},
		&models.Campaign{},
		&models.Result{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// stubUploader records the upload and returns a deterministic URL
type stubUploader struct {
	calls int
	fail  bool
}

func (s *stubUploader) Upload(data []byte, extension string) (string, error) {
	s.calls++
	if s.fail {
		return "", errors.New("connection refused")
	}
	return fmt.Sprintf("http://storage.local/images/blob-%d.%s", s.calls, extension), nil
}

func createUserWithAddress(t *testing.T, db *gorm.DB, email, city string) *models.User {
	t.Helper()
	user, err := services.CreateUser(db, services.UserCreateInput{
		Name:     "Maria",
		Email:    email,
		Password: "secret123",
		Phone:    "11988887777",
		Address: services.AddressInput{
			Cep:          "01001000",
			Street:       "Praca da Se",
			Number:       100,
			Neighborhood: "Se",
			City:         city,
			Lat:          "-23.5505",
			Lng:          "-46.6333",
		},
	})
	if err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

func createCampaign(t *testing.T, db *gorm.DB, title, city string) *models.Campaign {
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

func TestCreateResultValidatesReferences(t *testing.T) {
	db := setupTestDB(t)

	missing := uint(999)
	_, err := services.CreateResult(db, services.ResultCreateInput{
		CampaignID:    &missing,
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusProcessing,
	})
	if !errors.Is(err, services.ErrCampaignNotFound) {
		t.Errorf("Expected ErrCampaignNotFound, got %v", err)
	}

	_, err = services.CreateResult(db, services.ResultCreateInput{
		UserID:        &missing,
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusProcessing,
	})
	if !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	_, err = services.CreateResult(db, services.ResultCreateInput{
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          "building",
		Status:        models.StatusProcessing,
	})
	if !errors.Is(err, services.ErrInvalidType) {
		t.Errorf("Expected ErrInvalidType, got %v", err)
	}

	_, err = services.CreateResult(db, services.ResultCreateInput{
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        "done",
	})
	if !errors.Is(err, services.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestCreateResultFeedbackDefaults(t *testing.T) {
	db := setupTestDB(t)

	result, err := services.CreateResult(db, services.ResultCreateInput{
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypePropriedade,
		Status:        models.StatusProcessing,
	})
	if err != nil {
		t.Fatalf("Failed to create result: %v", err)
	}
	if result.FeedbackLike {
		t.Error("Expected feedback like to default to false")
	}
	if result.FeedbackComment != nil {
		t.Error("Expected feedback comment to default to nil")
	}
	if result.ProcessedAt != nil {
		t.Error("Expected processed_at to be nil on creation")
	}
}

func TestCreateResultFromUpload(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "upload@test.com", "Recife")
	uploader := &stubUploader{}

	result, err := services.CreateResultFromUpload(db, uploader, services.ResultUploadInput{
		Data:      []byte("fake-jpeg-bytes"),
		Extension: "jpg",
		UserID:    user.ID,
	})
	if err != nil {
		t.Fatalf("Failed to create result from upload: %v", err)
	}

	if uploader.calls != 1 {
		t.Errorf("Expected 1 upload call, got %d", uploader.calls)
	}
	if result.Status != models.StatusProcessing {
		t.Errorf("Expected processing status, got %s", result.Status)
	}
	if result.Type != models.ResultTypeTerreno {
		t.Errorf("Expected default terreno type, got %s", result.Type)
	}
	if result.OriginalImage != "http://storage.local/images/blob-1.jpg" {
		t.Errorf("Unexpected original image URL: %s", result.OriginalImage)
	}
	// No explicit coordinates: the address values are used
	if result.Lat == nil || *result.Lat != "-23.5505" {
		t.Errorf("Expected lat from address, got %v", result.Lat)
	}
	if result.Lng == nil || *result.Lng != "-46.6333" {
		t.Errorf("Expected lng from address, got %v", result.Lng)
	}
}

func TestCreateResultFromUploadFailures(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "uploadfail@test.com", "Recife")

	_, err := services.CreateResultFromUpload(db, &stubUploader{}, services.ResultUploadInput{
		Data:      []byte("x"),
		Extension: "jpg",
		UserID:    999,
	})
	if !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}

	_, err = services.CreateResultFromUpload(db, &stubUploader{fail: true}, services.ResultUploadInput{
		Data:      []byte("x"),
		Extension: "jpg",
		UserID:    user.ID,
	})
	if !errors.Is(err, services.ErrUploadFailed) {
		t.Errorf("Expected ErrUploadFailed, got %v", err)
	}

	// The storage failure must not leave a row behind
	var count int64
	db.Model(&models.Result{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no result rows after failed upload, got %d", count)
	}
}

func TestUpdateResultStatusTransitions(t *testing.T) {
	db := setupTestDB(t)

	result, err := services.CreateResult(db, services.ResultCreateInput{
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusProcessing,
	})
	if err != nil {
		t.Fatalf("Failed to create result: %v", err)
	}

	// Any enumerated status is accepted from any current status
	for _, status := range []models.ResultStatus{
		models.StatusVisualized,
		models.StatusProcessing,
		models.StatusFailed,
		models.StatusFinished,
	} {
		updated, err := services.UpdateResultStatus(db, result.ID, status)
		if err != nil {
			t.Fatalf("Failed to update status to %s: %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("Expected status %s, got %s", status, updated.Status)
		}
	}

	if _, err := services.UpdateResultStatus(db, result.ID, "done"); !errors.Is(err, services.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
	if _, err := services.UpdateResultStatus(db, 999, models.StatusFinished); !errors.Is(err, services.ErrResultNotFound) {
		t.Errorf("Expected ErrResultNotFound, got %v", err)
	}
}

func TestUpdateResultImageFinished(t *testing.T) {
	db := setupTestDB(t)

	result, _ := services.CreateResult(db, services.ResultCreateInput{
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusProcessing,
	})

	count := 4
	updated, err := services.UpdateResultImage(db, result.ID, "http://storage.local/images/a-out.jpg", models.StatusFinished, &count)
	if err != nil {
		t.Fatalf("Failed to update result image: %v", err)
	}

	if updated.Status != models.StatusFinished {
		t.Errorf("Expected finished status, got %s", updated.Status)
	}
	if updated.ResultImage == nil || *updated.ResultImage != "http://storage.local/images/a-out.jpg" {
		t.Errorf("Unexpected result image: %v", updated.ResultImage)
	}
	if updated.ObjectCount == nil || *updated.ObjectCount != 4 {
		t.Errorf("Unexpected object count: %v", updated.ObjectCount)
	}
	if updated.ProcessedAt == nil {
		t.Error("Expected processed_at to be stamped on finished")
	}
}

func TestUpdateResultImageFailed(t *testing.T) {
	db := setupTestDB(t)

	result, _ := services.CreateResult(db, services.ResultCreateInput{
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusProcessing,
	})

	updated, err := services.UpdateResultImage(db, result.ID, "http://storage.local/images/a-out.jpg", models.StatusFailed, nil)
	if err != nil {
		t.Fatalf("Failed to update result image: %v", err)
	}

	if updated.Status != models.StatusFailed {
		t.Errorf("Expected failed status, got %s", updated.Status)
	}
	// failed is terminal without a detection outcome
	if updated.ProcessedAt != nil {
		t.Error("Expected processed_at to stay nil on failed")
	}
	if updated.ObjectCount != nil {
		t.Error("Expected object count to stay nil on failed")
	}
}

func TestUpdateResultImageRejections(t *testing.T) {
	db := setupTestDB(t)

	result, _ := services.CreateResult(db, services.ResultCreateInput{
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusProcessing,
	})

	if _, err := services.UpdateResultImage(db, result.ID, "u", models.StatusProcessing, nil); !errors.Is(err, services.ErrInvalidStatusForImageUpdate) {
		t.Errorf("Expected ErrInvalidStatusForImageUpdate, got %v", err)
	}
	if _, err := services.UpdateResultImage(db, result.ID, "u", models.StatusVisualized, nil); !errors.Is(err, services.ErrInvalidStatusForImageUpdate) {
		t.Errorf("Expected ErrInvalidStatusForImageUpdate, got %v", err)
	}
	if _, err := services.UpdateResultImage(db, result.ID, "u", models.StatusFinished, nil); !errors.Is(err, services.ErrObjectCountRequired) {
		t.Errorf("Expected ErrObjectCountRequired, got %v", err)
	}
	if _, err := services.UpdateResultImage(db, result.ID, "u", "done", nil); !errors.Is(err, services.ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestUpdateResultFeedbackAnyState(t *testing.T) {
	db := setupTestDB(t)

	for _, status := range []models.ResultStatus{models.StatusProcessing, models.StatusFinished, models.StatusFailed} {
		result, _ := services.CreateResult(db, services.ResultCreateInput{
			OriginalImage: "http://storage.local/images/a.jpg",
			Type:          models.ResultTypeTerreno,
			Status:        status,
		})

		comment := "muitos focos"
		updated, err := services.UpdateResultFeedback(db, result.ID, true, &comment)
		if err != nil {
			t.Fatalf("Failed to update feedback in %s: %v", status, err)
		}
		if !updated.FeedbackLike || updated.FeedbackComment == nil || *updated.FeedbackComment != comment {
			t.Errorf("Feedback not applied in %s state", status)
		}
		if updated.Status != status {
			t.Errorf("Feedback update changed status from %s to %s", status, updated.Status)
		}
	}
}

func TestGetResultsByUser(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "results@test.com", "Recife")
	other := createUserWithAddress(t, db, "other@test.com", "Recife")

	for i := 0; i < 3; i++ {
		if _, err := services.CreateResult(db, services.ResultCreateInput{
			UserID:        &user.ID,
			OriginalImage: "http://storage.local/images/a.jpg",
			Type:          models.ResultTypeTerreno,
			Status:        models.StatusProcessing,
		}); err != nil {
			t.Fatalf("Failed to create result: %v", err)
		}
	}

	results, err := services.GetResultsByUser(db, user.ID)
	if err != nil {
		t.Fatalf("Failed to fetch results: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("Expected 3 results, got %d", len(results))
	}

	results, err = services.GetResultsByUser(db, other.ID)
	if err != nil {
		t.Fatalf("Failed to fetch results: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}
}

func TestDeleteResult(t *testing.T) {
	db := setupTestDB(t)

	result, _ := services.CreateResult(db, services.ResultCreateInput{
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusProcessing,
	})

	if err := services.DeleteResult(db, result.ID); err != nil {
		t.Fatalf("Failed to delete result: %v", err)
	}
	if _, err := services.GetResultByID(db, result.ID); !errors.Is(err, services.ErrResultNotFound) {
		t.Errorf("Expected ErrResultNotFound after delete, got %v", err)
	}
	if err := services.DeleteResult(db, result.ID); !errors.Is(err, services.ErrResultNotFound) {
		t.Errorf("Expected ErrResultNotFound on second delete, got %v", err)
	}
}
