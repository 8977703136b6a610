package services_test

import (
	"errors"
	"testing"

	"github.com/localnerve/breedwatch/internal/models"
	"github.com/localnerve/breedwatch/internal/services"
)

func TestCreateUserHashesPassword(t *testing.T) {
	db := setupTestDB(t)

	user := createUserWithAddress(t, db, "hash@test.com", "Recife")
	if user.Password == "secret123" {
		t.Error("Expected stored password to be hashed")
	}
	if user.Address == nil {
		t.Fatal("Expected companion address to be created")
	}
	if user.Address.City != "Recife" {
		t.Errorf("Unexpected address city: %s", user.Address.City)
	}
}

func TestEmailUniquePerNamespace(t *testing.T) {
	db := setupTestDB(t)

	createUserWithAddress(t, db, "shared@test.com", "Recife")

	_, err := services.CreateUser(db, services.UserCreateInput{
		Name:     "Dupe",
		Email:    "shared@test.com",
		Password: "secret123",
		Phone:    "11911112222",
		Address:  services.AddressInput{Cep: "01001000", Street: "Rua", Number: 1, Neighborhood: "Centro", City: "Recife", Lat: "0", Lng: "0"},
	})
	if !errors.Is(err, services.ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists in mobile namespace, got %v", err)
	}

	// The same email is fine in the portal namespace
	if _, err := services.CreatePortalUser(db, services.PortalUserCreateInput{
		Name:     "Portal",
		Email:    "shared@test.com",
		Password: "secret123",
		City:     "Recife",
	}); err != nil {
		t.Errorf("Expected portal registration with the same email to succeed, got %v", err)
	}
}

func TestAuthenticateUser(t *testing.T) {
	db := setupTestDB(t)
	createUserWithAddress(t, db, "login@test.com", "Recife")

	user, err := services.AuthenticateUser(db, "login@test.com", "secret123")
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user == nil {
		t.Fatal("Expected a match for correct credentials")
	}

	user, err = services.AuthenticateUser(db, "login@test.com", "wrong")
	if err != nil || user != nil {
		t.Errorf("Expected no-match for wrong password, got user=%v err=%v", user, err)
	}

	user, err = services.AuthenticateUser(db, "unknown@test.com", "secret123")
	if err != nil || user != nil {
		t.Errorf("Expected no-match for unknown email, got user=%v err=%v", user, err)
	}
}

func TestAuthenticateUserMalformedHash(t *testing.T) {
	db := setupTestDB(t)

	// A row with a non-bcrypt password must behave as a no-match, not a fault
	broken := models.User{Name: "Broken", Email: "broken@test.com", Password: "plaintext-or-garbage", Phone: "11900000000"}
	if err := db.Create(&broken).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	user, err := services.AuthenticateUser(db, "broken@test.com", "plaintext-or-garbage")
	if err != nil {
		t.Fatalf("Expected no error for malformed hash, got %v", err)
	}
	if user != nil {
		t.Error("Expected no-match for malformed hash")
	}
}

func TestUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "update@test.com", "Recife")
	createUserWithAddress(t, db, "taken@test.com", "Recife")

	// Re-submitting the current email is not a conflict
	sameEmail := "update@test.com"
	name := "Renamed"
	if _, err := services.UpdateUser(db, user.ID, services.UserUpdateInput{Name: &name, Email: &sameEmail}); err != nil {
		t.Errorf("Expected update with unchanged email to succeed, got %v", err)
	}

	takenEmail := "taken@test.com"
	if _, err := services.UpdateUser(db, user.ID, services.UserUpdateInput{Email: &takenEmail}); !errors.Is(err, services.ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists for taken email, got %v", err)
	}

	// Password change rehashes and the new credential works
	newPassword := "changed456"
	if _, err := services.UpdateUser(db, user.ID, services.UserUpdateInput{Password: &newPassword}); err != nil {
		t.Fatalf("Failed to update password: %v", err)
	}
	match, err := services.AuthenticateUser(db, "update@test.com", "changed456")
	if err != nil || match == nil {
		t.Errorf("Expected new password to authenticate, got user=%v err=%v", match, err)
	}

	// Nested address patch
	city := "Olinda"
	updated, err := services.UpdateUser(db, user.ID, services.UserUpdateInput{
		Address: &services.AddressUpdateInput{City: &city},
	})
	if err != nil {
		t.Fatalf("Failed to patch address: %v", err)
	}
	if updated.Address == nil || updated.Address.City != "Olinda" {
		t.Errorf("Expected patched address city Olinda, got %v", updated.Address)
	}
	if updated.Address.Street != "Praca da Se" {
		t.Errorf("Expected untouched street, got %s", updated.Address.Street)
	}
}

func TestDeleteUserDetachesResults(t *testing.T) {
	db := setupTestDB(t)
	user := createUserWithAddress(t, db, "delete@test.com", "Recife")

	result, err := services.CreateResult(db, services.ResultCreateInput{
		UserID:        &user.ID,
		OriginalImage: "http://storage.local/images/a.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        models.StatusFinished,
	})
	if err != nil {
		t.Fatalf("Failed to create result: %v", err)
	}

	if err := services.DeleteUser(db, user.ID); err != nil {
		t.Fatalf("Failed to delete user: %v", err)
	}

	if _, err := services.GetUserByID(db, user.ID); !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound after delete, got %v", err)
	}

	// The address row goes with the user
	var addressCount int64
	db.Model(&models.Address{}).Where("user_id = ?", user.ID).Count(&addressCount)
	if addressCount != 0 {
		t.Errorf("Expected address removed, found %d", addressCount)
	}

	// The result survives with its owner reference nulled
	kept, err := services.GetResultByID(db, result.ID)
	if err != nil {
		t.Fatalf("Expected result to survive user delete: %v", err)
	}
	if kept.UserID != nil {
		t.Errorf("Expected result user_id nulled, got %v", *kept.UserID)
	}
}

func TestPortalUserLifecycle(t *testing.T) {
	db := setupTestDB(t)

	portalUser, err := services.CreatePortalUser(db, services.PortalUserCreateInput{
		Name:     "Agente",
		Email:    "portal@test.com",
		Password: "secret123",
		City:     "Recife",
	})
	if err != nil {
		t.Fatalf("Failed to create portal user: %v", err)
	}

	match, err := services.AuthenticatePortalUser(db, "portal@test.com", "secret123")
	if err != nil || match == nil {
		t.Fatalf("Expected portal login to succeed, got user=%v err=%v", match, err)
	}

	city := "Olinda"
	updated, err := services.UpdatePortalUser(db, portalUser.ID, services.PortalUserUpdateInput{City: &city})
	if err != nil {
		t.Fatalf("Failed to update portal user: %v", err)
	}
	if updated.City != "Olinda" {
		t.Errorf("Expected updated city, got %s", updated.City)
	}

	if err := services.DeletePortalUser(db, portalUser.ID); err != nil {
		t.Fatalf("Failed to delete portal user: %v", err)
	}
	if _, err := services.GetPortalUserByID(db, portalUser.ID); !errors.Is(err, services.ErrPortalUserNotFound) {
		t.Errorf("Expected ErrPortalUserNotFound after delete, got %v", err)
	}
}
