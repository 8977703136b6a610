// data.go
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

package helpers

import (
	"testing"
	"time"

	"github.com/localnerve/breedwatch/internal/models"
	"gorm.io/gorm"
)

// CreateTestUser creates a mobile user with an address in the given city.
// The stored password is not a usable bcrypt hash; use the service layer
// when a test needs to authenticate.
func CreateTestUser(t *testing.T, db *gorm.DB, email, city string) *models.User {
	t.Helper()
	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: "not-a-real-hash",
		Phone:    "11999990000",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	address := models.Address{
		UserID:       user.ID,
		Cep:          "01001000",
		Street:       "Praca da Se",
		Number:       100,
		Neighborhood: "Se",
		City:         city,
		Lat:          "-23.5505",
		Lng:          "-46.6333",
	}
	if err := db.Create(&address).Error; err != nil {
		t.Fatalf("Failed to create address: %v", err)
	}
	user.Address = &address
	return &user
}

// CreateTestPortalUser creates a portal user for the given city
func CreateTestPortalUser(t *testing.T, db *gorm.DB, email, city string) *models.PortalUser {
	t.Helper()
	portalUser := models.PortalUser{
		Name:     "Test Portal User",
		Email:    email,
		Password: "not-a-real-hash",
		City:     city,
	}
	if err := db.Create(&portalUser).Error; err != nil {
		t.Fatalf("Failed to create portal user: %v", err)
	}
	return &portalUser
}

// CreateTestCampaign creates a campaign in the given city
func CreateTestCampaign(t *testing.T, db *gorm.DB, title, city string) *models.Campaign {
	t.Helper()
	campaign := models.Campaign{
		Title:       title,
		Description: "Test campaign",
		City:        city,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.Create(&campaign).Error; err != nil {
		t.Fatalf("Failed to create campaign: %v", err)
	}
	return &campaign
}

// CreateTestResult creates a result owned by the user in the campaign
func CreateTestResult(t *testing.T, db *gorm.DB, campaignID, userID *uint, status models.ResultStatus) *models.Result {
	t.Helper()
	result := models.Result{
		CampaignID:    campaignID,
		UserID:        userID,
		OriginalImage: "http://storage.local/images/original.jpg",
		Type:          models.ResultTypeTerreno,
		Status:        status,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.Create(&result).Error; err != nil {
		t.Fatalf("Failed to create result: %v", err)
	}
	return &result
}
