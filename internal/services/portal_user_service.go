package services

import (
	"github.com/localnerve/breedwatch/internal/models"
	"gorm.io/gorm"
)

// PortalUserCreateInput is the input for portal registration.
type PortalUserCreateInput struct {
	Name     string
	Email    string
	Password string
	City     string
}

// PortalUserUpdateInput is a partial update; only non-nil fields overwrite.
type PortalUserUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	City     *string
}

// CreatePortalUser registers a portal user. The email namespace is independent
// from mobile users: the same address may exist once in each table.
func CreatePortalUser(db *gorm.DB, in PortalUserCreateInput) (*models.PortalUser, error) {
	var count int64
	if err := db.Model(&models.PortalUser{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	portalUser := models.PortalUser{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		City:     in.City,
	}

	if err := db.Create(&portalUser).Error; err != nil {
		return nil, err
	}
	return &portalUser, nil
}

// GetPortalUserByID retrieves a portal user by id
func GetPortalUserByID(db *gorm.DB, id uint) (*models.PortalUser, error) {
	var portalUser models.PortalUser
	if err := db.First(&portalUser, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrPortalUserNotFound
		}
		return nil, err
	}
	return &portalUser, nil
}

// GetAllPortalUsers retrieves every portal user
func GetAllPortalUsers(db *gorm.DB) ([]models.PortalUser, error) {
	var portalUsers []models.PortalUser
	if err := db.Find(&portalUsers).Error; err != nil {
		return nil, err
	}
	return portalUsers, nil
}

// UpdatePortalUser applies a partial update with the same email and password
// rules as the mobile-user variant.
func UpdatePortalUser(db *gorm.DB, id uint, in PortalUserUpdateInput) (*models.PortalUser, error) {
	portalUser, err := GetPortalUserByID(db, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != portalUser.Email {
		var count int64
		if err := db.Model(&models.PortalUser{}).Where("email = ?", *in.Email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailExists
		}
		portalUser.Email = *in.Email
	}

	if in.Name != nil {
		portalUser.Name = *in.Name
	}
	if in.City != nil {
		portalUser.City = *in.City
	}
	if in.Password != nil {
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		portalUser.Password = hashed
	}

	if err := db.Save(portalUser).Error; err != nil {
		return nil, err
	}
	return portalUser, nil
}

// DeletePortalUser removes a portal user
func DeletePortalUser(db *gorm.DB, id uint) error {
	portalUser, err := GetPortalUserByID(db, id)
	if err != nil {
		return err
	}
	return db.Delete(portalUser).Error
}

// AuthenticatePortalUser looks up by email and verifies the password; any
// verification failure is a no-match, never a fault.
func AuthenticatePortalUser(db *gorm.DB, email, password string) (*models.PortalUser, error) {
	var portalUser models.PortalUser
	if err := db.Where("email = ?", email).First(&portalUser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if !verifyPassword(password, portalUser.Password) {
		return nil, nil
	}
	return &portalUser, nil
}
