package services

import (
	"github.com/localnerve/breedwatch/internal/models"
	"gorm.io/gorm"
)

// AddressInput carries the companion address created with a user.
type AddressInput struct {
	Cep          string
	Street       string
	Number       int
	Neighborhood string
	Complement   *string
	City         string
	Lat          string
	Lng          string
}

// AddressUpdateInput is a partial address patch.
type AddressUpdateInput struct {
	Cep          *string
	Street       *string
	Number       *int
	Neighborhood *string
	Complement   *string
	City         *string
	Lat          *string
	Lng          *string
}

// UserCreateInput is the input for mobile-user registration.
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  AddressInput
}

// UserUpdateInput is a partial update; only non-nil fields overwrite.
type UserUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Phone    *string
	Address  *AddressUpdateInput
}

// CreateUser registers a mobile user and its companion address row. Email
// uniqueness is checked within the mobile-user namespace only.
func CreateUser(db *gorm.DB, in UserCreateInput) (*models.User, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailExists
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Phone:    in.Phone,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		address := models.Address{
			UserID:       user.ID,
			Cep:          in.Address.Cep,
			Street:       in.Address.Street,
			Number:       in.Address.Number,
			Neighborhood: in.Address.Neighborhood,
			Complement:   in.Address.Complement,
			City:         in.Address.City,
			Lat:          in.Address.Lat,
			Lng:          in.Address.Lng,
		}
		if err := tx.Create(&address).Error; err != nil {
			return err
		}
		user.Address = &address
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUserByID retrieves a user with its address
func GetUserByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.Preload("Address").First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetAllUsers retrieves every mobile user with addresses
func GetAllUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Preload("Address").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies a partial update. Email uniqueness is re-checked only
// when the email is actually changing; a supplied password is rehashed; the
// nested address patch applies only when the user already has an address.
func UpdateUser(db *gorm.DB, id uint, in UserUpdateInput) (*models.User, error) {
	user, err := GetUserByID(db, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != user.Email {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", *in.Email).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailExists
		}
		user.Email = *in.Email
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Password != nil {
		hashed, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Address", "Results").Save(user).Error; err != nil {
			return err
		}
		if in.Address != nil && user.Address != nil {
			applyAddressPatch(user.Address, in.Address)
			if err := tx.Save(user.Address).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes the address row first, then the user. Results keep their
// rows with user_id nulled; the explicit update mirrors the SET NULL foreign
// key for drivers that do not enforce it.
func DeleteUser(db *gorm.DB, id uint) error {
	user, err := GetUserByID(db, id)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Result{}).Where("user_id = ?", id).
			Update("user_id", nil).Error; err != nil {
			return err
		}
		if user.Address != nil {
			if err := tx.Delete(user.Address).Error; err != nil {
				return err
			}
		}
		return tx.Delete(user).Error
	})
}

// AuthenticateUser looks up by email and verifies the password. Unknown email,
// wrong password, and malformed stored hash are all the same no-match outcome.
func AuthenticateUser(db *gorm.DB, email, password string) (*models.User, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if !verifyPassword(password, user.Password) {
		return nil, nil
	}
	return &user, nil
}

func applyAddressPatch(address *models.Address, in *AddressUpdateInput) {
	if in.Cep != nil {
		address.Cep = *in.Cep
	}
	if in.Street != nil {
		address.Street = *in.Street
	}
	if in.Number != nil {
		address.Number = *in.Number
	}
	if in.Neighborhood != nil {
		address.Neighborhood = *in.Neighborhood
	}
	if in.Complement != nil {
		address.Complement = in.Complement
	}
	if in.City != nil {
		address.City = *in.City
	}
	if in.Lat != nil {
		address.Lat = *in.Lat
	}
	if in.Lng != nil {
		address.Lng = *in.Lng
	}
}
