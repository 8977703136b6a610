package models

// User represents a mobile-app account. The stored password is a bcrypt hash,
// never the plaintext.
type User struct {
	ID       uint     `gorm:"primaryKey;autoIncrement"`
	Name     string   `gorm:"size:50;not null"`
	Email    string   `gorm:"size:120;uniqueIndex;not null"`
	Password string   `gorm:"size:128;not null"`
	Phone    string   `gorm:"size:11;not null"`
	Address  *Address `gorm:"constraint:OnDelete:CASCADE"`
	Results  []Result `gorm:"constraint:OnDelete:SET NULL"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "user_mobile"
}

// Address is the user's single registered address. The unique index on UserID
// enforces the one-to-one. Lat and Lng stay textual to preserve the exact
// precision the client sent.
type Address struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"`
	UserID       uint    `gorm:"uniqueIndex"`
	Cep          string  `gorm:"size:8;not null"`
	Street       string  `gorm:"size:255;not null"`
	Number       int     `gorm:"not null"`
	Neighborhood string  `gorm:"size:100;not null"`
	Complement   *string `gorm:"size:10"`
	City         string  `gorm:"size:100;not null"`
	Lat          string  `gorm:"size:50;not null"`
	Lng          string  `gorm:"size:50;not null"`
}

// TableName overrides the table name for Address
func (Address) TableName() string {
	return "address"
}
