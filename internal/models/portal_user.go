package models

// PortalUser represents a web-portal account. It is a separate principal type
// from User: its own email namespace, its own authentication, a city instead
// of an address.
type PortalUser struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"not null"`
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	City     string `gorm:"size:100;not null"`
}

// TableName overrides the table name for PortalUser
func (PortalUser) TableName() string {
	return "user_portal"
}
