package models

type Client struct {
	BaseUUIDModel
	Name string  `gorm:"type:text;not null" json:"name"`
	Logo *string `gorm:"type:text"          json:"logo"`

	Branches []Branch `gorm:"foreignKey:ClientID"    json:"branches,omitempty"`
	Users    []User   `gorm:"many2many:user_clients" json:"users,omitempty"`
}
