package models

type User struct {
	BaseUUIDModel
	Email        string `gorm:"type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:text;not null"             json:"-"`
	FullName     string `gorm:"type:text;not null"             json:"fullName"`
	Role         Role   `gorm:"type:text;not null"             json:"role"`

	// Access-scope assignments. Together with Role these fully determine
	// what the user may see or mutate.
	Clients          []Client `gorm:"many2many:user_clients"  json:"clients,omitempty"`
	AssignedBranches []Branch `gorm:"many2many:user_branches" json:"assignedBranches,omitempty"`
}

// Principal returns the principal acting as this user.
func (u *User) Principal() Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

// UserProfile is the public view of a user, without the password hash.
type UserProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:       u.ID.String(),
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
