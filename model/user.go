package model

import "sitelink.com/sitelink/model/role"

type User struct {
	ID           int       `gorm:"primaryKey;column:id" json:"id" yaml:"id"`
	Username     string    `gorm:"column:username;uniqueIndex;type:varchar(150)" json:"username" yaml:"username"`
	FirstName    string    `gorm:"column:first_name" json:"first_name" yaml:"first_name"`
	LastName     string    `gorm:"column:last_name" json:"last_name" yaml:"last_name"`
	Role         role.Role `gorm:"column:role;type:varchar(30)" json:"role" yaml:"role" binding:"omitempty,oneof=admin project_manager safety_officer site_engineer worker"`
	Email        string    `gorm:"column:email" json:"email" yaml:"email" binding:"omitempty,email"`
	Phone        string    `gorm:"column:phone" json:"phone" yaml:"phone"`
	PasswordHash string    `gorm:"column:password_hash" json:"-" yaml:"-"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName prefers the first name and falls back to the username.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
