// Package entity defines the request and response shapes of the panel API.
package entity

import "user-panel/database/model"

// TokenResponse is the login success body.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserView is the outward representation of an account. It never carries
// the password hash; the picture is a data URI when present.
type UserView struct {
	Id             int    `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Level          string `json:"user_level"`
	Status         string `json:"status"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// NewUserView converts a record, rendering the stored base64 picture as a
// data URI the way browsers consume it.
func NewUserView(user *model.User) UserView {
	view := UserView{
		Id:       user.Id,
		Username: user.Username,
		Email:    user.Email,
		Level:    user.Level,
		Status:   user.Status,
	}
	if user.ProfilePicture != "" {
		view.ProfilePicture = "data:image/jpeg;base64," + user.ProfilePicture
	}
	return view
}

// LoginForm is the login request body. UsernameOrEmail takes precedence
// over Username when both are supplied.
type LoginForm struct {
	Username        string `json:"username" form:"username"`
	UsernameOrEmail string `json:"usernameOrEmail" form:"usernameOrEmail"`
	Password        string `json:"password" form:"password"`
}

// Identifier returns the login identifier the client supplied.
func (f *LoginForm) Identifier() string {
	if f.UsernameOrEmail != "" {
		return f.UsernameOrEmail
	}
	return f.Username
}

// CreateUserForm is the admin user-creation request body.
type CreateUserForm struct {
	Username string `json:"username" form:"username" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Level    string `json:"userLevel" form:"userLevel"`
	Status   string `json:"status" form:"status"`
}

// UpdateUserForm is the admin user-update request body. Empty fields are
// left unchanged.
type UpdateUserForm struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Level    string `json:"userLevel" form:"userLevel"`
	Status   string `json:"status" form:"status"`
}

// ForgotPasswordForm is the reset-request body.
type ForgotPasswordForm struct {
	Email string `json:"email" form:"email" binding:"required"`
}
