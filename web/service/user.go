// Package service implements the business logic of the user panel:
// credential verification, account management, notifications and system
// status reporting.
package service

import (
	"errors"

	"user-panel/database"
	"user-panel/database/model"
	"user-panel/logger"
	"user-panel/util/crypto"
	"user-panel/web/token"
)

// Sentinel errors the controllers translate into HTTP statuses. Anything
// else coming out of this service is a persistence fault and must be
// surfaced as a generic 500 without driver detail.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLevelMissing       = errors.New("user level is missing in database")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidLevel       = errors.New("invalid user level")
	ErrPictureNotFound    = errors.New("profile picture not found")
)

type UserService struct{}

// Authenticate verifies the identifier/password pair and issues an access
// token. The identifier matches username or email exactly, never a pattern.
func (s *UserService) Authenticate(identifier string, password string) (string, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ? OR email = ?", identifier, identifier).
		First(user).
		Error
	if database.IsNotFound(err) {
		CountLoginFailure()
		return "", ErrUserNotFound
	} else if err != nil {
		return "", err
	}

	if !crypto.CheckPasswordHash(user.PasswordHash, password) {
		CountLoginFailure()
		return "", ErrInvalidCredentials
	}

	// An account without a level is a deployment fault, not a bad login.
	if user.Level == "" {
		logger.Errorf("user level missing for user %q", user.Username)
		return "", ErrLevelMissing
	}

	tokenString, err := token.Generate(user)
	if err != nil {
		return "", err
	}

	CountLoginSuccess()
	return tokenString, nil
}

// Register creates a new account. The uniqueness pre-check gives friendly
// errors; the UNIQUE constraints on username and email are the actual
// guarantee when two registrations race.
func (s *UserService) Register(user *model.User, confirmPassword string) error {
	if user.Password != confirmPassword {
		return ErrPasswordMismatch
	}
	return s.create(user)
}

// CreateUser persists an account on behalf of an administrator.
func (s *UserService) CreateUser(user *model.User) error {
	return s.create(user)
}

func (s *UserService) create(user *model.User) error {
	if user.Level == "" {
		user.Level = model.LevelUser
	}
	if !model.ValidLevel(user.Level) {
		return ErrInvalidLevel
	}
	if user.Status == "" {
		user.Status = model.StatusActive
	}

	db := database.GetDB()

	var count int64
	err := db.Model(model.User{}).
		Where("username = ? OR email = ?", user.Username, user.Email).
		Count(&count).
		Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrUserExists
	}

	hash, err := crypto.HashPasswordAsBcrypt(user.Password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.Password = ""

	err = db.Create(user).Error
	if database.IsDuplicate(err) {
		return ErrUserExists
	} else if err != nil {
		return err
	}

	CountRegistration()
	return nil
}

func (s *UserService) GetUser(id int) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("id = ?", id).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByEmail(email string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("email = ?", email).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers() ([]model.User, error) {
	db := database.GetDB()

	var users []model.User
	err := db.Model(model.User{}).
		Order("id").
		Find(&users).
		Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser changes account fields. Password and profile picture are left
// untouched; level must stay inside the closed set.
func (s *UserService) UpdateUser(id int, username string, email string, level string, status string) error {
	if level != "" && !model.ValidLevel(level) {
		return ErrInvalidLevel
	}

	db := database.GetDB()

	values := map[string]any{}
	if username != "" {
		values["username"] = username
	}
	if email != "" {
		values["email"] = email
	}
	if level != "" {
		values["user_level"] = level
	}
	if status != "" {
		values["status"] = status
	}

	result := db.Model(model.User{}).
		Where("id = ?", id).
		Updates(values)
	if database.IsDuplicate(result.Error) {
		return ErrUserExists
	} else if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserService) DeleteUser(id int) error {
	db := database.GetDB()

	result := db.Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ProfilePicture returns the stored base64 payload for the given user.
func (s *UserService) ProfilePicture(id int) (string, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return "", err
	}
	if user.ProfilePicture == "" {
		return "", ErrPictureNotFound
	}
	return user.ProfilePicture, nil
}
