package service

import (
	"os"
	"sync"
	"testing"

	"user-panel/database"
	"user-panel/database/model"
	"user-panel/web/token"

	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T) {
	t.Helper()
	teardownFiles()
	if err := database.InitDB("test.db"); err != nil {
		t.Fatal(err)
	}
	if err := token.Init("test-secret"); err != nil {
		t.Fatal(err)
	}
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	teardownFiles()
}

func teardownFiles() {
	os.Remove("test.db")
	os.Remove("test.db-wal")
	os.Remove("test.db-shm")
}

func registered(t *testing.T, svc *UserService, username, email, password string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    email,
		Password: password,
	}
	if err := svc.Register(user, password); err != nil {
		t.Fatal(err)
	}
	return user
}

func TestRegisterThenAuthenticate(t *testing.T) {
	setup(t)
	defer teardown()

	svc := &UserService{}
	registered(t, svc, "alice", "alice@x.com", "pw123")

	// By username
	tokenString, err := svc.Authenticate("alice", "pw123")
	assert.NoError(t, err)
	claims, err := token.Parse(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.LevelUser, claims.Level)

	// By email
	_, err = svc.Authenticate("alice@x.com", "pw123")
	assert.NoError(t, err)

	// Wrong password, off by one character
	_, err = svc.Authenticate("alice", "pw124")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown identifier
	_, err = svc.Authenticate("nobody", "pw123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRegisterValidation(t *testing.T) {
	setup(t)
	defer teardown()

	svc := &UserService{}

	err := svc.Register(&model.User{Username: "bob", Email: "bob@x.com", Password: "pw"}, "other")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	err = svc.Register(&model.User{Username: "bob", Email: "bob@x.com", Password: "pw", Level: "Root"}, "pw")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestRegisterConflict(t *testing.T) {
	setup(t)
	defer teardown()

	svc := &UserService{}
	registered(t, svc, "alice", "alice@x.com", "pw123")

	// Same username, different email
	err := svc.Register(&model.User{Username: "alice", Email: "alice2@x.com", Password: "pw123"}, "pw123")
	assert.ErrorIs(t, err, ErrUserExists)

	// Same email, different username
	err = svc.Register(&model.User{Username: "alice2", Email: "alice@x.com", Password: "pw123"}, "pw123")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestConcurrentDuplicateRegistration(t *testing.T) {
	setup(t)
	defer teardown()

	svc := &UserService{}

	// Two simultaneous registrations with the same username: the UNIQUE
	// constraint must let exactly one through, the other gets the
	// conflict error, and nothing crashes.
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := &model.User{
				Username: "carol",
				Email:    "carol" + string(rune('0'+i)) + "@x.com",
				Password: "pw123",
			}
			errs[i] = svc.Register(user, "pw123")
		}(i)
	}
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case err == ErrUserExists:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

func TestAuthenticateMissingLevel(t *testing.T) {
	setup(t)
	defer teardown()

	svc := &UserService{}
	user := registered(t, svc, "dave", "dave@x.com", "pw123")

	// A record without a level is a server misconfiguration.
	err := database.GetDB().Model(model.User{}).
		Where("id = ?", user.Id).
		Update("user_level", "").
		Error
	assert.NoError(t, err)

	_, err = svc.Authenticate("dave", "pw123")
	assert.ErrorIs(t, err, ErrLevelMissing)
}

func TestTokenCarriesLevelAtIssuance(t *testing.T) {
	setup(t)
	defer teardown()

	svc := &UserService{}
	user := registered(t, svc, "erin", "erin@x.com", "pw123")

	tokenString, err := svc.Authenticate("erin", "pw123")
	assert.NoError(t, err)

	// Promote after issuance: the outstanding token keeps the old level.
	assert.NoError(t, svc.UpdateUser(user.Id, "", "", model.LevelAdmin, ""))

	claims, err := token.Parse(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, model.LevelUser, claims.Level)
}

func TestUserCRUD(t *testing.T) {
	setup(t)
	defer teardown()

	svc := &UserService{}

	user := &model.User{
		Username: "frank",
		Email:    "frank@x.com",
		Password: "pw123",
		Level:    model.LevelAdmin,
	}
	assert.NoError(t, svc.CreateUser(user))

	got, err := svc.GetUser(user.Id)
	assert.NoError(t, err)
	assert.Equal(t, "frank", got.Username)
	assert.Equal(t, model.LevelAdmin, got.Level)
	assert.Empty(t, got.Password)
	assert.NotEmpty(t, got.PasswordHash)

	users, err := svc.ListUsers()
	assert.NoError(t, err)
	assert.Len(t, users, 2) // seeded admin + frank

	assert.NoError(t, svc.UpdateUser(user.Id, "franklin", "", "", model.StatusInactive))
	got, err = svc.GetUser(user.Id)
	assert.NoError(t, err)
	assert.Equal(t, "franklin", got.Username)
	assert.Equal(t, model.StatusInactive, got.Status)

	assert.ErrorIs(t, svc.UpdateUser(9999, "x", "", "", ""), ErrUserNotFound)

	assert.NoError(t, svc.DeleteUser(user.Id))
	assert.ErrorIs(t, svc.DeleteUser(user.Id), ErrUserNotFound)
	_, err = svc.GetUser(user.Id)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfilePicture(t *testing.T) {
	setup(t)
	defer teardown()

	svc := &UserService{}

	withPicture := &model.User{
		Username:       "grace",
		Email:          "grace@x.com",
		Password:       "pw123",
		ProfilePicture: "aGVsbG8=",
	}
	assert.NoError(t, svc.CreateUser(withPicture))

	picture, err := svc.ProfilePicture(withPicture.Id)
	assert.NoError(t, err)
	assert.Equal(t, "aGVsbG8=", picture)

	plain := registered(t, svc, "heidi", "heidi@x.com", "pw123")
	_, err = svc.ProfilePicture(plain.Id)
	assert.ErrorIs(t, err, ErrPictureNotFound)

	_, err = svc.ProfilePicture(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
