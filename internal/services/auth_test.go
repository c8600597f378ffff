package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/placeshare-backend/internal/data/repos"
	"github.com/yungbote/placeshare-backend/internal/data/repos/testutil"
	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
)

type authFixture struct {
	bucket   *fakeBucket
	userRepo repos.UserRepo
	service  AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db := testutil.DB(t)
	log := testutil.Logger(t)
	bucket := newFakeBucket()
	userRepo := repos.NewUserRepo(db, log)

	avatarService, err := NewAvatarService(log, bucket)
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}
	authService, err := NewAuthService(db, log, userRepo, avatarService, bucket)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return &authFixture{bucket: bucket, userRepo: userRepo, service: authService}
}

func uniqueEmail() string {
	return fmt.Sprintf("%s@example.com", uuid.NewString())
}

func TestRegisterLoginVerify(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	email := uniqueEmail()

	registered, token, err := f.service.Register(ctx, RegisterInput{
		Name:     "Ada Lovelace",
		Email:    strings.ToUpper(email),
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if registered.Email != email {
		t.Fatalf("email not normalized: %q", registered.Email)
	}
	if registered.ImageKey == "" || !f.bucket.has(registered.ImageKey) {
		t.Fatalf("generated avatar not stored: %+v", registered)
	}

	userID, claimEmail, err := f.service.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if userID != registered.ID || claimEmail != email {
		t.Fatalf("claims = (%s, %s), want (%s, %s)", userID, claimEmail, registered.ID, email)
	}

	loggedIn, _, err := f.service.Login(ctx, email, "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != registered.ID {
		t.Fatalf("Login returned wrong user: %s", loggedIn.ID)
	}

	_, _, err = f.service.Login(ctx, email, "wrong password")
	if !errors.Is(err, pkgerrors.ErrUnauthorized) {
		t.Fatalf("Login with bad password: want ErrUnauthorized, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	email := uniqueEmail()

	input := RegisterInput{Name: "First", Email: email, Password: "password1"}
	if _, _, err := f.service.Register(ctx, input); err != nil {
		t.Fatalf("Register: %v", err)
	}

	input.Name = "Second"
	_, _, err := f.service.Register(ctx, input)
	if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("duplicate Register: want ErrInvalidArgument, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"empty name", RegisterInput{Name: " ", Email: uniqueEmail(), Password: "password1"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "password1"}},
		{"short password", RegisterInput{Name: "A", Email: uniqueEmail(), Password: "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.service.Register(ctx, tc.input)
			if !errors.Is(err, pkgerrors.ErrInvalidArgument) {
				t.Fatalf("Register: want ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	f := newAuthFixture(t)

	for _, token := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, _, err := f.service.VerifyToken(token); !errors.Is(err, pkgerrors.ErrUnauthorized) {
			t.Fatalf("VerifyToken(%q): want ErrUnauthorized, got %v", token, err)
		}
	}
}
