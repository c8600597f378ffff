package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/placeshare-backend/internal/data/repos/testutil"
	types "github.com/yungbote/placeshare-backend/internal/domain"
)

func seedUser(t *testing.T, repo UserRepo) *types.User {
	t.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Name:     "Repo Test User",
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "hashed",
	}
	if _, err := repo.Create(context.Background(), nil, []*types.User{u}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return u
}

func TestEmailExists(t *testing.T) {
	repo := NewUserRepo(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()
	u := seedUser(t, repo)

	exists, err := repo.EmailExists(ctx, nil, u.Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists(%q) = false after create", u.Email)
	}

	exists, err = repo.EmailExists(ctx, nil, "nobody@example.com")
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if exists {
		t.Fatalf("EmailExists reported a missing email as present")
	}
}

func TestGetByIDs(t *testing.T) {
	repo := NewUserRepo(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()
	u := seedUser(t, repo)

	users, err := repo.GetByIDs(ctx, nil, []uuid.UUID{u.ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(users) != 1 || users[0].ID != u.ID {
		t.Fatalf("GetByIDs = %v", users)
	}

	users, err = repo.GetByIDs(ctx, nil, []uuid.UUID{uuid.New()})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("GetByIDs returned rows for an unknown id")
	}
}

func TestAppendPlaceAssignsSequentialPositions(t *testing.T) {
	repo := NewUserRepo(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()
	u := seedUser(t, repo)

	want := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, placeID := range want {
		if err := repo.AppendPlace(ctx, nil, u.ID, placeID); err != nil {
			t.Fatalf("AppendPlace: %v", err)
		}
	}

	got, err := repo.ListPlaceIDs(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("ListPlaceIDs: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d ids, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestRemovePlaceKeepsRelativeOrder(t *testing.T) {
	repo := NewUserRepo(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()
	u := seedUser(t, repo)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, placeID := range ids {
		if err := repo.AppendPlace(ctx, nil, u.ID, placeID); err != nil {
			t.Fatalf("AppendPlace: %v", err)
		}
	}

	if err := repo.RemovePlace(ctx, nil, u.ID, ids[1]); err != nil {
		t.Fatalf("RemovePlace: %v", err)
	}

	got, err := repo.ListPlaceIDs(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("ListPlaceIDs: %v", err)
	}
	if len(got) != 2 || got[0] != ids[0] || got[1] != ids[2] {
		t.Fatalf("ListPlaceIDs after remove = %v, want [%s %s]", got, ids[0], ids[2])
	}

	// Removing an id that is not linked is a no-op, not an error.
	if err := repo.RemovePlace(ctx, nil, u.ID, uuid.New()); err != nil {
		t.Fatalf("RemovePlace of unlinked id: %v", err)
	}
}

func TestAppendPlaceResumesAfterRemoval(t *testing.T) {
	repo := NewUserRepo(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()
	u := seedUser(t, repo)

	first, second := uuid.New(), uuid.New()
	if err := repo.AppendPlace(ctx, nil, u.ID, first); err != nil {
		t.Fatalf("AppendPlace: %v", err)
	}
	if err := repo.AppendPlace(ctx, nil, u.ID, second); err != nil {
		t.Fatalf("AppendPlace: %v", err)
	}
	if err := repo.RemovePlace(ctx, nil, u.ID, first); err != nil {
		t.Fatalf("RemovePlace: %v", err)
	}

	third := uuid.New()
	if err := repo.AppendPlace(ctx, nil, u.ID, third); err != nil {
		t.Fatalf("AppendPlace: %v", err)
	}

	got, err := repo.ListPlaceIDs(ctx, nil, u.ID)
	if err != nil {
		t.Fatalf("ListPlaceIDs: %v", err)
	}
	if len(got) != 2 || got[0] != second || got[1] != third {
		t.Fatalf("ListPlaceIDs = %v, want [%s %s]", got, second, third)
	}
}

func TestUpdateAvatarFields(t *testing.T) {
	repo := NewUserRepo(testutil.DB(t), testutil.Logger(t))
	ctx := context.Background()
	u := seedUser(t, repo)

	if err := repo.UpdateAvatarFields(ctx, nil, u.ID, "user_avatar/x/1.png", "https://cdn/x"); err != nil {
		t.Fatalf("UpdateAvatarFields: %v", err)
	}

	users, err := repo.GetByIDs(ctx, nil, []uuid.UUID{u.ID})
	if err != nil || len(users) != 1 {
		t.Fatalf("GetByIDs: %v, %v", users, err)
	}
	if users[0].ImageKey != "user_avatar/x/1.png" || users[0].ImageURL != "https://cdn/x" {
		t.Fatalf("avatar fields = (%q, %q)", users[0].ImageKey, users[0].ImageURL)
	}
}
