package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/placeshare-backend/internal/data/repos"
	"github.com/yungbote/placeshare-backend/internal/data/repos/testutil"
	types "github.com/yungbote/placeshare-backend/internal/domain"
)

func keyAt(prefix string, ts time.Time) string {
	return fmt.Sprintf("%s/%s/%d", prefix, uuid.NewString(), ts.UnixNano())
}

func TestReconcileRemovesOnlyAgedOrphans(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	bucket := newFakeBucket()
	userRepo := repos.NewUserRepo(db, log)
	placeRepo := repos.NewPlaceRepo(db, log)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)

	referencedKey := keyAt("place_image", old)
	orphanOldKey := keyAt("place_image", old)
	orphanFreshKey := keyAt("place_image", time.Now())
	avatarOrphanKey := keyAt("user_avatar", old) + ".png"

	for _, k := range []string{referencedKey, orphanOldKey, orphanFreshKey, avatarOrphanKey} {
		bucket.objects[k] = []byte("blob")
	}

	owner := &types.User{
		ID:       uuid.New(),
		Name:     "Owner",
		Email:    uniqueEmail(),
		Password: "hashed",
	}
	if _, err := userRepo.Create(ctx, nil, []*types.User{owner}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	referenced := &types.Place{
		ID:          uuid.New(),
		Title:       "Kept",
		Description: "Referenced by a live row",
		Address:     "somewhere",
		ImageKey:    referencedKey,
		CreatorID:   owner.ID,
	}
	if _, err := placeRepo.Create(ctx, nil, referenced); err != nil {
		t.Fatalf("create place: %v", err)
	}

	service := NewReconcileService(db, log, userRepo, placeRepo, bucket)
	if err := service.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if !bucket.has(referencedKey) {
		t.Fatalf("referenced blob was removed")
	}
	if !bucket.has(orphanFreshKey) {
		t.Fatalf("fresh orphan removed inside grace window")
	}
	if bucket.has(orphanOldKey) {
		t.Fatalf("aged place orphan survived the sweep")
	}
	if bucket.has(avatarOrphanKey) {
		t.Fatalf("aged avatar orphan survived the sweep")
	}
}

func TestBlobAge(t *testing.T) {
	now := time.Now()

	key := fmt.Sprintf("place_image/%s/%d", uuid.NewString(), now.Add(-2*time.Hour).UnixNano())
	age, ok := blobAge(key, now)
	if !ok || age < time.Hour {
		t.Fatalf("blobAge(%q) = (%v, %v)", key, age, ok)
	}

	if _, ok := blobAge("place_image/unparseable", now); ok {
		t.Fatalf("blobAge accepted a key without a timestamp segment")
	}
}
