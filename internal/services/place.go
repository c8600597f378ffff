package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/placeshare-backend/internal/data/repos"
	types "github.com/yungbote/placeshare-backend/internal/domain"
	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
	"github.com/yungbote/placeshare-backend/internal/platform/gcp"
	"github.com/yungbote/placeshare-backend/internal/platform/geo"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

// PlaceService owns the place lifecycle. Mutations keep two invariants:
//
//   - the place table and the owner's ordered place sequence (user_place)
//     move together, inside one database transaction;
//   - a place row never points at an image object that was not stored
//     first, and blobs are only deleted after the database state that
//     referenced them is committed away.
type PlaceService interface {
	Create(ctx context.Context, actorUserID uuid.UUID, input CreatePlaceInput) (*types.Place, error)
	Update(ctx context.Context, actorUserID, placeID uuid.UUID, input UpdatePlaceInput) (*types.Place, error)
	Delete(ctx context.Context, actorUserID, placeID uuid.UUID) error
	GetByID(ctx context.Context, placeID uuid.UUID) (*types.Place, error)
	ListAll(ctx context.Context) ([]*types.Place, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]*types.Place, error)
}

type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	Image       []byte
}

type UpdatePlaceInput struct {
	Title       string
	Description string
	// Image replaces the current picture when non-empty.
	Image []byte
}

type placeService struct {
	db            *gorm.DB
	log           *logger.Logger
	placeRepo     repos.PlaceRepo
	userRepo      repos.UserRepo
	geocoder      geo.Geocoder
	bucketService gcp.BucketService
}

func NewPlaceService(
	db *gorm.DB,
	log *logger.Logger,
	placeRepo repos.PlaceRepo,
	userRepo repos.UserRepo,
	geocoder geo.Geocoder,
	bucketService gcp.BucketService,
) PlaceService {
	return &placeService{
		db:            db,
		log:           log.With("service", "PlaceService"),
		placeRepo:     placeRepo,
		userRepo:      userRepo,
		geocoder:      geocoder,
		bucketService: bucketService,
	}
}

func (ps *placeService) Create(ctx context.Context, actorUserID uuid.UUID, input CreatePlaceInput) (*types.Place, error) {
	if actorUserID == uuid.Nil {
		return nil, fmt.Errorf("missing actor: %w", pkgerrors.ErrUnauthorized)
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	address := strings.TrimSpace(input.Address)
	switch {
	case title == "":
		return nil, fmt.Errorf("title is required: %w", pkgerrors.ErrInvalidArgument)
	case description == "":
		return nil, fmt.Errorf("description is required: %w", pkgerrors.ErrInvalidArgument)
	case address == "":
		return nil, fmt.Errorf("address is required: %w", pkgerrors.ErrInvalidArgument)
	case len(input.Image) == 0:
		return nil, fmt.Errorf("image is required: %w", pkgerrors.ErrInvalidArgument)
	}

	// Resolve before touching storage so geocode failures leave nothing
	// behind.
	coords, err := ps.geocoder.Resolve(ctx, address)
	if err != nil {
		return nil, err
	}

	placeID := uuid.New()
	imageKey := placeImageKey(placeID)
	if err := ps.bucketService.UploadFile(ctx, imageKey, bytes.NewReader(input.Image)); err != nil {
		return nil, fmt.Errorf("store place image: %w: %v", pkgerrors.ErrStorage, err)
	}

	creators, err := ps.userRepo.GetByIDs(ctx, nil, []uuid.UUID{actorUserID})
	if err != nil {
		ps.cleanupBlob(ctx, imageKey)
		return nil, fmt.Errorf("load creator: %w: %v", pkgerrors.ErrPersistence, err)
	}
	if len(creators) == 0 {
		// An authenticated actor with no user row means auth and the user
		// table disagree, not a bad request.
		ps.cleanupBlob(ctx, imageKey)
		return nil, fmt.Errorf("creator %s no longer exists: %w", actorUserID, pkgerrors.ErrConsistency)
	}

	newPlace := &types.Place{
		ID:          placeID,
		Title:       title,
		Description: description,
		Address:     address,
		Location:    coords,
		ImageKey:    imageKey,
		ImageURL:    ps.bucketService.GetPublicURL(imageKey),
		CreatorID:   actorUserID,
	}

	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ps.placeRepo.Create(ctx, tx, newPlace); err != nil {
			return fmt.Errorf("insert place: %w", err)
		}
		if err := ps.userRepo.AppendPlace(ctx, tx, actorUserID, placeID); err != nil {
			return fmt.Errorf("append to user sequence: %w", err)
		}
		return nil
	})
	if txErr != nil {
		ps.cleanupBlob(ctx, imageKey)
		return nil, fmt.Errorf("create place: %w: %v", pkgerrors.ErrPersistence, txErr)
	}

	ps.log.Info("place created", "place_id", placeID, "creator_id", actorUserID)
	return newPlace, nil
}

func (ps *placeService) Update(ctx context.Context, actorUserID, placeID uuid.UUID, input UpdatePlaceInput) (*types.Place, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	switch {
	case title == "":
		return nil, fmt.Errorf("title is required: %w", pkgerrors.ErrInvalidArgument)
	case description == "":
		return nil, fmt.Errorf("description is required: %w", pkgerrors.ErrInvalidArgument)
	}

	existing, err := ps.placeRepo.GetByID(ctx, nil, placeID)
	if err != nil {
		return nil, fmt.Errorf("load place: %w: %v", pkgerrors.ErrPersistence, err)
	}
	if existing == nil {
		return nil, fmt.Errorf("place %s: %w", placeID, pkgerrors.ErrNotFound)
	}
	if !existing.OwnedBy(actorUserID) {
		return nil, fmt.Errorf("place %s is not owned by %s: %w", placeID, actorUserID, pkgerrors.ErrForbidden)
	}

	fields := map[string]any{
		"title":       title,
		"description": description,
	}

	oldKey := ""
	if len(input.Image) > 0 {
		newKey := placeImageKey(placeID)
		if err := ps.bucketService.UploadFile(ctx, newKey, bytes.NewReader(input.Image)); err != nil {
			return nil, fmt.Errorf("store place image: %w: %v", pkgerrors.ErrStorage, err)
		}
		oldKey = existing.ImageKey
		existing.ImageKey = newKey
		existing.ImageURL = ps.bucketService.GetPublicURL(newKey)
		fields["image_key"] = existing.ImageKey
		fields["image_url"] = existing.ImageURL
	}

	if err := ps.placeRepo.UpdateFields(ctx, nil, placeID, fields); err != nil {
		// The row still references the old blob; the new one is the orphan.
		if len(input.Image) > 0 {
			ps.cleanupBlob(ctx, fields["image_key"].(string))
		}
		return nil, fmt.Errorf("update place: %w: %v", pkgerrors.ErrPersistence, err)
	}

	// Only after the swap is committed is the old blob unreferenced.
	if oldKey != "" {
		ps.cleanupBlob(ctx, oldKey)
	}

	existing.Title = title
	existing.Description = description
	return existing, nil
}

func (ps *placeService) Delete(ctx context.Context, actorUserID, placeID uuid.UUID) error {
	existing, err := ps.placeRepo.GetByIDWithCreator(ctx, nil, placeID)
	if err != nil {
		return fmt.Errorf("load place: %w: %v", pkgerrors.ErrPersistence, err)
	}
	if existing == nil {
		return fmt.Errorf("place %s: %w", placeID, pkgerrors.ErrNotFound)
	}
	if !existing.OwnedBy(actorUserID) {
		return fmt.Errorf("place %s is not owned by %s: %w", placeID, actorUserID, pkgerrors.ErrForbidden)
	}

	imageKey := existing.ImageKey

	txErr := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.placeRepo.DeleteByID(ctx, tx, placeID); err != nil {
			return fmt.Errorf("delete place: %w", err)
		}
		if err := ps.userRepo.RemovePlace(ctx, tx, existing.CreatorID, placeID); err != nil {
			return fmt.Errorf("remove from user sequence: %w", err)
		}
		return nil
	})
	if txErr != nil {
		// Nothing was committed, so the blob stays referenced and stays put.
		return fmt.Errorf("delete place: %w: %v", pkgerrors.ErrPersistence, txErr)
	}

	// Post-commit: the image is unreferenced. Removal is best-effort; the
	// reconcile sweep picks up anything missed here.
	ps.cleanupBlob(ctx, imageKey)

	ps.log.Info("place deleted", "place_id", placeID, "creator_id", existing.CreatorID)
	return nil
}

func (ps *placeService) GetByID(ctx context.Context, placeID uuid.UUID) (*types.Place, error) {
	result, err := ps.placeRepo.GetByID(ctx, nil, placeID)
	if err != nil {
		return nil, fmt.Errorf("load place: %w: %v", pkgerrors.ErrPersistence, err)
	}
	if result == nil {
		return nil, fmt.Errorf("place %s: %w", placeID, pkgerrors.ErrNotFound)
	}
	return result, nil
}

func (ps *placeService) ListAll(ctx context.Context) ([]*types.Place, error) {
	results, err := ps.placeRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list places: %w: %v", pkgerrors.ErrPersistence, err)
	}
	return results, nil
}

// ListByCreator returns the user's places in the order they were added to the
// user's sequence. An unknown user yields an empty list, not an error.
func (ps *placeService) ListByCreator(ctx context.Context, userID uuid.UUID) ([]*types.Place, error) {
	ids, err := ps.userRepo.ListPlaceIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("list place ids: %w: %v", pkgerrors.ErrPersistence, err)
	}
	results, err := ps.placeRepo.ListByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("list places: %w: %v", pkgerrors.ErrPersistence, err)
	}
	return results, nil
}

func (ps *placeService) cleanupBlob(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := ps.bucketService.DeleteFile(ctx, key); err != nil {
		ps.log.Error("orphaned blob cleanup failed", "key", key, "error", err)
	}
}

func placeImageKey(placeID uuid.UUID) string {
	return fmt.Sprintf("place_image/%s/%d", placeID.String(), time.Now().UnixNano())
}
