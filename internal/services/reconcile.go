package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/placeshare-backend/internal/data/repos"
	"github.com/yungbote/placeshare-backend/internal/platform/env"
	"github.com/yungbote/placeshare-backend/internal/platform/gcp"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
)

// ReconcileService sweeps the bucket for blobs no database row references.
// Mutations already delete blobs best-effort after commit; this catches the
// ones those deletes missed (process crash, transient storage error).
type ReconcileService interface {
	RunOnce(ctx context.Context) error
	Start(ctx context.Context)
}

// Blobs younger than the grace window are skipped: they may belong to a
// create that has stored its image but not yet committed.
const reconcileGrace = time.Hour

var blobPrefixes = []string{"place_image/", "user_avatar/"}

type reconcileService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	placeRepo     repos.PlaceRepo
	bucketService gcp.BucketService
	interval      time.Duration
}

func NewReconcileService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	placeRepo repos.PlaceRepo,
	bucketService gcp.BucketService,
) ReconcileService {
	serviceLog := log.With("service", "ReconcileService")

	interval := 6 * time.Hour
	if raw := env.Get("RECONCILE_INTERVAL", "6h", serviceLog); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			serviceLog.Warn("invalid RECONCILE_INTERVAL, using default", "value", raw)
		} else {
			interval = parsed
		}
	}

	return &reconcileService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		placeRepo:     placeRepo,
		bucketService: bucketService,
		interval:      interval,
	}
}

func (rs *reconcileService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(rs.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := rs.RunOnce(ctx); err != nil {
					rs.log.Error("reconcile sweep failed", "error", err)
				}
			}
		}
	}()
}

func (rs *reconcileService) RunOnce(ctx context.Context) error {
	var (
		stored     []string
		referenced map[string]struct{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for _, prefix := range blobPrefixes {
			keys, err := rs.bucketService.ListKeys(gctx, prefix)
			if err != nil {
				return fmt.Errorf("list bucket keys %q: %w", prefix, err)
			}
			stored = append(stored, keys...)
		}
		return nil
	})
	g.Go(func() error {
		userKeys, err := rs.userRepo.ListImageKeys(gctx, nil)
		if err != nil {
			return fmt.Errorf("list user image keys: %w", err)
		}
		placeKeys, err := rs.placeRepo.ListImageKeys(gctx, nil)
		if err != nil {
			return fmt.Errorf("list place image keys: %w", err)
		}
		referenced = make(map[string]struct{}, len(userKeys)+len(placeKeys))
		for _, k := range userKeys {
			referenced[k] = struct{}{}
		}
		for _, k := range placeKeys {
			referenced[k] = struct{}{}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	now := time.Now()
	removed := 0
	for _, key := range stored {
		if _, ok := referenced[key]; ok {
			continue
		}
		if age, ok := blobAge(key, now); !ok || age < reconcileGrace {
			continue
		}
		if err := rs.bucketService.DeleteFile(ctx, key); err != nil {
			rs.log.Error("orphan delete failed", "key", key, "error", err)
			continue
		}
		removed++
	}
	if removed > 0 {
		rs.log.Info("reconcile sweep removed orphans", "count", removed)
	}
	return nil
}

// blobAge recovers the upload time from the key's trailing UnixNano segment
// (the convention all image keys in this service follow).
func blobAge(key string, now time.Time) (time.Duration, bool) {
	segments := strings.Split(key, "/")
	last := segments[len(segments)-1]
	last = strings.TrimSuffix(last, ".png")
	nanos, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return 0, false
	}
	return now.Sub(time.Unix(0, nanos)), true
}
