package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/placeshare-backend/internal/platform/apierr"
)

// maxImageBytes caps uploaded image size; anything larger fails validation
// instead of buffering unbounded request bodies.
const maxImageBytes = 8 << 20

func errImageTooLarge() error {
	return apierr.New(http.StatusRequestEntityTooLarge, "image_too_large",
		fmt.Errorf("image exceeds %d bytes", maxImageBytes))
}

// parseIDParam parses a uuid route parameter. A malformed id is a transport
// problem, not a service one, so it gets an explicit 400 rather than going
// through the sentinel taxonomy.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.New(http.StatusBadRequest, "invalid_id",
			fmt.Errorf("malformed %s %q", name, c.Param(name)))
	}
	return id, nil
}

// readFormImage reads the named multipart file. When the field is absent it
// returns (nil, nil) so callers can decide whether the image is required.
func readFormImage(c *gin.Context, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	if fileHeader.Size > maxImageBytes {
		return nil, errImageTooLarge()
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded image: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded image: %w", err)
	}
	if len(raw) > maxImageBytes {
		return nil, errImageTooLarge()
	}
	return raw, nil
}
