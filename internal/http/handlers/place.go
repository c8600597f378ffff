package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/placeshare-backend/internal/http/response"
	pkgerrors "github.com/yungbote/placeshare-backend/internal/pkg/errors"
	"github.com/yungbote/placeshare-backend/internal/platform/logger"
	"github.com/yungbote/placeshare-backend/internal/requestdata"
	"github.com/yungbote/placeshare-backend/internal/services"
)

type PlaceHandler struct {
	log          *logger.Logger
	placeService services.PlaceService
}

func NewPlaceHandler(log *logger.Logger, placeService services.PlaceService) *PlaceHandler {
	return &PlaceHandler{
		log:          log.With("handler", "PlaceHandler"),
		placeService: placeService,
	}
}

// Create accepts a multipart form: title, description, address and an image
// file. The creator is always the authenticated actor, never form input.
func (h *PlaceHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.Fail(c, fmt.Errorf("missing identity: %w", pkgerrors.ErrUnauthorized))
		return
	}

	image, err := readFormImage(c, "image")
	if err != nil {
		response.Fail(c, err)
		return
	}

	place, err := h.placeService.Create(c.Request.Context(), rd.UserID, services.CreatePlaceInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Address:     c.PostForm("address"),
		Image:       image,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusCreated, gin.H{"place": place})
}

type updatePlaceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Update accepts either JSON (title, description) or a multipart form that
// additionally carries a replacement image file.
func (h *PlaceHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.Fail(c, fmt.Errorf("missing identity: %w", pkgerrors.ErrUnauthorized))
		return
	}

	placeID, err := parseIDParam(c, "pid")
	if err != nil {
		response.Fail(c, err)
		return
	}

	input := services.UpdatePlaceInput{}
	if c.ContentType() == "application/json" {
		var req updatePlaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Fail(c, fmt.Errorf("invalid request body: %w", pkgerrors.ErrInvalidArgument))
			return
		}
		input.Title = req.Title
		input.Description = req.Description
	} else {
		image, err := readFormImage(c, "image")
		if err != nil {
			response.Fail(c, err)
			return
		}
		input.Title = c.PostForm("title")
		input.Description = c.PostForm("description")
		input.Image = image
	}

	place, err := h.placeService.Update(c.Request.Context(), rd.UserID, placeID, input)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"place": place})
}

func (h *PlaceHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.Fail(c, fmt.Errorf("missing identity: %w", pkgerrors.ErrUnauthorized))
		return
	}

	placeID, err := parseIDParam(c, "pid")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.placeService.Delete(c.Request.Context(), rd.UserID, placeID); err != nil {
		response.Fail(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"deleted": placeID})
}

func (h *PlaceHandler) GetByID(c *gin.Context) {
	placeID, err := parseIDParam(c, "pid")
	if err != nil {
		response.Fail(c, err)
		return
	}

	place, err := h.placeService.GetByID(c.Request.Context(), placeID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"place": place})
}

func (h *PlaceHandler) ListAll(c *gin.Context) {
	places, err := h.placeService.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"places": places})
}

func (h *PlaceHandler) ListByCreator(c *gin.Context) {
	userID, err := parseIDParam(c, "uid")
	if err != nil {
		response.Fail(c, err)
		return
	}

	places, err := h.placeService.ListByCreator(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"places": places})
}
