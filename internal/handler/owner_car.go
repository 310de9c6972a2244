package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/labstack/echo/v4"

	"github.com/borrowmycar/backend/internal/model"
	"github.com/borrowmycar/backend/internal/repository"
)

// OwnerCarHandler lets owners manage their car listings. All methods
// assume JWT authentication and the OWNER role check have already
// been performed by middleware.
type OwnerCarHandler struct {
	Cars *repository.CarRepo
	CLD  *cloudinary.Cloudinary // nil disables image upload
}

// NewOwnerCarHandler constructs an OwnerCarHandler. The Cloudinary
// client may be nil when no credentials are configured; uploads then
// return 503.
func NewOwnerCarHandler(cars *repository.CarRepo, cld *cloudinary.Cloudinary) *OwnerCarHandler {
	if cars == nil {
		panic("nil repository passed to NewOwnerCarHandler")
	}
	return &OwnerCarHandler{Cars: cars, CLD: cld}
}

type createCarReq struct {
	Title         string `json:"title" validate:"required,min=3,max=120"`
	Description   string `json:"description" validate:"max=2000"`
	City          string `json:"city" validate:"required,min=2,max=60"`
	DailyRateFils int64  `json:"daily_rate_fils" validate:"required,gt=0"`
	AvailableFrom string `json:"available_from" validate:"required"`
	AvailableTo   string `json:"available_to" validate:"required"`
}

type updateCarReq struct {
	Title         *string `json:"title" validate:"omitempty,min=3,max=120"`
	Description   *string `json:"description" validate:"omitempty,max=2000"`
	City          *string `json:"city" validate:"omitempty,min=2,max=60"`
	DailyRateFils *int64  `json:"daily_rate_fils" validate:"omitempty,gt=0"`
	AvailableFrom *string `json:"available_from"`
	AvailableTo   *string `json:"available_to"`
}

// CreateCar handles POST /v1/owner/cars. Availability dates arrive as
// "YYYY-MM-DD" strings; the window must be non-empty and ordered.
func (h *OwnerCarHandler) CreateCar(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	from, err := parseDate(req.AvailableFrom)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid available_from"})
	}
	to, err := parseDate(req.AvailableTo)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid available_to"})
	}
	if to.Before(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "available_to before available_from"})
	}

	car := &model.Car{
		OwnerID:       ownerID,
		Title:         req.Title,
		Description:   req.Description,
		City:          req.City,
		DailyRateFils: req.DailyRateFils,
		AvailableFrom: from,
		AvailableTo:   to,
	}
	if err := h.Cars.Create(c.Request().Context(), car); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create car failed"})
	}
	return c.JSON(http.StatusCreated, toCarResponse(*car, nil))
}

// ListCars handles GET /v1/owner/cars and returns all of the owner's
// cars including delisted ones.
func (h *OwnerCarHandler) ListCars(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	cars, err := h.Cars.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]carResponse, 0, len(cars))
	for _, car := range cars {
		out = append(out, toCarResponse(car, nil))
	}
	return c.JSON(http.StatusOK, echo.Map{"cars": out})
}

// UpdateCar handles PATCH /v1/owner/cars/:id. Only provided fields
// change; identical values count as no change.
func (h *OwnerCarHandler) UpdateCar(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	carID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	var req updateCarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	upd := repository.CarUpdate{
		Title:         req.Title,
		Description:   req.Description,
		City:          req.City,
		DailyRateFils: req.DailyRateFils,
	}
	if req.AvailableFrom != nil {
		from, err := parseDate(*req.AvailableFrom)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid available_from"})
		}
		upd.AvailableFrom = &from
	}
	if req.AvailableTo != nil {
		to, err := parseDate(*req.AvailableTo)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid available_to"})
		}
		upd.AvailableTo = &to
	}

	car, err := h.Cars.UpdateOwned(c.Request().Context(), ownerID, carID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidWindow) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "available_to before available_from"})
		}
		return respondRepoError(c, err)
	}
	return c.JSON(http.StatusOK, toCarResponse(*car, nil))
}

// DelistCar handles DELETE /v1/owner/cars/:id. Cars with open
// bookings cannot be delisted.
func (h *OwnerCarHandler) DelistCar(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	carID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	if err := h.Cars.DelistOwned(c.Request().Context(), ownerID, carID); err != nil {
		return respondRepoError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /v1/owner/cars/:id/images. The multipart
// field "image" is streamed to Cloudinary and the delivery URL is
// stored against the car.
func (h *OwnerCarHandler) UploadImage(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	carID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid car id"})
	}
	if h.CLD == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "image upload not configured"})
	}
	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "image file required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read image"})
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()
	resp, err := h.CLD.Upload.Upload(ctx, src, uploader.UploadParams{Folder: "cars"})
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "upload failed"})
	}

	img, err := h.Cars.AddImage(ctx, ownerID, carID, resp.SecureURL)
	if err != nil {
		return respondRepoError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": img.ID, "url": img.URL})
}
