package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/model"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
)

type hallReq struct {
	Name     string `json:"name"`
	Capacity int32  `json:"capacity"`
}

type hallResp struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Capacity int32  `json:"capacity"`
}

// CreateHall handles POST /v1/halls.
func (h *AdminHandler) CreateHall(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hall := &model.Hall{Name: req.Name, Capacity: req.Capacity}
	if err := h.Engine.CreateHall(c.Request().Context(), hall); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, hallResp{ID: hall.ID, Name: hall.Name, Capacity: hall.Capacity})
}

// ListHalls handles GET /v1/halls.
func (h *AdminHandler) ListHalls(c echo.Context) error {
	halls, err := h.Halls.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]hallResp, 0, len(halls))
	for _, hl := range halls {
		out = append(out, hallResp{ID: hl.ID, Name: hl.Name, Capacity: hl.Capacity})
	}
	return c.JSON(http.StatusOK, echo.Map{"halls": out})
}

// UpdateHall handles PUT /v1/halls/:id.  Renaming checks name uniqueness;
// resizing cascades the new capacity into hall_size of every session in the
// hall.  Both are refused once any ticket was ever sold in the hall.
func (h *AdminHandler) UpdateHall(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hall := &model.Hall{ID: id, Name: req.Name, Capacity: req.Capacity}
	if err := h.Engine.UpdateHall(c.Request().Context(), hall); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, hallResp{ID: hall.ID, Name: hall.Name, Capacity: hall.Capacity})
}

// DeleteHall handles DELETE /v1/halls/:id.  Deletion is refused while
// purchases exist against an upcoming session of the hall.
func (h *AdminHandler) DeleteHall(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	if err := h.Engine.DeleteHall(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetHall handles GET /v1/halls/:id.
func (h *AdminHandler) GetHall(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	hall, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, hallResp{ID: hall.ID, Name: hall.Name, Capacity: hall.Capacity})
}
