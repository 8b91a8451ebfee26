package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/booking"
	"github.com/iliyamo/cinema-session-booking/internal/model"
)

type sessionReq struct {
	FilmID     uint64 `json:"film_id"`
	HallID     uint64 `json:"hall_id"`
	StartsAt   string `json:"starts_at"` // RFC3339
	EndsAt     string `json:"ends_at"`   // RFC3339
	PriceCents int64  `json:"price_cents"`
}

type sessionResp struct {
	ID         uint64 `json:"id"`
	FilmID     uint64 `json:"film_id"`
	HallID     uint64 `json:"hall_id"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	PriceCents int64  `json:"price_cents"`
	HallSize   int32  `json:"hall_size"`
}

func toSessionResp(s *model.Session) sessionResp {
	return sessionResp{
		ID:         s.ID,
		FilmID:     s.FilmID,
		HallID:     s.HallID,
		StartsAt:   s.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:     s.EndsAt.UTC().Format(time.RFC3339),
		PriceCents: s.PriceCents,
		HallSize:   s.HallSize,
	}
}

func (r *sessionReq) toCommand(id uint64) (booking.SessionCommand, error) {
	start, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return booking.SessionCommand{}, err
	}
	end, err := time.Parse(time.RFC3339, r.EndsAt)
	if err != nil {
		return booking.SessionCommand{}, err
	}
	return booking.SessionCommand{
		ID:         id,
		FilmID:     r.FilmID,
		HallID:     r.HallID,
		StartsAt:   start.UTC(),
		EndsAt:     end.UTC(),
		PriceCents: r.PriceCents,
	}, nil
}

// CreateSession handles POST /v1/sessions.  Placement validation runs
// inside the write transaction in the engine.
func (h *AdminHandler) CreateSession(c echo.Context) error {
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cmd, err := req.toCommand(0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "timestamps must be RFC3339"})
	}
	s, err := h.Engine.CreateSession(c.Request().Context(), cmd)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toSessionResp(s))
}

// UpdateSession handles PUT /v1/sessions/:id.  A session with any sale is
// frozen and the update is rejected outright.
func (h *AdminHandler) UpdateSession(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req sessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	cmd, err := req.toCommand(id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "timestamps must be RFC3339"})
	}
	s, err := h.Engine.UpdateSession(c.Request().Context(), cmd)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResp(s))
}

// DeleteSession handles DELETE /v1/sessions/:id.
func (h *AdminHandler) DeleteSession(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	if err := h.Engine.DeleteSession(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
