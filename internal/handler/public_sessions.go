package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/repository"
)

// SessionHandler serves the public read side: session listings, detail and
// the today-search.  No mutation runs through here.
type SessionHandler struct {
	Sessions *repository.SessionRepo
}

// NewSessionHandler constructs a SessionHandler.
func NewSessionHandler(s *repository.SessionRepo) *SessionHandler {
	if s == nil {
		panic("nil session repo passed to NewSessionHandler")
	}
	return &SessionHandler{Sessions: s}
}

// List handles GET /v1/sessions.  Query params: period (all|today|tomorrow)
// and ordering (by_price|by_start_time).
func (h *SessionHandler) List(c echo.Context) error {
	f := repository.ListFilter{
		Period:   c.QueryParam("period"),
		Ordering: c.QueryParam("ordering"),
	}
	switch f.Period {
	case "", repository.PeriodAll, repository.PeriodToday, repository.PeriodTomorrow:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "period must be all, today or tomorrow"})
	}
	switch f.Ordering {
	case "", repository.OrderByPrice, repository.OrderByStartTime:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ordering must be by_price or by_start_time"})
	}
	list, err := h.Sessions.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": list})
}

// Get handles GET /v1/sessions/:id.
func (h *SessionHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	d, err := h.Sessions.GetDetail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, d)
}

// Search handles GET /v1/sessions/search over today's screenings.  Query
// params: start and end as HH:MM clock times (both or neither) and an
// optional hall name.
func (h *SessionHandler) Search(c echo.Context) error {
	startStr := c.QueryParam("start")
	endStr := c.QueryParam("end")
	hall := c.QueryParam("hall")

	var from, to time.Time
	if (startStr == "") != (endStr == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start and end must be given together"})
	}
	if startStr != "" {
		var err error
		from, err = time.Parse("15:04", startStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be HH:MM"})
		}
		to, err = time.Parse("15:04", endStr)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be HH:MM"})
		}
		if to.Before(from) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must not be before start"})
		}
	}
	list, err := h.Sessions.Search(c.Request().Context(), from, to, hall)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": list})
}
