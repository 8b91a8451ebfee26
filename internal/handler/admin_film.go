package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/booking"
	"github.com/iliyamo/cinema-session-booking/internal/model"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
)

// AdminHandler groups the booking engine and repositories behind the
// administrator CRUD endpoints for films, halls and sessions.  All mutating
// methods route through the engine so the mutation guard and scheduling
// rules run inside the write transaction; only listing reads hit the
// repositories directly.
type AdminHandler struct {
	Engine   *booking.Engine
	Films    *repository.FilmRepo
	Halls    *repository.HallRepo
	Sessions *repository.SessionRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(engine *booking.Engine, films *repository.FilmRepo, halls *repository.HallRepo, sessions *repository.SessionRepo) *AdminHandler {
	if engine == nil || films == nil || halls == nil || sessions == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Engine: engine, Films: films, Halls: halls, Sessions: sessions}
}

type filmReq struct {
	Name         string  `json:"name"`
	StartPremier string  `json:"start_premier"` // YYYY-MM-DD
	EndPremier   string  `json:"end_premier"`   // YYYY-MM-DD
	RuntimeMin   int64   `json:"runtime_min"`
	Genre        string  `json:"genre"`
	Description  *string `json:"description,omitempty"`
}

type filmResp struct {
	ID           uint64  `json:"id"`
	Name         string  `json:"name"`
	StartPremier string  `json:"start_premier"`
	EndPremier   string  `json:"end_premier"`
	RuntimeMin   int64   `json:"runtime_min"`
	Genre        string  `json:"genre"`
	Description  *string `json:"description,omitempty"`
}

func toFilmResp(f *model.Film) filmResp {
	return filmResp{
		ID:           f.ID,
		Name:         f.Name,
		StartPremier: f.StartPremier.UTC().Format("2006-01-02"),
		EndPremier:   f.EndPremier.UTC().Format("2006-01-02"),
		RuntimeMin:   int64(f.Runtime / time.Minute),
		Genre:        string(f.Genre),
		Description:  f.Description,
	}
}

// CreateFilm handles POST /v1/films.
func (h *AdminHandler) CreateFilm(c echo.Context) error {
	var req filmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartPremier, time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_premier date"})
	}
	end, err := time.ParseInLocation("2006-01-02", req.EndPremier, time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_premier date"})
	}
	f := &model.Film{
		Name:         req.Name,
		StartPremier: start,
		EndPremier:   end,
		Runtime:      time.Duration(req.RuntimeMin) * time.Minute,
		Genre:        model.Genre(req.Genre),
		Description:  req.Description,
	}
	if err := h.Engine.CreateFilm(c.Request().Context(), f); err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusCreated, toFilmResp(f))
}

// ListFilms handles GET /v1/films.
func (h *AdminHandler) ListFilms(c echo.Context) error {
	films, err := h.Films.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]filmResp, 0, len(films))
	for i := range films {
		out = append(out, toFilmResp(&films[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"films": out})
}

// GetFilm handles GET /v1/films/:id.
func (h *AdminHandler) GetFilm(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	f, err := h.Films.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrFilmNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toFilmResp(f))
}

// DeleteFilm handles DELETE /v1/films/:id.  Deletion is refused while
// tickets sold for the film are still inside its premiere window.
func (h *AdminHandler) DeleteFilm(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	if err := h.Engine.DeleteFilm(c.Request().Context(), id); err != nil {
		return bookingError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
