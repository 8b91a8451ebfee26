package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/booking"
	"github.com/iliyamo/cinema-session-booking/internal/queue"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
	queue_publisher "github.com/iliyamo/cinema-session-booking/internal/service"
)

// PurchaseHandler sells tickets and serves the purchase history.
type PurchaseHandler struct {
	Engine    *booking.Engine
	Sessions  *repository.SessionRepo
	Purchases *repository.PurchaseRepo
}

// NewPurchaseHandler constructs a PurchaseHandler.
func NewPurchaseHandler(e *booking.Engine, s *repository.SessionRepo, p *repository.PurchaseRepo) *PurchaseHandler {
	if e == nil || s == nil || p == nil {
		panic("nil dependency passed to NewPurchaseHandler")
	}
	return &PurchaseHandler{Engine: e, Sessions: s, Purchases: p}
}

type purchaseReq struct {
	SessionID uint64 `json:"session_id"`
	Count     int32  `json:"count"`
}

type purchaseResp struct {
	ID         uint64 `json:"id"`
	SessionID  uint64 `json:"session_id"`
	Count      int32  `json:"count"`
	TotalCents int64  `json:"total_cents"`
	CreatedAt  string `json:"created_at"`
}

// Buy handles POST /v1/purchases.  The decrement, debit and insert commit
// together inside the engine; the broker notification runs afterwards and
// never affects the response.
func (h *PurchaseHandler) Buy(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
	}
	p, err := h.Engine.Purchase(c.Request().Context(), userID, req.SessionID, req.Count)
	if err != nil {
		return bookingError(c, err)
	}

	go h.notifySold(p.ID, userID, req.SessionID, req.Count, p.TotalCents, p.CreatedAt)

	return c.JSON(http.StatusCreated, purchaseResp{
		ID:         p.ID,
		SessionID:  p.SessionID,
		Count:      p.Count,
		TotalCents: p.TotalCents,
		CreatedAt:  p.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// notifySold enriches the committed purchase with film and hall names and
// publishes it to the broker.  Failures are logged by the publisher; the
// sale has already committed.
func (h *PurchaseHandler) notifySold(purchaseID, userID, sessionID uint64, count int32, total int64, boughtAt time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := queue.TicketsSoldEvent{
		PurchaseID: purchaseID,
		UserID:     userID,
		SessionID:  sessionID,
		Count:      count,
		TotalCents: total,
		BoughtAt:   boughtAt.UTC().Format(time.RFC3339),
	}
	if d, err := h.Sessions.GetDetail(ctx, sessionID); err == nil {
		ev.FilmName = d.FilmName
		ev.HallName = d.HallName
		ev.StartsAt = d.StartsAt.UTC().Format(time.RFC3339)
	}
	_ = queue_publisher.PublishTicketsSold(ctx, ev)
}

// History handles GET /v1/purchases.  Customers see their own purchases with
// the running total; admins see every purchase in the system.
func (h *PurchaseHandler) History(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if isAdmin(c) {
		list, err := h.Purchases.ListAll(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"purchases": list})
	}
	list, err := h.Purchases.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	total, err := h.Purchases.TotalSpent(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"purchases": list, "total_spent_cents": total})
}
