package handler // handler defines http handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/booking"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT middleware stores the claim value, whose concrete type depends on how
// the token was decoded, so several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the authenticated request carries the admin role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// bookingError renders a booking core failure as a JSON response.  Every
// kind of the taxonomy maps to a fixed HTTP status; non-booking errors fall
// through to a 500.
func bookingError(c echo.Context, err error) error {
	var be *booking.Error
	if !errors.As(err, &be) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	status := http.StatusInternalServerError
	switch be.Kind {
	case booking.KindInvalidInput, booking.KindRuntimeConstraint:
		status = http.StatusBadRequest
	case booking.KindInsufficientFunds:
		status = http.StatusPaymentRequired
	case booking.KindNotFound:
		status = http.StatusNotFound
	case booking.KindSchedulingConflict, booking.KindInsufficientInventory,
		booking.KindSessionAlreadyStarted, booking.KindLockedBySales,
		booking.KindDuplicateResource:
		status = http.StatusConflict
	}
	body := echo.Map{"error": be.Msg, "kind": be.Kind.String()}
	if be.Field != "" {
		body["field"] = be.Field
	}
	if be.EntityID != 0 {
		body["entity"] = be.Entity
		body["entity_id"] = be.EntityID
	}
	return c.JSON(status, body)
}

// parseID parses a positive uint64 path parameter.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id != 0
}
