package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the authenticated user's ID as a string for use in Redis
// keys.  JWTAuth stores the raw "sub" claim, whose decoded type is a JSON
// number; unauthenticated requests yield "guest" so public routes still get
// stable per-visitor-less keys.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	}
	return "guest"
}
