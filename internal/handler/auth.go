package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-session-booking/internal/config"
	"github.com/iliyamo/cinema-session-booking/internal/repository"
	"github.com/iliyamo/cinema-session-booking/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.  Login sessions are
// backed by an auth_tokens row carrying a last-seen timestamp: customers
// whose token sits idle longer than the configured TTL must log in again,
// while admin tokens only honor the hard expiry.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type tokenReq struct {
	AuthToken string `json:"auth_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	WalletCents int64  `json:"wallet_cents"`
}
type authResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
	Auth   tokenPart `json:"auth"`
}

// Register creates a customer account and returns tokens immediately.
// Administrator accounts are provisioned out of band, never via this
// endpoint.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, "CUSTOMER", h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return h.issueTokens(c, ctx, http.StatusCreated, userPart{ID: uid, Email: req.Email, Role: "CUSTOMER"})
}

// Login verifies credentials and returns a new token pair together with the
// wallet balance.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issueTokens(c, ctx, http.StatusOK,
		userPart{ID: u.ID, Email: u.Email, Role: u.Role, WalletCents: u.WalletCents})
}

// issueTokens signs an access token and stores a fresh auth token for the user.
func (h *AuthHandler) issueTokens(c echo.Context, ctx context.Context, status int, user userPart) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, user.ID, user.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	auth, err := utils.NewAuthToken(h.Cfg.AuthTokenTTLDay)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue auth token failed"})
	}
	if err := h.Tokens.Store(ctx, user.ID, utils.HashTokenRaw(auth.Raw), auth.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save auth token failed"})
	}
	return c.JSON(status, authResp{
		User:   user,
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
		Auth:   tokenPart{Token: auth.Raw, Expires: auth.Exp}, // raw back to client
	})
}

// Refresh exchanges a live auth token for a new access token.  For customer
// tokens the idle expiry is enforced here: a token unused for longer than
// IdleTokenTTLMin is revoked and the client must log in again.  Successful
// refreshes touch last_seen_at, sliding the idle window forward.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.AuthToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "auth_token required"})
	}
	hash := utils.HashTokenRaw(strings.TrimSpace(req.AuthToken))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, lastSeen, err := h.Tokens.Validate(ctx, hash)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid auth token"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid auth token"})
	}
	if !u.IsAdmin() {
		idle := time.Duration(h.Cfg.IdleTokenTTLMin) * time.Minute
		if time.Now().UTC().Sub(lastSeen.UTC()) > idle {
			_ = h.Tokens.RevokeByHash(ctx, hash)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "auth token expired from inactivity"})
		}
	}
	if err := h.Tokens.Touch(ctx, hash); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "touch auth token failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes the presented auth token.  Always returns 204 for a
// well-formed request so clients cannot probe token validity here.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req tokenReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.AuthToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "auth_token required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	_ = h.Tokens.RevokeByHash(ctx, utils.HashTokenRaw(strings.TrimSpace(req.AuthToken)))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user's profile including the wallet balance.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Email: u.Email, Role: u.Role, WalletCents: u.WalletCents})
}
