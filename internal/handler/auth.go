package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/splittab/splittab/internal/auth"
	"github.com/splittab/splittab/internal/models"
)

// AuthHandler bundles dependencies for signup and login.
type AuthHandler struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
}

func NewAuthHandler(authenticator auth.Authenticator, tokens *auth.JWTManager) *AuthHandler {
	return &AuthHandler{authenticator: authenticator, tokens: tokens}
}

type signupReq struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"` // customer | vendor
	VendorName string `json:"vendor_name"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResp struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	VendorName string `json:"vendor_name,omitempty"`
}

type authResp struct {
	User  userResp `json:"user"`
	Token string   `json:"token"`
}

func toUserResp(u *models.User) userResp {
	return userResp{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Role:       u.Role,
		VendorName: u.VendorName,
	}
}

// Signup creates an account and returns a session token immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	user, err := h.authenticator.Register(c.Request().Context(),
		req.Username, req.Email, req.Password, req.Role, req.VendorName)
	if err != nil {
		return fail(c, err)
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, authResp{User: toUserResp(user), Token: token})
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	user, err := h.authenticator.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, authResp{User: toUserResp(user), Token: token})
}
