package api

import (
	"errors"
	"net/http"

	reqdto "poorito-booking/internal/handler/dto/request"
	resdto "poorito-booking/internal/handler/dto/response"
	"poorito-booking/internal/handler/httperr"
	"poorito-booking/internal/handler/middleware"
	"poorito-booking/internal/pkg/config"
	"poorito-booking/internal/pkg/cookie"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/pkg/jwt"
	"poorito-booking/internal/usecase/commands"
	"poorito-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authCommands commands.AuthCommands
	userQueries  queries.UserQueries
	jwtService   *jwt.Service
	cfg          config.Config
}

func NewAuthHandler(authCommands commands.AuthCommands, userQueries queries.UserQueries, jwtService *jwt.Service, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		authCommands: authCommands,
		userQueries:  userQueries,
		jwtService:   jwtService,
		cfg:          cfg,
	}
}

// @Summary User login
// @Description Login with email and password. Tokens are set as HttpOnly cookies and the access token is also returned in the body.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBindError(c, err)
		return
	}

	result, err := h.authCommands.Login(c.Request.Context(), req)
	if err != nil {
		h.abortAuthError(c, err)
		return
	}

	user, err := h.userQueries.GetCurrentUser(c.Request.Context(), result.UserID)
	if err != nil {
		h.abortAuthError(c, err)
		return
	}

	h.setTokenCookies(c, result.TokenPair)
	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.TokenPair.AccessToken,
		User:        resdto.FromUserView(user),
	})
}

// @Summary Refresh tokens
// @Description Rotate the token pair using the refresh token cookie or request body
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RefreshRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} resdto.RefreshResponse
// @Failure 401 {object} httperr.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken := cookie.GetRefreshToken(c)
	if refreshToken == "" {
		var req reqdto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithCode(c, http.StatusUnauthorized, middleware.CodeTokenMissing,
				errs.Mark(err, errs.ErrUnauthenticated), "Refresh token required", nil)
			return
		}
		refreshToken = req.RefreshToken
	}

	pair, err := h.authCommands.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		h.abortAuthError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, resdto.RefreshResponse{AccessToken: pair.AccessToken})
}

// @Summary User logout
// @Description Clears the token cookies; JWTs stay valid until they expire
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} httperr.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearTokenCookies(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Get current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.UserResponse
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError,
			errs.New("user id missing from context"), "Internal server error", nil)
		return
	}

	user, err := h.userQueries.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrUserNotFound):
			httperr.AbortWithCode(c, http.StatusNotFound, codeNotFound, err, "User not found", nil)
		case errors.Is(err, queries.ErrUserInactive):
			httperr.AbortWithCode(c, http.StatusForbidden, codeForbidden, err, "Account is inactive", nil)
		default:
			abortWithUseCaseError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromUserView(user))
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, pair *commands.TokenPair) {
	cookie.SetTokenCookies(c, h.cfg.Cookie, pair.AccessToken, pair.RefreshToken,
		h.jwtService.AccessTokenDuration(), h.jwtService.RefreshTokenDuration())
}

func (h *AuthHandler) abortAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidCredentials),
		errors.Is(err, commands.ErrUserNotFound),
		errs.Is(err, commands.ErrAuthenticationFailed):
		httperr.AbortWithCode(c, http.StatusUnauthorized, codeUnauthenticated, err, "Invalid email or password", nil)
	case errors.Is(err, commands.ErrUserInactive), errors.Is(err, queries.ErrUserInactive):
		httperr.AbortWithCode(c, http.StatusForbidden, codeForbidden, err, "Account is inactive", nil)
	case errs.Is(err, commands.ErrTokenValidation):
		code := middleware.CodeTokenInvalid
		if errors.Is(err, jwt.ErrExpiredToken) {
			code = middleware.CodeTokenExpired
		}
		httperr.AbortWithCode(c, http.StatusUnauthorized, code, err, "Invalid or expired refresh token", nil)
	default:
		abortWithUseCaseError(c, err)
	}
}
