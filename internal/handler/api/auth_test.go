//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"poorito-booking/internal/domain/user"
	"poorito-booking/internal/handler/api"
	resdto "poorito-booking/internal/handler/dto/response"
	"poorito-booking/internal/handler/middleware"
	"poorito-booking/internal/pkg/config"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/pkg/jwt"
	"poorito-booking/internal/testutil"
	"poorito-booking/internal/testutil/builder"
	"poorito-booking/internal/testutil/httptest"
	commandsmock "poorito-booking/internal/testutil/mock/commands"
	queriesmock "poorito-booking/internal/testutil/mock/queries"
	"poorito-booking/internal/usecase/commands"
	"poorito-booking/internal/usecase/queries"
	"poorito-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	handler      *api.AuthHandler
	actorID      uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 168*time.Hour)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries, jwtService, config.NewTestConfig())

	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/refresh", s.handler.Refresh)
	s.router.POST("/auth/logout", s.handler.Logout)
	s.actorID = uuid.New()
	s.router.GET("/auth/me", func(c *gin.Context) {
		// stands in for RequireAuth
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			middleware.SetActor(c, shared.Actor{UserID: s.actorID, Role: user.RoleUser})
		}
		s.handler.Me(c)
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

type testCaseAuth struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"

	reqBody := builder.NewAuthBuilder().BuildDTO()
	returnUser := builder.NewUserBuilder().BuildReadModel()
	tokens := &commands.TokenPair{AccessToken: "test-jwt-token", RefreshToken: "test-refresh-token"}

	s.Run("success: returns 200 OK and sets cookies", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), reqBody).
			Return(&commands.LoginResult{UserID: returnUser.ID, TokenPair: tokens}, nil).Times(1)
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), returnUser.ID).
			Return(returnUser, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(tokens.AccessToken, response.AccessToken)
		s.Equal(returnUser.Email, response.User.Email)
		access := httptest.ExtractCookie(rec, "access_token")
		s.Require().NotNil(access)
		s.True(access.HttpOnly)
		s.NotNil(httptest.ExtractCookie(rec, "refresh_token"))
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		bound := []testCaseAuth{
			{name: "email boundary OK (valid email)", mutate: testutil.Field("email", "valid@example.com"), expectCode: http.StatusOK},
			{name: "email boundary invalid (invalid email)", mutate: testutil.Field("email", "invalid-email"), expectCode: http.StatusBadRequest},
			{name: "password boundary OK (8 chars)", mutate: testutil.Field("password", "password"), expectCode: http.StatusOK},
			{name: "password boundary invalid (7 chars)", mutate: testutil.Field("password", strings.Repeat("a", 7)), expectCode: http.StatusBadRequest},
		}

		missing := []testCaseAuth{
			{name: "missing field: email (required)", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: password (required)", mutate: testutil.Field("password", nil), expectCode: http.StatusBadRequest},
		}

		empty := []testCaseAuth{
			{name: "empty email", mutate: testutil.Field("email", ""), expectCode: http.StatusBadRequest},
			{name: "empty password", mutate: testutil.Field("password", ""), expectCode: http.StatusBadRequest},
		}

		for _, group := range [][]testCaseAuth{bound, missing, empty} {
			for _, tc := range group {
				s.Run(tc.name, func() {
					requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

					if tc.expectCode == http.StatusOK {
						email, _ := requestMap["email"].(string)
						password, _ := requestMap["password"].(string)
						expectedReq := builder.NewAuthBuilder().WithEmail(email).WithPassword(password).BuildDTO()
						s.mockCommands.EXPECT().Login(gomock.Any(), expectedReq).
							Return(&commands.LoginResult{UserID: returnUser.ID, TokenPair: tokens}, nil)
						s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), returnUser.ID).
							Return(returnUser, nil)
					}
					rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
					if tc.expectCode == http.StatusOK {
						httptest.AssertSuccessResponse(s.T(), rec, tc.expectCode, nil)
					} else {
						body := httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "Invalid request")
						s.Equal("invalid_request", body.Error.Code)
					}
				})
			}
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "invalid credentials", commandsError: commands.ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid email or password"},
			{name: "user not found", commandsError: commands.ErrUserNotFound, expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid email or password"},
			{name: "malformed credentials", commandsError: errs.Mark(errors.New("bad email"), commands.ErrAuthenticationFailed), expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid email or password"},
			{name: "user inactive", commandsError: commands.ErrUserInactive, expectedStatus: http.StatusForbidden, expectedMsg: "Account is inactive"},
			{name: "internal server error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Login(gomock.Any(), reqBody).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestRefresh() {
	url := "/auth/refresh"
	pair := &commands.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}

	s.Run("success: refresh token from cookie", func() {
		s.mockCommands.EXPECT().RefreshToken(gomock.Any(), "cookie-refresh").Return(pair, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "",
			httptest.WithCookies(&http.Cookie{Name: "refresh_token", Value: "cookie-refresh"}))

		var response resdto.RefreshResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("new-access", response.AccessToken)
		s.Equal("new-refresh", httptest.ExtractCookie(rec, "refresh_token").Value)
	})

	s.Run("success: refresh token from body", func() {
		s.mockCommands.EXPECT().RefreshToken(gomock.Any(), "body-refresh").Return(pair, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"refresh_token": "body-refresh"}, "")

		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: no refresh token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")

		body := httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Refresh token required")
		s.Equal("token_missing", body.Error.Code)
	})

	s.Run("error: expired refresh token", func() {
		s.mockCommands.EXPECT().RefreshToken(gomock.Any(), "stale").
			Return(nil, errs.Mark(jwt.ErrExpiredToken, commands.ErrTokenValidation)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"refresh_token": "stale"}, "")

		body := httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "refresh token")
		s.Equal("token_expired", body.Error.Code)
	})
}

func (s *AuthHandlerTestSuite) TestLogout() {
	s.Run("success: returns 204 No Content and clears cookies", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "bearer-token")

		s.Equal(http.StatusNoContent, rec.Code)
		access := httptest.ExtractCookie(rec, "access_token")
		s.Require().NotNil(access)
		s.Empty(access.Value)
		s.Less(access.MaxAge, 0)
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"
	returnUser := builder.NewUserBuilder().BuildReadModel()

	s.Run("success: returns current user info", func() {
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), s.actorID).
			Return(returnUser, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnUser.Email, response["email"])
		s.Equal("user", response["role"])
	})

	s.Run("error: returns 500 when user_id missing in context", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "user not found", queriesError: queries.ErrUserNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "User not found"},
			{name: "user inactive", queriesError: queries.ErrUserInactive, expectedStatus: http.StatusForbidden, expectedMsg: "Account is inactive"},
			{name: "internal server error", queriesError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), gomock.Any()).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
