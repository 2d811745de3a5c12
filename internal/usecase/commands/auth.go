package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"poorito-booking/internal/domain/user"
	reqdto "poorito-booking/internal/handler/dto/request"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/clock"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/pkg/jwt"
	"poorito-booking/internal/pkg/password"
	"poorito-booking/internal/usecase/queries"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

// Unknown emails still pay for one bcrypt comparison so response time does
// not reveal which addresses have accounts.
var timingHash = sync.OnceValue(func() string {
	h, _ := password.HashPassword("no-such-account-placeholder")
	return h
})

type LoginResult struct {
	UserID    uuid.UUID
	Role      user.Role
	TokenPair *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
		clock:      clk,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	account, err := a.accountByEmail(ctx, credentials.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		_ = password.ComparePassword(timingHash(), credentials.Password.Value())
		return nil, ErrInvalidCredentials
	}

	switch err := account.Authenticate(credentials.Password); {
	case errors.Is(err, user.ErrAccountInactive):
		return nil, ErrUserInactive
	case err != nil:
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := a.issueTokens(account.ID(), account.Role())
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Users().UpdateLastLogin(ctx, tx.DB(), account.ID(), a.clock.Now())
	})
	if err != nil {
		// login already succeeded; last_login is informational
		slog.Warn("Failed to update last login", "user_id", account.ID(), "error", err.Error())
	}

	return &LoginResult{
		UserID:    account.ID(),
		Role:      account.Role(),
		TokenPair: tokenPair,
	}, nil
}

// RefreshToken re-reads the account so a user disabled after the refresh
// token was issued cannot mint new access tokens.
func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	var view *queries.AuthorizedUserView
	err = a.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
		var err error
		view, err = a.readStore.FindByID(ctx, db, claims.UserID)
		return err
	})
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, errs.Wrap(err, "failed to load user for refresh")
	case !view.IsActive:
		return nil, ErrUserInactive
	}

	// The stored role wins over the one in the token, so demotions apply on
	// the next refresh.
	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	return a.issueTokens(view.ID, role)
}

// accountByEmail returns nil without an error when no account matches.
func (a *authCommandsImpl) accountByEmail(ctx context.Context, email user.Email) (*user.Account, error) {
	var (
		view *queries.AuthorizedUserView
		hash string
	)
	err := a.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
		var err error
		view, hash, err = a.readStore.FindByEmail(ctx, db, email.Value())
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Wrap(err, "failed to load account")
	}

	account, err := user.ReconstructAccount(view.ID, view.Email, view.Role, hash, view.IsActive)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}
	return account, nil
}

func (a *authCommandsImpl) issueTokens(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
