package cookie

import (
	"net/http"
	"time"

	"poorito-booking/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookieName  = "access_token"
	RefreshTokenCookieName = "refresh_token"

	accessTokenPath = "/"
	// The refresh token is only ever sent to the auth endpoints.
	RefreshTokenPath = "/api/auth"
)

func SetTokenCookies(c *gin.Context, cfg config.CookieConfig, accessToken, refreshToken string, accessExpiry, refreshExpiry time.Duration) {
	setCookie(c, cfg, AccessTokenCookieName, accessToken, accessTokenPath, int(accessExpiry.Seconds()))
	setCookie(c, cfg, RefreshTokenCookieName, refreshToken, RefreshTokenPath, int(refreshExpiry.Seconds()))
}

func ClearTokenCookies(c *gin.Context, cfg config.CookieConfig) {
	setCookie(c, cfg, AccessTokenCookieName, "", accessTokenPath, -1)
	setCookie(c, cfg, RefreshTokenCookieName, "", RefreshTokenPath, -1)
}

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}

func GetRefreshToken(c *gin.Context) string {
	token, _ := c.Cookie(RefreshTokenCookieName)
	return token
}

func setCookie(c *gin.Context, cfg config.CookieConfig, name, value, path string, maxAge int) {
	c.SetSameSite(getSameSite(cfg.SameSite))
	c.SetCookie(name, value, maxAge, path, cfg.Domain, cfg.Secure, true)
}

func getSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
