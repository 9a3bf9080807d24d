package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"quantia/internal/config"
	"quantia/internal/models"
)

// Cookie names. The session cookie carries the signed identity claims; the
// portfolio cookie carries the transient UI selection and holds no
// financial truth.
const (
	SessionCookie   = "quantia_session"
	PortfolioCookie = "quantia_portfolio"
)

// Context keys set by the session gate.
const (
	ctxUserID   = "userID"
	ctxUsername = "username"
)

// SessionClaims are the identity claims carried by the session cookie.
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// IssueSession signs a session cookie for the user and attaches it to the
// response. This is the Anonymous -> Authenticated transition.
func IssueSession(c *gin.Context, cfg *config.Config, user *models.User) error {
	now := time.Now()
	claims := &SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "quantia",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.SessionSecret))
	if err != nil {
		return err
	}

	c.SetCookie(SessionCookie, signed, int(cfg.SessionTTL.Seconds()), "/", "", false, true)
	return nil
}

// ClearSession destroys the session and the portfolio selection. This is
// the Authenticated -> Anonymous transition.
func ClearSession(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.SetCookie(PortfolioCookie, "", -1, "/", "", false, true)
}

// parseSession validates the session cookie and returns its claims.
func parseSession(c *gin.Context, cfg *config.Config) (*SessionClaims, bool) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie == "" {
		return nil, false
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(cookie, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.SessionSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	return claims, true
}

// SessionGate protects page routes. Anonymous requests are redirected to
// the login entry point rather than erroring; authenticated requests get
// the identity attached to the request context.
func SessionGate(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseSession(c, cfg)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

// CurrentUser returns the authenticated identity attached by the gate.
func CurrentUser(c *gin.Context) (uint, string, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, "", false
	}
	username, _ := c.Get(ctxUsername)
	name, _ := username.(string)
	return userID.(uint), name, true
}
