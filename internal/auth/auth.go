// Package auth attaches a verified client identity to each request.
//
// Credentials are verified upstream by the gateway (header mode) or here
// against configured client credentials (basic mode). Downstream handlers only
// ever see the resulting identity.
package auth

import (
	"fmt"
	"net/http"
	"strings"

	httperr "github.com/aevon-lab/stockpulse/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const (
	ModeHeader = "header"
	ModeBasic  = "basic"

	// DefaultHeader carries the identity set by the gateway in header mode.
	DefaultHeader = "X-Client-Id"

	clientIDKey = "stockpulse.client_id"
)

// Options configures the identity middleware.
type Options struct {
	Mode    string
	Header  string
	Clients map[string]string // client id -> secret, basic mode only
}

// Middleware returns the gin handler that resolves the client identity and
// aborts with 401 when there is none.
func Middleware(opts Options) (gin.HandlerFunc, error) {
	switch opts.Mode {
	case ModeHeader, "":
		header := opts.Header
		if header == "" {
			header = DefaultHeader
		}
		return fromHeader(header), nil
	case ModeBasic:
		if len(opts.Clients) == 0 {
			return nil, fmt.Errorf("auth mode %q requires at least one client", ModeBasic)
		}
		return fromBasic(opts.Clients), nil
	default:
		return nil, fmt.Errorf("unsupported auth mode %q", opts.Mode)
	}
}

func fromHeader(header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(header))
		if id == "" {
			abortUnauthorized(c, "missing client identity")
			return
		}
		c.Set(clientIDKey, id)
		c.Next()
	}
}

func fromBasic(clients map[string]string) gin.HandlerFunc {
	accounts := gin.Accounts{}
	for id, secret := range clients {
		accounts[id] = secret
	}
	basic := gin.BasicAuth(accounts)

	return func(c *gin.Context) {
		basic(c)
		if c.IsAborted() {
			return
		}
		c.Set(clientIDKey, c.GetString(gin.AuthUserKey))
		c.Next()
	}
}

// ClientID returns the identity attached by Middleware, or "".
func ClientID(c *gin.Context) string {
	return c.GetString(clientIDKey)
}

// RequireClients restricts a route group to the listed client identities.
func RequireClients(allowed []string) gin.HandlerFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		set[id] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := set[ClientID(c)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, httperr.ErrorResponse{
				ErrorType: httperr.HttpForbiddenError,
				Message:   "client is not allowed to call this endpoint",
			})
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.ErrorResponse{
		ErrorType: httperr.HttpUnauthorizedError,
		Message:   msg,
	})
}
