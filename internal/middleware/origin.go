package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/guestbook/internal/config"
	"github.com/mx-space/guestbook/internal/models"
)

// UnknownOrigin fills any origin field the proxy did not supply.
const UnknownOrigin = "unknown"

const contextKeyOrigin = "visitor_origin"

// Origin is the visitor identity and coarse geolocation of a request.
type Origin struct {
	Identity string
	City     string
	Country  string
}

// OriginResolver reads Origin from the configured proxy headers.
type OriginResolver struct {
	headers config.OriginHeadersConfig
}

func NewOriginResolver(headers config.OriginHeadersConfig) *OriginResolver {
	return &OriginResolver{headers: headers}
}

func (r *OriginResolver) Resolve(c *gin.Context) Origin {
	identity := header(c, r.headers.Identity)
	if identity == "" && r.headers.TrustClientIP {
		identity = c.ClientIP()
	}
	return Origin{
		Identity: orUnknown(truncateRunes(identity, models.MaxIdentityLength)),
		City:     orUnknown(header(c, r.headers.City)),
		Country:  orUnknown(header(c, r.headers.Country)),
	}
}

// ResolveOrigin stores the request's Origin in the gin context.
func ResolveOrigin(r *OriginResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKeyOrigin, r.Resolve(c))
		c.Next()
	}
}

// OriginFrom returns the Origin stored by ResolveOrigin. Requests that did not
// pass through it are attributed to UnknownOrigin.
func OriginFrom(c *gin.Context) Origin {
	if v, ok := c.Get(contextKeyOrigin); ok {
		if o, ok := v.(Origin); ok {
			return o
		}
	}
	return Origin{Identity: UnknownOrigin, City: UnknownOrigin, Country: UnknownOrigin}
}

func header(c *gin.Context, name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSpace(c.GetHeader(name))
}

// truncateRunes cuts s to at most n characters without splitting one.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func orUnknown(v string) string {
	if v == "" {
		return UnknownOrigin
	}
	return v
}
