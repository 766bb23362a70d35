package cookie

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Codec writes and reads the session cookie. All attributes are fixed here
// so every handler that touches the cookie emits identical ones.
type Codec struct {
	name     string
	domain   string
	lifetime time.Duration
	secure   bool
}

// NewCodec constructs a codec for the named cookie. The Secure attribute is
// set in production only so local HTTP development keeps working.
func NewCodec(name, domain string, lifetime time.Duration, secure bool) *Codec {
	if name == "" {
		name = "taskflow_session"
	}
	return &Codec{
		name:     name,
		domain:   domain,
		lifetime: lifetime,
		secure:   secure,
	}
}

// Name returns the cookie name.
func (c *Codec) Name() string {
	return c.name
}

// Write sets the session cookie carrying the bearer token. HttpOnly keeps
// the token out of script reach; SameSite=Lax blocks cross-site POSTs while
// still allowing top-level navigation.
func (c *Codec) Write(g *gin.Context, token string) {
	http.SetCookie(g.Writer, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   int(c.lifetime.Seconds()),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read extracts the bearer token from the request, if present.
func (c *Codec) Read(g *gin.Context) (string, bool) {
	token, err := g.Cookie(c.name)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

// Clear expires the cookie. It is sent unconditionally so stale cookies are
// removed even when no server-side session existed.
func (c *Codec) Clear(g *gin.Context) {
	http.SetCookie(g.Writer, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     "/",
		Domain:   c.domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
