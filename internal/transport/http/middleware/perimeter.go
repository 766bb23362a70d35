package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/neo-rgalvez/taskflow/internal/infra/config"
	"github.com/neo-rgalvez/taskflow/internal/transport/http/cookie"
)

// Classification is the perimeter category of a page path.
type Classification int

const (
	// PathNeutral paths are reachable regardless of session state.
	PathNeutral Classification = iota
	// PathProtected paths require a session cookie.
	PathProtected
	// PathAuthOnly paths are for signed-out visitors; a visitor carrying a
	// session cookie is bounced to the app.
	PathAuthOnly
)

// Classifier sorts page paths into perimeter categories. Protected wins when
// a path somehow matches both sets.
type Classifier struct {
	protectedPrefixes []string
	authPages         map[string]bool
}

// NewClassifier builds a classifier from the perimeter configuration.
func NewClassifier(cfg config.PerimeterSettings) *Classifier {
	authPages := make(map[string]bool, len(cfg.AuthPages))
	for _, page := range cfg.AuthPages {
		authPages[page] = true
	}
	return &Classifier{
		protectedPrefixes: cfg.ProtectedPrefixes,
		authPages:         authPages,
	}
}

// Classify categorizes the request path. Prefix matches respect segment
// boundaries, so "/application" is not inside "/app".
func (cl *Classifier) Classify(path string) Classification {
	for _, prefix := range cl.protectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return PathProtected
		}
	}
	if cl.authPages[path] {
		return PathAuthOnly
	}
	return PathNeutral
}

// PerimeterGuard redirects page navigations based on cookie presence alone:
// protected pages send cookie-less visitors to the login page with a
// returnUrl, auth pages send cookie-bearing visitors to the app home. The
// guard never touches the session store; a stale cookie gets through here
// and is rejected by RequireAuth, which is the authoritative check.
func PerimeterGuard(classifier *Classifier, codec *cookie.Codec, loginPath, appHome string) gin.HandlerFunc {
	if loginPath == "" {
		loginPath = "/login"
	}
	if appHome == "" {
		appHome = "/app"
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		class := classifier.Classify(c.Request.URL.Path)
		if class == PathNeutral {
			c.Next()
			return
		}

		_, hasCookie := codec.Read(c)

		switch {
		case class == PathProtected && !hasCookie:
			c.Redirect(http.StatusFound, loginPath+"?returnUrl="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
		case class == PathAuthOnly && hasCookie:
			c.Redirect(http.StatusFound, appHome)
			c.Abort()
		default:
			c.Next()
		}
	}
}
