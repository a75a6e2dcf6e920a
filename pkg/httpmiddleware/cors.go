package httpmiddleware

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"
)

// CORSConfig configures the CORS middleware behaviour.
type CORSConfig struct {
	// AllowOrigins is a list of origins that are allowed to make cross-origin
	// requests. An empty list or the single entry "*" means all origins are
	// allowed.
	AllowOrigins []string

	// AllowMethods lists the HTTP methods clients may use in actual requests.
	// Defaults to "GET, POST, PUT, DELETE, OPTIONS" when empty.
	AllowMethods []string

	// AllowHeaders lists the request headers clients may use.
	// If empty, the middleware echoes back the Access-Control-Request-Headers
	// from the preflight request.
	AllowHeaders []string

	// ExposeHeaders lists response headers the browser is allowed to access.
	ExposeHeaders []string

	// AllowCredentials sets Access-Control-Allow-Credentials. A wildcard
	// origin list then matches nothing, since browsers reject "*" together
	// with credentials.
	AllowCredentials bool

	// MaxAge indicates how long (in seconds) preflight results can be cached.
	// A zero value omits the header; a negative value sends "0".
	MaxAge int
}

// corsPolicy is CORSConfig with every header value computed once.
type corsPolicy struct {
	anyOrigin   bool
	origins     map[string]string // lowercased -> configured spelling
	credentials bool

	methods string
	headers string
	expose  string
	maxAge  string
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		origins:     make(map[string]string, len(cfg.AllowOrigins)),
		credentials: cfg.AllowCredentials,
		methods:     strings.Join(cfg.AllowMethods, ", "),
		headers:     strings.Join(cfg.AllowHeaders, ", "),
		expose:      strings.Join(cfg.ExposeHeaders, ", "),
	}
	if p.methods == "" {
		p.methods = "GET, POST, PUT, DELETE, OPTIONS"
	}
	switch {
	case cfg.MaxAge > 0:
		p.maxAge = strconv.Itoa(cfg.MaxAge)
	case cfg.MaxAge < 0:
		p.maxAge = "0"
	}

	p.anyOrigin = len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*")
	if !p.anyOrigin {
		for _, o := range cfg.AllowOrigins {
			p.origins[strings.ToLower(o)] = o
		}
	}
	if p.credentials {
		p.anyOrigin = false
	}
	return p
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin,
// or "" when it is not allowed.
func (p *corsPolicy) allowedOrigin(origin string) string {
	if p.anyOrigin {
		return "*"
	}
	return p.origins[strings.ToLower(origin)]
}

func (p *corsPolicy) preflight(w http.ResponseWriter, r *http.Request, allowed string) {
	h := w.Header()
	h.Add("Vary", "Origin")
	h.Add("Vary", "Access-Control-Request-Method")
	h.Add("Vary", "Access-Control-Request-Headers")
	defer w.WriteHeader(http.StatusNoContent)

	if allowed == "" {
		return
	}
	h.Set("Access-Control-Allow-Origin", allowed)
	h.Set("Access-Control-Allow-Methods", p.methods)
	if headers := cmp.Or(p.headers, r.Header.Get("Access-Control-Request-Headers")); headers != "" {
		h.Set("Access-Control-Allow-Headers", headers)
	}
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if p.maxAge != "" {
		h.Set("Access-Control-Max-Age", p.maxAge)
	}
}

func (p *corsPolicy) decorate(w http.ResponseWriter, allowed string) {
	h := w.Header()
	if !p.anyOrigin {
		h.Add("Vary", "Origin")
	}
	if allowed == "" {
		return
	}
	h.Set("Access-Control-Allow-Origin", allowed)
	if p.credentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if p.expose != "" {
		h.Set("Access-Control-Expose-Headers", p.expose)
	}
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
// Origins match case-insensitively and are echoed in their configured case.
// Preflight requests (OPTIONS with Access-Control-Request-Method) are
// answered with 204 and never reach next.
func CORS(cfg CORSConfig) Middleware {
	p := newCORSPolicy(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				if !p.anyOrigin {
					w.Header().Add("Vary", "Origin")
				}
				next.ServeHTTP(w, r)
				return
			}

			allowed := p.allowedOrigin(origin)
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				p.preflight(w, r, allowed)
				return
			}
			p.decorate(w, allowed)
			next.ServeHTTP(w, r)
		})
	}
}
