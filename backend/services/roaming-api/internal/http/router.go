package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// Route binds one verb on one path template to a handler.
type Route struct {
	Name    string
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Routes is an ordered route table; earlier entries win on overlapping templates.
type Routes []Route

// AllowedHeaders is sent as Access-Control-Allow-Headers on every response.
const AllowedHeaders = "Content-Type, Accept, Authorization"

// RouterOptions configures the shared response headers.
type RouterOptions struct {
	ServerName string
	// Middlewares wrap every route handler except the OPTIONS preflight.
	Middlewares []func(http.Handler) http.Handler
	Clock       func() time.Time
}

// NewRouter builds a gorilla/mux router from the route table. Every template also answers
// OPTIONS with 204 and the verbs registered on it.
func NewRouter(routes Routes, opts RouterOptions) http.Handler {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	var templates []string
	verbs := make(map[string][]string)
	for _, route := range routes {
		if _, seen := verbs[route.Pattern]; !seen {
			templates = append(templates, route.Pattern)
		}
		verbs[route.Pattern] = appendUnique(verbs[route.Pattern], route.Method)
	}

	allowed := make(map[string]string, len(templates))
	for _, pattern := range templates {
		allowed[pattern] = strings.Join(append(verbs[pattern], http.MethodOptions), ", ")
	}

	router := mux.NewRouter()
	for _, route := range routes {
		var handler http.Handler = route.Handler
		for i := len(opts.Middlewares) - 1; i >= 0; i-- {
			handler = opts.Middlewares[i](handler)
		}
		router.
			Methods(route.Method).
			Path(route.Pattern).
			Name(route.Name).
			Handler(withHeaders(opts, allowed[route.Pattern], handler))
	}
	for _, pattern := range templates {
		router.
			Methods(http.MethodOptions).
			Path(pattern).
			Handler(withHeaders(opts, allowed[pattern], http.HandlerFunc(preflight)))
	}

	router.NotFoundHandler = withHeaders(opts, "", errorHandler(http.StatusNotFound, "Unknown resource!"))
	router.MethodNotAllowedHandler = withHeaders(opts, "", errorHandler(http.StatusMethodNotAllowed, "Method not allowed!"))
	return router
}

func preflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func errorHandler(status int, description string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"description": description})
	}
}

func withHeaders(opts RouterOptions, methods string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		if opts.ServerName != "" {
			h.Set("Server", opts.ServerName)
		}
		h.Set("Date", opts.Clock().UTC().Format(http.TimeFormat))
		h.Set("Access-Control-Allow-Origin", "*")
		if methods != "" {
			h.Set("Access-Control-Allow-Methods", methods)
		}
		h.Set("Access-Control-Allow-Headers", AllowedHeaders)
		h.Set("ETag", `"1"`)
		h.Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}
