// Package web contains a small web framework extension.
package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"slices"

	"go.opentelemetry.io/otel/trace"
)

// Logger represents a function that can log at the information level.
type Logger func(ctx context.Context, msg string, args ...any)

// HandlerFunc represents a function that handles an http request within
// our own little mini framework.
type HandlerFunc func(ctx context.Context, r *http.Request) Encoder

// App is the entrypoint into our application and what configures our
// context object for each of our http handlers.
type App struct {
	log     Logger
	tracer  trace.Tracer
	mux     *http.ServeMux
	mw      []MidFunc
	origins []string
}

// NewApp creates an App value that handles a set of routes for the
// application.
func NewApp(log Logger, tracer trace.Tracer, mw ...MidFunc) *App {
	return &App{
		log:    log,
		tracer: tracer,
		mux:    http.NewServeMux(),
		mw:     mw,
	}
}

// EnableCORS enables CORS preflight requests to work in the middleware.
// It prevents the MethodNotAllowedHandler from being called.
func (a *App) EnableCORS(origins []string) {
	a.origins = origins
}

// ServeHTTP implements the http.Handler interface. It applies the CORS
// response headers and answers preflight requests before routing.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if len(a.origins) > 0 {
		origin := "*"
		if !slices.Contains(a.origins, "*") {
			reqOrigin := r.Header.Get("Origin")
			if !slices.Contains(a.origins, reqOrigin) {
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			origin = reqOrigin
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
	}

	a.mux.ServeHTTP(w, r)
}

// HandlerFunc sets a handler function for a given HTTP method and path
// pair to the application server mux.
func (a *App) HandlerFunc(method string, group string, path string, handlerFunc HandlerFunc, mw ...MidFunc) {
	handlerFunc = wrapMiddleware(mw, handlerFunc)
	handlerFunc = wrapMiddleware(a.mw, handlerFunc)

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx := setWriter(r.Context(), w)

		resp := handlerFunc(ctx, r)

		if err := Respond(ctx, w, resp); err != nil {
			a.log(ctx, "web-respond", "ERROR", err)
		}
	}

	finalPath := path
	if group != "" {
		finalPath = "/" + group + path
	}

	a.mux.HandleFunc(fmt.Sprintf("%s %s", method, finalPath), h)
}

// FileServer serves the specified embedded file system under the given
// url path.
func (a *App) FileServer(static embed.FS, dir string, path string) error {
	sub, err := fs.Sub(static, dir)
	if err != nil {
		return fmt.Errorf("switching to dir %q: %w", dir, err)
	}

	fileServer := http.Handler(http.FileServer(http.FS(sub)))
	if path != "/" {
		fileServer = http.StripPrefix(path, fileServer)
	}

	a.mux.Handle(fmt.Sprintf("GET %s", path), fileServer)

	return nil
}
