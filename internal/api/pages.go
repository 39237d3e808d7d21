// Copyright (c) 2026 Editaliza. All rights reserved.

package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"path"
	"strings"

	"github.com/editaliza/editaliza/internal/platform/apperr"
	"github.com/editaliza/editaliza/internal/platform/ctxutil"
	"github.com/editaliza/editaliza/internal/platform/respond"
)

// NewPageHandler serves the page UI: a reverse proxy to frontendURL when set,
// otherwise the exported pages under staticDir.
func NewPageHandler(frontendURL, staticDir string) (http.Handler, error) {
	if frontendURL == "" {
		return newStaticPages(http.Dir(staticDir)), nil
	}

	target, err := url.Parse(frontendURL)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("api: invalid frontend URL %q", frontendURL)
	}
	return newFrontendProxy(target), nil
}

func newFrontendProxy(target *url.URL) http.Handler {
	return &httputil.ReverseProxy{
		Rewrite: func(proxied *httputil.ProxyRequest) {
			proxied.SetURL(target)
			proxied.SetXForwarded()
		},
		ErrorHandler: func(writer http.ResponseWriter, request *http.Request, err error) {
			ctx := request.Context()
			ctxutil.GetLogger(ctx).WarnContext(ctx, "frontend_unreachable",
				slog.String("target", target.Host),
				slog.String("error", err.Error()),
			)
			respond.Error(writer, request, apperr.ServiceUnavailable("Frontend unavailable", err))
		},
	}
}

// staticPages serves a static export: "/feed" resolves to feed.html or
// feed/index.html when no exact file exists.
type staticPages struct {
	root  http.FileSystem
	files http.Handler
}

func newStaticPages(root http.FileSystem) *staticPages {
	return &staticPages{root: root, files: http.FileServer(root)}
}

func (pages *staticPages) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	name := path.Clean("/" + request.URL.Path)
	if name != "/" && !strings.Contains(path.Base(name), ".") && !pages.exists(name) && pages.exists(name+".html") {
		rewritten := request.Clone(request.Context())
		rewritten.URL.Path = name + ".html"
		rewritten.URL.RawPath = ""
		pages.files.ServeHTTP(writer, rewritten)
		return
	}
	pages.files.ServeHTTP(writer, request)
}

func (pages *staticPages) exists(name string) bool {
	file, err := pages.root.Open(name)
	if err != nil {
		return false
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return false
	}
	if !info.IsDir() {
		return true
	}
	return pages.exists(path.Join(name, "index.html"))
}
