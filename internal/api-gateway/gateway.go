package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
)

// Route liga um prefixo público a um serviço interno
type Route struct {
	Prefix string // ex: "/api/wallet"
	Target string // ex: "http://localhost:8082"
}

func rp(to string) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(to)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", to, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("target %q: scheme and host required", to)
	}
	return httputil.NewSingleHostReverseProxy(u), nil
}

// Handler monta o proxy: /api/<svc>/* -> <svc> sem o prefixo
func Handler(log *zap.Logger, routes []Route) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, logger.RequestLogger(log))

	for _, rt := range routes {
		proxy, err := rp(rt.Target)
		if err != nil {
			return nil, err
		}
		r.Mount(rt.Prefix, http.StripPrefix(rt.Prefix, proxy))
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return withCORS(r), nil
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
