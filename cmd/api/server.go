package main

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/interfaces/scheduler"
	"fintrack/internal/shared/config"
	"fintrack/internal/shared/middleware"

	"go.uber.org/zap"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Handler      http.Handler
	Addr         string
	TLSEnabled   bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
	AllowedHosts []string
}

// StartServers creates and starts the main server and optional redirect server.
// Returns the main server and redirect server (nil if not enabled).
func StartServers(scfg ServerConfig) (*http.Server, *http.Server) {
	srv := &http.Server{
		Addr:         scfg.Addr,
		Handler:      scfg.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	var redirectSrv *http.Server

	if scfg.TLSEnabled && scfg.RedirectHTTP {
		redirectSrv = createRedirectServer(scfg.AllowedHosts)
		go func() {
			zap.L().Info("HTTP redirect server starting", zap.String("addr", redirectSrv.Addr))
			if err := redirectSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				zap.L().Error("HTTP redirect server error", zap.Error(err))
			}
		}()
	}

	go func() {
		if scfg.TLSEnabled {
			zap.L().Info("HTTPS server starting", zap.String("addr", scfg.Addr))
			if err := srv.ListenAndServeTLS(scfg.CertPath, scfg.KeyPath); err != nil && err != http.ErrServerClosed {
				zap.L().Fatal("HTTPS server error", zap.Error(err))
			}
		} else {
			zap.L().Info("HTTP server starting", zap.String("addr", scfg.Addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				zap.L().Fatal("HTTP server error", zap.Error(err))
			}
		}
	}()

	return srv, redirectSrv
}

// GracefulShutdown stops the scheduler first so no new jobs are queued, then
// drains the servers and the worker pool.
func GracefulShutdown(srv, redirectSrv *http.Server, sched *scheduler.Scheduler, pool *scheduler.WorkerPool, timeout time.Duration) {
	zap.L().Info("Server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if sched != nil {
		sched.Stop(ctx)
	}

	if redirectSrv != nil {
		if err := redirectSrv.Shutdown(ctx); err != nil {
			zap.L().Error("Error shutting down HTTP redirect server", zap.Error(err))
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Error shutting down main server", zap.Error(err))
	}

	if pool != nil {
		pool.Shutdown(timeout)
	}

	zap.L().Info("Server stopped")
}

// createRedirectServer creates an HTTP server that redirects all requests to HTTPS.
func createRedirectServer(allowedHosts []string) *http.Server {
	return &http.Server{
		Addr:         ":80",
		Handler:      redirectHandler(allowedHosts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func redirectHandler(allowedHosts []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Header.Get("X-Forwarded-Host")
		if host == "" {
			host = r.Host
		}

		if !middleware.IsHostAllowed(host, allowedHosts) {
			http.Error(w, "Invalid host", http.StatusBadRequest)
			return
		}

		canonicalHost := host
		if h, _, err := net.SplitHostPort(host); err == nil {
			canonicalHost = h
			if strings.Contains(h, ":") {
				canonicalHost = "[" + h + "]"
			}
		}

		http.Redirect(w, r, "https://"+canonicalHost+r.RequestURI, http.StatusMovedPermanently)
	})
}

// NewServerConfigFromConfig creates ServerConfig from application config.
func NewServerConfigFromConfig(handler http.Handler, cfg *config.Config) ServerConfig {
	return ServerConfig{
		Handler:      handler,
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		TLSEnabled:   cfg.TLS.Enabled,
		CertPath:     cfg.TLS.CertPath,
		KeyPath:      cfg.TLS.KeyPath,
		RedirectHTTP: cfg.TLS.RedirectHTTP,
		AllowedHosts: cfg.Server.AllowedHosts,
	}
}
