package server

import (
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"orthanc/internal/config"
)

func TestNew_TimeoutsFromConfig(t *testing.T) {
	cfg := config.ServerConfig{
		Port:         9090,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  time.Minute,
	}

	srv := New(cfg, http.NewServeMux(), zap.NewNop())

	if srv.httpServer.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %s", srv.httpServer.Addr)
	}
	if srv.httpServer.ReadTimeout != 5*time.Second {
		t.Errorf("expected read timeout 5s, got %v", srv.httpServer.ReadTimeout)
	}
	if srv.httpServer.WriteTimeout != 20*time.Second {
		t.Errorf("expected write timeout 20s, got %v", srv.httpServer.WriteTimeout)
	}
	if srv.httpServer.IdleTimeout != time.Minute {
		t.Errorf("expected idle timeout 1m, got %v", srv.httpServer.IdleTimeout)
	}
}

func TestNew_ZeroTimeoutsFallBack(t *testing.T) {
	srv := New(config.ServerConfig{Port: 8080}, http.NewServeMux(), zap.NewNop())

	if srv.httpServer.ReadTimeout != defaultReadTimeout {
		t.Errorf("expected read timeout %v, got %v", defaultReadTimeout, srv.httpServer.ReadTimeout)
	}
	if srv.httpServer.WriteTimeout != defaultWriteTimeout {
		t.Errorf("expected write timeout %v, got %v", defaultWriteTimeout, srv.httpServer.WriteTimeout)
	}
	if srv.httpServer.IdleTimeout != defaultIdleTimeout {
		t.Errorf("expected idle timeout %v, got %v", defaultIdleTimeout, srv.httpServer.IdleTimeout)
	}
}
