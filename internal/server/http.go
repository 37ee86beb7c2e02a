// Package server is the HTTP observation surface of the driver: health,
// metrics, the latest rendered map image and the derived status
// properties.
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dulek/weback/vacuum"
)

// HTTPServer serves health, metrics, the map image and the status view.
type HTTPServer struct {
	Server *http.Server
}

func NewHTTPServer(addr string, device *vacuum.Device, registry *prometheus.Registry) *HTTPServer {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", HealthHandler)
	mux.Handle("/metrics", MetricsHandler(registry))
	mux.Handle("/map.png", MapImageHandler(device))
	mux.Handle("/status", StatusHandler(device))
	return &HTTPServer{Server: &http.Server{Addr: addr, Handler: mux}}
}

func (s *HTTPServer) ListenAndServe() error {
	return s.Server.ListenAndServe()
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.Server.Shutdown(ctx)
}
