// Package api exposes the pricing service over HTTP.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/cmd/swaprisk/internal/service"
	"github.com/abukar10/Sonia-swap-pricing-analytics-tool/marketdata"
)

// Handler serves the pricing endpoints.
type Handler struct {
	svc      *service.Service
	log      zerolog.Logger
	gatherer prometheus.Gatherer
}

// NewHandler creates a handler. A nil gatherer exposes the default registry on /metrics.
func NewHandler(svc *service.Service, log zerolog.Logger, gatherer prometheus.Gatherer) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{svc: svc, log: log, gatherer: gatherer}
}

// RegisterRoutes mounts the API on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))

	g := e.Group("/v1")
	g.POST("/curves/bootstrap", handle(h, "bootstrap", h.svc.Bootstrap))
	g.POST("/curves/forwards", handle(h, "forwards", h.svc.Forwards))
	g.POST("/swaps/price", handle(h, "price", h.svc.Price))
	g.POST("/swaps/risk", handle(h, "risk", h.svc.Risk))
	g.POST("/swaps/shift", handle(h, "shift", h.svc.Shift))
	g.POST("/swaps/keyrate", handle(h, "key_rate", h.svc.KeyRate))
	g.POST("/swaps/analyze", handle(h, "analyze", h.svc.Analyze))
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return SuccessResponse(c, map[string]string{"status": "ok"})
}

func handle[T any](h *Handler, op string, fn func(context.Context, *service.Request) (T, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := bindRequest(c)
		if err != nil {
			return ErrorResponse(c, err)
		}
		out, err := fn(c.Request().Context(), req)
		if err != nil {
			if StatusFor(err) >= http.StatusInternalServerError {
				h.log.Error().Err(err).Str("operation", op).Msg("request failed")
			}
			return ErrorResponse(c, err)
		}
		return SuccessResponse(c, out)
	}
}

// bindRequest decodes JSON through echo and YAML bodies through the request decoder.
// An empty body is an empty request.
func bindRequest(c echo.Context) (*service.Request, error) {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if strings.Contains(ct, "yaml") {
		return service.DecodeRequest(c.Request().Body, marketdata.FormatYAML)
	}
	req := &service.Request{}
	if err := c.Bind(req); err != nil {
		return nil, err
	}
	return req, nil
}
