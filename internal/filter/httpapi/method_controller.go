package httpapi

import (
	"log/slog"
	"net/http"

	"filter-module/internal/filter/usecases"
	"filter-module/internal/infra/httpserver"
)

func NewMethodController(service usecases.HeartbeatService) *MethodController {
	return &MethodController{service: service}
}

var _ httpserver.Controller = (*MethodController)(nil)

type MethodController struct {
	service usecases.HeartbeatService
}

func (c *MethodController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /v1/methods/{name}", c.invoke())
}

func (c *MethodController) invoke() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if name == "" {
			httpserver.ReplyWithError(w, http.StatusBadRequest, "method name is required")
			return
		}

		response := c.service.HandleMethod(r.Context(), name)
		slog.Info("local method invocation", slog.String("method", name), slog.Int("status", response.Status))
		httpserver.ReplyRawJSON(w, response.Status, response.Payload)
	}
}
