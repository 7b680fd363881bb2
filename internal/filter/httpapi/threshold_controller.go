package httpapi

import (
	"log/slog"
	"net/http"

	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/httpapi/internal"
	"filter-module/internal/filter/usecases"
	"filter-module/internal/filter/workers"
	"filter-module/internal/infra/httpserver"

	"github.com/go-playground/validator/v10"
)

const (
	updateThresholdErrMessage  = "failed to update temperature threshold"
	invalidThresholdErrMessage = "temperature_threshold is required and must be a number"
)

func NewThresholdController(service usecases.DesiredPropertiesService, reporter workers.PropertyReporter) *ThresholdController {
	return &ThresholdController{
		service:   service,
		reporter:  reporter,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

var _ httpserver.Controller = (*ThresholdController)(nil)

// ThresholdController exposes the current threshold and a local override that
// goes through the same path as a desired properties patch.
type ThresholdController struct {
	service   usecases.DesiredPropertiesService
	reporter  workers.PropertyReporter
	validator *validator.Validate
}

func (c *ThresholdController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/threshold", c.getThreshold())
	router.Handle("PUT /v1/threshold", c.updateThreshold())
}

func (c *ThresholdController) getThreshold() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.ThresholdResponse{
			TemperatureThreshold: c.service.Threshold(),
		})
	}
}

func (c *ThresholdController) updateThreshold() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.ThresholdUpdateRequest
		if err := httpserver.DecodeJSONBody(r, &body); err != nil {
			slog.Error("decoding update threshold request", slog.Any("error", err))
			httpserver.ReplyWithError(w, http.StatusBadRequest, updateThresholdErrMessage)
			return
		}

		if err := c.validator.Struct(body); err != nil {
			httpserver.ReplyWithError(w, http.StatusBadRequest, invalidThresholdErrMessage)
			return
		}

		change := c.service.SetThreshold(r.Context(), *body.TemperatureThreshold)

		if c.reporter != nil {
			reported := map[string]any{domain.TemperatureThresholdProperty: change.Current}
			if err := c.reporter.ReportProperties(r.Context(), reported); err != nil {
				slog.Warn("reporting threshold override", slog.Any("error", err))
			}
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, internal.ThresholdUpdateResponse{
			Previous:             change.Previous,
			TemperatureThreshold: change.Current,
		})
	}
}
