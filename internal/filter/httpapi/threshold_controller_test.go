package httpapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/httpapi"
	"filter-module/internal/filter/usecases"
	mockworkers "filter-module/test/unit/doubles/filter/workers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("ThresholdController", func() {
	var (
		ctrl     *gomock.Controller
		reporter *mockworkers.MockPropertyReporter
		store    *domain.ThresholdStore
		router   *http.ServeMux
		recorder *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		ctrl = gomock.NewController(GinkgoT())
		reporter = mockworkers.NewMockPropertyReporter(ctrl)
		store = domain.NewThresholdStore(domain.DefaultTemperatureThreshold)

		controller := httpapi.NewThresholdController(usecases.NewDesiredPropertiesService(store), reporter)
		router = http.NewServeMux()
		controller.AddRoutes(router)
		recorder = httptest.NewRecorder()
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("getThreshold", func() {
		It("should return the current threshold", func() {
			store.Update(31.5)

			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/threshold", nil))

			Expect(recorder.Code).To(Equal(http.StatusOK))
			Expect(recorder.Body.String()).To(MatchJSON(`{"temperature_threshold": 31.5}`))
		})
	})

	Context("updateThreshold", func() {
		When("the body carries a number", func() {
			It("should update the store and report the new value", func() {
				reporter.EXPECT().
					ReportProperties(gomock.Any(), map[string]any{"TemperatureThreshold": 40.0}).
					Return(nil)

				request := httptest.NewRequest(http.MethodPut, "/v1/threshold", strings.NewReader(`{"temperature_threshold": 40}`))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(recorder.Body.String()).To(MatchJSON(`{"previous": 25, "temperature_threshold": 40}`))
				Expect(store.Get()).To(Equal(40.0))
			})

			It("should keep the new value when reporting fails", func() {
				reporter.EXPECT().
					ReportProperties(gomock.Any(), gomock.Any()).
					DoAndReturn(func(context.Context, map[string]any) error {
						return errors.New("not connected")
					})

				request := httptest.NewRequest(http.MethodPut, "/v1/threshold", strings.NewReader(`{"temperature_threshold": -3}`))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusOK))
				Expect(store.Get()).To(Equal(-3.0))
			})
		})

		DescribeTable("rejecting bad bodies",
			func(body string) {
				request := httptest.NewRequest(http.MethodPut, "/v1/threshold", strings.NewReader(body))
				router.ServeHTTP(recorder, request)

				Expect(recorder.Code).To(Equal(http.StatusBadRequest))
				var response map[string]string
				Expect(json.Unmarshal(recorder.Body.Bytes(), &response)).To(Succeed())
				Expect(response).To(HaveKey("message"))
				Expect(store.Get()).To(Equal(domain.DefaultTemperatureThreshold))
			},
			Entry("not json", `threshold=30`),
			Entry("missing field", `{}`),
			Entry("null value", `{"temperature_threshold": null}`),
			Entry("string value", `{"temperature_threshold": "30"}`),
		)
	})
})
