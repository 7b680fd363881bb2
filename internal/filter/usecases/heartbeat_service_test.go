package usecases_test

import (
	"context"
	"errors"
	"net/http"

	"filter-module/internal/filter/domain"
	"filter-module/internal/filter/usecases"
	mockusecases "filter-module/test/unit/doubles/filter/usecases"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("HeartbeatService", func() {
	var (
		ctx     context.Context
		ctrl    *gomock.Controller
		sender  *mockusecases.MockOutputSender
		service *usecases.SimpleHeartbeatService
	)

	BeforeEach(func() {
		ctx = context.Background()
		ctrl = gomock.NewController(GinkgoT())
		sender = mockusecases.NewMockOutputSender(ctrl)
		service = usecases.NewHeartbeatService(sender, usecases.HeartbeatServiceOpts{
			ModuleName: "FilterModule",
			Output:     "heartbeat",
		})
	})

	AfterEach(func() {
		ctrl.Finish()
	})

	Context("HandleMethod", func() {
		When("the heartbeat is sent", func() {
			It("should reply with the fixed success response", func() {
				var sent domain.Envelope
				sender.EXPECT().
					SendToOutput(gomock.Any(), "heartbeat", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, e domain.Envelope) error {
						sent = e
						return nil
					})

				response := service.HandleMethod(ctx, "CheckStatus")

				Expect(response.Status).To(Equal(http.StatusOK))
				Expect(string(response.Payload)).To(Equal(`{ "Response": "This is the response from the device" }`))
				Expect(sent.Properties()).To(HaveKeyWithValue("MessageType", "heartbeat"))
				Expect(string(sent.Payload())).To(Equal("Module [FilterModule] is running"))
				Expect(sent.MessageID()).ToNot(BeEmpty())
			})
		})

		When("the heartbeat cannot be sent", func() {
			It("should reply with an internal error", func() {
				sender.EXPECT().
					SendToOutput(gomock.Any(), "heartbeat", gomock.Any()).
					Return(errors.New("broker unavailable"))

				response := service.HandleMethod(ctx, "CheckStatus")

				Expect(response.Status).To(Equal(http.StatusInternalServerError))
			})
		})
	})
})
