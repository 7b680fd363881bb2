package pubsub_test

import (
	"time"

	"filter-module/internal/filter/domain"
	"filter-module/internal/infra/pubsub"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vmihailenco/msgpack/v5"
)

var _ = Describe("Codec", func() {
	var record domain.AlertRecord

	BeforeEach(func() {
		record = domain.AlertRecord{
			MessageID:   "m-1",
			DeviceID:    "edge-device-01",
			ModuleID:    "FilterModule",
			Output:      "output1",
			ContentType: "application/json",
			Properties:  map[string]string{"MessageType": "Alert"},
			Payload:     `{"machine":{"temperature":26}}`,
			RaisedAt:    time.UnixMilli(1_760_000_000_000).UTC(),
		}
	})

	DescribeTable("should decode what it encodes",
		func(name string) {
			codec, err := pubsub.NewCodec(name, domain.AlertRecord{}, domain.AlertRecordSchema)
			Expect(err).ToNot(HaveOccurred())

			data, err := codec.Encode(record)
			Expect(err).ToNot(HaveOccurred())

			decoded, err := codec.Decode(data)
			Expect(err).ToNot(HaveOccurred())
			Expect(decoded).To(BeAssignableToTypeOf(&domain.AlertRecord{}))
			got := decoded.(*domain.AlertRecord)
			Expect(got.MessageID).To(Equal("m-1"))
			Expect(got.Properties).To(HaveKeyWithValue("MessageType", "Alert"))
			Expect(got.RaisedAt.Equal(record.RaisedAt)).To(BeTrue())
		},
		Entry("json", pubsub.CodecJSON),
		Entry("avro", pubsub.CodecAvro),
		Entry("msgpack", pubsub.CodecMsgpack),
	)

	It("should key msgpack maps with the json field names", func() {
		codec := pubsub.NewMsgpackCodec(domain.AlertRecord{})

		data, err := codec.Encode(record)
		Expect(err).ToNot(HaveOccurred())

		var raw map[string]any
		Expect(msgpack.Unmarshal(data, &raw)).To(Succeed())
		Expect(raw).To(HaveKeyWithValue("device_id", "edge-device-01"))
	})

	It("should reject unknown codecs", func() {
		_, err := pubsub.NewCodec("protobuf", domain.AlertRecord{}, "")
		Expect(err).To(HaveOccurred())
	})

	It("should reject invalid avro schemas", func() {
		_, err := pubsub.NewAvroCodec(domain.AlertRecord{}, `{"type":"record"}`)
		Expect(err).To(HaveOccurred())
	})
})
