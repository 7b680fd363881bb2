package edgehub

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"filter-module/internal/filter/domain"
)

// System property keys of the IoT Hub property bag.
const (
	SystemContentType     = "$.ct"
	SystemContentEncoding = "$.ce"
	SystemMessageID       = "$.mid"
	SystemOutputName      = "$.on"
	SystemInputName       = "$.to"
)

var systemKeys = map[string]bool{
	SystemContentType:             true,
	SystemContentEncoding:         true,
	SystemMessageID:               true,
	SystemOutputName:              true,
	SystemInputName:               true,
	"$.cdid":                      true,
	"$.cmid":                      true,
	"$.uid":                       true,
	"$.cid":                       true,
	"iothub-connection-device-id": true,
	"iothub-connection-module-id": true,
}

// EncodePropertyBag renders an envelope's metadata for an events topic. System
// keys come first; custom keys follow in sorted order so topics are stable.
func EncodePropertyBag(output string, e domain.Envelope) string {
	parts := make([]string, 0, 4+len(e.Properties()))

	appendPair := func(key, value string) {
		parts = append(parts, escape(key)+"="+escape(value))
	}

	if output != "" {
		appendPair(SystemOutputName, output)
	}
	if e.MessageID() != "" {
		appendPair(SystemMessageID, e.MessageID())
	}
	if e.ContentType() != "" {
		appendPair(SystemContentType, e.ContentType())
	}
	if e.ContentEncoding() != "" {
		appendPair(SystemContentEncoding, e.ContentEncoding())
	}

	properties := e.Properties()
	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		appendPair(k, properties[k])
	}

	return strings.Join(parts, "&")
}

// DecodeEnvelope builds an inbound envelope from a raw property bag and payload.
func DecodeEnvelope(propertyBag string, payload []byte) (domain.Envelope, error) {
	values, err := url.ParseQuery(propertyBag)
	if err != nil {
		return domain.Envelope{}, fmt.Errorf("parsing property bag %q: %w", propertyBag, err)
	}

	custom := make(map[string]string)
	for k, v := range values {
		if systemKeys[k] || len(v) == 0 {
			continue
		}
		custom[k] = v[len(v)-1]
	}

	return domain.NewEnvelope(payload,
		domain.WithMessageID(values.Get(SystemMessageID)),
		domain.WithContentType(values.Get(SystemContentType)),
		domain.WithContentEncoding(values.Get(SystemContentEncoding)),
		domain.WithProperties(custom),
	), nil
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
