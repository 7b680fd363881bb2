package edgehub

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	_desiredPatchFilter  = "$iothub/twin/PATCH/properties/desired/#"
	_twinResponseFilter  = "$iothub/twin/res/#"
	_methodRequestFilter = "$iothub/methods/POST/#"
	_twinResponsePrefix  = "$iothub/twin/res/"
	_methodRequestPrefix = "$iothub/methods/POST/"
	_desiredPatchPrefix  = "$iothub/twin/PATCH/properties/desired/"
	_twinGetTopic        = "$iothub/twin/GET/?$rid=%s"
	_reportedPatchTopic  = "$iothub/twin/PATCH/properties/reported/?$rid=%s"
	_methodResponseTopic = "$iothub/methods/res/%d/?$rid=%s"
	_requestIDKey        = "$rid"
	_inputsSegment       = "inputs"
	_eventsSegment       = "messages/events"
)

var ErrUnknownTopic = errors.New("unknown topic")

// Topics renders the module scoped topic names used by edgeHub.
type Topics struct {
	DeviceID string
	ModuleID string
}

func (t Topics) modulePrefix() string {
	return fmt.Sprintf("devices/%s/modules/%s/", t.DeviceID, t.ModuleID)
}

func (t Topics) InputsFilter() string {
	return t.modulePrefix() + _inputsSegment + "/#"
}

func (t Topics) Events(propertyBag string) string {
	return t.modulePrefix() + _eventsSegment + "/" + propertyBag
}

// ParseInput splits devices/{d}/modules/{m}/inputs/{input}/{bag} into the
// input name and its raw property bag.
func (t Topics) ParseInput(topic string) (string, string, error) {
	rest, ok := strings.CutPrefix(topic, t.modulePrefix()+_inputsSegment+"/")
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	input, bag, _ := strings.Cut(rest, "/")
	if input == "" {
		return "", "", fmt.Errorf("%w: missing input name in %s", ErrUnknownTopic, topic)
	}

	return input, bag, nil
}

func IsDesiredPatch(topic string) bool {
	return strings.HasPrefix(topic, _desiredPatchPrefix)
}

// ParseMethodRequest reads $iothub/methods/POST/{name}/?$rid={rid}.
func ParseMethodRequest(topic string) (string, string, error) {
	rest, ok := strings.CutPrefix(topic, _methodRequestPrefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	name, query, _ := strings.Cut(rest, "/?")
	name = strings.TrimSuffix(name, "/")
	if name == "" {
		return "", "", fmt.Errorf("%w: missing method name in %s", ErrUnknownTopic, topic)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return "", "", fmt.Errorf("parsing method query %q: %w", query, err)
	}

	return name, values.Get(_requestIDKey), nil
}

// ParseTwinResponse reads $iothub/twin/res/{status}/?$rid={rid}.
func ParseTwinResponse(topic string) (int, string, error) {
	rest, ok := strings.CutPrefix(topic, _twinResponsePrefix)
	if !ok {
		return 0, "", fmt.Errorf("%w: %s", ErrUnknownTopic, topic)
	}

	rawStatus, query, _ := strings.Cut(rest, "/?")
	status, err := strconv.Atoi(strings.TrimSuffix(rawStatus, "/"))
	if err != nil {
		return 0, "", fmt.Errorf("parsing twin response status %q: %w", rawStatus, err)
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return 0, "", fmt.Errorf("parsing twin response query %q: %w", query, err)
	}

	return status, values.Get(_requestIDKey), nil
}

func twinGetTopic(requestID string) string {
	return fmt.Sprintf(_twinGetTopic, requestID)
}

func reportedPatchTopic(requestID string) string {
	return fmt.Sprintf(_reportedPatchTopic, requestID)
}

func methodResponseTopic(status int, requestID string) string {
	return fmt.Sprintf(_methodResponseTopic, status, requestID)
}
