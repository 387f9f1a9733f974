package feed

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// pushEnvelope is the JSON wrapper Google Pub/Sub wraps around pushed
// messages.
type pushEnvelope struct {
	Message struct {
		Data       []byte            `json:"data"`
		Attributes map[string]string `json:"attributes"`
		MessageId  string            `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// DecodePushEnvelope extracts the feed event from a Pub/Sub push delivery.
// Used by deployments without a resident redis subscriber.
func DecodePushEnvelope(body []byte) (Event, error) {
	var envelope pushEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return Event{}, err
	}

	data := envelope.Message.Data
	if len(data) == 0 {
		return Event{}, errors.New("empty pubsub message data")
	}
	// encoding/json already base64-decodes []byte fields; some push
	// configurations double-encode, so try a second pass.
	if decoded, err := base64.StdEncoding.DecodeString(string(data)); err == nil && json.Valid(decoded) {
		data = decoded
	}

	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if event.Table == "" {
		return Event{}, errors.New("feed event missing table")
	}
	return event, nil
}

// Apply lets the push endpoint hand a single decoded event to the
// synchronizer's pipeline.
func (s *Synchronizer) Apply(event Event) {
	s.apply(event)
}
