package event

import "encoding/json"

// DecodePayload converts an event payload to its concrete type. Events
// published on the in-process bus carry the payload struct itself and decode
// with a plain type assertion. Payloads that crossed a JSON boundary, such as
// dead-letter entries re-injected by an operator, arrive as generic maps and
// take the marshal round-trip instead.
func DecodePayload[T any](input interface{}) (T, error) {
	if typed, ok := input.(T); ok {
		return typed, nil
	}
	var decoded T
	raw, err := json.Marshal(input)
	if err != nil {
		return decoded, err
	}
	return decoded, json.Unmarshal(raw, &decoded)
}
