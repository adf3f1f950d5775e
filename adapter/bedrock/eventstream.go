package bedrock

import "github.com/aws/aws-sdk-go-v2/aws/protocol/eventstream"

// headerString looks up a named event-stream header and returns its value
// as a string, or "" if absent. :event-type and :message-type, the two
// headers Converse streaming relies on for dispatch, are always encoded
// as eventstream.StringValue on the wire.
func headerString(headers eventstream.Headers, name string) string {
	for _, h := range headers {
		if h.Name != name {
			continue
		}
		if sv, ok := h.Value.(eventstream.StringValue); ok {
			return string(sv)
		}
		return h.Value.String()
	}
	return ""
}
