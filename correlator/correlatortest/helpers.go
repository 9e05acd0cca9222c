package correlatortest

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// FindByName returns the first exported span with the given name, or
// nil if none matches.
func FindByName(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, s := range spans {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Attr returns the value of an attribute on a span as an interface{},
// and whether it was present.
func Attr(s sdktrace.ReadOnlySpan, key string) (interface{}, bool) {
	for _, kv := range s.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.AsInterface(), true
		}
	}
	return nil, false
}

// EventCount returns the number of span events recorded on s (the log
// records attached during the span's lifetime).
func EventCount(s sdktrace.ReadOnlySpan) int {
	return len(s.Events())
}
