package correlator

import "regexp"

// RawEvent is the flat, undecoded shape an event session hands to a
// pre-filter: just enough fields to decide whether the event is worth
// decoding at all (spec §4.6). Real per-event-ID field schemas are out
// of scope (spec §2); sessions attach whatever raw fields they have into
// Fields.
type RawEvent struct {
	PID    int64
	Fields map[string]interface{}
}

// DecodedLog is the JSON-shaped, decoded log record the correlator
// attaches to spans. "User"/"SourceUser" and "Image"/"SourceImage" are
// the fields the default post-filter chain inspects.
type DecodedLog map[string]interface{}

func (d DecodedLog) stringField(keys ...string) string {
	for _, k := range keys {
		if v, ok := d[k]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}

// PreFilter vetoes a raw event before it is decoded.
type PreFilter func(RawEvent) bool

// PostFilter vetoes a decoded log before it is attached to a span.
type PostFilter func(DecodedLog) bool

// Decoder projects a raw event into a decoded log record. It returns
// ok=false when the event should be dropped (a filter already vetoed
// it, or the event could not be decoded).
type Decoder func(RawEvent) (DecodedLog, bool)

// PreFilterChain is an ordered list of predicates combined with logical
// AND, evaluated short-circuit (spec §4.6/§9: "composition is by list
// concatenation").
type PreFilterChain []PreFilter

// Allow reports whether every filter in the chain passes the event.
func (c PreFilterChain) Allow(e RawEvent) bool {
	for _, f := range c {
		if !f(e) {
			return false
		}
	}
	return true
}

// PostFilterChain is the decoded-log counterpart of PreFilterChain.
type PostFilterChain []PostFilter

// Allow reports whether every filter in the chain passes the log.
func (c PostFilterChain) Allow(d DecodedLog) bool {
	for _, f := range c {
		if !f(d) {
			return false
		}
	}
	return true
}

// DefaultPreFilters drops events from the agent's own PID and from PID 4
// (the Windows System Idle process), per spec §4.6.
func DefaultPreFilters(agentPID int64) PreFilterChain {
	return PreFilterChain{
		func(e RawEvent) bool { return e.PID != agentPID },
		func(e RawEvent) bool { return e.PID != 4 },
	}
}

// DefaultPostFilters drops decoded logs whose user/image fields match
// the system-user and agent-self patterns, per spec §4.6.
func DefaultPostFilters(agentImagePattern string) PostFilterChain {
	systemUser := regexp.MustCompile(`(?i)^(NT AUTHORITY\\SYSTEM|NT AUTHORITY\\LOCAL SERVICE|NT AUTHORITY\\NETWORK SERVICE)$`)
	var agentSelf *regexp.Regexp
	if agentImagePattern != "" {
		agentSelf = regexp.MustCompile(agentImagePattern)
	}
	return PostFilterChain{
		func(d DecodedLog) bool {
			user := d.stringField("User", "SourceUser")
			if user == "" {
				return true
			}
			return !systemUser.MatchString(user)
		},
		func(d DecodedLog) bool {
			if agentSelf == nil {
				return true
			}
			image := d.stringField("Image", "SourceImage")
			if image == "" {
				return true
			}
			return !agentSelf.MatchString(image)
		},
	}
}
