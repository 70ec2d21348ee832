// Package fault implements the error isolation layer around the booking
// flow: fault classification, a root supervisor with an error-loop circuit
// breaker, and a feature-scoped flow supervisor that treats asynchronous
// failures identically to synchronous ones.
package fault

import "strings"

// Class buckets a fault by its textual content so a user-facing message can
// be chosen. Full technical detail is always retained alongside the class.
type Class int

const (
	ClassGeneric Class = iota
	ClassServiceUnavailable
	ClassNetwork
	ClassInitialization
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case ClassServiceUnavailable:
		return "service-unavailable"
	case ClassNetwork:
		return "network"
	case ClassInitialization:
		return "initialization"
	default:
		return "generic"
	}
}

// Message returns the user-facing message for the class. Technical detail
// never appears here; it stays in the Fault record for the developer panel.
func (c Class) Message() string {
	switch c {
	case ClassServiceUnavailable:
		return "The booking service is temporarily unavailable. Please try again shortly."
	case ClassNetwork:
		return "We could not reach the booking service. Check your connection and try again."
	case ClassInitialization:
		return "The booking flow failed to start. Resetting usually resolves this."
	default:
		return "Something went wrong with your booking. Your details have been kept."
	}
}

// Classify inspects an error's text and buckets it. Unknown shapes fall
// through to ClassGeneric.
func Classify(err error) Class {
	if err == nil {
		return ClassGeneric
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unavailable") || strings.Contains(msg, "503"):
		return ClassServiceUnavailable
	case strings.Contains(msg, "network") || strings.Contains(msg, "connection") ||
		strings.Contains(msg, "timeout") || strings.Contains(msg, "refused"):
		return ClassNetwork
	case strings.Contains(msg, "init") || strings.Contains(msg, "rehydrat") ||
		strings.Contains(msg, "unmarshal") || strings.Contains(msg, "corrupt"):
		return ClassInitialization
	default:
		return ClassGeneric
	}
}
