package scheduling

import (
	"errors"
	"fmt"
)

// Kind is the machine-checkable classification of a scheduling failure.
type Kind int

const (
	KindNone Kind = iota
	// KindNotFound: the doctor, patient, or appointment does not exist.
	KindNotFound
	// KindSlotUnavailable: the requested time is not a free slot.
	KindSlotUnavailable
	// KindInvalid: malformed or past-dated request.
	KindInvalid
	// KindForbidden: the requester does not own the resource.
	KindForbidden
	// KindStorageUnavailable: a collaborator failed; the caller may retry.
	KindStorageUnavailable
	// KindBusy: the doctor-day exclusion scope could not be acquired in time.
	KindBusy
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindSlotUnavailable:
		return "slot_unavailable"
	case KindInvalid:
		return "invalid"
	case KindForbidden:
		return "forbidden"
	case KindStorageUnavailable:
		return "storage_unavailable"
	case KindBusy:
		return "busy"
	default:
		return "none"
	}
}

// Error carries a stable kind plus a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds a plain scheduling error.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies a collaborator failure without losing the cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or KindNone for nil / foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}
