package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// DefaultKey is the storage key under which the serialized draft lives.
const DefaultKey = "recovery-office-booking-draft"

// Step enumerates the draft states. Transitions are forward-only except for
// Back, which is allowed from EnteringDetails and Confirming. Errored is
// terminal and reachable from any state.
type Step int

const (
	SelectingService Step = iota
	EnteringDetails
	Confirming
	Submitted
	Errored
)

// String returns the step name.
func (s Step) String() string {
	switch s {
	case SelectingService:
		return "selecting-service"
	case EnteringDetails:
		return "entering-details"
	case Confirming:
		return "confirming"
	case Submitted:
		return "submitted"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Details holds the client details entered in the second step.
type Details struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Submission is the payload handed to the Submitter when the user confirms.
type Submission struct {
	ServiceID string  `json:"serviceId"`
	Details   Details `json:"details"`
}

// Submitter delivers a confirmed draft to the server. Returning nil means
// the server accepted the booking.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) error
}

// SubmitterFunc adapts a function to the Submitter interface.
type SubmitterFunc func(ctx context.Context, sub Submission) error

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, sub Submission) error { return f(ctx, sub) }

// ValidationError is a step-scoped validation failure. It keeps the machine
// in its current state; it is user-correctable, not a fault.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// payload is the serialized form written to storage after every successful
// mutation. Submitted and Errored are never persisted: a submitted draft is
// removed, and an errored machine keeps whatever was last stored so the
// supervisor's reset can clear it.
type payload struct {
	Step        Step    `json:"step"`
	ServiceID   string  `json:"selectedServiceId"`
	Details     Details `json:"clientDetails"`
	SubmitError string  `json:"submitError,omitempty"`
}

// Machine is the client-side booking draft. It is not safe for concurrent
// use: the flow runs on a single logical thread, and the only overlapping
// operation (a submission in flight) is guarded by a boolean flag rather
// than a lock.
type Machine struct {
	store     Storage
	key       string
	submitter Submitter

	step       Step
	serviceID  string
	details    Details
	submitErr  string
	submitting bool
}

// New creates a Machine bound to store under DefaultKey, rehydrating any
// persisted draft. A corrupt stored payload is discarded and the machine
// starts fresh in SelectingService; rehydration never fails the caller.
func New(store Storage, submitter Submitter) *Machine {
	return NewWithKey(store, submitter, DefaultKey)
}

// NewWithKey is New with an explicit storage key.
func NewWithKey(store Storage, submitter Submitter, key string) *Machine {
	m := &Machine{store: store, key: key, submitter: submitter}
	m.rehydrate()
	return m
}

// rehydrate restores persisted state, resetting to a clean draft when the
// payload is missing, unreadable, or corrupt.
func (m *Machine) rehydrate() {
	raw, ok, err := m.store.Get(m.key)
	if err != nil || !ok {
		return
	}
	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil || p.Step < SelectingService || p.Step > Confirming {
		// Corrupt or out-of-range payload: drop it and start over.
		_ = m.store.Remove(m.key)
		m.step = SelectingService
		return
	}
	m.step = p.Step
	m.serviceID = p.ServiceID
	m.details = p.Details
	m.submitErr = p.SubmitError
}

// Step reports the current state.
func (m *Machine) Step() Step { return m.step }

// ServiceID returns the selected service, if any.
func (m *Machine) ServiceID() string { return m.serviceID }

// Details returns the entered client details.
func (m *Machine) Details() Details { return m.details }

// SubmitError returns the reason attached to the last failed submission.
func (m *Machine) SubmitError() string { return m.submitErr }

// SelectService records the chosen service and advances to EnteringDetails.
func (m *Machine) SelectService(serviceID string) error {
	if m.step != SelectingService {
		return m.wrongStep(SelectingService)
	}
	if strings.TrimSpace(serviceID) == "" {
		return &ValidationError{Field: "serviceId", Reason: "a service must be chosen"}
	}
	m.serviceID = strings.TrimSpace(serviceID)
	m.step = EnteringDetails
	return m.persist()
}

var emailRE = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EnterDetails validates and records the client details, advancing to
// Confirming. Invalid input keeps the state unchanged and returns a
// step-scoped ValidationError.
func (m *Machine) EnterDetails(d Details) error {
	if m.step != EnteringDetails {
		return m.wrongStep(EnteringDetails)
	}
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)

	if d.FirstName == "" {
		return &ValidationError{Field: "firstName", Reason: "required"}
	}
	if d.LastName == "" {
		return &ValidationError{Field: "lastName", Reason: "required"}
	}
	if !emailRE.MatchString(d.Email) {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	if len(strings.Map(keepDigit, d.Phone)) < 7 {
		return &ValidationError{Field: "phone", Reason: "must contain at least 7 digits"}
	}

	m.details = d
	m.step = Confirming
	return m.persist()
}

// keepDigit maps non-digits away for phone validation.
func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

// Back steps back once. It is allowed from EnteringDetails and Confirming
// only; entered data is kept.
func (m *Machine) Back() error {
	switch m.step {
	case EnteringDetails:
		m.step = SelectingService
	case Confirming:
		m.step = EnteringDetails
	default:
		return &ValidationError{Field: "step", Reason: "cannot go back from " + m.step.String()}
	}
	return m.persist()
}

// Submit delivers the confirmed draft to the server.
//
// Semantics:
//   - Only valid from Confirming.
//   - A second Submit while one is in flight is a no-op, not queued.
//   - On failure the machine returns to Confirming with the error reason
//     attached; the entered data is never lost.
//   - On success the machine reaches Submitted and the storage entry is
//     removed; the draft's job is done.
func (m *Machine) Submit(ctx context.Context) error {
	if m.step != Confirming {
		return m.wrongStep(Confirming)
	}
	if m.submitting {
		return nil
	}
	m.submitting = true
	defer func() { m.submitting = false }()

	err := m.submitter.Submit(ctx, Submission{ServiceID: m.serviceID, Details: m.details})
	if err != nil {
		m.submitErr = err.Error()
		_ = m.persist()
		return err
	}

	m.step = Submitted
	m.submitErr = ""
	return m.store.Remove(m.key)
}

// Fail moves the machine to the terminal Errored state. The stored draft is
// left in place; clearing it is the supervisor's reset action.
func (m *Machine) Fail() {
	m.step = Errored
}

// Reset discards all entered data and the stored draft, returning to a
// clean SelectingService state. Usable from any state, including Errored.
func (m *Machine) Reset() error {
	m.step = SelectingService
	m.serviceID = ""
	m.details = Details{}
	m.submitErr = ""
	m.submitting = false
	return m.store.Remove(m.key)
}

// persist serializes the full draft to storage. Called after every
// successful mutation; this is the only persistence until submission.
func (m *Machine) persist() error {
	b, err := json.Marshal(payload{
		Step:        m.step,
		ServiceID:   m.serviceID,
		Details:     m.details,
		SubmitError: m.submitErr,
	})
	if err != nil {
		return err
	}
	return m.store.Set(m.key, string(b))
}

// wrongStep reports an out-of-order transition attempt.
func (m *Machine) wrongStep(want Step) error {
	return &ValidationError{
		Field:  "step",
		Reason: fmt.Sprintf("expected %s, currently %s", want, m.step),
	}
}
