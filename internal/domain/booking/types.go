package booking

import "errors"

var (
	ErrInvalidStatus       = errors.New("invalid booking status")
	ErrInvalidDurationType = errors.New("invalid duration type")
	ErrInvalidTransition   = errors.New("booking status transition not allowed")
	ErrAlreadyConfirmed    = errors.New("booking is already confirmed")
	ErrAlreadyCancelled    = errors.New("booking is already cancelled")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further status transition is allowed.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// allowedTransitions is the full lifecycle table. Anything absent is rejected.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range allowedTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

type DurationType string

const (
	TypeDiscovery DurationType = "discovery"
	TypeRegular   DurationType = "regular"
)

func ParseDurationType(s string) (DurationType, error) {
	switch DurationType(s) {
	case TypeDiscovery, TypeRegular:
		return DurationType(s), nil
	}
	return "", ErrInvalidDurationType
}

func (t DurationType) String() string {
	return string(t)
}

func DurationTypes() []DurationType {
	return []DurationType{TypeDiscovery, TypeRegular}
}

func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}
}
