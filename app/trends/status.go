package trends

import "fmt"

type Status string

const (
	StatusNew          Status = "new"
	StatusDraftCreated Status = "draft_created"
	StatusPublished    Status = "published"
	StatusArchived     Status = "archived"
)

var (
	ErrInvalidStatus     = fmt.Errorf("invalid status value")
	ErrInvalidTransition = fmt.Errorf("illegal status transition")
)

// statusTransitions is the closed transition table. The forward path is
// new -> draft_created -> published; every non-archived state may be archived,
// and archived stories may only be restored to new.
var statusTransitions = map[Status][]Status{
	StatusNew:          {StatusDraftCreated, StatusArchived},
	StatusDraftCreated: {StatusPublished, StatusArchived},
	StatusPublished:    {StatusArchived},
	StatusArchived:     {StatusNew},
}

func IsValidStatus(s string) bool {
	_, ok := statusTransitions[Status(s)]
	return ok
}

func ParseStatus(s string) (Status, error) {
	if !IsValidStatus(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return Status(s), nil
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an error describing why a transition is not
// allowed, or nil if it is. Unknown statuses are reported before the
// transition itself is considered.
func ValidateTransition(from, to Status) error {
	if !IsValidStatus(string(from)) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, from)
	}
	if !IsValidStatus(string(to)) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// Stamp identifies which actor/timestamp pair a transition writes alongside
// updated_at.
type Stamp string

const (
	StampNone     Stamp = ""
	StampArchived Stamp = "archived"
	StampRestored Stamp = "restored"
	StampPublish  Stamp = "published"
)

// TransitionStamp returns the audit stamp a legal transition carries.
func TransitionStamp(from, to Status) Stamp {
	switch {
	case to == StatusArchived:
		return StampArchived
	case from == StatusArchived && to == StatusNew:
		return StampRestored
	case to == StatusPublished:
		return StampPublish
	default:
		return StampNone
	}
}
