package okr

import (
	"errors"

	"github.com/yukikurage/okr-tracker/internal/models"
)

// ErrNotOwner is returned when the acting user does not own the record.
var ErrNotOwner = errors.New("access denied: not the owner")

// Decision is the outcome of an ownership check.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "denied"
}

// Err converts the decision into nil or ErrNotOwner.
func (d Decision) Err() error {
	if d == Allowed {
		return nil
	}
	return ErrNotOwner
}

// AuthorizeObjective allows the actor only if they own the objective.
func AuthorizeObjective(actor uint64, objective models.Objective) Decision {
	if actor != 0 && objective.UserID == actor {
		return Allowed
	}
	return Denied
}

// AuthorizeKeyResult resolves ownership through the key result's parent
// objective. A parent that does not match the key result is denied.
func AuthorizeKeyResult(actor uint64, keyResult models.KeyResult, parent models.Objective) Decision {
	if keyResult.ObjectiveID != parent.ID {
		return Denied
	}
	return AuthorizeObjective(actor, parent)
}
