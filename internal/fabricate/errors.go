package fabricate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	ErrActorNotFound     = errors.New("actor not found")
	ErrActorExists       = errors.New("actor already exists")
	ErrRecipeNotFound    = errors.New("recipe not found")
	ErrComponentNotFound = errors.New("component not found")
	ErrEssenceNotFound   = errors.New("essence not found")
	ErrNotCraftable      = errors.New("recipe is not craftable with the current inventory")
	ErrNothingToSalvage  = errors.New("component has no salvage")
	ErrInsufficient      = errors.New("inventory does not hold enough components")
	ErrSnapshotNotFound  = errors.New("snapshot not found")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNotifierNotFound  = errors.New("notifier not found")
	ErrNotifierExists    = errors.New("notifier already exists")
	ErrManagerClosed     = errors.New("notification manager closed")
)

// ResolutionError reports a record key that could not be resolved to an element.
type ResolutionError struct {
	Key string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %v", e.Key, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// UnknownMemberError is the panic value raised when an id-based mutation
// targets an id that is not part of the combination.
type UnknownMemberError struct {
	ID         string
	Available  []string
	Suggestion string
}

func newUnknownMemberError(id string, available []string) *UnknownMemberError {
	ids := make([]string, len(available))
	copy(ids, available)
	return &UnknownMemberError{
		ID:         id,
		Available:  ids,
		Suggestion: closestID(id, ids),
	}
}

func (e *UnknownMemberError) Error() string {
	msg := fmt.Sprintf("member %q not found; available: [%s]", e.ID, strings.Join(e.Available, ", "))
	if e.Suggestion != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestion)
	}
	return msg
}

// closestID returns the candidate nearest to id by edit distance, or "" when
// nothing is close enough to be a plausible typo.
func closestID(id string, candidates []string) string {
	best := ""
	bestDist := 0
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(strings.ToLower(id), strings.ToLower(cand))
		if dist > distanceLimit(len(cand)) {
			continue
		}
		if best == "" || dist < bestDist || (dist == bestDist && cand < best) {
			best = cand
			bestDist = dist
		}
	}
	return best
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
