// Package selection lets a user refine the candidate file set before rendering.
package selection

import (
	"context"
	"errors"

	"github.com/temirov/flat/internal/types"
)

// ErrCancelled is returned when the user aborts the selection.
var ErrCancelled = errors.New("selection cancelled")

// Selector refines a candidate set. Implementations return a new slice with the
// same paths in the same order and never add candidates.
type Selector interface {
	Select(ctx context.Context, candidates []types.CandidateFile) ([]types.CandidateFile, error)
}

// AcceptAll keeps every candidate as it is.
type AcceptAll struct{}

// Select returns a copy of candidates unless ctx is already done.
func (AcceptAll) Select(ctx context.Context, candidates []types.CandidateFile) ([]types.CandidateFile, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	return append([]types.CandidateFile(nil), candidates...), nil
}
