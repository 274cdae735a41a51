package syncstore

import (
	"errors"
	"fmt"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
)

// ErrNoCurrentPortfolio is returned by flows that act on the current
// portfolio when none is selected.
var ErrNoCurrentPortfolio = errors.New("no current portfolio")

// userMessage renders err as the text stored in State.Error.
func userMessage(op string, err error) string {
	var vf *domain.ValidationFailed
	var rf *gateway.RequestFailedError
	switch {
	case errors.As(err, &vf):
		return vf.Error()
	case errors.Is(err, gateway.ErrNotFound):
		return fmt.Sprintf("failed to %s: not found", op)
	case errors.As(err, &rf):
		return fmt.Sprintf("failed to %s: %s", op, rf.Reason)
	default:
		return fmt.Sprintf("failed to %s: %v", op, err)
	}
}
