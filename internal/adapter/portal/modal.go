package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
)

// modalGuard dismisses interstitial dialogs. It is best effort: a dialog that never
// shows up within the bound is the normal case and not an error.
type modalGuard struct {
	selectors ModalSelectors
	timeout   time.Duration
	log       *logger.Logger
}

// dismiss closes a visible dialog if one appears within the timeout.
// Only driver failures and caller cancellation are reported.
func (g modalGuard) dismiss(ctx context.Context, d Driver) error {
	if g.selectors.Dialog == "" {
		return nil
	}

	err := d.WaitVisible(ctx, g.selectors.Dialog, g.timeout)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return nil
	default:
		return fmt.Errorf("wait for dialog: %w", err)
	}

	for _, sel := range g.selectors.CloseButtons {
		found, err := d.Exists(ctx, sel)
		if err != nil {
			return fmt.Errorf("look up close control %q: %w", sel, err)
		}
		if !found {
			continue
		}

		if err := d.Click(ctx, sel); err != nil {
			return fmt.Errorf("click close control %q: %w", sel, err)
		}

		err = d.WaitGone(ctx, g.selectors.Dialog, g.timeout)
		switch {
		case err == nil:
			g.log.Debug().Str("control", sel).Msg("Dismissed dialog")
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			g.log.Warn().Str("control", sel).Msg("Dialog still visible after close")
			return nil
		default:
			return fmt.Errorf("wait for dialog to close: %w", err)
		}
	}

	g.log.Debug().Msg("Dialog has no known close control")
	return nil
}
