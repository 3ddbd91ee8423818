package interactive

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/trebuchet-org/c2d/internal/domain/config"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// ConfirmAdapter asks yes/no questions on the terminal
type ConfirmAdapter struct {
	config *config.RuntimeConfig
}

// NewConfirmAdapter creates a new confirm adapter
func NewConfirmAdapter(cfg *config.RuntimeConfig) *ConfirmAdapter {
	return &ConfirmAdapter{config: cfg}
}

// Confirm returns true without prompting under --yes. In non-interactive
// mode without --yes it refuses rather than blocking on stdin.
func (c *ConfirmAdapter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if c.config.AssumeYes {
		return true, nil
	}
	if c.config.NonInteractive {
		return false, fmt.Errorf("%q needs confirmation; pass --yes in non-interactive mode", prompt)
	}

	p := promptui.Prompt{
		Label:     prompt,
		IsConfirm: true,
	}

	_, err := p.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrInterrupt):
		return false, nil
	default:
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
}

var _ usecase.Confirmer = (*ConfirmAdapter)(nil)
