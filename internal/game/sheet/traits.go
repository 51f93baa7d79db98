package sheet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wta/internal/game/character"
)

// SetRating stores a trait rating on the actor.
//
// Precondition: value >= 0.
func (c *Controller) SetRating(ctx context.Context, id uuid.UUID, cat character.TraitCategory, key string, value int) error {
	if value < 0 {
		return fmt.Errorf("rating for %s.%s must be >= 0, got %d", cat.Selector(), key, value)
	}
	a, log, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	a.SetRating(cat, key, value)
	if err := c.save(ctx, a); err != nil {
		return err
	}
	log.Info("rating set", zap.String("trait", cat.Selector()+"."+key), zap.Int("value", value))
	return nil
}

// SetBalance stores the Harano and Hauglosk tracks.
//
// Precondition: both values >= 0.
func (c *Controller) SetBalance(ctx context.Context, id uuid.UUID, b character.Balance) error {
	if b.Harano < 0 || b.Hauglosk < 0 {
		return fmt.Errorf("balance must be >= 0, got harano=%d hauglosk=%d", b.Harano, b.Hauglosk)
	}
	a, _, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	a.Balance = b
	return c.save(ctx, a)
}
