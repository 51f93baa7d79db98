package sheet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wta/internal/game/character"
	"github.com/cory-johannsen/wta/internal/game/dice"
	"github.com/cory-johannsen/wta/internal/game/gift"
	"github.com/cory-johannsen/wta/internal/game/pool"
	"github.com/cory-johannsen/wta/internal/game/rage"
)

// RollOutcome is the result of a sheet roll.
type RollOutcome struct {
	Request pool.Request
	Result  dice.PoolResult
}

func (c *Controller) roll(ctx context.Context, a *character.Actor, req pool.Request, flavor, macro string) (RollOutcome, error) {
	res := c.roller.RollPool(req.Title, req.Pool)
	msg := Message{Speaker: a.Name, Title: req.Title, Body: res.String(), Macro: macro}
	if flavor != "" {
		msg.Items = []string{flavor}
	}
	for _, b := range req.Bonus.Applied {
		msg.Items = append(msg.Items, fmt.Sprintf("%s %+d", b.Name, b.Value))
	}
	if err := c.chat.Post(ctx, msg); err != nil {
		return RollOutcome{}, fmt.Errorf("posting roll: %w", err)
	}
	return RollOutcome{Request: req, Result: res}, nil
}

// RollGift rolls the gift with giftID: its two traits plus situational
// bonuses, with up to the actor's rage of those dice rolled as rage dice.
//
// Postcondition: Returns ErrGiftNotFound if the actor does not own giftID.
func (c *Controller) RollGift(ctx context.Context, id, giftID uuid.UUID) (RollOutcome, error) {
	a, log, err := c.load(ctx, id)
	if err != nil {
		return RollOutcome{}, err
	}
	g, ok := a.Item(giftID)
	if !ok {
		return RollOutcome{}, fmt.Errorf("%w: %s", ErrGiftNotFound, giftID)
	}
	req := pool.GiftRequest(a, g, c.bonuses)
	log.Info("rolling gift",
		zap.String("gift", g.Name),
		zap.Int("basic", req.Pool.Basic),
		zap.Int("rage", req.Pool.Advanced),
		zap.Int("bonus", req.Bonus.Total),
	)
	return c.roll(ctx, a, req, "", g.MacroID)
}

// RollHarano rolls a Harano test.
func (c *Controller) RollHarano(ctx context.Context, id uuid.UUID) (RollOutcome, error) {
	return c.rollBalance(ctx, id, "Harano Test")
}

// RollHauglosk rolls a Hauglosk test.
func (c *Controller) RollHauglosk(ctx context.Context, id uuid.UUID) (RollOutcome, error) {
	return c.rollBalance(ctx, id, "Hauglosk Test")
}

func (c *Controller) rollBalance(ctx context.Context, id uuid.UUID, title string) (RollOutcome, error) {
	a, _, err := c.load(ctx, id)
	if err != nil {
		return RollOutcome{}, err
	}
	return c.roll(ctx, a, pool.BalanceRequest(title, a), "", "")
}

// BeginFrenzy puts the actor into frenzy at full rage.
func (c *Controller) BeginFrenzy(ctx context.Context, id uuid.UUID) error {
	a, log, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	return c.settle(ctx, a, c.rage.BeginFrenzy(a), log)
}

// EndFrenzy ends the frenzy and empties rage.
func (c *Controller) EndFrenzy(ctx context.Context, id uuid.UUID) error {
	a, log, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	return c.settle(ctx, a, c.rage.EndFrenzy(a), log)
}

// AdjustRage changes rage by delta, as when the player edits the rage track.
func (c *Controller) AdjustRage(ctx context.Context, id uuid.UUID, delta int) error {
	a, log, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	return c.settle(ctx, a, c.rage.AdjustRage(a, delta), log)
}

// ShiftOutcome reports how a shift request was handled.
type ShiftOutcome struct {
	Decision rage.Decision
	// Shifted is true when the actor ended in the requested form.
	Shifted bool
	// Forced is true when the player chose to shift anyway.
	Forced bool
	Roll   *dice.PoolResult
}

// ShiftForm handles a request to shift into target. Homid and Lupus shift
// directly and post the form card. Supernatural forms roll a rage check of
// the form's cost; at zero rage the player is offered to shift anyway.
func (c *Controller) ShiftForm(ctx context.Context, id uuid.UUID, target character.Form) (ShiftOutcome, error) {
	a, log, err := c.load(ctx, id)
	if err != nil {
		return ShiftOutcome{}, err
	}
	log = log.With(zap.Stringer("target", target))

	out := ShiftOutcome{Decision: c.rage.CheckShift(a, target)}
	switch out.Decision {
	case rage.ShiftDirect:
		tr := c.rage.ForceShift(a, target)
		if err := c.settle(ctx, a, tr, log); err != nil {
			return out, err
		}
		out.Shifted = true
		return out, c.postForm(ctx, a, target)

	case rage.ShiftRefused:
		resp, err := c.prompt.Prompt(ctx, Dialog{
			Title: "Can't Transform: Lost the Wolf",
			Body:  "You have no rage left. Shift anyway?",
			Buttons: []Button{
				{ID: ButtonSubmit, Label: "Shift Anyway"},
				{ID: ButtonCancel, Label: "Cancel"},
			},
			Default: ButtonSubmit,
		})
		if err != nil {
			return out, fmt.Errorf("prompting shift override: %w", err)
		}
		if resp.Button != ButtonSubmit {
			log.Info("shift cancelled")
			return out, nil
		}
		tr := c.rage.ForceShift(a, target)
		out.Shifted, out.Forced = true, true
		return out, c.settle(ctx, a, tr, log)

	case rage.ShiftRoll:
		req := pool.ShiftRequest(a, target, c.bonuses)
		ro, err := c.roll(ctx, a, req, a.FormCard(target).Description, "")
		if err != nil {
			return out, err
		}
		out.Roll = &ro.Result
		tr, ok := c.rage.CompleteShift(a, target, ro.Result.Failures())
		out.Shifted = ok
		return out, c.settle(ctx, a, tr, log)

	default:
		return out, fmt.Errorf("unhandled shift decision %s", out.Decision)
	}
}

// LearnGift adds g to the actor's items, assigning an ID when g has none.
//
// Postcondition: Returns the stored gift.
func (c *Controller) LearnGift(ctx context.Context, id uuid.UUID, g gift.Gift) (gift.Gift, error) {
	a, log, err := c.load(ctx, id)
	if err != nil {
		return gift.Gift{}, err
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	a.Items = append(a.Items, g)
	if err := c.save(ctx, a); err != nil {
		return gift.Gift{}, err
	}
	log.Info("gift learned", zap.String("gift", g.Name), zap.String("type", g.GiftType))
	return g, nil
}

// AddGiftType asks which catalog gift type to show and marks it visible.
//
// Postcondition: Returns the chosen type key, or "" if the dialog was cancelled.
func (c *Controller) AddGiftType(ctx context.Context, id uuid.UUID) (string, error) {
	a, log, err := c.load(ctx, id)
	if err != nil {
		return "", err
	}
	var opts []Option
	for _, td := range c.catalog.Types() {
		opts = append(opts, Option{Value: td.Key, Label: td.Name})
	}
	resp, err := c.prompt.Prompt(ctx, Dialog{
		Title:   "Add",
		Input:   InputSelect,
		Label:   "Select Gift",
		Options: opts,
		Buttons: []Button{{ID: ButtonSubmit, Label: "Add"}, {ID: ButtonCancel, Label: "Cancel"}},
		Default: ButtonSubmit,
	})
	if err != nil {
		return "", fmt.Errorf("prompting gift type: %w", err)
	}
	if resp.Button != ButtonSubmit || resp.Value == "" {
		return "", nil
	}
	a.ShowGiftType(resp.Value)
	if err := c.save(ctx, a); err != nil {
		return "", err
	}
	log.Info("gift type shown", zap.String("type", resp.Value))
	return resp.Value, nil
}
