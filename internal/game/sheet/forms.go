package sheet

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/wta/internal/game/character"
)

func (c *Controller) postForm(ctx context.Context, a *character.Actor, f character.Form) error {
	card := a.FormCard(f)
	err := c.chat.Post(ctx, Message{
		Speaker: a.Name,
		Title:   card.Name,
		Body:    card.Description,
		Items:   card.Abilities,
	})
	if err != nil {
		return fmt.Errorf("posting form %s: %w", f, err)
	}
	return nil
}

// FormToChat posts the card for form f.
func (c *Controller) FormToChat(ctx context.Context, id uuid.UUID, f character.Form) error {
	a, _, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	return c.postForm(ctx, a, f)
}

// EditForm asks for a new description of form f and stores it.
//
// Postcondition: Returns true if the description was changed.
func (c *Controller) EditForm(ctx context.Context, id uuid.UUID, f character.Form) (bool, error) {
	a, log, err := c.load(ctx, id)
	if err != nil {
		return false, err
	}
	card := a.FormCard(f)
	resp, err := c.prompt.Prompt(ctx, Dialog{
		Title:   "Edit " + card.Name,
		Input:   InputText,
		Label:   "Description",
		Initial: card.Description,
		Buttons: []Button{{ID: ButtonSubmit, Label: "Submit"}, {ID: ButtonCancel, Label: "Cancel"}},
		Default: ButtonSubmit,
	})
	if err != nil {
		return false, fmt.Errorf("prompting form description: %w", err)
	}
	if resp.Button != ButtonSubmit || resp.Value == card.Description {
		return false, nil
	}
	card.Description = resp.Value
	if a.Forms == nil {
		a.Forms = make(map[character.Form]character.FormInfo)
	}
	a.Forms[f] = card
	if err := c.save(ctx, a); err != nil {
		return false, err
	}
	log.Info("form description edited", zap.Stringer("form", f))
	return true, nil
}

// GiftToChat posts the description of the gift type giftType. Types the
// catalog does not know are posted by key alone.
func (c *Controller) GiftToChat(ctx context.Context, id uuid.UUID, giftType string) error {
	a, _, err := c.load(ctx, id)
	if err != nil {
		return err
	}
	msg := Message{Speaker: a.Name, Title: giftType}
	if td, ok := c.catalog.Get(giftType); ok {
		msg.Title, msg.Body = td.Name, td.Description
	}
	if err := c.chat.Post(ctx, msg); err != nil {
		return fmt.Errorf("posting gift type %s: %w", giftType, err)
	}
	return nil
}
