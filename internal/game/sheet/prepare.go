package sheet

import (
	"context"

	"github.com/google/uuid"

	"github.com/cory-johannsen/wta/internal/game/character"
	"github.com/cory-johannsen/wta/internal/game/gift"
	"github.com/cory-johannsen/wta/internal/game/rage"
)

// FormView is one entry of the form track.
type FormView struct {
	Form   character.Form
	Card   character.FormInfo
	Active bool
	Cost   int
}

// View is the display-ready state of one actor.
type View struct {
	Actor *character.Actor
	Gifts gift.Sheet
	Forms []FormView
	// CanShift reports, per supernatural form, whether a shift would roll
	// rather than be refused.
	CanShift map[character.Form]bool
}

// Prepare loads the actor, reconciles Lost the Wolf against current rage,
// prompts for a resting form when the wolf was just lost, and arranges gifts
// and forms for display.
//
// Postcondition: the returned actor satisfies the rage invariants and any
// reconciliation change has been persisted.
func (c *Controller) Prepare(ctx context.Context, id uuid.UUID) (View, error) {
	a, log, err := c.load(ctx, id)
	if err != nil {
		return View{}, err
	}

	tr := c.rage.Reconcile(a)
	if tr.WolfLost || tr.WolfRecovered {
		if err := c.settle(ctx, a, tr, log); err != nil {
			return View{}, err
		}
	}

	v := View{
		Actor:    a,
		Gifts:    gift.Prepare(c.catalog, a.VisibleGiftTypes, a.Items),
		CanShift: make(map[character.Form]bool),
	}
	for _, f := range character.AllForms() {
		v.Forms = append(v.Forms, FormView{
			Form:   f,
			Card:   a.FormCard(f),
			Active: a.ActiveForm == f,
			Cost:   f.ShiftCost(),
		})
		if f.Supernatural() {
			v.CanShift[f] = c.rage.CheckShift(a, f) != rage.ShiftRefused
		}
	}
	return v, nil
}
