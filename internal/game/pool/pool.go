// Package pool assembles dice pools from actor traits, situational bonuses,
// and the actor's rage.
package pool

import (
	"github.com/cory-johannsen/wta/internal/game/character"
	"github.com/cory-johannsen/wta/internal/game/dice"
	"github.com/cory-johannsen/wta/internal/game/gift"
	"github.com/cory-johannsen/wta/internal/game/modifier"
)

// Compose splits trait1 + trait2 + modifier into basic and advanced dice.
// Advanced dice replace up to rage dice of the pool.
//
// Postcondition: Advanced == min(total, rage) and Basic == max(total-rage, 0),
// with total and rage floored at 0 so neither count is negative.
func Compose(trait1, trait2, modifier, rage int) dice.Pool {
	total := max(trait1+trait2+modifier, 0)
	rage = max(rage, 0)
	return dice.Pool{
		Basic:    max(total-rage, 0),
		Advanced: min(total, rage),
	}
}

// Request is a fully assembled roll: the pool, the selectors that were used to
// aggregate bonuses, and the bonuses that applied.
type Request struct {
	Title     string
	Pool      dice.Pool
	Selectors []string
	Bonus     modifier.Result
	// RageCheck marks a roll whose advanced-die failures spend rage.
	RageCheck bool
}

// GiftRequest builds the roll for a gift. Dice1 is the gift's renown or an
// ability; Dice2 is its renown, a skill when g.Skill is set, or an ability.
// Unknown trait keys count as 0.
//
// Precondition: a and agg must be non-nil.
func GiftRequest(a *character.Actor, g gift.Gift, agg modifier.Aggregator) Request {
	selectors := []string{"gift"}
	renown := a.Rating(character.TraitRenown, g.Renown)

	var dice1 int
	if g.Dice1 == gift.RenownTrait {
		dice1 = renown
	} else {
		dice1 = a.Rating(character.TraitAbility, g.Dice1)
		selectors = append(selectors, "abilities", "abilities."+g.Dice1)
	}

	if g.Dice1 == gift.RenownTrait || g.Dice2 == gift.RenownTrait {
		selectors = append(selectors, "renown", "renown."+g.Renown)
	}

	var dice2 int
	switch {
	case g.Dice2 == gift.RenownTrait:
		dice2 = renown
	case g.Skill:
		dice2 = a.Rating(character.TraitSkill, g.Dice2)
		selectors = append(selectors, "skills", "skills."+g.Dice2)
	default:
		dice2 = a.Rating(character.TraitAbility, g.Dice2)
		selectors = append(selectors, "abilities", "abilities."+g.Dice2)
	}

	bonus := agg.ActiveBonuses(a, selectors)
	return Request{
		Title:     g.Name,
		Pool:      Compose(dice1, dice2, bonus.Total, a.Rage),
		Selectors: selectors,
		Bonus:     bonus,
	}
}

// BalanceRequest builds a Harano or Hauglosk test: harano + hauglosk basic
// dice, never fewer than one, with no rage dice.
func BalanceRequest(title string, a *character.Actor) Request {
	n := max(a.Balance.Harano+a.Balance.Hauglosk, 1)
	return Request{
		Title: title,
		Pool:  dice.Pool{Basic: n},
	}
}

// ShiftRequest builds the rage check for shifting into f: the form's cost in
// advanced dice plus any bonus, no basic dice.
//
// Postcondition: Pool.Basic == 0 and Pool.Advanced >= 0.
func ShiftRequest(a *character.Actor, f character.Form, agg modifier.Aggregator) Request {
	bonus := agg.ActiveBonuses(a, nil)
	return Request{
		Title:     f.DisplayName(),
		Pool:      dice.Pool{Advanced: max(f.ShiftCost()+bonus.Total, 0)},
		Bonus:     bonus,
		RageCheck: true,
	}
}
