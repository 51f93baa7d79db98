package modifier

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/wta/internal/game/character"
	"github.com/cory-johannsen/wta/internal/scripting"
)

// Result is the outcome of aggregating bonuses for one roll.
//
// Invariant: Total == sum of Value over Applied.
type Result struct {
	Total   int
	Applied []*Bonus
}

// Aggregator returns the situational bonus for a set of roll selectors.
type Aggregator interface {
	ActiveBonuses(a *character.Actor, selectors []string) Result
}

// Predicates evaluates ActiveWhen expressions. *scripting.Evaluator satisfies it.
type Predicates interface {
	Eval(expr string, snap scripting.Snapshot) (bool, error)
}

// RegistryAggregator sums the registry bonuses that match a roll.
type RegistryAggregator struct {
	reg    *Registry
	preds  Predicates
	logger *zap.Logger
}

// NewAggregator creates a RegistryAggregator.
//
// Precondition: reg and logger must be non-nil. preds may be nil, in which
// case bonuses with an ActiveWhen predicate never apply.
func NewAggregator(reg *Registry, preds Predicates, logger *zap.Logger) *RegistryAggregator {
	return &RegistryAggregator{reg: reg, preds: preds, logger: logger}
}

// ActiveBonuses returns the total of every bonus whose paths intersect
// selectors and whose predicate holds for a. A predicate that fails to
// evaluate is logged and the bonus skipped.
//
// Postcondition: result.Total == sum(result.Applied[i].Value).
func (g *RegistryAggregator) ActiveBonuses(a *character.Actor, selectors []string) Result {
	set := make(map[string]bool, len(selectors))
	for _, s := range selectors {
		set[s] = true
	}

	var res Result
	for _, b := range g.reg.All() {
		if !b.Matches(set) {
			continue
		}
		if b.ActiveWhen != "" && !g.predicateHolds(b, a) {
			continue
		}
		res.Total += b.Value
		res.Applied = append(res.Applied, b)
	}
	return res
}

func (g *RegistryAggregator) predicateHolds(b *Bonus, a *character.Actor) bool {
	if g.preds == nil {
		return false
	}
	ok, err := g.preds.Eval(b.ActiveWhen, Snapshot(a))
	if err != nil {
		g.logger.Warn("modifier predicate failed",
			zap.String("modifier", b.ID),
			zap.Error(err),
		)
		return false
	}
	return ok
}

// Snapshot copies the predicate-visible state of a.
func Snapshot(a *character.Actor) scripting.Snapshot {
	return scripting.Snapshot{
		Rage:        a.Rage,
		Form:        a.ActiveForm.String(),
		Frenzy:      a.FrenzyActive,
		LostTheWolf: a.LostTheWolf,
		Abilities:   a.Abilities,
		Skills:      a.Skills,
		Renown:      a.Renown,
	}
}

// None is an Aggregator that never applies a bonus.
type None struct{}

// ActiveBonuses always returns a zero Result.
func (None) ActiveBonuses(*character.Actor, []string) Result { return Result{} }
