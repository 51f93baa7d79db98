// Package rage tracks a werewolf's rage, frenzy, and Lost the Wolf state and
// decides which form shifts are allowed.
package rage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wta/internal/game/character"
)

// Config holds table rules for the rage tracker.
type Config struct {
	// AutomatedRage spends rage on failed rage checks, refuses supernatural
	// shifts at zero rage, and raises Lost the Wolf.
	AutomatedRage bool
}

// Transition reports what a state change did.
type Transition struct {
	RageBefore int
	RageAfter  int
	// WolfLost is set when this change marked the actor as having lost the
	// wolf; the caller must ask the player for a resting form.
	WolfLost bool
	// WolfRecovered is set when rage above zero cleared Lost the Wolf.
	WolfRecovered bool
}

// Decision is the result of checking a requested form shift.
type Decision int

const (
	// ShiftDirect means the form is set without a roll.
	ShiftDirect Decision = iota
	// ShiftRoll means a rage check of the form's cost must be rolled first.
	ShiftRoll
	// ShiftRefused means the actor has no rage for a supernatural form; only
	// an explicit override may proceed.
	ShiftRefused
)

func (d Decision) String() string {
	switch d {
	case ShiftDirect:
		return "direct"
	case ShiftRoll:
		return "roll"
	case ShiftRefused:
		return "refused"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Machine applies rage rules to actors. It holds no per-actor state; every
// method mutates the actor passed to it.
//
// Invariant (after any mutating call): 0 <= a.Rage <= MaxRage, and
// a.LostTheWolf implies a.Rage == 0.
type Machine struct {
	cfg    Config
	logger *zap.Logger
}

// NewMachine creates a Machine.
//
// Precondition: logger must be non-nil.
func NewMachine(cfg Config, logger *zap.Logger) *Machine {
	return &Machine{cfg: cfg, logger: logger}
}

// Config returns the rules the machine was built with.
func (m *Machine) Config() Config {
	return m.cfg
}

// BeginFrenzy puts the actor into frenzy at full rage.
//
// Postcondition: a.FrenzyActive and a.Rage == MaxRage.
func (m *Machine) BeginFrenzy(a *character.Actor) Transition {
	a.FrenzyActive = true
	tr := m.set(a, character.MaxRage)
	m.logger.Info("frenzy began", zap.Int("rage", a.Rage))
	return tr
}

// EndFrenzy ends the frenzy and empties rage.
//
// Postcondition: !a.FrenzyActive and a.Rage == 0.
func (m *Machine) EndFrenzy(a *character.Actor) Transition {
	a.FrenzyActive = false
	tr := m.set(a, 0)
	m.logger.Info("frenzy ended", zap.Bool("wolf_lost", tr.WolfLost))
	return tr
}

// SetRage clamps n into range and stores it.
//
// Postcondition: a.Rage == ClampRage(n); Lost the Wolf reconciled.
func (m *Machine) SetRage(a *character.Actor, n int) Transition {
	return m.set(a, n)
}

// AdjustRage adds delta to rage, clamped. Deltas beyond the track length
// are treated as a full fill or drain.
func (m *Machine) AdjustRage(a *character.Actor, delta int) Transition {
	delta = min(max(delta, -character.MaxRage), character.MaxRage)
	return m.set(a, a.Rage+delta)
}

// ApplyFailures spends one rage per failed rage die, floored at zero.
//
// Precondition: failures >= 0; negative values are treated as zero.
// Postcondition: a.Rage == max(before - failures, 0).
func (m *Machine) ApplyFailures(a *character.Actor, failures int) Transition {
	return m.set(a, a.Rage-min(max(failures, 0), character.MaxRage))
}

func (m *Machine) set(a *character.Actor, n int) Transition {
	before := a.Rage
	a.Rage = character.ClampRage(n)
	tr := m.Reconcile(a)
	tr.RageBefore = before
	return tr
}

// Reconcile restores the Lost the Wolf invariant for the actor's current
// rage and form. It runs after every rage change and whenever a sheet is
// prepared for display.
//
// Postcondition: a.Rage > 0 implies !a.LostTheWolf. With automated rage on,
// a.Rage == 0 in a supernatural form implies a.LostTheWolf, and WolfLost is
// set only on the call that raised it.
func (m *Machine) Reconcile(a *character.Actor) Transition {
	a.Rage = character.ClampRage(a.Rage)
	tr := Transition{RageBefore: a.Rage, RageAfter: a.Rage}

	if a.Rage > 0 {
		if a.LostTheWolf {
			a.LostTheWolf = false
			tr.WolfRecovered = true
			m.logger.Info("wolf recovered", zap.Int("rage", a.Rage))
		}
		return tr
	}

	if !m.cfg.AutomatedRage || a.LostTheWolf || !a.ActiveForm.Supernatural() {
		return tr
	}
	a.LostTheWolf = true
	tr.WolfLost = true
	m.logger.Info("lost the wolf", zap.Stringer("form", a.ActiveForm))
	return tr
}

// CheckShift decides how a request to shift into target proceeds.
// Homid and Lupus never need rage.
func (m *Machine) CheckShift(a *character.Actor, target character.Form) Decision {
	switch target {
	case character.FormHomid, character.FormLupus:
		return ShiftDirect
	case character.FormGlabro, character.FormCrinos, character.FormHispo:
		if m.cfg.AutomatedRage && a.Rage == 0 {
			return ShiftRefused
		}
		return ShiftRoll
	default:
		return ShiftDirect
	}
}

// ForceShift sets the form without any rage check, as when the player
// confirms "shift anyway".
//
// Postcondition: a.ActiveForm == target.
func (m *Machine) ForceShift(a *character.Actor, target character.Form) Transition {
	a.ActiveForm = target
	m.logger.Info("form forced", zap.Stringer("form", target), zap.Int("rage", a.Rage))
	return m.Reconcile(a)
}

// CompleteShift applies the rage check rolled for a shift into target. The
// form changes only if the actor still has rage afterwards. With automated
// rage off, failures cost nothing and the form always changes.
//
// Postcondition: a.ActiveForm == target iff the shift succeeded; the returned
// bool reports that.
func (m *Machine) CompleteShift(a *character.Actor, target character.Form, failures int) (Transition, bool) {
	if !m.cfg.AutomatedRage {
		a.ActiveForm = target
		return m.Reconcile(a), true
	}
	tr := m.ApplyFailures(a, failures)
	if a.Rage == 0 {
		m.logger.Info("shift failed", zap.Stringer("form", target), zap.Int("failures", failures))
		return tr, false
	}
	a.ActiveForm = target
	m.logger.Info("form shifted", zap.Stringer("form", target), zap.Int("rage", a.Rage))
	return tr, true
}

// ResolveLostTheWolf moves the actor into the resting form chosen after
// losing the wolf. The Lost the Wolf flag stays set until rage returns.
//
// Precondition: resting must be Homid or Lupus.
func (m *Machine) ResolveLostTheWolf(a *character.Actor, resting character.Form) error {
	if !resting.RestingForm() {
		return fmt.Errorf("rage: %s is not a resting form", resting)
	}
	a.ActiveForm = resting
	m.logger.Info("resting form chosen", zap.Stringer("form", resting))
	return nil
}
