// Package character defines the werewolf actor model and trait lookup.
package character

import (
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/cory-johannsen/wta/internal/game/gift"
)

// MaxRage is the upper bound of the rage track.
const MaxRage = 5

// Balance holds the two opposing drift tracks of a werewolf's spirit.
type Balance struct {
	Harano   int `json:"harano"`
	Hauglosk int `json:"hauglosk"`
}

// FormInfo is the narrative card for one form.
type FormInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Abilities   []string `json:"abilities"`
}

// Actor is the persisted state of one werewolf character.
//
// ID is assigned by NewActor; CreatedAt and UpdatedAt are set by the persistence layer.
type Actor struct {
	ID   uuid.UUID
	Name string

	Rage         int
	FrenzyActive bool
	LostTheWolf  bool
	ActiveForm   Form

	Abilities map[string]int
	Skills    map[string]int
	Renown    map[string]int
	Balance   Balance
	Forms     map[Form]FormInfo

	// VisibleGiftTypes lists gift types shown on the sheet even with no gifts learned.
	VisibleGiftTypes []string
	Items            []gift.Gift

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewActor returns a fresh actor in Homid form with one point of rage and a
// card for every form.
//
// Precondition: name should be non-empty.
// Postcondition: Returns an Actor with a new ID and non-nil trait maps.
func NewActor(name string) *Actor {
	forms := make(map[Form]FormInfo, len(AllForms()))
	for _, f := range AllForms() {
		forms[f] = FormInfo{Name: f.DisplayName()}
	}
	return &Actor{
		ID:         uuid.New(),
		Name:       name,
		Rage:       1,
		ActiveForm: FormHomid,
		Abilities:  make(map[string]int),
		Skills:     make(map[string]int),
		Renown:     make(map[string]int),
		Forms:      forms,
	}
}

// ClampRage bounds n to [0, MaxRage].
//
// Postcondition: 0 <= result <= MaxRage.
func ClampRage(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxRage {
		return MaxRage
	}
	return n
}

// Item returns the owned gift with the given ID.
func (a *Actor) Item(id uuid.UUID) (gift.Gift, bool) {
	for _, it := range a.Items {
		if it.ID == id {
			return it, true
		}
	}
	return gift.Gift{}, false
}

// FormCard returns the narrative card for f, falling back to the form's
// display name when the actor has none stored.
func (a *Actor) FormCard(f Form) FormInfo {
	if info, ok := a.Forms[f]; ok {
		if info.Name == "" {
			info.Name = f.DisplayName()
		}
		return info
	}
	return FormInfo{Name: f.DisplayName()}
}

// ShowGiftType marks giftType visible. Re-adding a visible type is a no-op.
func (a *Actor) ShowGiftType(giftType string) {
	for _, v := range a.VisibleGiftTypes {
		if v == giftType {
			return
		}
	}
	a.VisibleGiftTypes = append(a.VisibleGiftTypes, giftType)
}

// Clone returns a deep copy of a.
func (a *Actor) Clone() *Actor {
	c := *a
	c.Abilities = maps.Clone(a.Abilities)
	c.Skills = maps.Clone(a.Skills)
	c.Renown = maps.Clone(a.Renown)
	c.VisibleGiftTypes = slices.Clone(a.VisibleGiftTypes)
	c.Items = slices.Clone(a.Items)
	if a.Forms != nil {
		c.Forms = make(map[Form]FormInfo, len(a.Forms))
		for f, info := range a.Forms {
			info.Abilities = slices.Clone(info.Abilities)
			c.Forms[f] = info
		}
	}
	return &c
}
