// Package gift defines gifts and rites learned by a werewolf and the
// ordering and grouping used to present them on a sheet.
package gift

import "github.com/google/uuid"

// RiteType is the gift type tag that marks an item as a rite.
const RiteType = "rite"

// RenownTrait is the dice reference that resolves to the gift's renown rating.
const RenownTrait = "renown"

// Gift is a learned power. Items with GiftType == RiteType are rites.
type Gift struct {
	ID       uuid.UUID `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	GiftType string    `json:"gift_type" yaml:"gift_type"`
	Level    int       `json:"level" yaml:"level"`

	// Dice1 is RenownTrait or an ability key.
	Dice1 string `json:"dice1" yaml:"dice1"`
	// Dice2 is RenownTrait, a skill key when Skill is set, or an ability key.
	Dice2 string `json:"dice2" yaml:"dice2"`
	Skill bool   `json:"skill" yaml:"skill"`
	// Renown names the renown (glory, honor, wisdom) the gift keys off.
	Renown string `json:"renown" yaml:"renown"`

	Description string `json:"description" yaml:"description"`
	MacroID     string `json:"macro_id,omitempty" yaml:"macro_id"`
}

// IsRite reports whether g is a rite rather than a gift power.
func (g Gift) IsRite() bool {
	return g.GiftType == RiteType
}
