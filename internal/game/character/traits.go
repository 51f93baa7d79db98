package character

// TraitCategory names one of the rated trait maps on an actor.
type TraitCategory int

const (
	TraitAbility TraitCategory = iota
	TraitSkill
	TraitRenown
)

// Selector returns the modifier selector root for the category.
func (c TraitCategory) Selector() string {
	switch c {
	case TraitAbility:
		return "abilities"
	case TraitSkill:
		return "skills"
	case TraitRenown:
		return "renown"
	default:
		return ""
	}
}

// Rating resolves a trait to its numeric rating.
// An unset key or unknown category resolves to 0.
//
// Postcondition: No side effects on a.
func (a *Actor) Rating(category TraitCategory, key string) int {
	var m map[string]int
	switch category {
	case TraitAbility:
		m = a.Abilities
	case TraitSkill:
		m = a.Skills
	case TraitRenown:
		m = a.Renown
	}
	return m[key]
}

// SetRating stores a rating, creating the category map if needed.
func (a *Actor) SetRating(category TraitCategory, key string, value int) {
	switch category {
	case TraitAbility:
		if a.Abilities == nil {
			a.Abilities = make(map[string]int)
		}
		a.Abilities[key] = value
	case TraitSkill:
		if a.Skills == nil {
			a.Skills = make(map[string]int)
		}
		a.Skills[key] = value
	case TraitRenown:
		if a.Renown == nil {
			a.Renown = make(map[string]int)
		}
		a.Renown[key] = value
	}
}

// ParseTraitCategory maps a selector root to a category.
func ParseTraitCategory(s string) (TraitCategory, bool) {
	switch s {
	case "abilities", "ability":
		return TraitAbility, true
	case "skills", "skill":
		return TraitSkill, true
	case "renown":
		return TraitRenown, true
	default:
		return 0, false
	}
}
