package character

import (
	"fmt"
	"strings"
)

// Form is the shape a werewolf currently wears.
type Form int

const (
	// FormHomid is the human breed form and the default.
	FormHomid Form = iota
	FormGlabro
	FormCrinos
	FormHispo
	// FormLupus is the wolf form. It is mundane and never costs rage.
	FormLupus
)

// AllForms returns every form in sheet order.
func AllForms() []Form {
	return []Form{FormHomid, FormGlabro, FormCrinos, FormHispo, FormLupus}
}

// ParseForm maps a form identifier to a Form. Unrecognised identifiers
// resolve to FormHomid, matching the sheet's fallback button.
func ParseForm(s string) Form {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "glabro":
		return FormGlabro
	case "crinos":
		return FormCrinos
	case "hispo":
		return FormHispo
	case "lupus":
		return FormLupus
	default:
		return FormHomid
	}
}

// LookupForm maps a form identifier to a Form, reporting whether it was recognised.
func LookupForm(s string) (Form, bool) {
	for _, f := range AllForms() {
		if strings.EqualFold(strings.TrimSpace(s), f.String()) {
			return f, true
		}
	}
	return FormHomid, false
}

// String returns the lowercase identifier used in storage and commands.
func (f Form) String() string {
	switch f {
	case FormHomid:
		return "homid"
	case FormGlabro:
		return "glabro"
	case FormCrinos:
		return "crinos"
	case FormHispo:
		return "hispo"
	case FormLupus:
		return "lupus"
	default:
		return fmt.Sprintf("form(%d)", int(f))
	}
}

// DisplayName returns the capitalised form name.
func (f Form) DisplayName() string {
	s := f.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// Supernatural reports whether holding this form depends on rage.
func (f Form) Supernatural() bool {
	switch f {
	case FormGlabro, FormCrinos, FormHispo:
		return true
	case FormHomid, FormLupus:
		return false
	default:
		return false
	}
}

// ShiftCost is the number of rage-check dice rolled to enter this form.
//
// Postcondition: Returns 0 for mundane forms.
func (f Form) ShiftCost() int {
	switch f {
	case FormCrinos:
		return 2
	case FormGlabro, FormHispo:
		return 1
	case FormHomid, FormLupus:
		return 0
	default:
		return 0
	}
}

// RestingForm reports whether f is offered as a way out after losing the wolf.
func (f Form) RestingForm() bool {
	return f == FormHomid || f == FormLupus
}

// MarshalText stores forms by identifier.
func (f Form) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText parses a stored identifier.
func (f *Form) UnmarshalText(b []byte) error {
	*f = ParseForm(string(b))
	return nil
}
