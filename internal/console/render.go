package console

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cory-johannsen/wta/internal/game/character"
	"github.com/cory-johannsen/wta/internal/game/gift"
	"github.com/cory-johannsen/wta/internal/game/sheet"
)

// Renderer formats sheet state as terminal text.
type Renderer struct {
	p Palette
}

// NewRenderer creates a Renderer.
func NewRenderer(color bool) Renderer {
	return Renderer{p: Palette{Enabled: color}}
}

// RenderView formats a prepared sheet. Gifts are numbered in display order
// starting at 1; the same order is returned so callers can roll by number.
func (r Renderer) RenderView(v sheet.View) (string, []gift.Gift) {
	var b strings.Builder
	a := v.Actor

	b.WriteString(r.p.Colorize(BrightYellow, a.Name))
	b.WriteString("\n")
	b.WriteString(r.rageTrack(a))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Harano %d  Hauglosk %d\n", a.Balance.Harano, a.Balance.Hauglosk)

	b.WriteString(r.p.Colorize(Cyan, "Forms:"))
	b.WriteString("\n")
	for _, f := range v.Forms {
		label := f.Card.Name
		if f.Active {
			label = r.p.Colorize(Bold, "*"+label)
		}
		cost := ""
		if f.Cost > 0 {
			cost = fmt.Sprintf(" (%d rage)", f.Cost)
			if !v.CanShift[f.Form] {
				cost = r.p.Colorize(Dim, cost+" locked")
			}
		}
		fmt.Fprintf(&b, "  %s%s\n", label, cost)
	}

	r.writeTraits(&b, "Abilities", a.Abilities)
	r.writeTraits(&b, "Skills", a.Skills)
	r.writeTraits(&b, "Renown", a.Renown)

	var order []gift.Gift
	for _, g := range v.Gifts.Groups {
		if !g.Visible {
			continue
		}
		b.WriteString(r.p.Colorize(Cyan, g.Label+":"))
		b.WriteString("\n")
		if len(g.Powers) == 0 {
			b.WriteString(r.p.Colorize(Dim, "  (none)"))
			b.WriteString("\n")
		}
		for _, it := range g.Powers {
			order = append(order, it)
			fmt.Fprintf(&b, "  %2d) %s\n", len(order), r.giftLine(it))
		}
	}
	if len(v.Gifts.Rites) > 0 {
		b.WriteString(r.p.Colorize(Cyan, "Rites:"))
		b.WriteString("\n")
		for _, it := range v.Gifts.Rites {
			order = append(order, it)
			fmt.Fprintf(&b, "  %2d) %s\n", len(order), r.giftLine(it))
		}
	}
	return b.String(), order
}

// RenderStatus formats the one-line rage and form summary.
func (r Renderer) RenderStatus(a *character.Actor) string {
	return r.rageTrack(a)
}

func (r Renderer) rageTrack(a *character.Actor) string {
	pips := strings.Repeat("●", a.Rage) + strings.Repeat("○", character.MaxRage-a.Rage)
	line := fmt.Sprintf("Rage %s  Form %s", r.p.Colorize(BrightRed, pips), a.ActiveForm.DisplayName())
	if a.FrenzyActive {
		line += " " + r.p.Colorize(Red, "[FRENZY]")
	}
	if a.LostTheWolf {
		line += " " + r.p.Colorize(Magenta, "[LOST THE WOLF]")
	}
	return line
}

func (r Renderer) writeTraits(b *strings.Builder, title string, m map[string]int) {
	if len(m) == 0 {
		return
	}
	parts := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		parts = append(parts, fmt.Sprintf("%s %d", k, m[k]))
	}
	b.WriteString(r.p.Colorf(Cyan, "%s:", title))
	b.WriteString(" ")
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString("\n")
}

func (r Renderer) giftLine(g gift.Gift) string {
	dice2 := g.Dice2
	if g.Skill {
		dice2 += " (skill)"
	}
	return fmt.Sprintf("%s %s", g.Name, r.p.Colorf(Dim, "L%d %s + %s", g.Level, g.Dice1, dice2))
}

// RenderMessage formats a chat card.
func (r Renderer) RenderMessage(m sheet.Message) string {
	var b strings.Builder
	head := m.Title
	if m.Speaker != "" {
		head = m.Speaker + ": " + m.Title
	}
	b.WriteString(r.p.Colorize(BrightYellow, head))
	b.WriteString("\n")
	if m.Body != "" {
		b.WriteString(r.p.Colorize(White, m.Body))
		b.WriteString("\n")
	}
	for _, it := range m.Items {
		fmt.Fprintf(&b, "  - %s\n", it)
	}
	if m.Macro != "" {
		b.WriteString(r.p.Colorf(Dim, "  macro: %s", m.Macro))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDialog formats a dialog's title, body, options, and buttons.
func (r Renderer) RenderDialog(d sheet.Dialog) string {
	var b strings.Builder
	title := r.p.Colorize(BrightCyan, d.Title)
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(StripANSI(title))))
	b.WriteString("\n")
	if d.Body != "" {
		b.WriteString(d.Body)
		b.WriteString("\n")
	}
	switch d.Input {
	case sheet.InputSelect:
		fmt.Fprintf(&b, "%s:\n", d.Label)
		for i, o := range d.Options {
			fmt.Fprintf(&b, "  %d) %s\n", i+1, o.Label)
		}
	case sheet.InputText:
		fmt.Fprintf(&b, "%s [%s]\n", d.Label, d.Initial)
	case sheet.InputNone:
		for i, btn := range d.Buttons {
			label := btn.Label
			if btn.ID == d.Default {
				label += " (default)"
			}
			fmt.Fprintf(&b, "  [%d] %s\n", i+1, label)
		}
	}
	return b.String()
}
