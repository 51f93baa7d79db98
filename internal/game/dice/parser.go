package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Pool expression limits. A werewolf never holds more rage dice than rage.
const (
	MaxPool     = 50
	MaxRageDice = 5
)

// ParsePool parses a pool expression into a Pool.
// Supported forms: "5", "5b", "3r", "4b2r", "4b+2r".
// A bare number is all basic dice.
//
// Precondition: expr must be a non-empty string.
// Postcondition: Returns a Pool with Size() >= 1, Basic <= MaxPool and
// Advanced <= MaxRageDice, or a descriptive error.
func ParsePool(expr string) (Pool, error) {
	raw := expr
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(expr)), "+", "")
	if s == "" {
		return Pool{}, fmt.Errorf("dice: empty pool expression")
	}

	var p Pool
	seenBasic, seenRage := false, false
	for s != "" {
		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 {
			return Pool{}, fmt.Errorf("dice: expected a count in %q", raw)
		}
		n, err := strconv.Atoi(s[:i])
		if err != nil || n > MaxPool {
			return Pool{}, fmt.Errorf("dice: count %s in %q exceeds %d", s[:i], raw, MaxPool)
		}
		suffix := byte('b')
		if i < len(s) {
			suffix = s[i]
			i++
		}
		switch suffix {
		case 'b':
			if seenBasic {
				return Pool{}, fmt.Errorf("dice: basic dice given twice in %q", raw)
			}
			seenBasic = true
			p.Basic = n
		case 'r':
			if seenRage {
				return Pool{}, fmt.Errorf("dice: rage dice given twice in %q", raw)
			}
			seenRage = true
			if n > MaxRageDice {
				return Pool{}, fmt.Errorf("dice: %d rage dice in %q exceeds %d", n, raw, MaxRageDice)
			}
			p.Advanced = n
		default:
			return Pool{}, fmt.Errorf("dice: unknown die kind %q in %q", suffix, raw)
		}
		s = s[i:]
	}
	if p.Size() == 0 {
		return Pool{}, fmt.Errorf("dice: pool %q has no dice", raw)
	}
	return p, nil
}
