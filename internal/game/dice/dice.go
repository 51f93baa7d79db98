// Package dice provides the randomness abstraction and d10 pool-roll result
// types for the werewolf rules engine.
package dice

import (
	"fmt"
	"strings"
)

// Sides is the die size used by every pool roll.
const Sides = 10

// SuccessThreshold is the lowest face that counts as a success.
const SuccessThreshold = 6

// Pool is a roll request split into basic and advanced (rage) dice.
//
// Invariant: Basic >= 0 and Advanced >= 0.
type Pool struct {
	Basic    int
	Advanced int
}

// Size returns the total number of dice in p.
func (p Pool) Size() int {
	return p.Basic + p.Advanced
}

// Die is the outcome of one rolled d10.
type Die struct {
	Value    int
	Advanced bool
}

// Success reports whether the die met the success threshold.
func (d Die) Success() bool {
	return d.Value >= SuccessThreshold
}

// Critical reports whether the die shows a ten.
func (d Die) Critical() bool {
	return d.Value == Sides
}

// Brutal reports whether an advanced die shows a one or two.
func (d Die) Brutal() bool {
	return d.Advanced && d.Value <= 2
}

// PoolResult holds the full audit trail for a single pool roll.
type PoolResult struct {
	Title    string
	Basic    []Die
	Advanced []Die
}

// Successes returns the number of successes: one per die at or above the
// threshold plus two for every pair of tens.
//
// Postcondition: return value >= 0.
func (r PoolResult) Successes() int {
	n, tens := 0, 0
	for _, d := range r.all() {
		if d.Success() {
			n++
		}
		if d.Critical() {
			tens++
		}
	}
	return n + (tens/2)*2
}

// Failures returns the number of advanced dice that missed the threshold.
// Rage checks spend one point of rage per failure.
//
// Postcondition: 0 <= return value <= len(r.Advanced).
func (r PoolResult) Failures() int {
	n := 0
	for _, d := range r.Advanced {
		if !d.Success() {
			n++
		}
	}
	return n
}

// Brutal returns the number of advanced dice showing a one or two.
func (r PoolResult) Brutal() int {
	n := 0
	for _, d := range r.Advanced {
		if d.Brutal() {
			n++
		}
	}
	return n
}

// Criticals returns the number of tens across the pool.
func (r PoolResult) Criticals() int {
	n := 0
	for _, d := range r.all() {
		if d.Critical() {
			n++
		}
	}
	return n
}

func (r PoolResult) all() []Die {
	out := make([]Die, 0, len(r.Basic)+len(r.Advanced))
	out = append(out, r.Basic...)
	return append(out, r.Advanced...)
}

// String returns a human-readable audit string in the format:
//
//	"Razor Claws: [3 7 10] rage [6 1] = 3 successes"
func (r PoolResult) String() string {
	var b strings.Builder
	if r.Title != "" {
		b.WriteString(r.Title)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%v", values(r.Basic))
	if len(r.Advanced) > 0 {
		fmt.Fprintf(&b, " rage %v", values(r.Advanced))
	}
	fmt.Fprintf(&b, " = %d successes", r.Successes())
	return b.String()
}

func values(ds []Die) []int {
	out := make([]int, len(ds))
	for i, d := range ds {
		out[i] = d.Value
	}
	return out
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
