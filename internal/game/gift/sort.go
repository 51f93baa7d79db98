package gift

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort returns gifts ordered by level ascending, ties broken by an
// English collation of the name. The input slice is not modified.
//
// Postcondition: len(result) == len(gifts).
func Sort(gifts []Gift) []Gift {
	out := slices.Clone(gifts)
	// A Collator keeps scratch buffers, so each call gets its own.
	col := collate.New(language.English)
	slices.SortStableFunc(out, func(a, b Gift) int {
		if a.Level != b.Level {
			return a.Level - b.Level
		}
		return col.CompareString(a.Name, b.Name)
	})
	return out
}
