package dice

// RollPool rolls every die in p using src.
//
// Precondition: src must be non-nil.
// Postcondition: len(result.Basic) == clamp(p.Basic, 0, MaxPool) and
// len(result.Advanced) == clamp(p.Advanced, 0, MaxPool); every Value is in [1, Sides].
func RollPool(title string, p Pool, src Source) PoolResult {
	return PoolResult{
		Title:    title,
		Basic:    rollN(min(max(p.Basic, 0), MaxPool), false, src),
		Advanced: rollN(min(max(p.Advanced, 0), MaxPool), true, src),
	}
}

func rollN(n int, advanced bool, src Source) []Die {
	out := make([]Die, n)
	for i := range out {
		out[i] = Die{Value: src.Intn(Sides) + 1, Advanced: advanced}
	}
	return out
}
