package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wta/internal/game/dice"
)

// fixedSource returns values from a fixed list, cycling; each value v yields face v.
type fixedSource struct {
	faces []int
	i     int
}

func (f *fixedSource) Intn(n int) int {
	v := f.faces[f.i%len(f.faces)]
	f.i++
	return v - 1
}

func basic(vals ...int) []dice.Die {
	out := make([]dice.Die, len(vals))
	for i, v := range vals {
		out[i] = dice.Die{Value: v}
	}
	return out
}

func rage(vals ...int) []dice.Die {
	out := make([]dice.Die, len(vals))
	for i, v := range vals {
		out[i] = dice.Die{Value: v, Advanced: true}
	}
	return out
}

func TestPoolResult_Successes(t *testing.T) {
	r := dice.PoolResult{Basic: basic(1, 6, 9), Advanced: rage(5, 7)}
	assert.Equal(t, 3, r.Successes())
}

func TestPoolResult_PairedTensCountDouble(t *testing.T) {
	r := dice.PoolResult{Basic: basic(10, 3), Advanced: rage(10)}
	// two successes + two for the pair
	assert.Equal(t, 4, r.Successes())
	assert.Equal(t, 2, r.Criticals())
}

func TestPoolResult_FailuresCountOnlyRageDice(t *testing.T) {
	r := dice.PoolResult{Basic: basic(1, 2), Advanced: rage(1, 5, 6, 10)}
	assert.Equal(t, 2, r.Failures())
	assert.Equal(t, 1, r.Brutal())
}

func TestPoolResult_String(t *testing.T) {
	r := dice.PoolResult{Title: "Razor Claws", Basic: basic(3, 7, 10), Advanced: rage(6, 1)}
	assert.Equal(t, "Razor Claws: [3 7 10] rage [6 1] = 3 successes", r.String())
}

func TestRollPool_Shape(t *testing.T) {
	src := &fixedSource{faces: []int{4, 8, 10}}
	r := dice.RollPool("test", dice.Pool{Basic: 2, Advanced: 1}, src)
	assert.Equal(t, basic(4, 8), r.Basic)
	assert.Equal(t, rage(10), r.Advanced)
}

func TestRollPool_NegativeCountsRollNothing(t *testing.T) {
	r := dice.RollPool("x", dice.Pool{Basic: -2, Advanced: -1}, dice.NewCryptoSource())
	assert.Empty(t, r.Basic)
	assert.Empty(t, r.Advanced)
}

func TestRollPool_OversizedCountsAreBounded(t *testing.T) {
	r := dice.RollPool("x", dice.Pool{Basic: 9_000_000_000_000_000_000, Advanced: 1 << 40}, dice.NewSeededSource(1))
	assert.Len(t, r.Basic, dice.MaxPool)
	assert.Len(t, r.Advanced, dice.MaxPool)
}

func TestPropertyRollPool_FacesInRange(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(t *rapid.T) {
		p := dice.Pool{
			Basic:    rapid.IntRange(0, 15).Draw(t, "basic"),
			Advanced: rapid.IntRange(0, 5).Draw(t, "advanced"),
		}
		r := dice.RollPool("p", p, src)
		if len(r.Basic) != p.Basic || len(r.Advanced) != p.Advanced {
			t.Fatalf("pool %+v rolled %d/%d dice", p, len(r.Basic), len(r.Advanced))
		}
		for _, d := range append(r.Basic, r.Advanced...) {
			if d.Value < 1 || d.Value > dice.Sides {
				t.Fatalf("face %d out of range", d.Value)
			}
		}
		if f := r.Failures(); f < 0 || f > p.Advanced {
			t.Fatalf("failures %d outside [0,%d]", f, p.Advanced)
		}
	})
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}

func TestSeededSource_Deterministic(t *testing.T) {
	a, b := dice.NewSeededSource(42), dice.NewSeededSource(42)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Intn(10), b.Intn(10))
	}
	assert.Panics(t, func() { a.Intn(-1) })
}

func TestLoggedRoller_LogsAtDebug(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := dice.NewLoggedRoller(&fixedSource{faces: []int{6}}, zap.New(core))
	res := r.RollPool("Staredown", dice.Pool{Basic: 2})
	assert.Equal(t, 2, res.Successes())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "dice roll", entry.Message)
	assert.Equal(t, "Staredown", entry.ContextMap()["title"])
}

func TestLoggedRoller_RollExpr(t *testing.T) {
	r := dice.NewLoggedRoller(&fixedSource{faces: []int{2}}, zap.NewNop())
	res, err := r.RollExpr("1b2r")
	require.NoError(t, err)
	assert.Len(t, res.Basic, 1)
	assert.Len(t, res.Advanced, 2)
	assert.Equal(t, 2, res.Failures())

	_, err = r.RollExpr("x")
	assert.Error(t, err)
}
