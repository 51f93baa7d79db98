package dice

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParsePool_Forms(t *testing.T) {
	cases := map[string]Pool{
		"5":     {Basic: 5},
		"5b":    {Basic: 5},
		"3r":    {Advanced: 3},
		"4b2r":  {Basic: 4, Advanced: 2},
		"4B+2R": {Basic: 4, Advanced: 2},
		"2r4b":  {Basic: 4, Advanced: 2},
		" 0b1r": {Advanced: 1},
	}
	for in, want := range cases {
		got, err := ParsePool(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParsePool_Errors(t *testing.T) {
	for _, in := range []string{
		"", "b", "0", "0b0r", "3x", "2b3b", "1r1r", "-1b",
		"51", "51b", "6r", "9000000000000000000b5r", "99999999999999999999999",
	} {
		_, err := ParsePool(in)
		assert.Error(t, err, "expected %q to fail", in)
	}
}

func TestParsePool_Limits(t *testing.T) {
	p, err := ParsePool(fmt.Sprintf("%db%dr", MaxPool, MaxRageDice))
	require.NoError(t, err)
	assert.Equal(t, Pool{Basic: MaxPool, Advanced: MaxRageDice}, p)

	_, err = ParsePool("3000000000")
	assert.ErrorContains(t, err, "exceeds")
}

func TestPropertyParsePool_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := rapid.IntRange(0, 30).Draw(t, "basic")
		r := rapid.IntRange(1, 5).Draw(t, "rage")
		p, err := ParsePool(fmt.Sprintf("%db%dr", b, r))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if p.Basic != b || p.Advanced != r {
			t.Fatalf("got %+v want %db%dr", p, b, r)
		}
	})
}
