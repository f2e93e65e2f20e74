package textsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("The Court's ruling, in 2021, was FINAL!")
	assert.Equal(t, []string{"court", "ruling", "2021", "final"}, got)
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 1.0, Jaccard("", ""), 1e-9)
	assert.InDelta(t, 1.0, Jaccard("solar power is cheap", "Solar power is CHEAP"), 1e-9)
	assert.InDelta(t, 0.0, Jaccard("solar power", "coal mining"), 1e-9)

	// {solar, power, cheap} vs {solar, power, expensive}: 2 / 4
	assert.InDelta(t, 0.5, Jaccard("solar power cheap", "solar power expensive"), 1e-9)
}

func TestContainment(t *testing.T) {
	short := NewSet("inflation rose 4 percent")
	long := NewSet("official data show inflation rose 4 percent in march")

	assert.InDelta(t, 1.0, Containment(short, long), 1e-9)
	assert.Less(t, JaccardSets(short, long), 0.85)
	assert.Zero(t, Containment(Set{}, long))
}

func TestSetSorted(t *testing.T) {
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, NewSet("gamma alpha beta alpha").Sorted())
}
