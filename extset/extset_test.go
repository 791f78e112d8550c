package extset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit/extset"
)

type settingsA struct{ N int }
type settingsB struct{ S string }

func TestGetOrInsertDefault(t *testing.T) {
	var s extset.Set
	assert.False(t, extset.Contains[settingsA](&s))

	a := extset.GetOrInsertDefault[settingsA](&s)
	assert.Equal(t, settingsA{}, a)
	assert.True(t, extset.Contains[settingsA](&s))

	extset.Insert(&s, settingsA{N: 3})
	got, ok := extset.Get[settingsA](&s)
	assert.True(t, ok)
	assert.Equal(t, 3, got.N)
}

func TestDistinctTypesDoNotCollide(t *testing.T) {
	var s extset.Set
	extset.Insert(&s, settingsA{N: 1})
	extset.Insert(&s, settingsB{S: "x"})
	assert.Equal(t, 2, s.Len())

	a, _ := extset.Get[settingsA](&s)
	b, _ := extset.Get[settingsB](&s)
	assert.Equal(t, 1, a.N)
	assert.Equal(t, "x", b.S)
}

func TestRemoveAndClear(t *testing.T) {
	var s extset.Set
	extset.Insert(&s, settingsA{N: 9})
	v, ok := extset.Remove[settingsA](&s)
	assert.True(t, ok)
	assert.Equal(t, 9, v.N)
	assert.False(t, extset.Contains[settingsA](&s))

	extset.Insert(&s, settingsB{S: "y"})
	s.Clear()
	assert.Equal(t, 0, s.Len())
}
