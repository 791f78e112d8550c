package ruler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcorbin/mdit/ruler"
)

func marks(r *ruler.Ruler[string]) []string {
	return r.Compile()
}

func TestCompileOrdersByBeforeAfter(t *testing.T) {
	var r ruler.Ruler[string]
	r.Push(ruler.Entry[string]{Mark: "paragraph", Payload: "paragraph"})
	r.Push(ruler.Entry[string]{Mark: "heading", Payload: "heading", Before: []ruler.Mark{"paragraph"}})
	r.Push(ruler.Entry[string]{Mark: "fence", Payload: "fence", After: []ruler.Mark{"heading"}, Before: []ruler.Mark{"paragraph"}})

	got := marks(&r)
	assert.Equal(t, []string{"heading", "fence", "paragraph"}, got)
}

func TestCompileIsCachedUntilMutated(t *testing.T) {
	var r ruler.Ruler[string]
	r.Push(ruler.Entry[string]{Mark: "a", Payload: "a"})
	first := r.Compile()
	second := r.Compile()
	assert.Equal(t, first, second)

	r.Push(ruler.Entry[string]{Mark: "b", Payload: "b", Before: []ruler.Mark{"a"}})
	third := r.Compile()
	assert.Equal(t, []string{"b", "a"}, third)
}

func TestDisabledRuleExcludedFromCompile(t *testing.T) {
	var r ruler.Ruler[string]
	r.Push(ruler.Entry[string]{Mark: "a", Payload: "a"})
	r.Push(ruler.Entry[string]{Mark: "b", Payload: "b"})
	r.Enable("a", false)
	assert.Equal(t, []string{"b"}, r.Compile())
}

func TestRemoveByMark(t *testing.T) {
	var r ruler.Ruler[string]
	r.Push(ruler.Entry[string]{Mark: "a", Payload: "a"})
	r.Push(ruler.Entry[string]{Mark: "b", Payload: "b"})
	n := r.RemoveByMark("a")
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"b"}, r.Compile())
}

func TestMissingRequirePanics(t *testing.T) {
	var r ruler.Ruler[string]
	r.Push(ruler.Entry[string]{Mark: "a", Payload: "a", Require: []ruler.Mark{"ghost"}})
	assert.Panics(t, func() { r.Compile() })
}

func TestCyclicDependencyPanics(t *testing.T) {
	var r ruler.Ruler[string]
	r.Push(ruler.Entry[string]{Mark: "a", Payload: "a", After: []ruler.Mark{"b"}})
	r.Push(ruler.Entry[string]{Mark: "b", Payload: "b", After: []ruler.Mark{"a"}})
	assert.PanicsWithValue(t, &ruler.ConfigError{Reason: "cyclic rule dependency", Marks: []ruler.Mark{"a", "b"}}, func() { r.Compile() })
}

func TestAliasResolves(t *testing.T) {
	var r ruler.Ruler[string]
	r.Push(ruler.Entry[string]{Mark: "emphasis", Payload: "emphasis", Aliases: []ruler.Mark{"emph"}})
	r.Push(ruler.Entry[string]{Mark: "link", Payload: "link", After: []ruler.Mark{"emph"}})
	assert.Equal(t, []string{"emphasis", "link"}, r.Compile())
}
