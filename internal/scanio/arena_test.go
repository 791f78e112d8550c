package scanio_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/jcorbin/mdit/internal/scanio"
)

func TestToken_Format(t *testing.T) {
	var bar ByteArena
	bar.WriteString("foo")
	foo := bar.Take()

	assert.Equal(t, "foo", foo.Text())
	assert.Equal(t, []byte("foo"), foo.Bytes())
	assert.False(t, foo.Empty())

	var zero Token
	assert.True(t, zero.Empty())
	assert.Equal(t, "", zero.Text())
}

const loremIpsum = `Lorem ipsum dolor sit amet, consectetur adipiscing elit. Maecenas aliquam
luctus enim, vel porta orci egestas eu. Fusce metus neque, elementum ut enim
non, commodo blandit eros. Nunc aliquam, magna consequat feugiat venenatis,
lectus mauris aliquam ipsum, quis dictum lorem nisi sed lorem. Curabitur
gravida iaculis velit ut posuere. Vestibulum at vehicula mi. Curabitur ut magna
enim. Vestibulum scelerisque luctus neque vitae euismod. Proin imperdiet purus
et mauris consectetur, eget malesuada velit commodo. Cras eleifend egestas ante
vitae finibus. Cras tempus ipsum sed nunc auctor rutrum. Aenean rhoncus lorem
non pellentesque vehicula. Nunc in arcu blandit, tristique ex vel, tincidunt
mauris. Donec a ornare ipsum. Phasellus placerat tincidunt augue quis tempus.
Class aptent taciti sociosqu ad litora torquent per conubia nostra, per
inceptos himenaeos. Cras scelerisque id felis et posuere.
`

func TestFileArena(t *testing.T) {
	var fa FileArena
	require.NoError(t, fa.Reset(strings.NewReader(loremIpsum), 0))
	assert.Equal(t, "Lorem", fa.Ref(0, 5).Text())
	assert.Equal(t, loremIpsum, fa.RefAll().Text())
}

func TestArea_Add(t *testing.T) {
	var far FileArena
	require.NoError(t, far.Reset(strings.NewReader(loremIpsum), 0))
	var ar Area
	for _, tc := range []struct {
		name       string
		add        [2]int
		expectRepr string
		expectOut  string
	}{
		{
			name:       "empty on zero",
			add:        [2]int{0, 0},
			expectRepr: "[]",
		},
		{
			name:       "ipsum",
			add:        [2]int{6, 11},
			expectRepr: "[@6:11]",
			expectOut:  "ipsum",
		},
		{
			name:       "sit",
			add:        [2]int{17, 21},
			expectRepr: "[@6:11 @17:21]",
			expectOut:  "ipsum sit",
		},
		{
			name:       "dolor",
			add:        [2]int{11, 17},
			expectRepr: "[@6:21]",
			expectOut:  "ipsum dolor sit",
		},
		{
			name:       "sit amet",
			add:        [2]int{18, 26},
			expectRepr: "[@6:26]",
			expectOut:  "ipsum dolor sit amet",
		},
		{
			name:       "Lorem ipsum",
			add:        [2]int{0, 11},
			expectRepr: "[@0:26]",
			expectOut:  "Lorem ipsum dolor sit amet",
		},
		{
			name:       "elit",
			add:        [2]int{50, 55},
			expectRepr: "[@0:26 @50:55]",
			expectOut:  "Lorem ipsum dolor sit amet elit",
		},
		{
			name:       "adip",
			add:        [2]int{39, 44},
			expectRepr: "[@0:26 @39:44 @50:55]",
			expectOut:  "Lorem ipsum dolor sit amet adip elit",
		},
		{
			name:       "... elit.",
			add:        [2]int{22, 56},
			expectRepr: "[@0:56]",
			expectOut:  "Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ar.Add(far.Ref(tc.add[0], tc.add[1]))
			repr := fmt.Sprintf("%+v", ar)
			assert.Equal(t, tc.expectRepr, repr, "expected area representation")
			if tc.expectOut != "" {
				assert.Equal(t, tc.expectOut, fmt.Sprintf("%v", ar), "expected area contents")
			}
		})
	}
}

func TestArea_Sub(t *testing.T) {
	var far FileArena
	require.NoError(t, far.Reset(strings.NewReader(loremIpsum), 0))
	var ar Area
	ar.Add(far.Ref(0, 26))
	for _, tc := range []struct {
		name       string
		sub        [2]int
		expectRepr string
		expectOut  string
	}{
		{
			name:       "empty",
			sub:        [2]int{0, 0},
			expectRepr: "[@0:26]",
			expectOut:  "Lorem ipsum dolor sit amet",
		},
		{
			name:       "ip",
			sub:        [2]int{6, 8},
			expectRepr: "[@0:6 @8:26]",
			expectOut:  "Lorem sum dolor sit amet",
		},
		{
			name:       "do",
			sub:        [2]int{12, 14},
			expectRepr: "[@0:6 @8:12 @14:26]",
			expectOut:  "Lorem sum lor sit amet",
		},
		{
			name:       "ipsum dolor sit_",
			sub:        [2]int{6, 22},
			expectRepr: "[@0:6 @22:26]",
			expectOut:  "Lorem amet",
		},
		{
			name:       "Lorem_",
			sub:        [2]int{0, 6},
			expectRepr: "[@22:26]",
			expectOut:  "amet",
		},
		{
			name:       "amet",
			sub:        [2]int{22, 26},
			expectRepr: "[]",
			expectOut:  "",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ar.Sub(far.Ref(tc.sub[0], tc.sub[1]))
			repr := fmt.Sprintf("%+v", ar)
			assert.Equal(t, tc.expectRepr, repr, "expected area representation")
			assert.Equal(t, tc.expectOut, fmt.Sprintf("%v", ar), "expected area contents")
		})
	}
}
