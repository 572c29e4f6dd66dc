package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVirtualPathString(t *testing.T) {
	tests := []struct {
		name     string
		segs     []string
		expected string
	}{
		{
			name:     "root",
			segs:     nil,
			expected: "/",
		},
		{
			name:     "single segment",
			segs:     []string{"data"},
			expected: "/data",
		},
		{
			name:     "nested",
			segs:     []string{"data", "a"},
			expected: "/data/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewVirtualPath(tt.segs...).String())
		})
	}
}

func TestVirtualPathJoinParent(t *testing.T) {
	p := RootPath().Join("data").Join("a")
	assert.Equal(t, "/data/a", p.String())
	assert.Equal(t, "a", p.Base())
	assert.Equal(t, "/data", p.Parent().String())
	assert.True(t, p.Parent().Parent().IsRoot())
	assert.True(t, RootPath().Parent().IsRoot())
}

func TestVirtualPathValueSemantics(t *testing.T) {
	base := RootPath().Join("data")
	a := base.Join("a")
	b := base.Join("b")
	assert.Equal(t, "/data/a", a.String())
	assert.Equal(t, "/data/b", b.String())
	assert.Equal(t, "/data", base.String())
}

func TestVirtualPathEqual(t *testing.T) {
	assert.True(t, NewVirtualPath("a", "b").Equal(NewVirtualPath("a", "b")))
	assert.False(t, NewVirtualPath("a", "b").Equal(NewVirtualPath("a")))
	assert.False(t, NewVirtualPath("a", "b").Equal(NewVirtualPath("a", "B")))
}

func TestSplitLast(t *testing.T) {
	tests := []struct {
		raw    string
		parent string
		name   string
	}{
		{raw: "a", parent: "", name: "a"},
		{raw: "/a", parent: "/", name: "a"},
		{raw: "/data/a", parent: "/data", name: "a"},
		{raw: "data/a", parent: "data", name: "a"},
		{raw: "/data/a/", parent: "/data", name: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			parent, name := splitLast(tt.raw)
			assert.Equal(t, tt.parent, parent)
			assert.Equal(t, tt.name, name)
		})
	}
}
