package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryWalkOrder(t *testing.T) {
	root := NewDirectory()
	root.AddFile("a", "# a")
	sub := root.AddDir("nested")
	sub.AddFile("b", "# b")
	sub.AddFile("c", "# c")
	root.AddFile("d", "# d")

	flat := root.Walk()

	require.Len(t, flat, 4)
	assert.Equal(t, []string{"a"}, flat[0].Path)
	assert.Equal(t, []string{"nested", "b"}, flat[1].Path)
	assert.Equal(t, []string{"nested", "c"}, flat[2].Path)
	assert.Equal(t, []string{"d"}, flat[3].Path)
	assert.Equal(t, "# b", flat[1].Contents)
}

func TestDirectoryReplaceKeepsOrder(t *testing.T) {
	root := NewDirectory()
	root.AddFile("a", "first")
	root.AddFile("b", "second")
	root.AddFile("a", "replaced")

	flat := root.Walk()

	require.Len(t, flat, 2)
	assert.Equal(t, []string{"a"}, flat[0].Path)
	assert.Equal(t, "replaced", flat[0].Contents)
}

func TestModuleNameSegments(t *testing.T) {
	name := NameFromSegments([]string{"fs", "nested", "b"})

	assert.Equal(t, ModuleName("fs::nested::b"), name)
	assert.Equal(t, []string{"fs", "nested", "b"}, name.Segments())
	assert.True(t, name.IsFS())
	assert.False(t, ModuleName("std::math").IsFS())
}
