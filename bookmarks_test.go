package rtscam

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraBookmarks_RoundTrip(t *testing.T) {
	bookmarks := NewCameraBookmarks()
	cam := NewRtsCamera()
	cam.Target = mgl32.Vec3{4, 1, -6}
	cam.Zoom = 0.4

	id := bookmarks.Save("base", &cam)
	_, err := uuid.Parse(string(id))
	require.NoError(t, err, "bookmark ids are UUIDs")

	cam.Target = mgl32.Vec3{}
	cam.Zoom = 1
	require.NoError(t, bookmarks.Recall(id, &cam))

	assert.Equal(t, mgl32.Vec3{4, 1, -6}, cam.Target)
	assert.InDelta(t, 0.4, cam.Zoom, 1e-6)

	bm, ok := bookmarks.Get(id)
	require.True(t, ok)
	assert.Equal(t, "base", bm.Name)
}

func TestCameraBookmarks_Unknown(t *testing.T) {
	bookmarks := NewCameraBookmarks()
	cam := NewRtsCamera()

	assert.ErrorIs(t, bookmarks.Recall("nope", &cam), ErrBookmarkNotFound)
	assert.ErrorIs(t, bookmarks.Delete("nope"), ErrBookmarkNotFound)
}

func TestCameraBookmarks_DeleteAndList(t *testing.T) {
	bookmarks := NewCameraBookmarks()
	cam := NewRtsCamera()

	a := bookmarks.Save("a", &cam)
	b := bookmarks.Save("b", &cam)
	c := bookmarks.Save("c", &cam)
	assert.NotEqual(t, a, b)

	require.NoError(t, bookmarks.Delete(b))

	var names []string
	for _, bm := range bookmarks.List() {
		names = append(names, bm.Name)
	}
	assert.Equal(t, []string{"a", "c"}, names)

	_, ok := bookmarks.Get(b)
	assert.False(t, ok)
	_, ok = bookmarks.Get(c)
	assert.True(t, ok)
}
