package rtscam

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

var ErrBookmarkNotFound = errors.New("camera bookmark not found")

type BookmarkId string

type CameraBookmark struct {
	Id     BookmarkId
	Name   string
	Target mgl32.Vec3
	Zoom   float32
}

// CameraBookmarks remembers camera views for the running session.
type CameraBookmarks struct {
	bookmarks map[BookmarkId]CameraBookmark
	order     []BookmarkId
}

func NewCameraBookmarks() *CameraBookmarks {
	return &CameraBookmarks{
		bookmarks: make(map[BookmarkId]CameraBookmark),
	}
}

// Save records the camera's target and zoom.
func (b *CameraBookmarks) Save(name string, cam *RtsCamera) BookmarkId {
	id := makeBookmarkId()
	b.bookmarks[id] = CameraBookmark{
		Id:     id,
		Name:   name,
		Target: cam.Target,
		Zoom:   cam.Zoom,
	}
	b.order = append(b.order, id)
	return id
}

func (b *CameraBookmarks) Get(id BookmarkId) (CameraBookmark, bool) {
	bm, ok := b.bookmarks[id]
	return bm, ok
}

// Recall jumps cam to the bookmark. The move is smoothed like any other
// target change.
func (b *CameraBookmarks) Recall(id BookmarkId, cam *RtsCamera) error {
	bm, ok := b.bookmarks[id]
	if !ok {
		return fmt.Errorf("recall %s: %w", id, ErrBookmarkNotFound)
	}
	cam.JumpTo(bm.Target)
	cam.Zoom = clamp01(bm.Zoom)
	return nil
}

func (b *CameraBookmarks) Delete(id BookmarkId) error {
	if _, ok := b.bookmarks[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, ErrBookmarkNotFound)
	}
	delete(b.bookmarks, id)
	for i, other := range b.order {
		if other == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns the bookmarks in the order they were saved.
func (b *CameraBookmarks) List() []CameraBookmark {
	list := make([]CameraBookmark, 0, len(b.order))
	for _, id := range b.order {
		list = append(list, b.bookmarks[id])
	}
	return list
}

func makeBookmarkId() BookmarkId {
	return BookmarkId(uuid.NewString())
}
