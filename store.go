package pixeloid

// ObjectStore is the fixed-scale data layer: it owns every Object and
// answers rectangular window queries in world coordinates.
//
// Everything here operates at an internal scale of 1. No code path in this
// layer multiplies a dimension by the camera zoom factor — that is the
// invariant that keeps texture memory from growing with zoom.
type ObjectStore struct {
	objects []*Object
	byID    map[uint64]*Object
	nextID  uint64

	// lastSeen tracks the version each object had when it was last
	// returned by Query, so changed objects can be flagged for cache
	// invalidation.
	lastSeen map[uint64]uint64
	dirty    []uint64

	queryBuf []*Object
}

// NewObjectStore creates an empty store.
func NewObjectStore() *ObjectStore {
	return &ObjectStore{
		byID:     make(map[uint64]*Object),
		lastSeen: make(map[uint64]uint64),
	}
}

// Create allocates the next stable ID, builds a visible object, and adds it.
func (s *ObjectStore) Create(t ShapeType, vertices []Vec2) *Object {
	s.nextID++
	obj := NewObject(s.nextID, t, vertices)
	s.Add(obj)
	return obj
}

// Add inserts an externally constructed object. The object's ID must be
// unique; an existing object with the same ID is replaced.
func (s *ObjectStore) Add(obj *Object) {
	if prev, ok := s.byID[obj.ID]; ok {
		for i, o := range s.objects {
			if o == prev {
				s.objects[i] = obj
				break
			}
		}
	} else {
		s.objects = append(s.objects, obj)
	}
	s.byID[obj.ID] = obj
	if obj.ID > s.nextID {
		s.nextID = obj.ID
	}
}

// Remove deletes the object with the given ID. Reports whether it existed.
func (s *ObjectStore) Remove(id uint64) bool {
	obj, ok := s.byID[id]
	if !ok {
		return false
	}
	delete(s.byID, id)
	delete(s.lastSeen, id)
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the object with the given ID.
func (s *ObjectStore) Get(id uint64) (*Object, bool) {
	obj, ok := s.byID[id]
	return obj, ok
}

// Len returns the number of stored objects, visible or not.
func (s *ObjectStore) Len() int {
	return len(s.objects)
}

// Query returns the visible objects whose bounding box intersects window.
// A linear scan is fine at this layer's expected scale (hundreds of
// objects); callers must not retain the returned slice past the next Query.
//
// As a side effect, objects whose version changed since the previous Query
// are flagged dirty for texture invalidation (drain with TakeDirty).
func (s *ObjectStore) Query(window Rect) []*Object {
	s.queryBuf = s.queryBuf[:0]
	for _, obj := range s.objects {
		if !obj.Visible {
			continue
		}
		if !obj.Bounds().Intersects(window) {
			continue
		}
		if seen, ok := s.lastSeen[obj.ID]; !ok || seen != obj.version {
			s.lastSeen[obj.ID] = obj.version
			s.dirty = append(s.dirty, obj.ID)
		}
		s.queryBuf = append(s.queryBuf, obj)
	}
	return s.queryBuf
}

// TakeDirty returns the IDs flagged dirty by Query since the last call and
// resets the flag list. The returned slice is valid until the next call.
func (s *ObjectStore) TakeDirty() []uint64 {
	d := s.dirty
	s.dirty = s.dirty[:0]
	return d
}

// SamplingWindow returns the scale-1 query window for the current camera
// regime: the sampling window at zoom 1, or the viewport-anchored window at
// higher zooms. screenW and screenH are in pixels; the window dimensions
// come out in world units (screen / zoom — never screen * zoom).
func SamplingWindow(c CameraState, screenW, screenH float64) Rect {
	if c.Zoom == 1 {
		return Rect{X: c.Sampling.X, Y: c.Sampling.Y, Width: screenW, Height: screenH}
	}
	z := float64(c.Zoom)
	return Rect{X: c.Viewport.X, Y: c.Viewport.Y, Width: screenW / z, Height: screenH / z}
}
