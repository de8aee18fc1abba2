package draw

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

// ErrUnsupportedGeometry is returned when adding a feature whose geometry is
// not a Point, LineString or Polygon.
var ErrUnsupportedGeometry = errors.New("draw: unsupported geometry")

// StoreOptions configures a Store.
type StoreOptions struct {
	Features   []Feature
	Generators map[string]Generator
	Logger     logrus.FieldLogger
	NewID      func() ID
}

// GenerateOptions are the optional inputs of Store.GenerateFeature.
type GenerateOptions struct {
	ID      ID
	Props   Patch
	Options GeneratorOptions
}

// Store owns every feature, the handle features that belong to them, and the
// selection. It is not safe for concurrent use.
type Store struct {
	log        logrus.FieldLogger
	newID      func() ID
	generators map[string]Generator

	features map[ID]*Feature
	order    []ID
	handles  map[ID][]ID
	// managed features get their full handle set rebuilt on every change
	managed  map[ID]bool
	selected []ID

	events StoreEvents
}

// NewStore returns a store seeded with opts.Features.
func NewStore(opts StoreOptions) *Store {
	s := &Store{
		log:        opts.Logger,
		newID:      opts.NewID,
		generators: mergeGenerators(opts.Generators),
		features:   map[ID]*Feature{},
		handles:    map[ID][]ID{},
		managed:    map[ID]bool{},
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	if s.newID == nil {
		s.newID = func() ID { return ID(uuid.NewString()) }
	}
	if len(opts.Features) > 0 {
		if _, err := s.AddFeatures(opts.Features...); err != nil {
			s.log.WithError(err).Warn("skipped initial features")
		}
	}
	return s
}

// Events exposes the store's event topics.
func (s *Store) Events() *StoreEvents { return &s.events }

// Features returns a snapshot of every feature, handles included, in
// insertion order.
func (s *Store) Features() []Feature {
	out := make([]Feature, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.features[id].Clone())
	}
	return out
}

// Len returns the number of stored features, handles included.
func (s *Store) Len() int { return len(s.order) }

// Feature returns a copy of the feature with the given id.
func (s *Store) Feature(id ID) (Feature, bool) {
	f, ok := s.features[id]
	if !ok {
		return Feature{}, false
	}
	return f.Clone(), true
}

// AddFeature stores f, generating an id if it has none.
func (s *Store) AddFeature(f Feature) (ID, error) {
	ids, err := s.AddFeatures(f)
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

// AddFeatures stores every supported feature and reports the others in the
// returned error. Features without handles get them derived from their
// geometry. An existing id is replaced.
func (s *Store) AddFeatures(fs ...Feature) ([]ID, error) {
	var (
		ids   []ID
		added []Feature
		errs  []error
	)
	for _, f := range fs {
		if !supportedType(f.Type()) {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnsupportedGeometry, f.Type()))
			continue
		}
		f = f.Clone()
		if f.ID == "" {
			f.ID = s.newID()
		}
		if len(f.Properties.Handles) == 0 {
			f.Properties.Handles = handlesFromGeometry(f.Geometry)
		}
		f.Properties.Selected = s.IsSelected(f.ID)
		if _, ok := s.features[f.ID]; !ok {
			s.order = append(s.order, f.ID)
		}
		s.features[f.ID] = &f
		ids = append(ids, f.ID)
		added = append(added, f)
	}
	if len(added) > 0 {
		s.events.Add.publish(func() FeaturesEvent { return FeaturesEvent{Features: cloneAll(added)} })
		s.emitChange()
	}
	return ids, errors.Join(errs...)
}

// RemoveFeature removes a feature and its handles.
func (s *Store) RemoveFeature(id ID) { s.RemoveFeatures(id) }

// RemoveFeatures removes features, their handles, and drops them from the
// selection. Unknown ids are ignored.
func (s *Store) RemoveFeatures(ids ...ID) {
	var removed []ID
	for _, id := range ids {
		removed = append(removed, s.remove(id)...)
	}
	if len(removed) == 0 {
		return
	}
	s.events.Remove.publish(func() RemoveEvent { return RemoveEvent{IDs: removed} })
	s.emitChange()
}

// RemoveAllFeatures empties the store.
func (s *Store) RemoveAllFeatures() {
	if len(s.order) == 0 {
		return
	}
	removed := s.order
	s.features = map[ID]*Feature{}
	s.handles = map[ID][]ID{}
	s.managed = map[ID]bool{}
	s.order = nil
	s.selected = nil
	s.events.Remove.publish(func() RemoveEvent { return RemoveEvent{IDs: removed} })
	s.emitChange()
}

// remove deletes id without emitting and returns every id it removed.
func (s *Store) remove(id ID) []ID {
	f, ok := s.features[id]
	if !ok {
		return nil
	}
	removed := []ID{id}
	for _, h := range s.handles[id] {
		if _, ok := s.features[h]; ok {
			delete(s.features, h)
			removed = append(removed, h)
		}
	}
	delete(s.handles, id)
	delete(s.managed, id)
	delete(s.features, id)
	if f.IsHandle() {
		if hs, ok := s.handles[f.Properties.Parent]; ok {
			s.handles[f.Properties.Parent] = slices.DeleteFunc(hs, func(h ID) bool { return h == id })
		}
	}
	s.order = slices.DeleteFunc(s.order, func(o ID) bool { return slices.Contains(removed, o) })
	s.selected = slices.DeleteFunc(s.selected, func(o ID) bool { return o == id })
	return removed
}

// UpdateFeature applies u to the feature. A new geometry without handles
// takes its handles from the geometry; new handles without a geometry
// regenerate it. For features with a generator the geometry must be what the
// generator makes of the handles. It reports false, leaving the feature
// untouched, when the feature is unknown or the update would leave geometry
// and handles disagreeing.
func (s *Store) UpdateFeature(id ID, u Update) bool {
	f, ok := s.features[id]
	if !ok {
		return false
	}
	next := f.Clone()
	next.Properties.apply(u.Props)
	// the selection set is the source of truth for the flag
	next.Properties.Selected = s.IsSelected(id)
	switch {
	case u.Geometry != nil:
		next.Geometry = orb.Clone(u.Geometry)
		if u.Props.Handles == nil {
			next.Properties.Handles = handlesFromGeometry(next.Geometry)
		}
		if next.Properties.Generator != "" || u.Props.Handles != nil {
			g := s.geometryFor(&next)
			if g == nil || !orb.Equal(g, next.Geometry) {
				return false
			}
		}
	case u.Props.Handles != nil || u.Props.Generator != nil || u.Props.Options != nil:
		g := s.geometryFor(&next)
		if g == nil {
			return false
		}
		next.Geometry = g
	}
	*f = next

	s.events.Update.publish(func() FeaturesEvent { return FeaturesEvent{Features: []Feature{f.Clone()}} })
	if s.managed[id] {
		s.publishHandles(s.dropHandles(id), s.putHandles(id, handleSpecs(next)))
	}
	s.emitChange()
	return true
}

// geometryFor rebuilds f's geometry from its handles, or returns nil.
func (s *Store) geometryFor(f *Feature) orb.Geometry {
	if f.Properties.Generator == "" {
		return geometryFromHandles(f.Type(), f.Properties.Handles)
	}
	g, err := s.generate(f.Properties.Generator, f.Properties.Handles, f.Properties.Options)
	if err != nil {
		return nil
	}
	return g
}

func (s *Store) generate(name string, vertices []orb.Point, opts GeneratorOptions) (orb.Geometry, error) {
	gen, ok := s.generators[name]
	if !ok {
		s.log.WithField("generator", name).Warn("shape generator not found")
		return nil, fmt.Errorf("draw: generator %q not found", name)
	}
	g, err := gen(vertices, opts)
	if err != nil {
		s.log.WithField("generator", name).WithError(err).Debug("shape generator failed")
		return nil, err
	}
	return g, nil
}

// GenerateFeature runs the named generator over vertices and returns the
// resulting feature without storing it. It returns nil when the generator is
// unknown or rejects the vertices.
func (s *Store) GenerateFeature(name string, vertices []orb.Point, opts GenerateOptions) *Feature {
	g, err := s.generate(name, vertices, opts.Options)
	if err != nil {
		return nil
	}
	f := &Feature{ID: opts.ID, Geometry: g}
	if f.ID == "" {
		f.ID = s.newID()
	}
	f.Properties.Generator = name
	f.Properties.Handles = slices.Clone(vertices)
	f.Properties.Options = opts.Options
	f.Properties.apply(opts.Props)
	return f
}

// Regenerate replaces the handles of a stored feature, rebuilds its geometry
// with the feature's generator and merges patch into its properties. It
// reports false, leaving the feature untouched, when the feature is unknown
// or its generator cannot produce a geometry.
func (s *Store) Regenerate(id ID, handles []orb.Point, patch Patch) bool {
	if handles == nil {
		handles = []orb.Point{}
	}
	patch.Handles = handles
	return s.UpdateFeature(id, Update{Props: patch})
}

// HandleSpec describes one handle to create. For a midpoint, Index is the
// vertex the insertion point follows.
type HandleSpec struct {
	Coord    orb.Point
	Index    int
	Midpoint bool
}

// CreateHandle stores a handle feature for featureID at coord. For a
// midpoint, index is the vertex the insertion point follows.
func (s *Store) CreateHandle(featureID ID, coord orb.Point, index int, midpoint bool) (ID, bool) {
	ids := s.CreateHandles(featureID, HandleSpec{Coord: coord, Index: index, Midpoint: midpoint})
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// CreateHandles appends handles to featureID's set and emits one add and one
// change event for the batch. It returns nil for an unknown feature.
func (s *Store) CreateHandles(featureID ID, specs ...HandleSpec) []ID {
	if _, ok := s.features[featureID]; !ok || len(specs) == 0 {
		return nil
	}
	added := s.putHandles(featureID, specs)
	s.publishHandles(nil, added)
	s.emitChange()
	ids := make([]ID, len(added))
	for i, h := range added {
		ids[i] = h.ID
	}
	return ids
}

// ClearHandles removes every handle of featureID.
func (s *Store) ClearHandles(featureID ID) {
	delete(s.managed, featureID)
	removed := s.dropHandles(featureID)
	if len(removed) == 0 {
		return
	}
	s.publishHandles(removed, nil)
	s.emitChange()
}

// RefreshHandles replaces featureID's handles with one per vertex plus, when
// the feature is insertable, one midpoint per edge. From then on the store
// rebuilds them whenever the feature changes, until ClearHandles.
func (s *Store) RefreshHandles(featureID ID) bool {
	f, ok := s.features[featureID]
	if !ok {
		return false
	}
	s.managed[featureID] = true
	s.publishHandles(s.dropHandles(featureID), s.putHandles(featureID, handleSpecs(*f)))
	s.emitChange()
	return true
}

// replaceHandles swaps featureID's handles for specs in one change.
func (s *Store) replaceHandles(featureID ID, specs []HandleSpec) {
	if _, ok := s.features[featureID]; !ok {
		return
	}
	delete(s.managed, featureID)
	s.publishHandles(s.dropHandles(featureID), s.putHandles(featureID, specs))
	s.emitChange()
}

func handleSpecs(f Feature) []HandleSpec {
	specs := make([]HandleSpec, 0, 2*len(f.Properties.Handles))
	for i, p := range f.Properties.Handles {
		specs = append(specs, HandleSpec{Coord: p, Index: i})
	}
	if !f.Properties.IsInsertable() {
		return specs
	}
	for i, p := range midpoints(f.Properties.Handles, f.Type() == TypePolygon) {
		specs = append(specs, HandleSpec{Coord: p, Index: i, Midpoint: true})
	}
	return specs
}

// putHandles stores handle features without emitting.
func (s *Store) putHandles(featureID ID, specs []HandleSpec) []Feature {
	added := make([]Feature, 0, len(specs))
	for _, sp := range specs {
		h := &Feature{
			ID:       s.newID(),
			Geometry: sp.Coord,
			Properties: Properties{
				Handles:  []orb.Point{sp.Coord},
				Handle:   !sp.Midpoint,
				Midpoint: sp.Midpoint,
				Parent:   featureID,
				Index:    sp.Index,
			},
		}
		if sp.Midpoint {
			h.Properties.InsertIndex = sp.Index
		}
		if _, ok := s.features[h.ID]; !ok {
			s.order = append(s.order, h.ID)
		}
		s.features[h.ID] = h
		s.handles[featureID] = append(s.handles[featureID], h.ID)
		added = append(added, *h)
	}
	return added
}

// dropHandles deletes featureID's handles without emitting.
func (s *Store) dropHandles(featureID ID) []ID {
	hs := s.handles[featureID]
	delete(s.handles, featureID)
	var removed []ID
	for _, h := range hs {
		if _, ok := s.features[h]; ok {
			delete(s.features, h)
			removed = append(removed, h)
		}
	}
	if len(removed) > 0 {
		s.order = slices.DeleteFunc(s.order, func(o ID) bool { return slices.Contains(removed, o) })
	}
	return removed
}

func (s *Store) publishHandles(removed []ID, added []Feature) {
	if len(removed) > 0 {
		s.events.Remove.publish(func() RemoveEvent { return RemoveEvent{IDs: removed} })
	}
	if len(added) > 0 {
		s.events.Add.publish(func() FeaturesEvent { return FeaturesEvent{Features: cloneAll(added)} })
	}
}

// Handles returns copies of featureID's handle features in creation order.
func (s *Store) Handles(featureID ID) []Feature {
	var out []Feature
	for _, id := range s.handles[featureID] {
		if f, ok := s.features[id]; ok {
			out = append(out, f.Clone())
		}
	}
	return out
}

// SelectedIDs returns the selection.
func (s *Store) SelectedIDs() []ID { return slices.Clone(s.selected) }

// IsSelected reports whether id is selected.
func (s *Store) IsSelected(id ID) bool { return slices.Contains(s.selected, id) }

// SetSelected makes id the only selected feature. Unknown ids are ignored.
func (s *Store) SetSelected(id ID) {
	if _, ok := s.features[id]; !ok {
		return
	}
	s.setSelection([]ID{id})
}

// ClearSelection deselects everything.
func (s *Store) ClearSelection() { s.setSelection(nil) }

// setSelection replaces the selection, drops the handles of features that
// left it, and syncs every Selected flag. Events fire only if a flag changed.
func (s *Store) setSelection(ids []ID) {
	for _, old := range s.selected {
		if !slices.Contains(ids, old) {
			s.ClearHandles(old)
		}
	}
	s.selected = ids

	changed := false
	for _, id := range s.order {
		f := s.features[id]
		want := slices.Contains(ids, id)
		if f.Properties.Selected != want {
			f.Properties.Selected = want
			changed = true
		}
	}
	if !changed {
		return
	}
	s.events.Selection.publish(func() SelectionEvent { return SelectionEvent{SelectedIDs: s.SelectedIDs()} })
	s.events.Update.publish(func() FeaturesEvent { return FeaturesEvent{Features: s.Features()} })
	s.emitChange()
}

func (s *Store) emitChange() {
	s.events.Change.publish(func() ChangeEvent {
		return ChangeEvent{Features: s.Features(), SelectedIDs: s.SelectedIDs()}
	})
}

func cloneAll(fs []Feature) []Feature {
	out := make([]Feature, len(fs))
	for i, f := range fs {
		out[i] = f.Clone()
	}
	return out
}
