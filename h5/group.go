package h5

import (
	"fmt"
	"path"

	"github.com/robert-malhotra/go-h5arr/internal/chunk"
)

// Group is a named container of datasets, attributes, and nested groups.
type Group struct {
	file     *File
	path     string
	groups   map[string]*Group
	datasets map[string]*Dataset
	order    []string // member names in insertion order
	attrs    attrSet
}

// Name returns the group name (last component of the path).
func (g *Group) Name() string {
	if g.path == "/" {
		return "/"
	}
	return path.Base(g.path)
}

// Path returns the full path to this group.
func (g *Group) Path() string {
	return g.path
}

// childPath joins a member name onto this group's path.
func (g *Group) childPath(name string) string {
	if g.path == "/" {
		return "/" + name
	}
	return path.Join(g.path, name)
}

// CreateGroup creates a new subgroup with the given name.
func (g *Group) CreateGroup(name string) (*Group, error) {
	if name == "" {
		return nil, fmt.Errorf("group name cannot be empty")
	}
	if g.hasMember(name) {
		return nil, fmt.Errorf("creating group %q in group %s: %w", name, g.path, ErrExists)
	}

	sub := &Group{
		file:     g.file,
		path:     g.childPath(name),
		groups:   make(map[string]*Group),
		datasets: make(map[string]*Dataset),
	}
	g.groups[name] = sub
	g.order = append(g.order, name)
	return sub, nil
}

// OpenGroup opens a subgroup by relative path.
func (g *Group) OpenGroup(relativePath string) (*Group, error) {
	obj, err := g.open(relativePath)
	if err != nil {
		return nil, err
	}
	sub, ok := obj.(*Group)
	if !ok {
		return nil, fmt.Errorf("opening %q in group %s: %w", relativePath, g.path, ErrNotGroup)
	}
	return sub, nil
}

// OpenDataset opens a dataset by relative path.
func (g *Group) OpenDataset(relativePath string) (*Dataset, error) {
	obj, err := g.open(relativePath)
	if err != nil {
		return nil, err
	}
	ds, ok := obj.(*Dataset)
	if !ok {
		return nil, fmt.Errorf("opening %q in group %s: %w", relativePath, g.path, ErrNotDataset)
	}
	return ds, nil
}

// open resolves an object by relative path.
func (g *Group) open(relativePath string) (interface{}, error) {
	parts := splitPath(relativePath)
	if len(parts) == 0 {
		return g, nil
	}

	current := g
	for i, name := range parts {
		if i == len(parts)-1 {
			if ds, ok := current.datasets[name]; ok {
				return ds, nil
			}
			if sub, ok := current.groups[name]; ok {
				return sub, nil
			}
			return nil, fmt.Errorf("finding %q in group %s: %w", name, current.path, ErrNotFound)
		}

		sub, ok := current.groups[name]
		if !ok {
			if _, isDs := current.datasets[name]; isDs {
				return nil, fmt.Errorf("traversing %q: %w", current.childPath(name), ErrNotGroup)
			}
			return nil, fmt.Errorf("finding %q in group %s: %w", name, current.path, ErrNotFound)
		}
		current = sub
	}
	return current, nil
}

// Unlink removes the named dataset or subgroup. Removing a name that does
// not exist is a no-op.
func (g *Group) Unlink(name string) {
	if !g.hasMember(name) {
		return
	}
	delete(g.groups, name)
	delete(g.datasets, name)
	for i, n := range g.order {
		if n == name {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// HasKey returns true if the group has a member with the given name.
func (g *Group) HasKey(name string) bool {
	return g.hasMember(name)
}

func (g *Group) hasMember(name string) bool {
	if _, ok := g.groups[name]; ok {
		return true
	}
	_, ok := g.datasets[name]
	return ok
}

// Members returns the names of all members in insertion order.
func (g *Group) Members() []string {
	return append([]string(nil), g.order...)
}

// NumObjects returns the number of members in this group.
func (g *Group) NumObjects() int {
	return len(g.order)
}

// CreateDataset creates a dataset with the given element type and extents.
// dims nil creates a scalar dataset. The dataset storage is zero-filled
// until written.
func (g *Group) CreateDataset(name string, dt *Datatype, dims []uint64, opts ...DatasetOption) (*Dataset, error) {
	if name == "" {
		return nil, fmt.Errorf("dataset name cannot be empty")
	}
	if dt == nil || dt.Size <= 0 {
		return nil, fmt.Errorf("dataset %q: invalid datatype", name)
	}
	if g.hasMember(name) {
		return nil, fmt.Errorf("creating dataset %q in group %s: %w", name, g.path, ErrExists)
	}

	options := defaultDatasetOptions()
	for _, opt := range opts {
		opt(options)
	}

	ds := &Dataset{
		group:  g,
		path:   g.childPath(name),
		dt:     dt,
		scalar: len(dims) == 0,
		dims:   append([]uint64(nil), dims...),
	}

	if options.chunks != nil && options.compressionLvl > 0 {
		if ds.scalar {
			return nil, fmt.Errorf("creating dataset %q: scalar datasets cannot be chunked", name)
		}
		store, err := chunk.New(ds.dims, options.chunks, dt.Size, options.compressionLvl)
		if err != nil {
			return nil, fmt.Errorf("creating dataset %q in group %s: %w", name, g.path, err)
		}
		ds.chunked = store
		// Zero-fill so an unwritten chunked dataset reads back as zeros,
		// matching contiguous storage.
		if n := ds.NumElements(); n > 0 {
			if err := store.Write(make([]byte, n*uint64(dt.Size))); err != nil {
				return nil, fmt.Errorf("initializing dataset %q in group %s: %w", name, g.path, err)
			}
		}
	} else {
		ds.raw = make([]byte, ds.NumElements()*uint64(dt.Size))
	}

	g.datasets[name] = ds
	g.order = append(g.order, name)
	return ds, nil
}

// Attrs returns the attribute names for this group.
func (g *Group) Attrs() []string {
	return g.attrs.names()
}

// Attr returns an attribute by name, or nil if not found.
func (g *Group) Attr(name string) *Attribute {
	return g.attrs.get(name)
}

// HasAttr returns true if the group has an attribute with the given name.
func (g *Group) HasAttr(name string) bool {
	return g.attrs.get(name) != nil
}

func (g *Group) addAttr(a *Attribute) error {
	return g.attrs.add(a)
}
