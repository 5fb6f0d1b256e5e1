package h5

// WalkFunc is called for each object during traversal.
// path is the full path to the object; obj is either *Group or *Dataset.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(path string, obj interface{}) error

// Walk traverses all objects in the hierarchy starting from g, in member
// insertion order. The callback is called for each group and dataset,
// including the starting group.
func Walk(g *Group, fn WalkFunc) error {
	if err := fn(g.Path(), g); err != nil {
		return err
	}
	for _, name := range g.Members() {
		if sub, ok := g.groups[name]; ok {
			if err := Walk(sub, fn); err != nil {
				return err
			}
			continue
		}
		if ds, ok := g.datasets[name]; ok {
			if err := fn(ds.Path(), ds); err != nil {
				return err
			}
		}
	}
	return nil
}
