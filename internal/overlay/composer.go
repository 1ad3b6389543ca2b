package overlay

import "fmt"

// CapabilitySet answers whether a component capability is enabled in the
// resolved configuration. Satisfied by *resolve.Resolved.
type CapabilitySet interface {
	Capability(name string) bool
}

// Composed is a base description with fragments applied, plus the manifest
// of what was done.
type Composed struct {
	Description Description `json:"description" yaml:"description"`
	Manifest    Manifest    `json:"manifest" yaml:"manifest"`
}

type propKey struct {
	path     string
	property string
}

// Compose applies the fragments to the base description in the given order.
// Fragments whose prerequisite capability is disabled are recorded as
// skipped, not applied. A plain write colliding with an earlier fragment's
// write to the same (path, property) pair is a ConflictError; a write marked
// replace overwrites and is recorded in the manifest. Deleting a node
// removes its whole subtree; a later fragment writing under a deleted
// subtree is also a ConflictError.
//
// The base description is never mutated.
func Compose(base Description, fragments []Fragment, caps CapabilitySet) (*Composed, error) {
	composed := &Composed{Description: base.Clone()}

	writers := make(map[propKey]string) // (path, property) -> fragment id
	deleted := make(map[string]string)  // subtree root -> deleting fragment id

	for _, frag := range fragments {
		if err := frag.Validate(); err != nil {
			return nil, err
		}

		if frag.Requires != "" && !caps.Capability(frag.Requires) {
			composed.Manifest.Skipped = append(composed.Manifest.Skipped, SkippedFragment{
				ID:     frag.ID,
				Reason: fmt.Sprintf("capability %s not enabled", frag.Requires),
			})
			continue
		}

		for _, w := range frag.Writes {
			for root, deleter := range deleted {
				if subtreeOf(w.Path, root) {
					return nil, &ConflictError{Path: root, First: deleter, Second: frag.ID}
				}
			}

			key := propKey{path: w.Path, property: w.Property}
			if prior, written := writers[key]; written {
				if !w.Replace {
					return nil, &ConflictError{Path: w.Path, Property: w.Property, First: prior, Second: frag.ID}
				}
				composed.Manifest.Overrides = append(composed.Manifest.Overrides, Override{
					Path:     w.Path,
					Property: w.Property,
					Replaced: prior,
					By:       frag.ID,
				})
			}

			node, ok := composed.Description.Nodes[w.Path]
			if !ok {
				node = make(Properties)
				composed.Description.Nodes[w.Path] = node
			}
			node[w.Property] = w.Value
			writers[key] = frag.ID
		}

		// Deletions settle after this fragment's own writes; writes from
		// earlier fragments into the subtree are simply removed with it.
		for _, del := range frag.Deletes {
			for path := range composed.Description.Nodes {
				if subtreeOf(path, del) {
					delete(composed.Description.Nodes, path)
				}
			}
			deleted[del] = frag.ID
		}

		composed.Manifest.Applied = append(composed.Manifest.Applied, frag.ID)
	}

	return composed, nil
}
