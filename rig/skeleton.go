package rig

import (
	"errors"
	"fmt"
	"sort"

	"github.com/binzume/rigconv/geom"
)

// ErrMalformedSkeleton is returned when a parent reference does not
// resolve or the parent graph contains a cycle.
var ErrMalformedSkeleton = errors.New("malformed skeleton")

// Bone describes one bone of a skeleton convention: its rest
// orientation (Euler angles in degrees, interpreted in Order) and its
// bind-pose head position relative to the parent.
type Bone struct {
	Name   string
	Parent string // empty for a root bone
	Orient geom.Vector3
	Order  geom.RotationOrder
	Head   geom.Vector3
}

// Skeleton is an immutable skeleton model: named bones with parent
// links plus the convention they belong to.
type Skeleton struct {
	rigType Type
	root    string
	bones   map[string]*Bone
}

// NewSkeleton builds a skeleton model and validates its parent graph.
// Every parent reference must resolve to a bone in the same model and
// the graph must be acyclic; a violation is fatal and yields no model.
func NewSkeleton(rigType Type, bones []*Bone) (*Skeleton, error) {
	s := &Skeleton{rigType: rigType, bones: make(map[string]*Bone, len(bones))}
	for _, b := range bones {
		if _, ok := s.bones[b.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate bone %q", ErrMalformedSkeleton, b.Name)
		}
		s.bones[b.Name] = b
	}
	for _, b := range s.bones {
		if b.Parent == "" {
			if s.root == "" {
				s.root = b.Name
			}
			continue
		}
		if _, ok := s.bones[b.Parent]; !ok {
			return nil, fmt.Errorf("%w: bone %q references missing parent %q", ErrMalformedSkeleton, b.Name, b.Parent)
		}
	}
	for _, b := range s.bones {
		seen := map[string]bool{b.Name: true}
		for p := b.Parent; p != ""; p = s.bones[p].Parent {
			if seen[p] {
				return nil, fmt.Errorf("%w: cycle through bone %q", ErrMalformedSkeleton, p)
			}
			seen[p] = true
		}
	}
	return s, nil
}

// Type returns the skeleton convention.
func (s *Skeleton) Type() Type {
	return s.rigType
}

// Root returns the name of the first root bone, or "".
func (s *Skeleton) Root() string {
	return s.root
}

// Bone returns the named bone, or nil.
func (s *Skeleton) Bone(name string) *Bone {
	return s.bones[name]
}

// Parent returns the parent bone of the named bone, or nil for roots
// and unknown names.
func (s *Skeleton) Parent(name string) *Bone {
	if b := s.bones[name]; b != nil && b.Parent != "" {
		return s.bones[b.Parent]
	}
	return nil
}

// Names returns all bone names in sorted order.
func (s *Skeleton) Names() []string {
	names := make([]string, 0, len(s.bones))
	for n := range s.bones {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Children returns the names of the direct children of a bone, sorted.
func (s *Skeleton) Children(name string) []string {
	var r []string
	for n, b := range s.bones {
		if b.Parent == name {
			r = append(r, n)
		}
	}
	sort.Strings(r)
	return r
}
