package anim

import "sort"

// Animation holds the channels of one clip keyed by bone name.
// Morph and custom property channels use the morph name as the key.
type Animation struct {
	Name  string
	bones map[string]map[Kind]*Channel
}

func NewAnimation(name string) *Animation {
	return &Animation{Name: name, bones: map[string]map[Kind]*Channel{}}
}

// BoneNames returns the bone keys in sorted order.
func (a *Animation) BoneNames() []string {
	names := make([]string, 0, len(a.bones))
	for name := range a.bones {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Channel returns the channel for (bone, kind), or nil.
func (a *Animation) Channel(bone string, kind Kind) *Channel {
	return a.bones[bone][kind]
}

// Get returns the curve for (bone, kind, comp). Unknown keys return an
// empty curve, never an error.
func (a *Animation) Get(bone string, kind Kind, comp int) Curve {
	if ch := a.bones[bone][kind]; ch != nil {
		return ch.Comps[comp]
	}
	return nil
}

// Set replaces the curve for (bone, kind, comp).
func (a *Animation) Set(bone string, kind Kind, comp int, curve Curve) {
	ch := a.ensure(bone, kind)
	ch.Comps[comp] = curve
}

// Add inserts a single keyframe into (bone, kind, comp) keeping time order.
func (a *Animation) Add(bone string, kind Kind, comp int, t, v float64) {
	ch := a.ensure(bone, kind)
	ch.Comps[comp] = ch.Comps[comp].Insert(Keyframe{Time: t, Value: v})
}

func (a *Animation) ensure(bone string, kind Kind) *Channel {
	b, ok := a.bones[bone]
	if !ok {
		b = map[Kind]*Channel{}
		a.bones[bone] = b
	}
	ch, ok := b[kind]
	if !ok {
		ch = NewChannel(kind)
		b[kind] = ch
	}
	return ch
}

// Rename moves all channels of a bone to a new key. When the new key
// already has data, the renamed bone's channels win per component and
// components absent from it are kept from the existing bone.
func (a *Animation) Rename(old, name string) {
	if old == name {
		return
	}
	b, ok := a.bones[old]
	if !ok {
		return
	}
	delete(a.bones, old)
	dst, ok := a.bones[name]
	if !ok {
		a.bones[name] = b
		return
	}
	for kind, ch := range b {
		mergeChannel(dst, kind, ch)
	}
}

// Remove deletes a bone and all its channels.
func (a *Animation) Remove(bone string) {
	delete(a.bones, bone)
}

// RemoveChannel deletes one channel of a bone.
func (a *Animation) RemoveChannel(bone string, kind Kind) {
	if b, ok := a.bones[bone]; ok {
		delete(b, kind)
		if len(b) == 0 {
			delete(a.bones, bone)
		}
	}
}

// Merge copies other into a. Curves present in other replace curves in
// a per (bone, kind, component); components only present in a survive.
// A last-write-wins update that extends rather than fully overwrites.
func (a *Animation) Merge(other *Animation) {
	for bone, channels := range other.bones {
		dst, ok := a.bones[bone]
		if !ok {
			dst = map[Kind]*Channel{}
			a.bones[bone] = dst
		}
		for kind, ch := range channels {
			mergeChannel(dst, kind, ch.Clone())
		}
	}
}

func mergeChannel(dst map[Kind]*Channel, kind Kind, ch *Channel) {
	old, ok := dst[kind]
	if !ok {
		dst[kind] = ch
		return
	}
	for comp, curve := range ch.Comps {
		old.Comps[comp] = curve
	}
}

// Clone returns a deep copy of the animation.
func (a *Animation) Clone() *Animation {
	r := NewAnimation(a.Name)
	for bone, channels := range a.bones {
		b := map[Kind]*Channel{}
		for kind, ch := range channels {
			b[kind] = ch.Clone()
		}
		r.bones[bone] = b
	}
	return r
}
