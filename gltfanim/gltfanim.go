// Package gltfanim writes retargeted clips as glTF animations, with
// the skeleton exported as a node hierarchy so the result is playable
// in any glTF viewer.
package gltfanim

import (
	"sort"

	"github.com/binzume/rigconv/anim"
	"github.com/binzume/rigconv/geom"
	"github.com/binzume/rigconv/rig"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func addSkeletonNodes(doc *gltf.Document, skel *rig.Skeleton) map[string]uint32 {
	nodes := map[string]uint32{}
	for _, name := range skel.Names() {
		b := skel.Bone(name)
		q := geom.NewEuler(b.Orient.X*geom.DegToRad, b.Orient.Y*geom.DegToRad, b.Orient.Z*geom.DegToRad, b.Order).ToQuaternion()
		nodes[name] = uint32(len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        name,
			Translation: [3]float32{b.Head.X, b.Head.Y, b.Head.Z},
			Rotation:    [4]float32{q.X, q.Y, q.Z, q.W},
		})
	}
	for _, name := range skel.Names() {
		n := nodes[name]
		if p := skel.Bone(name).Parent; p != "" {
			pn := doc.Nodes[nodes[p]]
			pn.Children = append(pn.Children, n)
		} else {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, n)
		}
	}
	return nodes
}

// channelTimes returns the sorted union of the channel's key times.
func channelTimes(ch *anim.Channel) []float64 {
	seen := map[float64]bool{}
	var times []float64
	for _, curve := range ch.Comps {
		for _, k := range curve {
			if !seen[k.Time] {
				seen[k.Time] = true
				times = append(times, k.Time)
			}
		}
	}
	sort.Float64s(times)
	return times
}

func writeTimes(doc *gltf.Document, times []float64, fps float64) uint32 {
	keys := make([]float32, len(times))
	for i, t := range times {
		keys[i] = float32(t / fps)
	}
	return modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, keys)
}

func addChannel(a *gltf.Animation, keysAcc, samplesAcc, node uint32, path gltf.TRSProperty) {
	a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
		Input:         gltf.Index(keysAcc),
		Output:        gltf.Index(samplesAcc),
		Interpolation: gltf.InterpolationLinear,
	})
	a.Channels = append(a.Channels, &gltf.Channel{
		Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
		Target: gltf.ChannelTarget{
			Node: gltf.Index(node),
			Path: path,
		},
	})
}

// Export builds a glTF document holding the skeleton node tree and the
// clip as one animation. The clip is keyed in frame indices; fps
// converts them to the seconds glTF samplers require. Rotation keys
// are Euler degrees and are encoded as quaternions.
func Export(a *anim.Animation, skel *rig.Skeleton, fps float64) *gltf.Document {
	doc := gltf.NewDocument()
	nodes := addSkeletonNodes(doc, skel)

	ga := &gltf.Animation{Name: a.Name}
	for _, bname := range a.BoneNames() {
		n, ok := nodes[bname]
		if !ok {
			continue
		}
		order := skel.Bone(bname).Order

		if ch := a.Channel(bname, anim.Rotation); ch != nil {
			times := channelTimes(ch)
			if len(times) > 0 {
				rotations := make([][4]float32, len(times))
				for i, t := range times {
					q := geom.NewEuler(
						float32(ch.Comps[0].SampleAt(t))*geom.DegToRad,
						float32(ch.Comps[1].SampleAt(t))*geom.DegToRad,
						float32(ch.Comps[2].SampleAt(t))*geom.DegToRad,
						order).ToQuaternion()
					rotations[i] = [4]float32{q.X, q.Y, q.Z, q.W}
				}
				addChannel(ga, writeTimes(doc, times, fps), modeler.WriteTangent(doc, rotations), n, gltf.TRSRotation)
			}
		}

		if ch := a.Channel(bname, anim.Translation); ch != nil {
			times := channelTimes(ch)
			if len(times) > 0 {
				translations := make([][3]float32, len(times))
				for i, t := range times {
					translations[i] = [3]float32{
						float32(ch.Comps[0].SampleAt(t)),
						float32(ch.Comps[1].SampleAt(t)),
						float32(ch.Comps[2].SampleAt(t)),
					}
				}
				addChannel(ga, writeTimes(doc, times, fps), modeler.WritePosition(doc, translations), n, gltf.TRSTranslation)
			}
		}
	}

	if len(ga.Channels) > 0 {
		doc.Animations = append(doc.Animations, ga)
	}
	return doc
}

// Save writes the clip and skeleton as a .glb file.
func Save(a *anim.Animation, skel *rig.Skeleton, fps float64, path string) error {
	return gltf.SaveBinary(Export(a, skel, fps), path)
}
