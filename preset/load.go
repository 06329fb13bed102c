package preset

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/rigconv/geom"
	"github.com/binzume/rigconv/retarget"
	"github.com/binzume/rigconv/rig"
	"gopkg.in/yaml.v2"
)

// On-disk table formats. JSON and YAML carry the same shape; the file
// extension selects the decoder.

type boneData struct {
	Name   string     `json:"name" yaml:"name"`
	Parent string     `json:"parent" yaml:"parent"`
	Orient [3]float32 `json:"orient" yaml:"orient"`
	Order  string     `json:"order" yaml:"order"`
	Head   [3]float32 `json:"head" yaml:"head"`
}

type restPoseData struct {
	Rig    string      `json:"rig" yaml:"rig"`
	Bones  []*boneData `json:"bones" yaml:"bones"`
	Twists []twistData `json:"twists" yaml:"twists"`
}

type twistData struct {
	Bend  string `json:"bend" yaml:"bend"`
	Twist string `json:"twist" yaml:"twist"`
}

type converterData struct {
	Src   string                 `json:"src" yaml:"src"`
	Trg   string                 `json:"trg" yaml:"trg"`
	Bones map[string]mappingData `json:"bones" yaml:"bones"`
}

type mappingData struct {
	Target string `json:"target" yaml:"target"`
	Twist  string `json:"twist" yaml:"twist"`
}

func decodeFile(path string, v interface{}) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("preset: unsupported format: %v", path)
	}
	if err != nil {
		return fmt.Errorf("preset: %v: %w", path, err)
	}
	return nil
}

func (d *restPoseData) toSkeleton() (*rig.Skeleton, error) {
	bones := make([]*rig.Bone, 0, len(d.Bones))
	for _, b := range d.Bones {
		order := geom.RotationOrderXYZ
		if b.Order != "" {
			o, err := geom.ParseRotationOrder(b.Order)
			if err != nil {
				return nil, fmt.Errorf("bone %v: %w", b.Name, err)
			}
			order = o
		}
		bones = append(bones, &rig.Bone{
			Name:   b.Name,
			Parent: b.Parent,
			Orient: geom.Vector3{X: b.Orient[0], Y: b.Orient[1], Z: b.Orient[2]},
			Order:  order,
			Head:   geom.Vector3{X: b.Head[0], Y: b.Head[1], Z: b.Head[2]},
		})
	}
	return rig.NewSkeleton(rig.ParseType(d.Rig), bones)
}

func loadRestPose(t *Tables, path string) error {
	var d restPoseData
	if err := decodeFile(path, &d); err != nil {
		return err
	}
	rt := rig.ParseType(d.Rig)
	if rt == rig.Unknown {
		return fmt.Errorf("preset: %v: unknown rig: %v", path, d.Rig)
	}
	skel, err := d.toSkeleton()
	if err != nil {
		return fmt.Errorf("preset: %v: %w", path, err)
	}
	t.SetRestPose(rt, skel)
	if len(d.Twists) > 0 {
		pairs := make([]retarget.TwistPair, len(d.Twists))
		for i, p := range d.Twists {
			pairs[i] = retarget.TwistPair{Bend: p.Bend, Twist: p.Twist}
		}
		t.SetTwistPairs(rt, pairs)
	}
	return nil
}

func loadConverter(t *Tables, path string) error {
	var d converterData
	if err := decodeFile(path, &d); err != nil {
		return err
	}
	src, trg := rig.ParseType(d.Src), rig.ParseType(d.Trg)
	if src == rig.Unknown || trg == rig.Unknown {
		return fmt.Errorf("preset: %v: unknown rig pair: %v - %v", path, d.Src, d.Trg)
	}
	bones := make(map[string]retarget.BoneMapping, len(d.Bones))
	for name, m := range d.Bones {
		bones[name] = retarget.BoneMapping{Target: m.Target, Twist: m.Twist}
	}
	t.SetCorrespondence(src, trg, &retarget.Correspondence{Bones: bones})
	return nil
}

func loadDir(dir string, load func(*Tables, string) error, t *Tables) error {
	entries, err := ioutil.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := load(t, filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Load reads every table file under dir: rest poses from
// dir/restposes, rename tables from dir/converters. Loaded entries
// override the built-in defaults; a missing subdirectory is not an
// error.
func Load(dir string) (*Tables, error) {
	t := Default()
	if err := loadDir(filepath.Join(dir, "restposes"), loadRestPose, t); err != nil {
		return nil, err
	}
	if err := loadDir(filepath.Join(dir, "converters"), loadConverter, t); err != nil {
		return nil, err
	}
	return t, nil
}
