package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/rigconv/anim"
	"github.com/binzume/rigconv/gltfanim"
	"github.com/binzume/rigconv/preset"
	"github.com/binzume/rigconv/retarget"
	"github.com/binzume/rigconv/rig"
	"github.com/binzume/rigconv/vmd"
)

func defaultOutputFile(input string) string {
	ext := filepath.Ext(input)
	return input[0:len(input)-len(ext)] + ".glb"
}

func loadClip(input string) (*anim.Animation, error) {
	ext := strings.ToLower(filepath.Ext(input))
	if ext == ".vmd" {
		return vmd.Load(input)
	}
	return nil, fmt.Errorf("Unsuppored input type: %v", ext)
}

func skeletonFor(tables *preset.Tables, rt rig.Type) (*rig.Skeleton, error) {
	if s, ok := tables.RestPose(rt); ok {
		return s, nil
	}
	// No rest pose table: rename-only conversion.
	return rig.NewSkeleton(rt, nil)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.vmd [output.glb]\n", os.Args[0])
		flag.PrintDefaults()
	}
	src := flag.String("src", "", "source rig (genesis1/genesis2/genesis3/genesis8/mhx), auto-detected if empty")
	trg := flag.String("trg", "genesis3", "target rig")
	data := flag.String("data", "", "table data dir")
	fps := flag.Float64("fps", 30, "target frame rate")
	intFrames := flag.Bool("int", false, "round key times to integer frames")
	first := flag.Int("first", 0, "first frame of the output window")
	last := flag.Int("last", 0, "last frame of the output window (exclusive)")
	scale := flag.Float64("scale", 1, "unit scale for translations")
	poses := flag.Bool("poses", true, "reproject rotations through the rest poses")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)
	output := defaultOutputFile(input)
	if flag.NArg() >= 2 {
		output = flag.Arg(1)
	}

	tables := preset.Default()
	if *data != "" {
		var err error
		tables, err = preset.Load(*data)
		if err != nil {
			log.Fatal(err)
		}
	}

	clip, err := loadClip(input)
	if err != nil {
		log.Fatal(err)
	}

	trgType := rig.ParseType(*trg)
	if trgType == rig.Unknown {
		log.Fatal("unknown target rig: ", *trg)
	}
	srcSkel, err := skeletonFor(tables, rig.ParseType(*src))
	if err != nil {
		log.Fatal(err)
	}
	trgSkel, err := skeletonFor(tables, trgType)
	if err != nil {
		log.Fatal(err)
	}

	conv := retarget.NewConverter(tables, &retarget.Option{
		FPS:           *fps,
		IntegerFrames: *intFrames,
		FirstFrame:    *first,
		LastFrame:     *last,
		UnitScale:     *scale,
		ConvertPoses:  *poses,
	})
	result, diags, err := conv.Retarget(clip, srcSkel, trgSkel)
	if err != nil {
		log.Fatal(err)
	}
	for _, d := range diags {
		log.Println(d)
	}

	if err := gltfanim.Save(result, trgSkel, *fps, output); err != nil {
		log.Fatal(err)
	}
	log.Println("saved:", output)
}
