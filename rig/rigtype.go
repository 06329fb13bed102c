package rig

// Type is a closed enumeration of known skeleton conventions.
type Type int

const (
	Unknown Type = iota
	Genesis1
	Genesis2
	Genesis3
	Genesis8
	MHX
)

var typeNames = map[Type]string{
	Unknown:  "",
	Genesis1: "genesis1",
	Genesis2: "genesis2",
	Genesis3: "genesis3",
	Genesis8: "genesis8",
	MHX:      "mhx",
}

func (t Type) String() string {
	return typeNames[t]
}

// ParseType maps a convention name to its Type. Unrecognized names map
// to Unknown.
func ParseType(s string) Type {
	for t, name := range typeNames {
		if name == s && t != Unknown {
			return t
		}
	}
	return Unknown
}

// Canonical folds conventions that share bone names and twist lists into
// one lookup key. Genesis 8 skeletons reuse the Genesis 3 vocabulary.
func (t Type) Canonical() Type {
	if t == Genesis8 {
		return Genesis3
	}
	return t
}

// signature matches a convention by a required bone-name subset.
// Entries are checked in order and the first full match wins.
type signature struct {
	rigType  Type
	required []string
}

var signatures = []signature{
	{Genesis3, []string{"abdomenLower", "lShldrBend", "rShldrBend", "lHeel"}},
	{Genesis8, []string{"abdomenLower", "lShldrBend", "rShldrBend"}},
	{Genesis8, []string{"abdomenLower", "lShldrBend", "lJawClench"}},
	{Genesis2, []string{"abdomen", "lShldr", "rShldr", "lSmallToe1"}},
	{Genesis1, []string{"abdomen", "lShldr", "rShldr"}},
	{MHX, []string{"ball.marker.L"}},
}

// DetectType infers the skeleton convention that produced a set of bone
// names. Returns Unknown when no signature matches; detection never
// fails hard because morph channels are still usable without a rig.
func DetectType(names []string) Type {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	for _, sig := range signatures {
		ok := true
		for _, b := range sig.required {
			if !set[b] {
				ok = false
				break
			}
		}
		if ok {
			return sig.rigType
		}
	}
	return Unknown
}
