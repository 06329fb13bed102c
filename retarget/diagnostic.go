package retarget

import "fmt"

// DiagnosticCode classifies a degraded conversion path.
type DiagnosticCode int

const (
	// UnknownRig: no skeleton convention matched the clip's bone names;
	// bones pass through unmapped.
	UnknownRig DiagnosticCode = iota
	// NoCorrespondence: no mapping table for the convention pair;
	// bones pass through unmapped.
	NoCorrespondence
	// MissingRestPose: a bone lacks rest orientation data on one side;
	// its change-of-basis degrades to identity.
	MissingRestPose
)

func (c DiagnosticCode) String() string {
	switch c {
	case UnknownRig:
		return "unknown rig"
	case NoCorrespondence:
		return "no correspondence"
	case MissingRestPose:
		return "missing rest pose"
	}
	return "unknown"
}

// Diagnostic records one non-fatal degradation taken during a
// conversion. Diagnostics accumulate and never abort the clip.
type Diagnostic struct {
	Code    DiagnosticCode
	Bone    string
	Message string
}

func (d Diagnostic) String() string {
	if d.Bone != "" {
		return fmt.Sprintf("%v: %v: %v", d.Code, d.Bone, d.Message)
	}
	return fmt.Sprintf("%v: %v", d.Code, d.Message)
}
