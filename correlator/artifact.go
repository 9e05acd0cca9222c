package correlator

import "fmt"

// ArtifactKind partitions the kinds of things a process can act upon.
type ArtifactKind int

const (
	// KindUndefined is the sentinel "invalid" kind; any operation that
	// receives it fails with ErrInvalidArgument.
	KindUndefined ArtifactKind = iota
	KindFile
	KindRegistry
	KindNetwork
	KindProcess
	KindModule
)

// String renders the kind the way it appears in tags and context keys.
func (k ArtifactKind) String() string {
	switch k {
	case KindFile:
		return "File"
	case KindRegistry:
		return "Registry"
	case KindNetwork:
		return "Network"
	case KindProcess:
		return "Process"
	case KindModule:
		return "Module"
	default:
		return "Undefined"
	}
}

// Artifact is an immutable (kind, name) pair identifying a file, registry
// key, network endpoint, module, or injected-process target. Equality is
// structural.
type Artifact struct {
	Kind ArtifactKind
	Name string
}

// NewArtifact validates and constructs an Artifact. name is the
// canonical path, address, or image string as provided by the event
// source; it is never recomputed downstream.
func NewArtifact(kind ArtifactKind, name string) (Artifact, error) {
	if kind == KindUndefined {
		return Artifact{}, fmt.Errorf("artifact kind is undefined: %w", ErrInvalidArgument)
	}
	if name == "" {
		return Artifact{}, fmt.Errorf("artifact name is empty: %w", ErrInvalidArgument)
	}
	return Artifact{Kind: kind, Name: name}, nil
}

// key renders the artifact's contribution to an actor-key: "kind:name".
func (a Artifact) key() string {
	return a.Kind.String() + ":" + a.Name
}
