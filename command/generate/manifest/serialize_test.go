package manifest

import (
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func roundTrip(t *testing.T, document string) {
	t.Helper()

	first, err := Parse([]byte(document))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	serialized, err := yaml.Marshal(first)
	if err != nil {
		t.Fatalf("Failed to serialize manifest: %v", err)
	}
	t.Logf("Serialized form:\n%s", serialized)

	second, err := Parse(serialized)
	if err != nil {
		t.Fatalf("Failed to re-parse serialized manifest: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Round trip changed the tree:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestRoundTripFull(t *testing.T) {
	// Test that parse -> marshal -> parse yields an equal tree
	roundTrip(t, sampleManifest)
}

func TestRoundTripEmpty(t *testing.T) {
	roundTrip(t, "")
}

func TestRoundTripNullSections(t *testing.T) {
	roundTrip(t, "apt:\nlink:\nscript:\ngithub:\n")
}

func TestRoundTripMultilineScript(t *testing.T) {
	roundTrip(t, "script:\n  setup: |\n    mkdir -p ~/bin\n    fc-cache -f\n")
}
