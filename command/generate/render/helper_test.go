package render

import (
	"strings"
	"testing"
)

func TestHelperDefinitions(t *testing.T) {
	// Each helper defines a function named after itself
	for _, helper := range []Helper{HelperLinker, HelperLatest} {
		definition := helper.Definition()
		if !strings.HasPrefix(definition, helper.Name()+"() {") {
			t.Errorf("Definition of %s should open its function, got: %q", helper.Name(), definition[:20])
		}
		if !strings.HasSuffix(definition, "}\n") {
			t.Errorf("Definition of %s should close with a brace and newline", helper.Name())
		}
		if strings.Contains(definition, "\t") {
			t.Errorf("Definition of %s should be dedented", helper.Name())
		}
	}
}
