package render

import (
	"strings"

	"go.scnd.dev/open/manifest/command/generate/manifest"
)

// Unit is one section's or one repository's rendered stanza plus the
// runtime helpers its body invokes.
type Unit struct {
	Body    string
	Helpers []Helper
}

// Options carries the environment the CLI layer resolved for a run.
// The engine itself never touches the filesystem or the network.
type Options struct {
	// Cwd is the directory link sources are resolved against.
	Cwd string
	// Home replaces ~ and $HOME in link targets and repopath; when
	// empty the placeholder is left for the generated script to expand.
	Home string
	// PkgManager selects the installer for pkg items: deb, rpm or brew.
	PkgManager string
}

// Render turns a manifest into the final script text: preamble, helper
// definitions deduplicated in first-use order, then one stanza per
// non-empty section or repository in declaration order, separated by
// exactly one blank line. Rendering the same manifest twice yields
// byte-identical output.
func Render(m *manifest.Manifest, opt Options) string {
	if opt.PkgManager == "" {
		opt.PkgManager = "deb"
	}

	// * render each section to its units
	var units []*Unit
	for _, section := range m.Sections {
		units = append(units, renderSection(section, opt)...)
	}

	// * collect helper definitions in first-use order
	seen := make(map[Helper]bool)
	var required []Helper
	for _, unit := range units {
		for _, helper := range unit.Helpers {
			if !seen[helper] {
				seen[helper] = true
				required = append(required, helper)
			}
		}
	}

	// * assemble: every segment ends with a newline, segments are
	//   joined by one blank line
	segments := []string{preamble(m)}
	for _, helper := range required {
		segments = append(segments, helper.Definition())
	}
	for _, unit := range units {
		segments = append(segments, unit.Body)
	}

	return strings.Join(segments, "\n")
}

func preamble(m *manifest.Manifest) string {
	var builder strings.Builder
	builder.WriteString("#!/bin/bash\n")
	builder.WriteString("# generated by manifest, do not edit by hand\n\n")

	// * allow_errors keeps the script going past failed commands
	if m.AllowErrors {
		builder.WriteString("set -uo pipefail\n")
	} else {
		builder.WriteString("set -euo pipefail\n")
	}
	if m.Verbose {
		builder.WriteString("set -x\n")
	}

	builder.WriteString("\n")
	builder.WriteString(debugSnippet)
	return builder.String()
}

var debugSnippet = shell(`
	if [ -n "${DEBUG:-}" ]; then
	    PS4=':${LINENO}+'
	    set -x
	fi
`)
