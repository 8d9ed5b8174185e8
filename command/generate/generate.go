package generate

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/bsthun/gut"

	"go.scnd.dev/open/manifest/command/app"
	"go.scnd.dev/open/manifest/command/generate/manifest"
	"go.scnd.dev/open/manifest/command/generate/render"
)

type Command struct {
	Config string `help:"Path to the manifest YAML file." short:"C" default:"manifest.yml" type:"path"`
	Cwd    string `help:"Directory link sources are resolved against." short:"D" default:"."`
	Home   string `help:"Home directory used to expand ~ in link targets." short:"H" default:""`
	Pkgmgr string `help:"Package manager for pkg items (deb, rpm or brew); auto-detected when empty." short:"M" default:"" validate:"omitempty,oneof=deb rpm brew"`
	Output string `help:"Write the generated script to a file instead of stdout." short:"o" default:""`

	Link    []string `help:"Patterns selecting link entries ('*' for all)." short:"l"`
	Ppa     []string `help:"Patterns selecting ppa items." short:"p"`
	Pkg     []string `help:"Patterns selecting pkg items."`
	Apt     []string `help:"Patterns selecting apt items." short:"a"`
	Dnf     []string `help:"Patterns selecting dnf items." short:"d"`
	Npm     []string `help:"Patterns selecting npm items." short:"n"`
	Pip3    []string `help:"Patterns selecting pip3 items." short:"P"`
	Pipx    []string `help:"Patterns selecting pipx items." short:"x"`
	Flatpak []string `help:"Patterns selecting flatpak items." short:"f"`
	Cargo   []string `help:"Patterns selecting cargo crates." short:"c"`
	Github  []string `help:"Patterns selecting github repositories." short:"g"`
	Script  []string `help:"Patterns selecting named scripts." short:"s"`
}

func (r *Command) Run(app *app.App) error {
	return Run(app, r)
}

func Run(app *app.App, command *Command) error {
	// * validate flags
	if err := gut.Validate(command); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}

	// * read manifest file
	data, err := os.ReadFile(command.Config)
	if err != nil {
		return fmt.Errorf("unable to read manifest file: %w", err)
	}

	// * parse manifest
	parsed, err := manifest.Parse(data)
	if err != nil {
		return fmt.Errorf("invalid manifest %s: %w", command.Config, err)
	}

	// * narrow to the selected sections when any pattern flag is set
	selections := command.selections()
	narrowed := Narrow(parsed, selections)

	// * resolve render options
	cwd, err := filepath.Abs(command.Cwd)
	if err != nil {
		return fmt.Errorf("unable to resolve working directory: %w", err)
	}
	home := command.Home
	if home == "" {
		home = os.Getenv("HOME")
	}
	pkgmgr := command.Pkgmgr
	if pkgmgr == "" {
		pkgmgr = DetectPkgManager()
	}

	if app.Verbose {
		log.Printf("Rendering %d of %d sections (pkgmgr %s)", len(narrowed.Sections), len(parsed.Sections), pkgmgr)
	}

	script := render.Render(narrowed, render.Options{
		Cwd:        cwd,
		Home:       home,
		PkgManager: pkgmgr,
	})

	// * write output
	if command.Output != "" {
		if err := os.WriteFile(command.Output, []byte(script), 0755); err != nil {
			return fmt.Errorf("unable to write script: %w", err)
		}
		return nil
	}
	fmt.Print(script)
	return nil
}

func (r *Command) selections() map[manifest.SectionKind][]string {
	selections := make(map[manifest.SectionKind][]string)
	flags := map[manifest.SectionKind][]string{
		manifest.KindLink:    r.Link,
		manifest.KindPpa:     r.Ppa,
		manifest.KindPkg:     r.Pkg,
		manifest.KindApt:     r.Apt,
		manifest.KindDnf:     r.Dnf,
		manifest.KindNpm:     r.Npm,
		manifest.KindPip3:    r.Pip3,
		manifest.KindPipx:    r.Pipx,
		manifest.KindFlatpak: r.Flatpak,
		manifest.KindCargo:   r.Cargo,
		manifest.KindGithub:  r.Github,
		manifest.KindScript:  r.Script,
	}
	for kind, patterns := range flags {
		if len(patterns) > 0 {
			selections[kind] = patterns
		}
	}
	return selections
}

// DetectPkgManager probes for a known package manager binary, the way
// the generated script's audience machine would resolve it.
func DetectPkgManager() string {
	probes := []struct {
		binary  string
		manager string
	}{
		{"dpkg", "deb"},
		{"rpm", "rpm"},
		{"brew", "brew"},
	}
	for _, probe := range probes {
		if _, err := exec.LookPath(probe.binary); err == nil {
			return probe.manager
		}
	}
	return "deb"
}
