package render

import (
	"fmt"
	"strings"

	"go.scnd.dev/open/manifest/command/generate/manifest"
)

// renderSection produces the units for one declared section. An empty
// section contributes no units and no helper dependencies.
func renderSection(section *manifest.Section, opt Options) []*Unit {
	switch section.Kind {
	case manifest.KindLink:
		return single(renderLink(section.Link, "links:", opt.Cwd, opt))
	case manifest.KindPpa:
		return single(renderHeredoc("ppa:", ppaLoop, section.Items))
	case manifest.KindPkg:
		return single(renderPkg(section.Items, opt.PkgManager))
	case manifest.KindApt:
		return single(renderContinuation("apt packages:", aptHeader, "sudo apt install -y", section.Items))
	case manifest.KindDnf:
		return single(renderContinuation("dnf packages:", nil, "sudo dnf install -y", section.Items))
	case manifest.KindNpm:
		return single(renderContinuation("npm packages:", nil, "sudo npm install -g", section.Items))
	case manifest.KindPip3:
		return single(renderPip3(section.Items, section.Distutils))
	case manifest.KindPipx:
		return single(renderPipx(section.Items))
	case manifest.KindFlatpak:
		return single(renderContinuation("flatpak packages:", nil, "flatpak install --assumeyes --or-update", section.Items))
	case manifest.KindCargo:
		return single(renderContinuation("cargo crates:", nil, "cargo install", section.Items))
	case manifest.KindScript:
		return single(renderScripts(section.Scripts))
	case manifest.KindGithub:
		return renderGithub(section.Github, opt)
	}
	return nil
}

func single(unit *Unit) []*Unit {
	if unit == nil {
		return nil
	}
	return []*Unit{unit}
}

var aptHeader = []string{
	"sudo apt update && sudo apt upgrade -y && sudo apt install -y software-properties-common",
}

// renderContinuation emits one multi-item installer call with the
// items joined by line continuations, in declaration order.
func renderContinuation(banner string, header []string, command string, items []string) *Unit {
	if len(items) == 0 {
		return nil
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "echo %q\n", banner)
	for _, line := range header {
		builder.WriteString(line + "\n")
	}
	continuation(&builder, command, items)
	return &Unit{Body: builder.String()}
}

func continuation(builder *strings.Builder, command string, items []string) {
	builder.WriteString(command + " \\\n")
	for i, item := range items {
		if i == len(items)-1 {
			builder.WriteString("    " + item + "\n")
		} else {
			builder.WriteString("    " + item + " \\\n")
		}
	}
}

// renderHeredoc emits a read loop fed by one heredoc line per item.
func renderHeredoc(banner, loop string, items []string) *Unit {
	if len(items) == 0 {
		return nil
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "echo %q\n", banner)
	heredoc(&builder, loop, items)
	return &Unit{Body: builder.String()}
}

func heredoc(builder *strings.Builder, loop string, lines []string) {
	builder.WriteString(loop)
	for _, line := range lines {
		builder.WriteString(line + "\n")
	}
	builder.WriteString("EOM\n")
}

var ppaLoop = shell(`
	while read -r pkg; do
	    ppas=$(find /etc/apt/ -name '*.list' | xargs cat | grep -E '^\s*deb' | grep -v deb-src)
	    if [[ $ppas != *"$pkg"* ]]; then
	        sudo add-apt-repository -y "ppa:$pkg"
	    fi
	done<<EOM
`)

var pipxLoop = shell(`
	while read -r pkg; do
	    pipx install "$pkg"
	done<<EOM
`)

var latestLoop = shell(`
	while read -r pattern url name; do
	    latest "$pattern" "$url" $name
	done<<EOM
`)

var linkLoop = shell(`
	while read -r file link; do
	    linker "$file" "$link"
	done<<EOM
`)

// recursiveLinkLoop walks each source directory at run time, linking
// the contained files one by one; pair enumeration stays unchanged.
var recursiveLinkLoop = shell(`
	while read -r dir link; do
	    find "$dir" -type f | while read -r file; do
	        linker "$file" "$link/${file#"$dir"/}"
	    done
	done<<EOM
`)

func renderPkg(items []string, pkgManager string) *Unit {
	command := "sudo apt install -y"
	switch pkgManager {
	case "rpm":
		command = "sudo dnf install -y"
	case "brew":
		command = "brew install"
	}
	return renderContinuation("packages:", nil, command, items)
}

func renderPip3(items, distutils []string) *Unit {
	if len(items) == 0 && len(distutils) == 0 {
		return nil
	}
	var builder strings.Builder
	if len(items) > 0 {
		builder.WriteString("echo \"pip3 packages:\"\n")
		builder.WriteString("sudo apt-get install -y python3-dev\n")
		builder.WriteString("sudo -H pip3 install --upgrade pip setuptools\n")
		continuation(&builder, "sudo -H pip3 install --upgrade", items)
	}
	if len(distutils) > 0 {
		if builder.Len() > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString("echo \"pip3 distutils packages:\"\n")
		continuation(&builder, "sudo -H easy_install", distutils)
	}
	return &Unit{Body: builder.String()}
}

// renderPipx routes plain items to a pipx install loop. An item of the
// form "<name_pattern> <releases_url> [binary_name]" instead installs
// a release asset through the latest helper.
func renderPipx(items []string) *Unit {
	if len(items) == 0 {
		return nil
	}
	var plain, remote []string
	for _, item := range items {
		if isRemoteAsset(item) {
			remote = append(remote, item)
		} else {
			plain = append(plain, item)
		}
	}

	var builder strings.Builder
	builder.WriteString("echo \"pipx packages:\"\n")
	if len(plain) > 0 {
		heredoc(&builder, pipxLoop, plain)
	}
	if len(remote) > 0 {
		if len(plain) > 0 {
			builder.WriteString("\n")
		}
		heredoc(&builder, latestLoop, remote)
	}

	unit := &Unit{Body: builder.String()}
	if len(remote) > 0 {
		unit.Helpers = []Helper{HelperLatest}
	}
	return unit
}

func isRemoteAsset(item string) bool {
	fields := strings.Fields(item)
	return len(fields) >= 2 && strings.Contains(fields[1], "://")
}

// renderLink emits the source/target pairs as a heredoc fed to the
// linker helper. The prefix roots relative sources: the working
// directory for the top-level section, the clone directory for
// repo-scoped links.
func renderLink(link *manifest.LinkSpec, banner, prefix string, opt Options) *Unit {
	if link == nil || len(link.Entries) == 0 {
		return nil
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, "echo %q\n", banner)

	loop := linkLoop
	if link.Recursive {
		loop = recursiveLinkLoop
	}

	lines := make([]string, 0, len(link.Entries))
	for _, entry := range link.Entries {
		source := entry.Source
		if prefix != "" {
			source = prefix + "/" + entry.Source
		}
		lines = append(lines, source+" "+expandHome(entry.Target, opt.Home))
	}
	heredoc(&builder, loop, lines)

	return &Unit{Body: builder.String(), Helpers: []Helper{HelperLinker}}
}

func renderScripts(scripts []*manifest.NamedScript) *Unit {
	if len(scripts) == 0 {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("echo \"scripts:\"\n")
	builder.WriteString(scriptBlock(scripts))
	return &Unit{Body: builder.String()}
}

// scriptBlock emits each named script as a banner followed by the raw
// body verbatim; the body is trusted shell text from the manifest.
func scriptBlock(scripts []*manifest.NamedScript) string {
	var builder strings.Builder
	for i, script := range scripts {
		if i > 0 {
			builder.WriteString("\n")
		}
		fmt.Fprintf(&builder, "echo %q\n", script.Name+":")
		body := strings.TrimRight(script.Body, "\n")
		if body != "" {
			builder.WriteString(body + "\n")
		}
	}
	return builder.String()
}

// expandHome resolves the home placeholder in a target path; with no
// home configured the placeholder is left for the script to expand.
func expandHome(path, home string) string {
	if home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return home + path[1:]
	}
	return strings.ReplaceAll(path, "$HOME", home)
}
