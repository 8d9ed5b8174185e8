package manifest

import (
	"strings"
	"testing"
)

const sampleManifest = `
verbose: true
allow_errors: true
apt:
  items:
    - jq
    - vim
pip3:
  items:
    - ansible
  distutils:
    - pyyaml
link:
  recursive: true
  bash/bashrc: ~/.bashrc
  git/gitconfig: ~/.gitconfig
script:
  fonts: |
    fc-cache -f
github:
  repopath: ~/src
  alacritty/alacritty:
    cargo:
      - .
    link:
      extra/alacritty.info: ~/.config/alacritty/alacritty.info
    script:
      terminfo: sudo tic -xe alacritty extra/alacritty.info
  junegunn/fzf:
`

func TestParseManifest(t *testing.T) {
	// Test parsing a manifest with every section shape
	parsed, err := Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Failed to parse manifest: %v", err)
	}

	if !parsed.Verbose {
		t.Error("Expected verbose to be true")
	}
	if !parsed.AllowErrors {
		t.Error("Expected allow_errors to be true")
	}

	expectedOrder := []SectionKind{KindApt, KindPip3, KindLink, KindScript, KindGithub}
	if len(parsed.Sections) != len(expectedOrder) {
		t.Fatalf("Expected %d sections, got %d", len(expectedOrder), len(parsed.Sections))
	}
	for i, kind := range expectedOrder {
		if parsed.Sections[i].Kind != kind {
			t.Errorf("Expected section %d to be %s, got %s", i, kind, parsed.Sections[i].Kind)
		}
	}

	apt := parsed.Section(KindApt)
	if len(apt.Items) != 2 || apt.Items[0] != "jq" || apt.Items[1] != "vim" {
		t.Errorf("Unexpected apt items: %v", apt.Items)
	}

	pip3 := parsed.Section(KindPip3)
	if len(pip3.Items) != 1 || pip3.Items[0] != "ansible" {
		t.Errorf("Unexpected pip3 items: %v", pip3.Items)
	}
	if len(pip3.Distutils) != 1 || pip3.Distutils[0] != "pyyaml" {
		t.Errorf("Unexpected pip3 distutils: %v", pip3.Distutils)
	}

	link := parsed.Section(KindLink).Link
	if link == nil {
		t.Fatal("Link spec should not be nil")
	}
	if !link.Recursive {
		t.Error("Expected recursive link spec")
	}
	if len(link.Entries) != 2 {
		t.Fatalf("Expected 2 link entries, got %d", len(link.Entries))
	}
	if link.Entries[0].Source != "bash/bashrc" || link.Entries[0].Target != "~/.bashrc" {
		t.Errorf("Unexpected first link entry: %+v", link.Entries[0])
	}

	scripts := parsed.Section(KindScript).Scripts
	if len(scripts) != 1 || scripts[0].Name != "fonts" {
		t.Fatalf("Unexpected scripts: %+v", scripts)
	}
	if scripts[0].Body != "fc-cache -f\n" {
		t.Errorf("Script body should be verbatim, got %q", scripts[0].Body)
	}

	github := parsed.Section(KindGithub).Github
	if github == nil {
		t.Fatal("Github spec should not be nil")
	}
	if github.RepoPath == nil || *github.RepoPath != "~/src" {
		t.Errorf("Unexpected repopath: %v", github.RepoPath)
	}
	if len(github.Repos) != 2 {
		t.Fatalf("Expected 2 repos, got %d", len(github.Repos))
	}
	alacritty := github.Repos[0]
	if alacritty.Owner != "alacritty" || alacritty.Name != "alacritty" {
		t.Errorf("Unexpected repo key parts: %s/%s", alacritty.Owner, alacritty.Name)
	}
	if len(alacritty.Cargo) != 1 || alacritty.Cargo[0] != "." {
		t.Errorf("Unexpected cargo subpaths: %v", alacritty.Cargo)
	}
	if alacritty.Link == nil || len(alacritty.Link.Entries) != 1 {
		t.Errorf("Unexpected repo link spec: %+v", alacritty.Link)
	}
	if len(alacritty.Scripts) != 1 || alacritty.Scripts[0].Name != "terminfo" {
		t.Errorf("Unexpected repo scripts: %+v", alacritty.Scripts)
	}

	bare := github.Repos[1]
	if bare.Key() != "junegunn/fzf" {
		t.Errorf("Unexpected bare repo key: %s", bare.Key())
	}
	if bare.Cargo != nil || bare.Link != nil || bare.Scripts != nil {
		t.Errorf("Bare repo should have empty sub-specs: %+v", bare)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	// Test that an empty document is an empty manifest, not an error
	parsed, err := Parse(nil)
	if err != nil {
		t.Fatalf("Failed to parse empty document: %v", err)
	}
	if len(parsed.Sections) != 0 {
		t.Errorf("Expected no sections, got %d", len(parsed.Sections))
	}
}

func TestParseNullSection(t *testing.T) {
	// Test that a declared but empty section parses as empty
	parsed, err := Parse([]byte("apt:\nlink:\n"))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if len(parsed.Sections) != 2 {
		t.Fatalf("Expected 2 sections, got %d", len(parsed.Sections))
	}
	if parsed.Sections[0].Items != nil {
		t.Errorf("Null apt section should have nil items, got %v", parsed.Sections[0].Items)
	}
	if parsed.Sections[1].Link != nil {
		t.Errorf("Null link section should have nil spec, got %+v", parsed.Sections[1].Link)
	}
}

func TestParseDefaults(t *testing.T) {
	// Test defaulting rules: recursive false, repopath absent
	parsed, err := Parse([]byte("link:\n  bash/bashrc: ~/.bashrc\ngithub:\n  junegunn/fzf:\n"))
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}
	if parsed.Section(KindLink).Link.Recursive {
		t.Error("Recursive should default to false")
	}
	if parsed.Section(KindGithub).Github.RepoPath != nil {
		t.Error("RepoPath should be nil when absent")
	}
}

func TestParseUnknownSection(t *testing.T) {
	// Test that an unknown top-level key fails with a suggestion
	_, err := Parse([]byte("scrip:\n  fonts: fc-cache -f\n"))
	if err == nil {
		t.Fatal("Expected an error for unknown section")
	}
	if !strings.Contains(err.Error(), `unknown section "scrip"`) {
		t.Errorf("Error should name the offending key, got: %v", err)
	}
	if !strings.Contains(err.Error(), `"script"`) {
		t.Errorf("Error should suggest the closest key, got: %v", err)
	}
}

func TestParseUnknownListKey(t *testing.T) {
	// Test that a stray key inside a list section fails
	_, err := Parse([]byte("apt:\n  item:\n    - jq\n"))
	if err == nil {
		t.Fatal("Expected an error for unknown list key")
	}
	if !strings.Contains(err.Error(), `"item"`) || !strings.Contains(err.Error(), `"items"`) {
		t.Errorf("Error should name the key and suggest items, got: %v", err)
	}
}

func TestParseDistutilsOutsidePip3(t *testing.T) {
	// Test that distutils is only accepted under pip3
	_, err := Parse([]byte("apt:\n  distutils:\n    - pyyaml\n"))
	if err == nil {
		t.Fatal("Expected an error for distutils under apt")
	}
}

func TestParseBadRepoKey(t *testing.T) {
	// Test that a repo key without owner/name fails
	for _, key := range []string{"alacritty", "a/b/c", "/fzf", "junegunn/"} {
		_, err := Parse([]byte("github:\n  " + key + ":\n"))
		if err == nil {
			t.Errorf("Expected an error for repo key %q", key)
		}
	}
}

func TestParseUnknownRepoKey(t *testing.T) {
	// Test that an unknown key inside a repo fails with a suggestion
	_, err := Parse([]byte("github:\n  junegunn/fzf:\n    links:\n      bin/fzf: ~/bin/fzf\n"))
	if err == nil {
		t.Fatal("Expected an error for unknown repository key")
	}
	if !strings.Contains(err.Error(), `"links"`) || !strings.Contains(err.Error(), `"link"`) {
		t.Errorf("Error should suggest link, got: %v", err)
	}
}

func TestParseDuplicateSection(t *testing.T) {
	// Test that declaring a section twice fails
	_, err := Parse([]byte("apt:\n  items:\n    - jq\napt:\n  items:\n    - vim\n"))
	if err == nil {
		t.Fatal("Expected an error for duplicate section")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("Unexpected error: %v", err)
	}
}
