package generate

import (
	"path"
	"strings"

	"go.scnd.dev/open/manifest/command/generate/manifest"
)

// matchTier orders the matching strategies from strictest to loosest.
// Filtering tries each tier over the whole item list and the first
// tier producing any hit wins, so an exact name never drags in
// substring neighbours.
type matchTier int

const (
	tierExact matchTier = iota
	tierIgnoreCase
	tierPrefix
	tierContains
	tierGlob
)

var tiers = []matchTier{tierExact, tierIgnoreCase, tierPrefix, tierContains, tierGlob}

// Filter narrows items to those matching any pattern. Empty patterns
// or a lone "*" keep everything; declaration order is preserved.
func Filter(items []string, patterns []string) []string {
	if len(patterns) == 0 {
		return items
	}
	for _, pattern := range patterns {
		if pattern == "*" {
			return items
		}
	}

	for _, tier := range tiers {
		var matched []string
		for _, item := range items {
			for _, pattern := range patterns {
				if match(item, pattern, tier) {
					matched = append(matched, item)
					break
				}
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}
	return nil
}

func match(item, pattern string, tier matchTier) bool {
	switch tier {
	case tierExact:
		return item == pattern
	case tierIgnoreCase:
		return strings.EqualFold(item, pattern)
	case tierPrefix:
		return strings.HasPrefix(item, pattern)
	case tierContains:
		return strings.Contains(item, pattern)
	case tierGlob:
		ok, err := path.Match(pattern, item)
		return err == nil && ok
	}
	return false
}

// Narrow reduces a manifest to the selected sections with their items
// filtered by the selection patterns. An empty selection means the
// complete manifest renders.
func Narrow(m *manifest.Manifest, selections map[manifest.SectionKind][]string) *manifest.Manifest {
	if len(selections) == 0 {
		return m
	}

	narrowed := &manifest.Manifest{
		Verbose:     m.Verbose,
		AllowErrors: m.AllowErrors,
	}
	for _, section := range m.Sections {
		patterns, selected := selections[section.Kind]
		if !selected {
			continue
		}
		narrowed.Sections = append(narrowed.Sections, narrowSection(section, patterns))
	}
	return narrowed
}

func narrowSection(section *manifest.Section, patterns []string) *manifest.Section {
	result := &manifest.Section{Kind: section.Kind}

	switch section.Kind {
	case manifest.KindLink:
		result.Link = narrowLink(section.Link, patterns)
	case manifest.KindScript:
		result.Scripts = narrowScripts(section.Scripts, patterns)
	case manifest.KindGithub:
		result.Github = narrowGithub(section.Github, patterns)
	default:
		result.Items = Filter(section.Items, patterns)
		result.Distutils = Filter(section.Distutils, patterns)
	}

	return result
}

func narrowLink(link *manifest.LinkSpec, patterns []string) *manifest.LinkSpec {
	if link == nil {
		return nil
	}
	narrowed := &manifest.LinkSpec{Recursive: link.Recursive}
	sources := make([]string, 0, len(link.Entries))
	for _, entry := range link.Entries {
		sources = append(sources, entry.Source)
	}
	kept := Filter(sources, patterns)
	for _, entry := range link.Entries {
		for _, source := range kept {
			if entry.Source == source {
				narrowed.Entries = append(narrowed.Entries, entry)
				break
			}
		}
	}
	return narrowed
}

func narrowScripts(scripts []*manifest.NamedScript, patterns []string) []*manifest.NamedScript {
	names := make([]string, 0, len(scripts))
	for _, script := range scripts {
		names = append(names, script.Name)
	}
	kept := Filter(names, patterns)
	var narrowed []*manifest.NamedScript
	for _, script := range scripts {
		for _, name := range kept {
			if script.Name == name {
				narrowed = append(narrowed, script)
				break
			}
		}
	}
	return narrowed
}

func narrowGithub(github *manifest.GithubSpec, patterns []string) *manifest.GithubSpec {
	if github == nil {
		return nil
	}
	narrowed := &manifest.GithubSpec{RepoPath: github.RepoPath}
	keys := make([]string, 0, len(github.Repos))
	for _, repo := range github.Repos {
		keys = append(keys, repo.Key())
	}
	kept := Filter(keys, patterns)
	for _, repo := range github.Repos {
		for _, key := range kept {
			if repo.Key() == key {
				narrowed.Repos = append(narrowed.Repos, repo)
				break
			}
		}
	}
	return narrowed
}
