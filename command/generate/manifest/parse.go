package manifest

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/bsthun/gut"
	"gopkg.in/yaml.v3"
)

// Parse builds a Manifest from one YAML document. Parsing goes through
// yaml.Node instead of plain struct decoding because mapping order in
// the document is semantically meaningful: it becomes emission order.
func Parse(data []byte) (*Manifest, error) {
	// * decode the document into a node tree
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("unable to parse manifest yaml: %w", err)
	}

	result := new(Manifest)
	if document.Kind == 0 || len(document.Content) == 0 {
		return result, nil
	}

	root := document.Content[0]
	if isNull(root) {
		return result, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("manifest root must be a mapping (line %d)", root.Line)
	}

	// * walk top-level keys in declaration order
	seen := make(map[string]bool)
	for i := 0; i < len(root.Content); i += 2 {
		keyNode := root.Content[i]
		value := root.Content[i+1]
		key := keyNode.Value

		if seen[key] {
			return nil, fmt.Errorf("duplicate section %q (line %d)", key, keyNode.Line)
		}
		seen[key] = true

		switch key {
		case "verbose":
			flag, err := decodeBool(value, "verbose")
			if err != nil {
				return nil, err
			}
			result.Verbose = flag
		case "allow_errors":
			flag, err := decodeBool(value, "allow_errors")
			if err != nil {
				return nil, err
			}
			result.AllowErrors = flag
		default:
			kind := SectionKind(key)
			if !knownKind(kind) {
				return nil, unknownKeyError("section", key, keyNode.Line, topLevelKeys())
			}
			section, err := parseSection(kind, value)
			if err != nil {
				return nil, err
			}
			result.Sections = append(result.Sections, section)
		}
	}

	return result, nil
}

func parseSection(kind SectionKind, node *yaml.Node) (*Section, error) {
	section := &Section{Kind: kind}

	// * an absent or null section is empty, not an error
	if isNull(node) {
		return section, nil
	}

	switch kind {
	case KindLink:
		link, err := parseLink(node, string(kind))
		if err != nil {
			return nil, err
		}
		section.Link = link
	case KindScript:
		scripts, err := parseScripts(node, string(kind))
		if err != nil {
			return nil, err
		}
		section.Scripts = scripts
	case KindGithub:
		github, err := parseGithub(node)
		if err != nil {
			return nil, err
		}
		section.Github = github
	default:
		return parseListSection(section, node)
	}

	return section, nil
}

func parseListSection(section *Section, node *yaml.Node) (*Section, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("section %q must be a mapping (line %d)", section.Kind, node.Line)
	}

	known := []string{"items"}
	if section.Kind == KindPip3 {
		known = append(known, "distutils")
	}

	for i := 0; i < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		value := node.Content[i+1]

		switch {
		case keyNode.Value == "items":
			items, err := decodeStrings(value, string(section.Kind)+".items")
			if err != nil {
				return nil, err
			}
			section.Items = items
		case keyNode.Value == "distutils" && section.Kind == KindPip3:
			items, err := decodeStrings(value, "pip3.distutils")
			if err != nil {
				return nil, err
			}
			section.Distutils = items
		default:
			return nil, unknownKeyError(fmt.Sprintf("%s key", section.Kind), keyNode.Value, keyNode.Line, known)
		}
	}

	return section, nil
}

// parseLink decodes a link mapping: the optional recursive flag plus
// one source -> target pair per remaining key, in declaration order.
func parseLink(node *yaml.Node, path string) (*LinkSpec, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s must be a mapping (line %d)", path, node.Line)
	}

	link := new(LinkSpec)
	for i := 0; i < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		value := node.Content[i+1]

		if keyNode.Value == "recursive" {
			flag, err := decodeBool(value, path+".recursive")
			if err != nil {
				return nil, err
			}
			link.Recursive = flag
			continue
		}

		target, err := decodeString(value, path+"."+keyNode.Value)
		if err != nil {
			return nil, err
		}
		link.Entries = append(link.Entries, &LinkEntry{
			Source: keyNode.Value,
			Target: target,
		})
	}

	return link, nil
}

func parseScripts(node *yaml.Node, path string) ([]*NamedScript, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s must be a mapping (line %d)", path, node.Line)
	}

	var scripts []*NamedScript
	for i := 0; i < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		body, err := decodeString(node.Content[i+1], path+"."+keyNode.Value)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, &NamedScript{
			Name: keyNode.Value,
			Body: body,
		})
	}

	return scripts, nil
}

func parseGithub(node *yaml.Node) (*GithubSpec, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("section %q must be a mapping (line %d)", KindGithub, node.Line)
	}

	github := new(GithubSpec)
	for i := 0; i < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		value := node.Content[i+1]

		if keyNode.Value == "repopath" {
			repopath, err := decodeString(value, "github.repopath")
			if err != nil {
				return nil, err
			}
			github.RepoPath = gut.Ptr(repopath)
			continue
		}

		// * every other key names a repository as owner/name
		parts := strings.Split(keyNode.Value, "/")
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("repository key %q must be owner/name (line %d)", keyNode.Value, keyNode.Line)
		}

		repo, err := parseRepo(parts[0], parts[1], value)
		if err != nil {
			return nil, err
		}
		github.Repos = append(github.Repos, repo)
	}

	return github, nil
}

func parseRepo(owner, name string, node *yaml.Node) (*Repo, error) {
	repo := &Repo{Owner: owner, Name: name}
	if isNull(node) {
		return repo, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("repository %q must be a mapping (line %d)", repo.Key(), node.Line)
	}

	path := "github." + repo.Key()
	for i := 0; i < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		value := node.Content[i+1]

		switch keyNode.Value {
		case "cargo":
			subpaths, err := decodeStrings(value, path+".cargo")
			if err != nil {
				return nil, err
			}
			repo.Cargo = subpaths
		case "link":
			link, err := parseLink(value, path+".link")
			if err != nil {
				return nil, err
			}
			repo.Link = link
		case "script":
			scripts, err := parseScripts(value, path+".script")
			if err != nil {
				return nil, err
			}
			repo.Scripts = scripts
		default:
			return nil, unknownKeyError("repository key", keyNode.Value, keyNode.Line, []string{"cargo", "link", "script"})
		}
	}

	return repo, nil
}

func knownKind(kind SectionKind) bool {
	for _, candidate := range Kinds {
		if candidate == kind {
			return true
		}
	}
	return false
}

func topLevelKeys() []string {
	keys := []string{"verbose", "allow_errors"}
	for _, kind := range Kinds {
		keys = append(keys, string(kind))
	}
	return keys
}

func unknownKeyError(what, key string, line int, known []string) error {
	if suggestion := suggest(key, known); suggestion != "" {
		return fmt.Errorf("unknown %s %q (line %d), did you mean %q?", what, key, line, suggestion)
	}
	return fmt.Errorf("unknown %s %q (line %d)", what, key, line)
}

// suggest returns the closest known key within edit distance two.
func suggest(key string, known []string) string {
	best := ""
	bestDistance := 3
	for _, candidate := range known {
		if distance := levenshtein.Distance(key, candidate, nil); distance < bestDistance {
			best = candidate
			bestDistance = distance
		}
	}
	return best
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

func decodeBool(node *yaml.Node, where string) (bool, error) {
	var value bool
	if err := node.Decode(&value); err != nil {
		return false, fmt.Errorf("%s must be a boolean (line %d): %w", where, node.Line, err)
	}
	return value, nil
}

func decodeString(node *yaml.Node, where string) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%s must be a string (line %d)", where, node.Line)
	}
	var value string
	if err := node.Decode(&value); err != nil {
		return "", fmt.Errorf("%s must be a string (line %d): %w", where, node.Line, err)
	}
	return value, nil
}

func decodeStrings(node *yaml.Node, where string) ([]string, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%s must be a list of strings (line %d)", where, node.Line)
	}
	var values []string
	for _, item := range node.Content {
		value, err := decodeString(item, where)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}
