package manifest

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarshalYAML serializes the manifest back to the same structured form
// it was parsed from, preserving section order. Used to validate the
// model: parse, marshal, re-parse must yield an equal tree.
func (m *Manifest) MarshalYAML() (any, error) {
	root := mappingNode()
	if m.Verbose {
		appendPair(root, "verbose", boolNode(true))
	}
	if m.AllowErrors {
		appendPair(root, "allow_errors", boolNode(true))
	}
	for _, section := range m.Sections {
		appendPair(root, string(section.Kind), sectionNode(section))
	}
	return root, nil
}

func sectionNode(section *Section) *yaml.Node {
	switch section.Kind {
	case KindLink:
		return linkNode(section.Link)
	case KindScript:
		return scriptsNode(section.Scripts)
	case KindGithub:
		return githubNode(section.Github)
	default:
		if section.Items == nil && section.Distutils == nil {
			return nullNode()
		}
		node := mappingNode()
		if section.Items != nil {
			appendPair(node, "items", sequenceNode(section.Items))
		}
		if section.Distutils != nil {
			appendPair(node, "distutils", sequenceNode(section.Distutils))
		}
		return node
	}
}

func linkNode(link *LinkSpec) *yaml.Node {
	if link == nil {
		return nullNode()
	}
	node := mappingNode()
	if link.Recursive {
		appendPair(node, "recursive", boolNode(true))
	}
	for _, entry := range link.Entries {
		appendPair(node, entry.Source, scalarNode(entry.Target))
	}
	return node
}

func scriptsNode(scripts []*NamedScript) *yaml.Node {
	if scripts == nil {
		return nullNode()
	}
	node := mappingNode()
	for _, script := range scripts {
		appendPair(node, script.Name, scalarNode(script.Body))
	}
	return node
}

func githubNode(github *GithubSpec) *yaml.Node {
	if github == nil {
		return nullNode()
	}
	node := mappingNode()
	if github.RepoPath != nil {
		appendPair(node, "repopath", scalarNode(*github.RepoPath))
	}
	for _, repo := range github.Repos {
		appendPair(node, repo.Key(), repoNode(repo))
	}
	return node
}

func repoNode(repo *Repo) *yaml.Node {
	if repo.Cargo == nil && repo.Link == nil && repo.Scripts == nil {
		return nullNode()
	}
	node := mappingNode()
	if repo.Cargo != nil {
		appendPair(node, "cargo", sequenceNode(repo.Cargo))
	}
	if repo.Link != nil {
		appendPair(node, "link", linkNode(repo.Link))
	}
	if repo.Scripts != nil {
		appendPair(node, "script", scriptsNode(repo.Scripts))
	}
	return node
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalarNode(key), value)
}

func sequenceNode(values []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, value := range values {
		node.Content = append(node.Content, scalarNode(value))
	}
	return node
}

func scalarNode(value string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	if strings.Contains(value, "\n") {
		node.Style = yaml.LiteralStyle
	}
	return node
}

func boolNode(value bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
