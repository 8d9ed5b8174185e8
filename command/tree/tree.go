package tree

import (
	"fmt"
	"io"
	"os"

	"github.com/ddddddO/gtree"

	"go.scnd.dev/open/manifest/command/app"
	"go.scnd.dev/open/manifest/command/generate/manifest"
)

type Command struct {
	Config string `help:"Path to the manifest YAML file." short:"C" default:"manifest.yml" type:"path"`
}

func (r *Command) Run(app *app.App) error {
	return Run(app, r)
}

func Run(app *app.App, command *Command) error {
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

	return Print(os.Stdout, parsed)
}

// Print writes the manifest's sections, items and repositories as a
// tree, in declaration order.
func Print(writer io.Writer, m *manifest.Manifest) error {
	root := gtree.NewRoot("manifest")
	for _, section := range m.Sections {
		node := root.Add(string(section.Kind))
		switch section.Kind {
		case manifest.KindLink:
			addLink(node, section.Link)
		case manifest.KindScript:
			for _, script := range section.Scripts {
				node.Add(script.Name)
			}
		case manifest.KindGithub:
			addGithub(node, section.Github)
		case manifest.KindPip3:
			for _, item := range section.Items {
				node.Add(item)
			}
			if len(section.Distutils) > 0 {
				distutils := node.Add("distutils")
				for _, item := range section.Distutils {
					distutils.Add(item)
				}
			}
		default:
			for _, item := range section.Items {
				node.Add(item)
			}
		}
	}
	return gtree.OutputProgrammably(writer, root)
}

func addLink(node *gtree.Node, link *manifest.LinkSpec) {
	if link == nil {
		return
	}
	for _, entry := range link.Entries {
		node.Add(entry.Source + " -> " + entry.Target)
	}
}

func addGithub(node *gtree.Node, github *manifest.GithubSpec) {
	if github == nil {
		return
	}
	for _, repo := range github.Repos {
		repoNode := node.Add(repo.Key())
		for _, subpath := range repo.Cargo {
			repoNode.Add("cargo " + subpath)
		}
		if repo.Link != nil {
			addLink(repoNode.Add("link"), repo.Link)
		}
		if len(repo.Scripts) > 0 {
			scripts := repoNode.Add("script")
			for _, script := range repo.Scripts {
				scripts.Add(script.Name)
			}
		}
	}
}
