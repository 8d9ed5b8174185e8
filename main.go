package main

import (
	"github.com/alecthomas/kong"

	"go.scnd.dev/open/manifest/command/app"
	"go.scnd.dev/open/manifest/command/generate"
	"go.scnd.dev/open/manifest/command/tree"
)

type Command struct {
	Verbose  bool              `help:"Enable verbose output." short:"v"`
	Generate *generate.Command `cmd:"generate" help:"Generate the provisioning script from a manifest."`
	Tree     *tree.Command     `cmd:"tree" help:"Print the parsed manifest as a tree."`
}

func main() {
	command := new(Command)
	ctx := kong.Parse(
		command,
		kong.Name("manifest"),
		kong.Description("Generate an idempotent provisioning script from a YAML machine manifest."),
	)
	err := ctx.Run(&app.App{
		Verbose: command.Verbose,
	})
	ctx.FatalIfErrorf(err)
}
