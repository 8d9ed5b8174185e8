package render

import (
	"fmt"
	"strings"

	"go.scnd.dev/open/manifest/command/generate/manifest"
)

// defaultRepoPath is where repositories are cloned when the manifest
// does not override github.repopath.
const defaultRepoPath = "~/repos"

// renderGithub emits one unit per declared repository, in declaration
// order. Cloning is convergent: the clone may fail when the directory
// already exists, and the unconditional pull/checkout that follows
// brings it up to date either way.
func renderGithub(github *manifest.GithubSpec, opt Options) []*Unit {
	if github == nil || len(github.Repos) == 0 {
		return nil
	}

	repopath := defaultRepoPath
	if github.RepoPath != nil {
		repopath = *github.RepoPath
	}
	root := expandHome(repopath, opt.Home)

	units := make([]*Unit, 0, len(github.Repos))
	for _, repo := range github.Repos {
		units = append(units, renderRepo(repo, root, opt))
	}
	return units
}

func renderRepo(repo *manifest.Repo, root string, opt Options) *Unit {
	dest := root + "/" + repo.Owner + "_" + repo.Name

	var builder strings.Builder
	fmt.Fprintf(&builder, "echo %q\n", repo.Key()+":")
	fmt.Fprintf(&builder, "git clone --recursive https://github.com/%s %s\n", repo.Key(), dest)
	fmt.Fprintf(&builder, "(cd %s && pwd && git pull && git checkout HEAD)\n", dest)

	for _, subpath := range repo.Cargo {
		builder.WriteString("\n")
		fmt.Fprintf(&builder, "echo %q\n", "cargo install "+subpath+":")
		fmt.Fprintf(&builder, "(cd %s/%s && cargo install --path .)\n", dest, subpath)
	}

	var helpers []Helper
	if link := renderLink(repo.Link, "links:", dest, opt); link != nil {
		builder.WriteString("\n")
		builder.WriteString(link.Body)
		helpers = append(helpers, HelperLinker)
	}

	if len(repo.Scripts) > 0 {
		builder.WriteString("\n")
		builder.WriteString("echo \"scripts:\"\n")
		builder.WriteString(scriptBlock(repo.Scripts))
	}

	return &Unit{Body: builder.String(), Helpers: helpers}
}
