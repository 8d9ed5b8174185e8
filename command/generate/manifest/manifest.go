package manifest

// SectionKind enumerates the closed set of manifest sections. The
// declaration order of sections in the document is preserved and
// controls emission order, so the model keeps sections in a slice
// rather than a map.
type SectionKind string

const (
	KindLink    SectionKind = "link"
	KindPpa     SectionKind = "ppa"
	KindPkg     SectionKind = "pkg"
	KindApt     SectionKind = "apt"
	KindDnf     SectionKind = "dnf"
	KindNpm     SectionKind = "npm"
	KindPip3    SectionKind = "pip3"
	KindPipx    SectionKind = "pipx"
	KindFlatpak SectionKind = "flatpak"
	KindCargo   SectionKind = "cargo"
	KindGithub  SectionKind = "github"
	KindScript  SectionKind = "script"
)

// Kinds lists every recognized section kind in canonical order.
var Kinds = []SectionKind{
	KindLink,
	KindPpa,
	KindPkg,
	KindApt,
	KindDnf,
	KindNpm,
	KindPip3,
	KindPipx,
	KindFlatpak,
	KindCargo,
	KindGithub,
	KindScript,
}

// Manifest is the root of the parsed configuration tree. It is built
// once per generation run and read-only afterwards.
type Manifest struct {
	Verbose     bool
	AllowErrors bool
	Sections    []*Section
}

// Section is the tagged union over section kinds: exactly the payload
// matching Kind is populated.
type Section struct {
	Kind      SectionKind
	Items     []string
	Distutils []string
	Link      *LinkSpec
	Scripts   []*NamedScript
	Github    *GithubSpec
}

type LinkSpec struct {
	Recursive bool
	Entries   []*LinkEntry
}

type LinkEntry struct {
	Source string
	Target string
}

type NamedScript struct {
	Name string
	Body string
}

type GithubSpec struct {
	RepoPath *string
	Repos    []*Repo
}

type Repo struct {
	Owner   string
	Name    string
	Cargo   []string
	Link    *LinkSpec
	Scripts []*NamedScript
}

// Key returns the owner/name form the repository was declared under.
func (r *Repo) Key() string {
	return r.Owner + "/" + r.Name
}

// Section returns the declared section of the given kind, or nil.
func (m *Manifest) Section(kind SectionKind) *Section {
	for _, section := range m.Sections {
		if section.Kind == kind {
			return section
		}
	}
	return nil
}
