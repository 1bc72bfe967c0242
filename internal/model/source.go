package model

// SourceType tags the variant of a Source.
type SourceType string

const (
	SourceTypeFile    SourceType = "file"
	SourceTypeFolder  SourceType = "folder" // reserved
	SourceTypeModpack SourceType = "modpack"
	SourceTypeGit     SourceType = "git"
	SourceTypeInline  SourceType = "inline" // in-memory only: the CLI's --src flag
)

// ModpackType enumerates the supported modpack manifest formats.
type ModpackType string

const (
	ModpackMRPack  ModpackType = "mrpack"
	ModpackPackwiz ModpackType = "packwiz"
	ModpackUnsup   ModpackType = "unsup"
)

// Source is an indirection from which Addons are derived.
type Source struct {
	Type SourceType

	// File
	Path string

	// Modpack
	ModpackType   ModpackType
	ModpackSource string // local path or URL

	// Git (SUPPLEMENT): clone URL + ref, then read a File/Modpack source
	// relative to the checkout.
	GitURL  string
	GitRef  string
	GitPath string // path within the checkout to a File/Modpack source

	// Inline carries an already-parsed addon appended at run time (the
	// --src flag); never persisted.
	Inline *Addon
}

// Located pairs a Source with the base directory it should be resolved
// relative to.
type Located struct {
	BaseDir string
	Source  Source
}
