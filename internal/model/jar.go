package model

// ServerJarType tags the core-jar variant.
type ServerJarType string

const (
	JarVanilla    ServerJarType = "vanilla"
	JarPaperMC    ServerJarType = "papermc"
	JarPurpur     ServerJarType = "purpur"
	JarFabric     ServerJarType = "fabric"
	JarQuilt      ServerJarType = "quilt"
	JarForge      ServerJarType = "forge"
	JarNeoForge   ServerJarType = "neoforge"
	JarBuildTools ServerJarType = "buildtools"
	JarCustom     ServerJarType = "custom"
)

// ServerJar is the declared core-jar requirement for one server.
type ServerJar struct {
	MCVersion  string
	ServerType ServerJarType

	// PaperMC
	PaperMCProject string // "paper", "folia", ...
	PaperMCBuild   string // "latest" or explicit build number

	// Purpur
	PurpurBuild string // "latest" or explicit build number

	// Fabric / Quilt
	Loader    string // "latest" or explicit loader version
	Installer string // "latest" or explicit installer version

	// Forge / NeoForge
	ForgeLoader string // "latest" or explicit loader/recommended version

	// BuildTools
	CraftBukkit bool
	BuildArgs   []string

	// Custom
	CustomInner  SourceKind // reuses the addon source-kind vocabulary
	CustomFlavor string     // jar-flavor hint for launcher arg rendering
	CustomExec   string     // optional explicit entrypoint override
}

// JarFlavor classifies a resolved jar for launcher-argument rendering:
// single-jar flavors take a plain "-jar x"; Forge/NeoForge
// take an @libraries/.../{unix,win}_args.txt reference.
type JarFlavor string

const (
	FlavorSingleJar    JarFlavor = "single_jar"
	FlavorArgsFileUnix JarFlavor = "args_file_unix"
	FlavorArgsFileWin  JarFlavor = "args_file_win"
)

// SoftwareType classifies the server software family a jar declaration
// builds — normal game servers, modded loaders, proxies, or unknown for
// custom jars — and drives which launcher knobs the software understands.
type SoftwareType string

const (
	SoftwareNormal  SoftwareType = "normal"
	SoftwareModded  SoftwareType = "modded"
	SoftwareProxy   SoftwareType = "proxy"
	SoftwareUnknown SoftwareType = "unknown"
)

// Software classifies j's server software family.
func (j ServerJar) Software() SoftwareType {
	switch j.ServerType {
	case JarFabric, JarQuilt, JarForge, JarNeoForge:
		return SoftwareModded
	case JarPaperMC:
		if j.PaperMCProject == "velocity" || j.PaperMCProject == "waterfall" {
			return SoftwareProxy
		}
		return SoftwareNormal
	case JarVanilla, JarPurpur, JarBuildTools:
		return SoftwareNormal
	default:
		return SoftwareUnknown
	}
}

// SupportsEULAArgs reports whether the software honors
// -Dcom.mojang.eula.agree=true: vanilla ignores the property outright and
// modded loaders don't pass it through to the game server underneath, so
// both need an eula.txt written instead.
func (j ServerJar) SupportsEULAArgs() bool {
	return j.ServerType != JarVanilla && j.Software() != SoftwareModded
}
