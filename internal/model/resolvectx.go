package model

// ResolveContext carries the server-level facts an upstream client needs to
// filter "latest compatible" lookups: the
// target Minecraft version and, for mod loaders, the loader name.
type ResolveContext struct {
	MCVersion string
	Loader    string // "fabric" | "quilt" | "forge" | "neoforge", when relevant
}
