package javatool

import (
	"os"
	"path/filepath"
	"runtime"
)

// candidateRoot describes one platform-specific search strategy for JDK
// install roots: a fixed path, or a glob
// base whose every entry gets one or more subpath suffixes appended.
type candidateRoot struct {
	base    string
	suffixes []string
	fixed   bool // true: base itself is a candidate java home, no globbing
}

func platformRoots(goos string) []candidateRoot {
	switch goos {
	case "windows":
		return []candidateRoot{
			{base: `C:/Program Files/Java`, suffixes: []string{"bin"}},
			{base: `C:/Program Files (x86)/Java`, suffixes: []string{"bin"}},
			{base: `C:/Program Files/Eclipse Adoptium`, suffixes: []string{"bin"}},
			{base: `C:/Program Files (x86)/Eclipse Adoptium`, suffixes: []string{"bin"}},
		}
	case "darwin":
		return []candidateRoot{
			{base: `/Library/Java/JavaVirtualMachines`, suffixes: []string{"Contents/Home/bin"}},
		}
	default: // linux and other unix variants
		return []candidateRoot{
			{base: `/usr/lib/jvm`, suffixes: []string{"bin", "jre/bin"}},
			{base: `/usr/lib64/jvm`, suffixes: []string{"bin", "jre/bin"}},
			{base: `/opt/jdk`, suffixes: []string{"bin", "jre/bin"}},
			{base: `/opt/jdks`, suffixes: []string{"bin", "jre/bin"}},
		}
	}
}

// collectCandidateBinDirs enumerates every directory that might contain a
// java executable: PATH entries plus every platform well-known root's
// subdirectories, deduplicated.
func collectCandidateBinDirs() []string {
	seen := make(map[string]struct{})
	var dirs []string
	add := func(d string) {
		if d == "" {
			return
		}
		if _, ok := seen[d]; ok {
			return
		}
		seen[d] = struct{}{}
		dirs = append(dirs, d)
	}

	for _, p := range filepath.SplitList(os.Getenv("PATH")) {
		add(p)
	}

	for _, root := range platformRoots(runtime.GOOS) {
		entries, err := os.ReadDir(root.base)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			for _, suffix := range root.suffixes {
				add(filepath.Join(root.base, entry.Name(), suffix))
			}
		}
	}
	return dirs
}

// javaExecutableName is "java.exe" on Windows, "java" elsewhere.
func javaExecutableName(goos string) string {
	if goos == "windows" {
		return "java.exe"
	}
	return "java"
}

// collectCandidateBinaries resolves collectCandidateBinDirs down to the
// java executables that actually exist.
func collectCandidateBinaries() []string {
	name := javaExecutableName(runtime.GOOS)
	var out []string
	for _, dir := range collectCandidateBinDirs() {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			out = append(out, path)
		}
	}
	return out
}
