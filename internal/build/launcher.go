package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paradigmmc/mcman-go/internal/mcenv"
	"github.com/paradigmmc/mcman-go/internal/mcfg"
	"github.com/paradigmmc/mcman-go/internal/model"
)

// aikarFlags is Aikar's tuned G1GC flag set for Minecraft servers,
// appended verbatim when launcher.preset = "aikar".
var aikarFlags = []string{
	"-XX:+UseG1GC",
	"-XX:+ParallelRefProcEnabled",
	"-XX:MaxGCPauseMillis=200",
	"-XX:+UnlockExperimentalVMOptions",
	"-XX:+DisableExplicitGC",
	"-XX:+AlwaysPreTouch",
	"-XX:G1NewSizePercent=30",
	"-XX:G1MaxNewSizePercent=40",
	"-XX:G1HeapRegionSize=8M",
	"-XX:G1ReservePercent=20",
	"-XX:G1HeapWastePercent=5",
	"-XX:G1MixedGCCountTarget=4",
	"-XX:InitiatingHeapOccupancyPercent=15",
	"-XX:G1MixedGCLiveThresholdPercent=90",
	"-XX:G1RSetUpdatingPauseTimePercent=5",
	"-XX:SurvivorRatio=32",
	"-XX:+PerfDisableSharedMem",
	"-XX:MaxTenuringThreshold=1",
	"-Dusing.aikars.flags=https://mcflags.emc.gs",
	"-Daikars.new.flags=true",
}

// proxyFlags is the Velocity/Waterfall-recommended set for proxy servers,
// appended when launcher.preset = "proxy".
var proxyFlags = []string{
	"-XX:+UseG1GC",
	"-XX:G1HeapRegionSize=4M",
	"-XX:+UnlockExperimentalVMOptions",
	"-XX:+ParallelRefProcEnabled",
	"-XX:+AlwaysPreTouch",
	"-XX:MaxInlineLevel=15",
}

// JarInfo describes the resolved server jar for launcher-argument
// rendering: what flavor it is and the execution argument
// vector that starts it.
type JarInfo struct {
	// RelPath is the jar's path relative to output_dir (single-jar
	// flavors), or the located args file for Forge/NeoForge.
	RelPath string
	Flavor  model.JarFlavor

	// Software is the server software family the jar declaration builds.
	Software model.SoftwareType

	// SupportsEULAArgs mirrors model.ServerJar.SupportsEULAArgs for the
	// resolved jar: false for vanilla and the modded loaders, which need
	// an eula.txt written instead of the property flag.
	SupportsEULAArgs bool

	// ExecOverride replaces the flavor-derived exec vector entirely
	// (custom jars with an explicit `exec`).
	ExecOverride string
}

// execArgs returns the flavor's execution argument vector for platform
// ("unix" | "win").
func (j JarInfo) execArgs(platform string) []string {
	if j.ExecOverride != "" {
		return strings.Fields(j.ExecOverride)
	}
	switch j.Flavor {
	case model.FlavorArgsFileUnix, model.FlavorArgsFileWin:
		rel := j.RelPath
		if platform == "win" {
			rel = strings.Replace(rel, "unix_args.txt", "win_args.txt", 1)
		} else {
			rel = strings.Replace(rel, "win_args.txt", "unix_args.txt", 1)
		}
		return []string{"@" + filepath.ToSlash(rel)}
	default:
		return []string{"-jar", j.RelPath}
	}
}

// supportsNoGUI gates --nogui on the launcher preset: proxy servers have
// no GUI to suppress and reject the flag.
func supportsNoGUI(l mcfg.ServerLauncher) bool {
	return !strings.EqualFold(l.Preset, "proxy")
}

// RenderArgs concatenates the launcher argument vector in a fixed
// order: JVM args, memory, preset flags, EULA property, -D properties,
// the jar flavor's execution vector, --nogui, game args. platform is
// "unix" or "win" (it only affects the Forge/NeoForge args-file path).
func RenderArgs(l mcfg.ServerLauncher, jar JarInfo, platform string) []string {
	var args []string

	args = append(args, strings.Fields(l.JVMArgs)...)

	memory := mcenv.Memory()
	if memory == "" {
		memory = l.Memory
	}
	if memory != "" {
		args = append(args, "-Xms"+memory, "-Xmx"+memory)
	}

	switch strings.ToLower(l.Preset) {
	case "aikar":
		args = append(args, aikarFlags...)
	case "proxy":
		args = append(args, proxyFlags...)
	}

	if l.EULAArgs && jar.SupportsEULAArgs {
		args = append(args, "-Dcom.mojang.eula.agree=true")
	}

	keys := make([]string, 0, len(l.Properties))
	for k := range l.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := l.Properties[k]
		if strings.ContainsAny(v, " \t") {
			v = `"` + v + `"`
		}
		args = append(args, fmt.Sprintf("-D%s=%s", k, v))
	}

	args = append(args, jar.execArgs(platform)...)

	if l.NoGUI && supportsNoGUI(l) {
		args = append(args, "--nogui")
	}

	args = append(args, strings.Fields(l.GameArgs)...)
	return args
}

// MaybeWriteEULA writes an eula.txt accepting the EULA into outputDir when
// eula_args is requested but the server software doesn't honor the
// property form (vanilla, modded loaders). Reports whether it wrote one.
func MaybeWriteEULA(outputDir string, l mcfg.ServerLauncher, jar JarInfo) (bool, error) {
	if !l.EULAArgs || jar.SupportsEULAArgs {
		return false, nil
	}
	return true, os.WriteFile(filepath.Join(outputDir, "eula.txt"), []byte("eula=true\n"), 0o640)
}

// WriteStartScripts writes start.sh and start.bat into outputDir with the
// rendered java command line. start.sh is marked
// executable where the platform supports mode bits.
func WriteStartScripts(outputDir, serverName string, l mcfg.ServerLauncher, jar JarInfo) error {
	sh := fmt.Sprintf("#!/bin/sh\n# generated by mcman\njava %s \"$@\"\n",
		strings.Join(RenderArgs(l, jar, "unix"), " "))
	if err := os.WriteFile(filepath.Join(outputDir, "start.sh"), []byte(sh), 0o750); err != nil {
		return err
	}

	bat := fmt.Sprintf("@echo off\r\n:: generated by mcman\r\ntitle %s\r\njava %s %%*\r\n",
		serverName, strings.Join(RenderArgs(l, jar, "win"), " "))
	return os.WriteFile(filepath.Join(outputDir, "start.bat"), []byte(bat), 0o640)
}
