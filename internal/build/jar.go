package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paradigmmc/mcman-go/internal/errors"
	"github.com/paradigmmc/mcman-go/internal/model"
)

// jarLocator finds the runnable artifact after a jar's step plan has
// executed. Single-jar flavors know their path up front; installer flavors
// (Quilt, Forge, NeoForge, BuildTools) produce files the driver has to
// find in output_dir after the ExecuteJava step ran.
type jarLocator func(outputDir string) (JarInfo, error)

// resolveJarPlan translates the server doc's jar declaration into a step
// plan plus a locator for the resulting runnable artifact.
func (d *Driver) resolveJarPlan(ctx context.Context) (model.Plan, jarLocator, error) {
	jar, err := d.opts.Server.Jar.ToModel()
	if err != nil {
		return nil, nil, err
	}
	mc := jar.MCVersion

	switch jar.ServerType {
	case model.JarVanilla:
		plan, err := d.vanilla.ResolveSteps(ctx, mc)
		return plan, singleJarLocator(plan), err

	case model.JarPaperMC:
		project := jar.PaperMCProject
		if project == "" {
			project = "paper"
		}
		plan, err := d.papermc.ResolveSteps(ctx, project, mc, jar.PaperMCBuild)
		return plan, singleJarLocator(plan), err

	case model.JarPurpur:
		plan, err := d.purpur.ResolveSteps(ctx, mc, jar.PurpurBuild)
		return plan, singleJarLocator(plan), err

	case model.JarFabric:
		plan, err := d.fabric.ResolveSteps(ctx, mc, jar.Loader, jar.Installer)
		return plan, singleJarLocator(plan), err

	case model.JarQuilt:
		plan, err := d.quilt.ResolveSteps(ctx, mc, jar.Loader, jar.Installer)
		return plan, locateQuiltLaunchJar, err

	case model.JarForge:
		plan, err := d.forge.ResolveSteps(ctx, mc, jar.ForgeLoader)
		return plan, argsFileLocator("libraries/net/minecraftforge/forge"), err

	case model.JarNeoForge:
		plan, err := d.neoforge.ResolveSteps(ctx, mc, jar.ForgeLoader)
		return plan, argsFileLocator("libraries/net/neoforged/neoforge"), err

	case model.JarBuildTools:
		variant := "spigot"
		if jar.CraftBukkit {
			variant = "craftbukkit"
		}
		plan, err := d.buildtools.ResolveSteps(ctx, mc, variant, jar.BuildArgs)
		return plan, locateBuildToolsJar(variant, mc), err

	case model.JarCustom:
		return d.resolveCustomJarPlan(ctx, jar)

	default:
		return nil, nil, errors.UnknownVariant("jar.server_type", string(jar.ServerType))
	}
}

// resolveCustomJarPlan routes a custom jar declaration through the normal
// addon resolver: the inner source kind picks the upstream, the flavor
// string decides launcher rendering, and an explicit exec overrides the
// whole execution vector.
func (d *Driver) resolveCustomJarPlan(ctx context.Context, jar model.ServerJar) (model.Plan, jarLocator, error) {
	if d.opts.Server.Jar.Inner == nil {
		return nil, nil, errors.New(errors.CategoryConfig, errors.SeverityFatal,
			"custom server_type requires an inner addon reference")
	}
	a, err := d.opts.Server.Jar.Inner.ToModel(nil)
	if err != nil {
		return nil, nil, err
	}

	plan, err := d.resolver.Resolve(ctx, a, d.resolveContext())
	if err != nil {
		return nil, nil, err
	}

	flavor := model.FlavorSingleJar
	switch jar.CustomFlavor {
	case "forge", "neoforge":
		flavor = model.FlavorArgsFileUnix
	}
	locate := func(string) (JarInfo, error) {
		return JarInfo{
			RelPath:      planOutputFilename(plan),
			Flavor:       flavor,
			ExecOverride: jar.CustomExec,
		}, nil
	}
	return plan, locate, nil
}

// planOutputFilename extracts the output filename a plan materializes:
// the first step carrying a FileMeta names it.
func planOutputFilename(plan model.Plan) string {
	for _, s := range plan {
		if s.Meta.Filename != "" {
			return s.Meta.Filename
		}
	}
	return ""
}

func singleJarLocator(plan model.Plan) jarLocator {
	return func(string) (JarInfo, error) {
		return JarInfo{RelPath: planOutputFilename(plan), Flavor: model.FlavorSingleJar}, nil
	}
}

// locateQuiltLaunchJar finds the launch jar the Quilt installer produced:
// quilt-server-launch.jar by default, or the renamed per-version variant
// newer installers write.
func locateQuiltLaunchJar(outputDir string) (JarInfo, error) {
	if _, err := os.Stat(filepath.Join(outputDir, "quilt-server-launch.jar")); err == nil {
		return JarInfo{RelPath: "quilt-server-launch.jar", Flavor: model.FlavorSingleJar}, nil
	}
	matches, _ := filepath.Glob(filepath.Join(outputDir, "quilt-server-*.jar"))
	for _, m := range matches {
		base := filepath.Base(m)
		if base != "quilt-server-launch.jar" {
			return JarInfo{RelPath: base, Flavor: model.FlavorSingleJar}, nil
		}
	}
	if len(matches) > 0 {
		return JarInfo{RelPath: filepath.Base(matches[0]), Flavor: model.FlavorSingleJar}, nil
	}
	return JarInfo{}, errors.New(errors.CategoryInstaller, errors.SeverityFatal,
		"quilt installer finished but no quilt-server-*.jar was produced")
}

// argsFileLocator finds the {unix,win}_args.txt reference Forge-family
// installers write under libraries/.
func argsFileLocator(libRoot string) jarLocator {
	return func(outputDir string) (JarInfo, error) {
		matches, _ := filepath.Glob(filepath.Join(outputDir, filepath.FromSlash(libRoot), "*", "unix_args.txt"))
		if len(matches) == 0 {
			return JarInfo{}, errors.New(errors.CategoryInstaller, errors.SeverityFatal,
				fmt.Sprintf("installer finished but no args file found under %s", libRoot))
		}
		rel, err := filepath.Rel(outputDir, matches[0])
		if err != nil {
			return JarInfo{}, err
		}
		return JarInfo{RelPath: filepath.ToSlash(rel), Flavor: model.FlavorArgsFileUnix}, nil
	}
}

// locateBuildToolsJar finds the jar BuildTools compiled: spigot-{mc}.jar
// or craftbukkit-{mc}.jar, falling back to a glob for rc/snapshot names.
func locateBuildToolsJar(variant, mcVersion string) jarLocator {
	return func(outputDir string) (JarInfo, error) {
		exact := fmt.Sprintf("%s-%s.jar", variant, mcVersion)
		if _, err := os.Stat(filepath.Join(outputDir, exact)); err == nil {
			return JarInfo{RelPath: exact, Flavor: model.FlavorSingleJar}, nil
		}
		matches, _ := filepath.Glob(filepath.Join(outputDir, variant+"-*.jar"))
		if len(matches) > 0 {
			return JarInfo{RelPath: filepath.Base(matches[0]), Flavor: model.FlavorSingleJar}, nil
		}
		return JarInfo{}, errors.New(errors.CategoryInstaller, errors.SeverityFatal,
			fmt.Sprintf("buildtools finished but no %s-*.jar was produced", variant))
	}
}
