package javatool

import (
	"bufio"
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/paradigmmc/mcman-go/internal/errors"
)

// Installation is one discovered JDK: its java binary and parsed major
// version (e.g. 8, 17, 21).
type Installation struct {
	Path  string
	Major int
}

// versionLinePattern matches both legacy ("1.8.0_392") and modern
// ("17.0.9", "21-ea") `java -version` stderr output, e.g.:
//
//	openjdk version "17.0.9" 2023-10-17
//	java version "1.8.0_392"
var versionLinePattern = regexp.MustCompile(`version "([^"]+)"`)

// ParseMajor extracts the major version number from a raw `java -version`
// version string. Java ≤8 reports "1.<major>.<minor>_<patch>"; Java 9+
// reports "<major>.<minor>.<patch>" directly.
func ParseMajor(raw string) (int, bool) {
	parts := strings.SplitN(raw, ".", 3)
	if len(parts) == 0 {
		return 0, false
	}
	first, err := strconv.Atoi(trimNonDigitSuffix(parts[0]))
	if err != nil {
		return 0, false
	}
	if first == 1 && len(parts) > 1 {
		second, err := strconv.Atoi(trimNonDigitSuffix(parts[1]))
		if err != nil {
			return 0, false
		}
		return second, true
	}
	return first, true
}

func trimNonDigitSuffix(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// probeVersionOutput extracts the quoted version string from `java
// -version`'s stderr output (the JVM writes its banner to stderr, not
// stdout).
func probeVersionOutput(stderr string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(stderr))
	for scanner.Scan() {
		if m := versionLinePattern.FindStringSubmatch(scanner.Text()); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// probeTimeout bounds a single `java -version` invocation; a hung candidate
// must not stall the whole discovery pass.
const probeTimeout = 5 * time.Second

// probe invokes javaPath -version and returns the parsed Installation.
func probe(ctx context.Context, javaPath string) (Installation, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, javaPath, "-version")
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Installation{}, errors.Wrap(err, errors.CategoryJava, errors.SeverityWarning, "probe java -version failed for "+javaPath)
	}

	raw, ok := probeVersionOutput(stderr.String())
	if !ok {
		return Installation{}, errors.New(errors.CategoryJava, errors.SeverityWarning, "could not parse java -version output for "+javaPath)
	}
	major, ok := ParseMajor(raw)
	if !ok {
		return Installation{}, errors.New(errors.CategoryJava, errors.SeverityWarning, "could not parse major version from "+raw)
	}
	return Installation{Path: javaPath, Major: major}, nil
}
