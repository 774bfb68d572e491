package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Release builds stamp these via ldflags:
//
//	go build -ldflags="-X github.com/muurk/tpsctl/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/tpsctl/internal/version.Commit=abc123" ./cmd/tpsctl
//
// Otherwise they come from the VCS stamp in the build info, or fall back to
// "dev-<timestamp>".
var (
	// Version is the semantic version of tpsctl
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		Version, Commit = fromBuildInfo(Version, Commit)
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo fills whichever of version and commit is empty from the
// module's VCS settings
func fromBuildInfo(version, commit string) (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit
	}
	if version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		// set by 'go install module@version'
		version = info.Main.Version
	}
	return stampFromSettings(version, commit, info.Settings)
}

func stampFromSettings(version, commit string, settings []debug.BuildSetting) (string, string) {
	var revision, modified, vcsTime string
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			modified = s.Value
		case "vcs.time":
			vcsTime = s.Value
		}
	}

	if commit == "" && revision != "" {
		commit = revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if modified == "true" {
			commit += "-dirty"
		}
	}

	if version == "" && vcsTime != "" {
		if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
			version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
	return version, commit
}

// Full returns the version with its commit, e.g. "v0.3.0 (commit: abc123)"
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
