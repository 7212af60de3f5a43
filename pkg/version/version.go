// Package version identifica o binário nos relatórios, no /health e na CLI.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

const devVersion = "0.0.0-dev"

// Definidos via -ldflags "-X" no build de release.
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

func init() {
	if Version != "" && Version != devVersion {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info != nil {
		fillFromVCS(vcsSettings(info.Settings))
	}
}

// vcsSettings indexa as chaves vcs.* gravadas pelo toolchain.
func vcsSettings(settings []debug.BuildSetting) map[string]string {
	vcs := make(map[string]string)
	for _, s := range settings {
		if key, ok := strings.CutPrefix(s.Key, "vcs."); ok {
			vcs[key] = s.Value
		}
	}
	return vcs
}

// fillFromVCS só completa o que o ldflags deixou vazio.
func fillFromVCS(vcs map[string]string) {
	if rev := vcs["revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}
	if BuildTime == "" {
		if built, err := time.Parse(time.RFC3339, vcs["time"]); err == nil {
			BuildTime = built.UTC().Format(time.RFC3339)
		}
	}
	tag := strings.TrimPrefix(vcs["tag"], "v")
	if tag == "" {
		return
	}
	Version = tag
	if strings.EqualFold(vcs["modified"], "true") {
		Version += "-dirty"
	}
}

// FormatVersion monta a linha exibida em "version" e no /health.
func FormatVersion() string {
	v := Version
	if v == "" {
		v = devVersion
	}
	switch {
	case Commit == "" && BuildTime == "":
		return v + " (development)"
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", v, Commit)
	}
	commit := Commit
	if commit == "" {
		commit = "development"
	}
	return fmt.Sprintf("%s (commit: %s, built at: %s)", v, commit, BuildTime)
}
