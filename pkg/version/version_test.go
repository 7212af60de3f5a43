package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, v, commit, built string) {
	t.Helper()
	oldV, oldC, oldB := Version, Commit, BuildTime
	Version, Commit, BuildTime = v, commit, built
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })
}

func TestFormatVersion(t *testing.T) {
	withVersion(t, "", "", "")
	assert.Equal(t, "0.0.0-dev (development)", FormatVersion())

	withVersion(t, "1.2.0", "abc1234", "")
	assert.Equal(t, "1.2.0 (commit: abc1234)", FormatVersion())

	withVersion(t, "1.2.0", "abc1234", "2024-03-01T06:00:00Z")
	assert.Equal(t, "1.2.0 (commit: abc1234, built at: 2024-03-01T06:00:00Z)", FormatVersion())
}

func TestFillFromVCS(t *testing.T) {
	withVersion(t, "0.0.0-dev", "", "")

	fillFromVCS(vcsSettings([]debug.BuildSetting{
		{Key: "-compiler", Value: "gc"},
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2024-03-01T07:00:00+01:00"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.tag", Value: "v1.4.0"},
	}))

	assert.Equal(t, "0123456", Commit)
	assert.Equal(t, "2024-03-01T06:00:00Z", BuildTime)
	assert.Equal(t, "1.4.0-dirty", Version)
}

func TestFillFromVCSKeepsLdflagsValues(t *testing.T) {
	withVersion(t, "0.0.0-dev", "feedbee", "2024-01-01T00:00:00Z")

	fillFromVCS(map[string]string{"revision": "0123456789abcdef", "time": "2024-03-01T06:00:00Z"})

	assert.Equal(t, "feedbee", Commit)
	assert.Equal(t, "2024-01-01T00:00:00Z", BuildTime)
	assert.Equal(t, "0.0.0-dev", Version)
}
