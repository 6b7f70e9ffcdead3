package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	oldV, oldD, oldC := buildVersion, buildDate, buildCommit
	t.Cleanup(func() { buildVersion, buildDate, buildCommit = oldV, oldD, oldC })

	buildVersion, buildDate, buildCommit = "v1.2.3", "", "abc123"

	var buf bytes.Buffer
	PrintBuildData(&buf)

	assert.Equal(t, "Build version: v1.2.3\nBuild date: N/A\nBuild commit: abc123\n", buf.String())
}

func TestGet_Defaults(t *testing.T) {
	oldV, oldD := buildVersion, buildDate
	t.Cleanup(func() { buildVersion, buildDate = oldV, oldD })
	buildVersion, buildDate = "", ""

	info := Get()
	assert.Equal(t, notAvailable, info.Version)
	assert.Equal(t, notAvailable, info.Date)
	assert.NotEmpty(t, info.Commit)
}
