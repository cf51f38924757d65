package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrintBuildData(t *testing.T) {
	t.Run("not injected", func(t *testing.T) {
		var buf bytes.Buffer
		PrintBuildData(&buf)
		assert.Equal(t, "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n", buf.String())
		assert.Equal(t, "N/A", Version())
	})

	t.Run("injected", func(t *testing.T) {
		buildVersion, buildDate, buildCommit = "v1.0.0", "2026-10-14", "abc1234"
		t.Cleanup(func() { buildVersion, buildDate, buildCommit = "", "", "" })

		var buf bytes.Buffer
		PrintBuildData(&buf)
		assert.Contains(t, buf.String(), "Build version: v1.0.0\n")
		assert.Contains(t, buf.String(), "Build commit: abc1234\n")
	})
}
