package console

import (
	"strings"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
)

func TestCoverageBar(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	assert.Equal(t, "", CoverageBar(1, 0))
	assert.Equal(t, strings.Repeat("█", 12), CoverageBar(3, 3))
	assert.Equal(t, strings.Repeat("░", 12), CoverageBar(0, 3))
	assert.Equal(t, strings.Repeat("█", 4)+strings.Repeat("░", 8), CoverageBar(1, 3))
}

func TestTableRender(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	table := NewConsole().CreateTable()
	table.AddColumn("Center")
	table.AddColumn("Generated")
	table.AddRow("c1", 3)

	out := table.Render()
	assert.Contains(t, out, "Center")
	assert.Contains(t, out, "c1")
	assert.Contains(t, out, "3")
}
