package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette, named the way the deleted internal/ui/table.go's
// ColorAccent/ColorWarn/ColorPass/ColorMuted constants were used
// (definitions weren't retrieved in this pack; reconstructed from
// their call sites in table.go/init_render.go/graph_render.go).
var (
	ColorAccent = lipgloss.Color("63")  // blue-violet, headers and next-step hints
	ColorPass   = lipgloss.Color("42")  // green, passed gates / success
	ColorWarn   = lipgloss.Color("214") // amber, advisory findings
	ColorFail   = lipgloss.Color("203") // red, violations / blocked gates
	ColorMuted  = lipgloss.Color("243") // grey, borders and secondary text
)

// renderer pins every style in this package to the color profile
// ShouldUseColor already decided on, instead of lipgloss's own
// default (which only looks at stdout's TTY-ness and would re-enable
// escape codes that NO_COLOR or a non-color TERM just turned off).
var renderer = func() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	if !ShouldUseColor() {
		r.SetColorProfile(termenv.Ascii)
	}
	return r
}()

var (
	headerStyle = renderer.NewStyle().Bold(true).Foreground(ColorAccent)
	warnStyle   = renderer.NewStyle().Foreground(ColorWarn)
	failStyle   = renderer.NewStyle().Foreground(ColorFail).Bold(true)
	passStyle   = renderer.NewStyle().Foreground(ColorPass)
	mutedStyle  = renderer.NewStyle().Foreground(ColorMuted)
)
