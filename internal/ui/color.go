package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	newStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	seenStyle = lipgloss.NewStyle().Faint(true)
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, newStyle.Render("new")+"   "+path)
}

func SeenLine(w io.Writer, path string) {
	fmt.Fprintln(w, seenStyle.Render("seen")+"  "+path)
}

func SkipLine(w io.Writer, path string) {
	fmt.Fprintln(w, skipStyle.Render("skip")+"  "+path)
}

func SummaryLine(w io.Writer, features, instances int) {
	fmt.Fprintf(w, "scanned %d features, %d instances\n", features, instances)
}
