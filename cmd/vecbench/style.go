package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

type field struct {
	label string
	value string
}

func printSection(w io.Writer, title string, fields []field) {
	var b strings.Builder
	b.WriteString("\n" + headerStyle.Render(title) + "\n")
	for _, f := range fields {
		b.WriteString(labelStyle.Render(f.label) + valueStyle.Render(f.value) + "\n")
	}
	fmt.Fprint(w, b.String())
}

func formatBytes(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
}
