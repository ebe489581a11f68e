package cli

import (
	"fmt"
	"io"
	"strings"

	"ucsboard/internal/domain"

	"github.com/fatih/color"
)

// Output colors
var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// table prints a simple aligned table
func table(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header, sep strings.Builder
	for i, h := range headers {
		fmt.Fprintf(&header, "%-*s  ", widths[i], h)
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	Subtle.Fprintln(w, strings.TrimRight(header.String(), " "))
	Subtle.Fprintln(w, strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(&line, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// printTree draws a decorated tree projection with box-drawing connectors.
// The start node is marked with "▶" and goals with "◎".
func printTree(w io.Writer, root *domain.TreeNode) {
	if root == nil {
		Subtle.Fprintln(w, "(empty graph)")
		return
	}
	fmt.Fprintln(w, treeLabel(root))
	for i, child := range root.Children {
		printBranch(w, child, "", i == len(root.Children)-1)
	}
}

func printBranch(w io.Writer, n *domain.TreeNode, prefix string, last bool) {
	connector, indent := "├── ", "│   "
	if last {
		connector, indent = "└── ", "    "
	}
	fmt.Fprintln(w, prefix+Subtle.Sprint(connector)+treeLabel(n))
	for i, child := range n.Children {
		printBranch(w, child, prefix+indent, i == len(n.Children)-1)
	}
}

func treeLabel(n *domain.TreeNode) string {
	label := n.Label
	switch {
	case n.Start && n.Goal:
		label = Good.Sprint("▶ "+label) + Warn.Sprint(" ◎")
	case n.Start:
		label = Good.Sprint("▶ " + label)
	case n.Goal:
		label = Warn.Sprint("◎ " + label)
	}
	if n.Cost != nil {
		label += Subtle.Sprintf(" (%s)", formatCost(*n.Cost))
	}
	return label
}

func formatCost(c float64) string {
	return fmt.Sprintf("%g", c)
}

func formatPath(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, " → ")
}
