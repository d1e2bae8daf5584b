package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yanlinsun/bookeditor/internal/book"
)

var (
	bookTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	chapterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	ignoredStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00AAFF")).
			MarginTop(1)
)

var showAll bool

var tocCmd = &cobra.Command{
	Use:   "toc FILE",
	Short: "Print the table of contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBook(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTOC(b, showAll))
		return nil
	},
}

func init() {
	tocCmd.Flags().BoolVarP(&showAll, "all", "a", false, "also list ignored chapters")
}

func renderTOC(b *book.Book, all bool) string {
	var sb strings.Builder
	sb.WriteString(bookTitleStyle.Render(b.Title))
	sb.WriteString("\n")
	if meta := bookMeta(b); meta != "" {
		sb.WriteString(metaStyle.Render(meta))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	for _, c := range b.Chapters() {
		sb.WriteString(chapterStyle.Render(tocLine(c)))
		sb.WriteString("\n")
	}

	if all && len(b.Ignored()) > 0 {
		sb.WriteString(sectionStyle.Render(fmt.Sprintf("Ignored (%d)", len(b.Ignored()))))
		sb.WriteString("\n")
		for _, c := range b.Ignored() {
			sb.WriteString(ignoredStyle.Render(tocLine(c)))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func tocLine(c *book.Chapter) string {
	return fmt.Sprintf("%s%s  [%s, %d]", strings.Repeat("  ", c.Indent), c.Title, c.ID, c.Len())
}

func bookMeta(b *book.Book) string {
	var parts []string
	if b.Author != nil {
		parts = append(parts, *b.Author)
	}
	if b.Date != nil {
		parts = append(parts, b.Date.Format("2006-01-02"))
	}
	if b.Publisher != nil {
		parts = append(parts, *b.Publisher)
	}
	return strings.Join(parts, " · ")
}
