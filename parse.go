package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yanlinsun/bookeditor/internal/book"
)

var (
	outputFormat string
	withContent  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the rebuilt book",
	Long: `Parse a scraped thread and print the rebuilt book.

Examples:
  bookeditor parse thread.html              # YAML, chapter list only
  bookeditor parse -o json thread.html      # JSON
  bookeditor parse --content thread.html    # include chapter bodies`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBook(args[0])
		if err != nil {
			return err
		}
		return writeBook(cmd.OutOrStdout(), b, outputFormat, withContent)
	},
}

func init() {
	parseCmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "output format: yaml or json")
	parseCmd.Flags().BoolVar(&withContent, "content", false, "include chapter content")
}

type bookView struct {
	Title      string          `json:"title" yaml:"title"`
	Identifier string          `json:"identifier" yaml:"identifier"`
	Author     *string         `json:"author,omitempty" yaml:"author,omitempty"`
	Date       string          `json:"date,omitempty" yaml:"date,omitempty"`
	Publisher  *string         `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Language   *string         `json:"language,omitempty" yaml:"language,omitempty"`
	Chapters   []*book.Chapter `json:"chapters" yaml:"chapters"`
	Ignored    []*book.Chapter `json:"ignored,omitempty" yaml:"ignored,omitempty"`
}

func newBookView(b *book.Book, withContent bool) bookView {
	v := bookView{
		Title:      b.Title,
		Identifier: b.Identifier(),
		Author:     b.Author,
		Publisher:  b.Publisher,
		Language:   b.Language,
		Chapters:   copyChapters(b.Chapters(), withContent),
		Ignored:    copyChapters(b.Ignored(), withContent),
	}
	if b.Date != nil {
		v.Date = b.Date.Format(time.DateOnly)
	}
	return v
}

func copyChapters(in []*book.Chapter, withContent bool) []*book.Chapter {
	out := make([]*book.Chapter, 0, len(in))
	for _, c := range in {
		cp := *c
		if !withContent {
			cp.Content = ""
		}
		out = append(out, &cp)
	}
	return out
}

func writeBook(w io.Writer, b *book.Book, format string, withContent bool) error {
	v := newBookView(b, withContent)
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (want yaml or json)", format)
	}
}
