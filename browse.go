package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yanlinsun/bookeditor/internal/book"
	"github.com/yanlinsun/bookeditor/internal/state"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000"))
)

var fresh bool

var browseCmd = &cobra.Command{
	Use:   "browse FILE",
	Short: "Browse chapters in the terminal",
	Long: `Browse the rebuilt book chapter by chapter.

The last chapter opened is remembered per file content, so browsing a
renamed copy resumes where you left off.

Controls:
  ENTER    Open chapter
  ESC      Back to the chapter list
  n/p      Next/previous chapter
  i        Show/hide ignored chapters
  /        Filter chapters
  Q        Quit`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		b, err := loadBook(filename)
		if err != nil {
			return err
		}

		store, err := state.Open(cfgManager.Get().StateDir)
		if err != nil {
			return err
		}
		hash, err := state.ComputeHash(filename)
		if err != nil {
			return err
		}
		if fresh {
			if err := store.Clear(hash); err != nil {
				return err
			}
		}

		m := newModel(b, store, hash)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err = p.Run()
		return err
	},
}

func init() {
	browseCmd.Flags().BoolVar(&fresh, "fresh", false, "ignore the remembered chapter")
}

type chapterItem struct {
	ch *book.Chapter
}

func (i chapterItem) Title() string {
	t := strings.Repeat("  ", i.ch.Indent) + i.ch.Title
	if i.ch.Ignore {
		t += " (ignored)"
	}
	return t
}

func (i chapterItem) Description() string {
	return fmt.Sprintf("%s%s · %d chars", strings.Repeat("  ", i.ch.Indent), i.ch.ID, i.ch.Len())
}

func (i chapterItem) FilterValue() string { return i.ch.Title }

type model struct {
	book        *book.Book
	store       *state.Store
	hash        string
	list        list.Model
	view        viewport.Model
	reading     *book.Chapter
	showIgnored bool
	err         error
	width       int
	height      int
}

func newModel(b *book.Book, store *state.Store, hash string) model {
	l := list.New(chapterItems(b, false), list.NewDefaultDelegate(), 80, 23)
	l.Title = b.Title
	m := model{
		book:   b,
		store:  store,
		hash:   hash,
		list:   l,
		view:   viewport.New(80, 22),
		width:  80,
		height: 24,
	}

	if store != nil {
		if id := store.GetChapter(hash); id != "" {
			if i := m.indexOf(id); i >= 0 {
				m.open(i)
			}
		}
	}
	return m
}

func chapterItems(b *book.Book, withIgnored bool) []list.Item {
	chapters := b.Chapters()
	if withIgnored {
		chapters = append(chapters, b.Ignored()...)
	}
	items := make([]list.Item, 0, len(chapters))
	for _, c := range chapters {
		items = append(items, chapterItem{ch: c})
	}
	return items
}

// indexOf returns the position of id among the items the list shows, which
// is the index space of Index and Select.
func (m model) indexOf(id string) int {
	for i, it := range m.list.VisibleItems() {
		if it.(chapterItem).ch.ID == id {
			return i
		}
	}
	return -1
}

// open shows the chapter at visible index i and remembers it.
func (m *model) open(i int) {
	items := m.list.VisibleItems()
	if i < 0 || i >= len(items) {
		return
	}
	ch := items[i].(chapterItem).ch
	m.list.Select(i)
	m.reading = ch
	m.view.SetContent(renderChapter(ch, m.view.Width))
	m.view.GotoTop()
	if m.store != nil {
		m.err = m.store.SetChapter(m.hash, ch.ID, ch.Title)
	}
}

func renderChapter(ch *book.Chapter, width int) string {
	body := strings.Join(ch.Paragraphs(), "\n\n")
	if width > 0 {
		body = lipgloss.NewStyle().Width(width).Render(body)
	}
	return body
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-1)
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-2, 1)
		if m.reading != nil {
			m.view.SetContent(renderChapter(m.reading, m.view.Width))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.reading != nil {
			return m.updateReading(msg)
		}
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "q", "Q":
				return m, tea.Quit
			case "enter":
				m.open(m.list.Index())
				return m, nil
			case "i":
				m.showIgnored = !m.showIgnored
				var current string
				if it, ok := m.list.SelectedItem().(chapterItem); ok {
					current = it.ch.ID
				}
				cmd := m.list.SetItems(chapterItems(m.book, m.showIgnored))
				if i := m.indexOf(current); i >= 0 {
					m.list.Select(i)
				}
				return m, cmd
			}
		}
	}

	if m.reading != nil {
		var cmd tea.Cmd
		m.view, cmd = m.view.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updateReading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "q", "Q":
		m.reading = nil
		return m, nil
	case "n":
		m.open(m.list.Index() + 1)
		return m, nil
	case "p":
		m.open(m.list.Index() - 1)
		return m, nil
	}
	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.reading == nil {
		return m.list.View()
	}

	current := m.list.Index() + 1
	total := len(m.list.VisibleItems())
	header := headerStyle.Render(m.reading.Title) +
		statusStyle.Render(fmt.Sprintf("%d/%d | %3.f%%", current, total, m.view.ScrollPercent()*100))

	controls := controlsStyle.Render("↑/↓: scroll  n/p: next/prev  ESC: chapters  Q: back")
	if m.err != nil {
		controls = errorStyle.Render(m.err.Error())
	}

	return header + "\n" + m.view.View() + "\n" + controls
}
