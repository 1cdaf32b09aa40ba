package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/services"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

var dashboardMine bool

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Browse the feed and comment interactively (alias: dash)",
	Long: `Launch a full-screen feed browser.

The selected post's comments are shown next to the list and new comments
can be written without leaving the dashboard.

Keyboard Shortcuts:
  Navigation:
    ↑/k         Move up
    ↓/j         Move down
    g           Jump to top
    G           Jump to bottom
    PgUp/PgDn   Scroll comments

  Actions:
    c / Enter   Write a comment
    y           Copy the image URL
    o           Open the image
    r           Reload the feed
    m           Toggle my posts / all posts

  Views:
    /           Filter by uploader
    Esc         Clear filter / Cancel
    ?           Show help

  General:
    q           Quit dashboard
    Ctrl+C      Force quit`,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().BoolVarP(&dashboardMine, "mine", "m", false, "Start with your own posts")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	resp, err := feedService.Execute(ctx, services.FeedRequest{Mine: dashboardMine})
	if errors.Is(err, domain.ErrNotSignedIn) {
		sessionCtx.RequireLogin()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load feed: %w", err)
	}

	// Notices raised by services while the TUI owns the terminal go to
	// the status line instead of stdout
	notices := make(chan domain.Notice, 16)
	push := func(n domain.Notice) {
		select {
		case notices <- n:
		default:
		}
	}
	notifier.setSink(push)
	navigator.setRedirect(func() {
		push(domain.WarningNotice("You are not signed in. Quit and run 'stegshare login'."))
	})
	defer notifier.setSink(nil)
	defer navigator.setRedirect(nil)

	m := newDashboardModel(ctx, resp.Posts, notices)
	m.mine = dashboardMine

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running dashboard: %w", err)
	}
	return nil
}

// Dashboard view modes
type viewMode int

const (
	modeList viewMode = iota
	modeFilter
	modeCompose
	modeHelp
)

// Dashboard model
type dashboardModel struct {
	ctx      context.Context
	posts    []domain.Post // current listing
	filtered []domain.Post // after the uploader filter
	mine     bool
	cursor   int
	offset   int
	mode     viewMode

	filterInput textinput.Model
	composer    textinput.Model
	comments    viewport.Model
	commentsFor string
	posting     bool

	help   help.Model
	keys   keyMap
	width  int
	height int
	ready  bool

	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time

	notices <-chan domain.Notice
}

// Key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Top     key.Binding
	Bottom  key.Binding
	Comment key.Binding
	Yank    key.Binding
	Open    key.Binding
	Reload  key.Binding
	Mine    key.Binding
	Filter  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
	Send    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Comment, k.Yank, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Comment, k.Yank, k.Open, k.Reload, k.Mine},
		{k.Filter, k.Help, k.Escape, k.Quit},
	}
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "move down"),
	),
	Top: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "top"),
	),
	Bottom: key.NewBinding(
		key.WithKeys("G"),
		key.WithHelp("G", "bottom"),
	),
	Comment: key.NewBinding(
		key.WithKeys("c", "enter"),
		key.WithHelp("c/enter", "comment"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy URL"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open image"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reload"),
	),
	Mine: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "my posts"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
}

func newDashboardModel(ctx context.Context, posts []domain.Post, notices <-chan domain.Notice) dashboardModel {
	fi := textinput.New()
	fi.Placeholder = "Filter by uploader..."
	fi.CharLimit = 64
	fi.Width = 40

	ci := textinput.New()
	ci.Placeholder = "Say something nice..."
	ci.CharLimit = 500
	ci.Width = 60

	vp := viewport.New(60, 20)
	vp.Style = lipgloss.NewStyle().Foreground(ui.ColorDefault)

	return dashboardModel{
		ctx:         ctx,
		posts:       posts,
		filtered:    posts,
		mode:        modeList,
		filterInput: fi,
		composer:    ci,
		comments:    vp,
		help:        help.New(),
		keys:        keys,
		notices:     notices,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForNotice(m.notices)}
	if p, ok := m.selected(); ok {
		cmds = append(cmds, m.loadComments(p.ID))
	}
	return tea.Batch(cmds...)
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true

		m.comments.Width = m.width - m.listWidth() - 6
		if m.comments.Width < 20 {
			m.comments.Width = 20
		}
		m.comments.Height = m.height - 12
		if m.comments.Height < 5 {
			m.comments.Height = 5
		}
		m.composer.Width = m.width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeCompose:
			return m.updateCompose(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateList(msg)
		}

	case noticeMsg:
		m.setStatus(domain.Notice(msg))
		return m, tea.Batch(waitForNotice(m.notices), clearAfter(4*time.Second))

	case statusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, clearAfter(3 * time.Second)

	case clearMessageMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case feedLoadedMsg:
		if msg.err != nil {
			return m, statusCmd("Could not load feed: "+msg.err.Error(), ui.StyleError)
		}
		m.posts = msg.posts
		m.applyFilter()
		if p, ok := m.selected(); ok {
			return m, m.loadComments(p.ID)
		}
		m.commentsFor = ""
		m.comments.SetContent("")
		return m, nil

	case commentsLoadedMsg:
		// ignore replies for a post that is no longer selected
		if p, ok := m.selected(); !ok || p.ID != msg.postID {
			return m, nil
		}
		m.commentsFor = msg.postID
		if msg.err != nil {
			m.comments.SetContent(ui.StyleMuted.Render("Could not load comments: " + msg.err.Error()))
			return m, nil
		}
		m.comments.SetContent(renderCommentList(msg.comments, m.comments.Width))
		m.comments.GotoTop()
		return m, nil

	case commentPostedMsg:
		m.posting = false
		if msg.result.Status == services.CommentCreated {
			m.composer.SetValue("")
			if m.commentsFor == msg.postID {
				m.comments.SetContent(renderCommentList(commentService.Thread(msg.postID).Comments(), m.comments.Width))
				m.comments.GotoBottom()
			}
		}
		return m, nil
	}

	if m.mode == modeList {
		var cmd tea.Cmd
		m.comments, cmd = m.comments.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
			return m, m.selectionChanged()
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.adjustViewport()
			return m, m.selectionChanged()
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.offset = 0
		return m, m.selectionChanged()

	case key.Matches(msg, m.keys.Bottom):
		if len(m.filtered) > 0 {
			m.cursor = len(m.filtered) - 1
			m.adjustViewport()
			return m, m.selectionChanged()
		}

	case msg.Type == tea.KeyPgUp:
		m.comments.ViewUp()

	case msg.Type == tea.KeyPgDown:
		m.comments.ViewDown()

	case key.Matches(msg, m.keys.Comment):
		if _, ok := m.selected(); ok && !m.posting {
			m.mode = modeCompose
			m.composer.Focus()
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Yank):
		if p, ok := m.selected(); ok {
			return m, yankURL(p)
		}

	case key.Matches(msg, m.keys.Open):
		if p, ok := m.selected(); ok {
			return m, openImage(p)
		}

	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()

	case key.Matches(msg, m.keys.Mine):
		m.mine = !m.mine
		m.cursor = 0
		m.offset = 0
		return m, m.reload()

	case key.Matches(msg, m.keys.Filter):
		m.mode = modeFilter
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
	}

	return m, nil
}

func (m dashboardModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = modeList
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.applyFilter()
		return m, m.selectionChanged()

	case msg.Type == tea.KeyEnter:
		m.mode = modeList
		m.filterInput.Blur()
		return m, nil

	case msg.Type == tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
			m.adjustViewport()
			return m, m.selectionChanged()
		}

	case msg.Type == tea.KeyDown:
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.adjustViewport()
			return m, m.selectionChanged()
		}

	default:
		var cmd tea.Cmd
		before := m.filterInput.Value()
		m.filterInput, cmd = m.filterInput.Update(msg)
		if m.filterInput.Value() != before {
			m.applyFilter()
			return m, tea.Batch(cmd, m.selectionChanged())
		}
		return m, cmd
	}

	return m, nil
}

func (m dashboardModel) updateCompose(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		// the draft text is kept for the next attempt
		m.mode = modeList
		m.composer.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Send):
		p, ok := m.selected()
		if !ok {
			m.mode = modeList
			m.composer.Blur()
			return m, nil
		}
		text := m.composer.Value()
		if domain.NormalizeCommentText(text) == "" {
			return m, nil
		}
		m.mode = modeList
		m.composer.Blur()
		m.posting = true
		return m, m.postComment(p.ID, text)

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m dashboardModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if !m.ready {
		return "\n  Loading dashboard..."
	}
	if m.mode == modeHelp {
		return m.viewHelp()
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n")
	s.WriteString(m.renderFilterBar())
	s.WriteString("\n\n")

	listWidth := m.listWidth()
	listLines := strings.Split(m.renderPostList(listWidth), "\n")
	commentLines := strings.Split(m.renderComments(), "\n")

	rows := len(listLines)
	if len(commentLines) > rows {
		rows = len(commentLines)
	}
	for i := 0; i < rows; i++ {
		var left, right string
		if i < len(listLines) {
			left = listLines[i]
		}
		if i < len(commentLines) {
			right = commentLines[i]
		}
		s.WriteString(padRight(left, listWidth))
		s.WriteString("  ")
		s.WriteString(right)
		s.WriteString("\n")
	}

	if m.mode == modeCompose {
		s.WriteString(m.renderComposer())
		s.WriteString("\n")
	}
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m dashboardModel) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ui.ColorPrimary).
		Padding(1, 2)

	var s strings.Builder
	s.WriteString(titleStyle.Render("stegshare dashboard - Keyboard Shortcuts"))
	s.WriteString("\n\n")

	h := m.help
	h.ShowAll = true
	s.WriteString(lipgloss.NewStyle().Padding(0, 2).Render(h.View(m.keys)))
	s.WriteString("\n\n")
	s.WriteString(ui.StyleMuted.Render("  Comments are screened before posting; negative ones are not sent."))
	s.WriteString("\n")
	s.WriteString(ui.StyleMuted.Render("  Press ESC or ? to return to dashboard"))
	s.WriteString("\n")
	return s.String()
}

func (m dashboardModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ui.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	statsStyle := lipgloss.NewStyle().
		Foreground(ui.ColorMuted).
		Align(lipgloss.Right)

	scope := "Feed"
	if m.mine {
		scope = "My posts"
	}
	title := titleStyle.Render(ui.IconImage + " stegshare · " + scope)
	stats := statsStyle.Render(fmt.Sprintf("%d posts  %s", len(m.filtered), sessionLabel()))

	spacer := m.width - lipgloss.Width(title) - lipgloss.Width(stats)
	if spacer < 0 {
		spacer = 0
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Repeat(" ", spacer), stats)
}

func sessionLabel() string {
	if sessionCtx == nil {
		return ""
	}
	if _, ok := sessionCtx.Credential(); !ok {
		return ui.IconLock + " signed out"
	}
	return "@" + sessionCtx.Identity()
}

func (m dashboardModel) renderFilterBar() string {
	borderColor := ui.ColorMuted
	if m.mode == modeFilter {
		borderColor = ui.ColorPrimary
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.width - 4)

	content := m.filterInput.View()
	if m.mode != modeFilter && m.filterInput.Value() == "" {
		content = ui.StyleMuted.Render("Press / to filter by uploader...")
	}
	return style.Render(content)
}

func (m dashboardModel) renderPostList(width int) string {
	if len(m.filtered) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Padding(1, 2).
			Width(width)
		if m.filterInput.Value() != "" {
			return empty.Render("No posts match your filter.")
		}
		return empty.Render("No posts yet. Upload one with 'stegshare upload'.")
	}

	var s strings.Builder
	end := m.offset + m.listHeight()
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		s.WriteString(m.renderPostItem(m.filtered[i], i == m.cursor, width))
		if i < end-1 {
			s.WriteString("\n")
		}
	}
	return s.String()
}

func (m dashboardModel) renderPostItem(p domain.Post, selected bool, width int) string {
	cursor := "  "
	idStyle := ui.StyleAccent
	nameStyle := lipgloss.NewStyle().Foreground(ui.ColorDefault)
	if selected {
		cursor = ui.StylePrimary.Render("▶ ")
		nameStyle = ui.StylePrimary.Copy().Bold(true)
	}

	when := relativeTime(p.CreatedAt)
	name := displayUploader(p)
	// cursor, id column, spacing and date
	room := width - 2 - 7 - 2 - lipgloss.Width(when)
	if room < 6 {
		room = 6
	}
	if runes := []rune(name); len(runes) > room {
		name = string(runes[:room-1]) + "…"
	}

	return fmt.Sprintf("%s%s %s  %s",
		cursor,
		idStyle.Render(fmt.Sprintf("%-6s", "#"+p.ID)),
		nameStyle.Render(padRight(name, room)),
		ui.StyleMuted.Render(when),
	)
}

func (m dashboardModel) renderComments() string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Width(m.comments.Width + 2)

	p, ok := m.selected()
	if !ok {
		return border.Render(ui.StyleMuted.Render("No post selected"))
	}

	var s strings.Builder
	s.WriteString(ui.StylePrimary.Render(ui.IconComment + " #" + p.ID + " by " + displayUploader(p)))
	s.WriteString("\n")
	if p.MediaURL != "" {
		s.WriteString(ui.StyleMuted.Render(p.MediaURL))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	if m.commentsFor != p.ID {
		s.WriteString(ui.StyleMuted.Render("Loading comments..."))
	} else {
		s.WriteString(m.comments.View())
	}
	return border.Render(s.String())
}

func (m dashboardModel) renderComposer() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(0, 1).
		Width(m.width - 4)
	return style.Render(ui.StylePrimary.Render("Comment: ") + m.composer.View())
}

func (m dashboardModel) renderFooter() string {
	status := ui.StyleMuted.Render("Ready")
	switch {
	case m.posting:
		status = ui.StyleInfo.Render("Posting comment...")
	case m.message != "" && time.Now().Before(m.messageExpiry):
		status = m.messageStyle.Render(m.message)
	}

	footerStyle := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1)

	return footerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, status, m.help.View(m.keys)))
}

// renderCommentList formats a thread for the comments pane
func renderCommentList(comments []domain.Comment, width int) string {
	if len(comments) == 0 {
		return ui.StyleMuted.Render("No comments yet. Press c to write one.")
	}
	body := lipgloss.NewStyle().Width(width).PaddingLeft(2)

	var s strings.Builder
	for i, c := range comments {
		if i > 0 {
			s.WriteString("\n")
		}
		s.WriteString(ui.StyleBold.Render(c.DisplayIdentity()))
		if !c.CreatedAt.IsZero() {
			s.WriteString(ui.StyleMuted.Render(" · " + relativeTime(c.CreatedAt)))
		}
		if c.Pending {
			s.WriteString(ui.StyleMuted.Render(" · pending"))
		}
		s.WriteString("\n")
		s.WriteString(body.Render(c.Text))
		s.WriteString("\n")
	}
	return s.String()
}

func (m dashboardModel) selected() (domain.Post, bool) {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return domain.Post{}, false
	}
	return m.filtered[m.cursor], true
}

// selectionChanged loads comments for the newly selected post
func (m dashboardModel) selectionChanged() tea.Cmd {
	p, ok := m.selected()
	if !ok || p.ID == m.commentsFor {
		return nil
	}
	return m.loadComments(p.ID)
}

func (m dashboardModel) listWidth() int {
	w := int(float64(m.width) * 0.4)
	if w < 30 {
		w = 30
	}
	return w
}

func (m dashboardModel) listHeight() int {
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func (m *dashboardModel) adjustViewport() {
	listHeight := m.listHeight()
	if m.cursor >= m.offset+listHeight {
		m.offset = m.cursor - listHeight + 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

func (m *dashboardModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	if query == "" {
		m.filtered = m.posts
	} else {
		m.filtered = nil
		for _, p := range m.posts {
			if strings.Contains(strings.ToLower(p.Identity), query) {
				m.filtered = append(m.filtered, p)
			}
		}
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.adjustViewport()
}

func (m *dashboardModel) setStatus(n domain.Notice) {
	msg, _, _ := strings.Cut(n.Message, "\n")
	m.message = msg
	switch n.Level {
	case domain.NoticeSuccess:
		m.messageStyle = ui.StyleSuccess
	case domain.NoticeWarning:
		m.messageStyle = ui.StyleWarning
	case domain.NoticeError:
		m.messageStyle = ui.StyleError
	default:
		m.messageStyle = ui.StyleInfo
	}
	m.messageExpiry = time.Now().Add(4 * time.Second)
}

func padRight(s string, width int) string {
	realLen := lipgloss.Width(s)
	if realLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-realLen)
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dw ago", int(d.Hours()/(24*7)))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%dmo ago", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%dy ago", int(d.Hours()/(24*365)))
	}
}

// Commands

type statusMsg struct {
	message string
	style   lipgloss.Style
}

type clearMessageMsg struct{}

type noticeMsg domain.Notice

type feedLoadedMsg struct {
	posts []domain.Post
	err   error
}

type commentsLoadedMsg struct {
	postID   string
	comments []domain.Comment
	err      error
}

type commentPostedMsg struct {
	postID string
	result services.CommentResult
}

func statusCmd(message string, style lipgloss.Style) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{message: message, style: style}
	}
}

func clearAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}

// waitForNotice delivers the next service notice as a message
func waitForNotice(ch <-chan domain.Notice) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return noticeMsg(n)
	}
}

func (m dashboardModel) reload() tea.Cmd {
	ctx, mine := m.ctx, m.mine
	return func() tea.Msg {
		resp, err := feedService.Execute(ctx, services.FeedRequest{Mine: mine})
		if err != nil {
			return feedLoadedMsg{err: err}
		}
		return feedLoadedMsg{posts: resp.Posts}
	}
}

func (m dashboardModel) loadComments(postID string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		comments, err := commentService.Load(ctx, postID)
		return commentsLoadedMsg{postID: postID, comments: comments, err: err}
	}
}

func (m dashboardModel) postComment(postID, text string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		// outcome notices arrive through the notifier sink
		res := commentService.Post(ctx, postID, text)
		return commentPostedMsg{postID: postID, result: res}
	}
}

func yankURL(p domain.Post) tea.Cmd {
	return func() tea.Msg {
		if p.MediaURL == "" {
			return statusMsg{message: "Post #" + p.ID + " has no image URL", style: ui.StyleWarning}
		}
		if err := clipboard.WriteAll(p.MediaURL); err != nil {
			return statusMsg{message: "Could not copy: " + err.Error(), style: ui.StyleError}
		}
		return statusMsg{message: "Copied " + p.MediaURL, style: ui.StyleSuccess}
	}
}

func openImage(p domain.Post) tea.Cmd {
	return func() tea.Msg {
		if p.MediaURL == "" {
			return statusMsg{message: "Post #" + p.ID + " has no image URL", style: ui.StyleWarning}
		}
		viewer := ""
		if appConfig != nil {
			viewer = appConfig.ImageViewer
		}
		if err := OpenTarget(p.MediaURL, viewer); err != nil {
			return statusMsg{message: err.Error(), style: ui.StyleError}
		}
		return statusMsg{message: "Opened #" + p.ID, style: ui.StyleSuccess}
	}
}
