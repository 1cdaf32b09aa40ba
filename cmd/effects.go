package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/kamal-hamza/stegshare-cli/internal/core/domain"
	"github.com/kamal-hamza/stegshare-cli/internal/core/ports"
	"github.com/kamal-hamza/stegshare-cli/pkg/ui"
)

// cliNotifier prints notices to the terminal. A sink, when set, receives
// notices instead (the dashboard routes them into its status line).
type cliNotifier struct {
	mu   sync.Mutex
	out  io.Writer
	sink func(domain.Notice)
}

func newCLINotifier(out io.Writer) *cliNotifier {
	return &cliNotifier{out: out}
}

var _ ports.Notifier = (*cliNotifier)(nil)

func (n *cliNotifier) Notify(notice domain.Notice) {
	n.mu.Lock()
	sink := n.sink
	n.mu.Unlock()
	if sink != nil {
		sink(notice)
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.out, renderNotice(notice))
}

// setSink redirects notices; nil restores terminal output
func (n *cliNotifier) setSink(sink func(domain.Notice)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sink = sink
}

func renderNotice(notice domain.Notice) string {
	// multi-line messages keep their first line on the icon row
	head, rest, _ := strings.Cut(notice.Message, "\n")

	var line string
	switch notice.Level {
	case domain.NoticeSuccess:
		line = ui.FormatSuccess(head)
	case domain.NoticeWarning:
		line = ui.FormatWarning(head)
	case domain.NoticeError:
		line = ui.FormatError(head)
	default:
		line = ui.FormatInfo(head)
	}

	if rest = strings.Trim(rest, "\n"); rest != "" {
		line = ui.FormatBlock(line, rest)
	}
	if notice.Detail != "" {
		line += "\n" + indent(ui.HighlightJSON(notice.Detail))
	}
	return line
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}

// cliNavigator has no views to switch; it points the user at the login
// command. The dashboard installs a redirect hook while it owns the terminal.
type cliNavigator struct {
	mu       sync.Mutex
	out      io.Writer
	redirect func()
}

func newCLINavigator(out io.Writer) *cliNavigator {
	return &cliNavigator{out: out}
}

var _ ports.Navigator = (*cliNavigator)(nil)

func (n *cliNavigator) RedirectToLogin() {
	n.mu.Lock()
	redirect := n.redirect
	n.mu.Unlock()
	if redirect != nil {
		redirect()
		return
	}
	fmt.Fprintln(n.out, ui.FormatWarning("You are not signed in. Run 'stegshare login' to continue."))
}

func (n *cliNavigator) setRedirect(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.redirect = fn
}
