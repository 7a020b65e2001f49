package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/gyaneshwarpardhi/scandal/internal/analysis"
)

const (
	promptText = "Email address of the individual (or EXIT to quit): "
	exitWord   = "EXIT"
)

// session is the read-query-print loop over one snapshot.
type session struct {
	snap   *analysis.Snapshot
	in     io.Reader
	out    io.Writer
	prompt bool

	addr     lipgloss.Style
	count    lipgloss.Style
	notFound lipgloss.Style
}

func newSession(s *analysis.Snapshot, in io.Reader, out io.Writer) *session {
	r := lipgloss.NewRenderer(out)
	return &session{
		snap:     s,
		in:       in,
		out:      out,
		prompt:   isTerminal(in),
		addr:     r.NewStyle().Bold(true),
		count:    r.NewStyle().Foreground(lipgloss.Color("6")),
		notFound: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// isTerminal reports whether in is an interactive terminal; the prompt is
// only printed then.
func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loop answers one address per line until EXIT (any case) or end of input.
func (s *session) loop() error {
	sc := bufio.NewScanner(s.in)
	for {
		if s.prompt {
			fmt.Fprint(s.out, promptText)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if strings.EqualFold(line, exitWord) {
			return nil
		}
		if line == "" {
			continue
		}
		s.answer(line)
	}
}

func (s *session) answer(addr string) {
	st, found := s.snap.Query(addr)
	if !found {
		fmt.Fprintln(s.out, s.notFound.Render(fmt.Sprintf("Email address (%s) not found in the dataset.", addr)))
		return
	}
	name := s.addr.Render(addr)
	fmt.Fprintf(s.out, "* %s has sent messages to %s others\n", name, s.count.Render(fmt.Sprint(st.SentTo)))
	fmt.Fprintf(s.out, "* %s has received messages from %s others\n", name, s.count.Render(fmt.Sprint(st.ReceivedFrom)))
	fmt.Fprintf(s.out, "* %s is in a team with %s individuals\n", name, s.count.Render(fmt.Sprint(st.TeamSize)))
}
