package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"

	"github.com/cgast/contest/pkg/events"
)

// Reporter renders run events as the line-oriented report: a Starting test
// line per case, failure blocks with the expected/received quote and caret
// marker, OK! on success, and the final tally. Verdict lines are styled
// when the destination is a terminal.
type Reporter struct {
	out    io.Writer
	pass   lipgloss.Style
	fail   lipgloss.Style
	tally  lipgloss.Style
	styled bool
}

// New creates a reporter writing to out.
func New(out io.Writer) *Reporter {
	r := &Reporter{
		out:   out,
		pass:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		fail:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		tally: lipgloss.NewStyle().Bold(true),
	}
	if f, ok := out.(*os.File); ok {
		r.styled = isatty.IsTerminal(f.Fd())
	}
	return r
}

// Attach subscribes the reporter to a run event bus.
func (r *Reporter) Attach(bus *events.Bus) {
	bus.Subscribe(r.handle)
}

func (r *Reporter) handle(ev events.Event) {
	switch ev.Type {
	case events.SuiteStart:
		info := ev.Data.(events.SuiteInfo)
		fmt.Fprintf(r.out, "Found %d tests\n", info.Found)
		fmt.Fprintf(r.out, "Running %d tests\n", info.ToRun)
	case events.CaseStart:
		fmt.Fprintf(r.out, "%s - Starting test\n", ev.Case)
	case events.CheckFail:
		fmt.Fprintf(r.out, "%s - %s\n", ev.Case, ev.Data.(string))
	case events.CasePass:
		fmt.Fprintf(r.out, "%s - %s\n", ev.Case, r.style(r.pass, "OK!"))
	case events.CaseFail:
		info := ev.Data.(events.FailInfo)
		fmt.Fprintf(r.out, "%s - %s\n", ev.Case,
			r.style(r.fail, fmt.Sprintf("Failed with %d error(s)", info.Errors)))
	case events.SuiteEnd:
		tally := ev.Data.(events.Tally)
		verdict := r.tally
		if tally.Passed < tally.Total {
			verdict = verdict.Foreground(lipgloss.Color("1"))
		}
		fmt.Fprintf(r.out, "%s\n",
			r.style(verdict, fmt.Sprintf("%d/%d tests passed!", tally.Passed, tally.Total)))
	}
}

func (r *Reporter) style(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}

// SetupLogger configures the process-wide logger. Verbose forces debug
// output regardless of the configured level.
func SetupLogger(level string, verbose bool) {
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp: true,
	})

	if verbose {
		log.SetLevel(log.DebugLevel)
		return
	}
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.WarnLevel
	}
	log.SetLevel(parsed)
}
