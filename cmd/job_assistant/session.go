package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-assistant/internal/assistant"
	"github.com/jonathan/job-assistant/internal/observability"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive session",
	Long: `Starts a line-oriented session that keeps the active resume analysis, the answer form and
the saved answers between commands. Type "help" for the list of commands.`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	rt.session.Start(cmd.Context())
	r := newREPL(rt.session, rt.printer, cmd.InOrStdin(), cmd.OutOrStdout())
	return r.run(cmd.Context())
}

const replHelp = `Commands:
  analyze <text>       analyze resume text; "analyze" alone reads lines until a single "."
  job <title>          set the target job title ("job" alone clears it)
  company <name>       set the target company ("company" alone clears it)
  ask <question>       generate an answer for the active analysis
  answers              list the saved answers of the active analysis
  refresh              reload the saved answers
  select <id>          show a saved answer
  delete-answer <id>   delete a saved answer
  delete-analysis      delete the active analysis
  focus <id>           make an existing analysis active
  clear                reset the resume workflow
  status               show the backend status
  show                 show the session state
  help                 show this help
  quit                 leave the session`

// repl reads commands line by line and drives one session.
type repl struct {
	session *assistant.Session
	printer *observability.Printer
	in      *bufio.Scanner
	out     io.Writer
	form    assistant.GenerateInput
}

func newREPL(session *assistant.Session, printer *observability.Printer, in io.Reader, out io.Writer) *repl {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &repl{session: session, printer: printer, in: scanner, out: out}
}

func (r *repl) prompt() {
	_, _ = fmt.Fprint(r.out, "> ")
}

func (r *repl) run(ctx context.Context) error {
	_, _ = fmt.Fprintln(r.out, `Job assistant session. Type "help" for commands.`)
	r.prompt()
	for r.in.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if quit := r.exec(ctx, r.in.Text()); quit {
			return nil
		}
		r.prompt()
	}
	return r.in.Err()
}

// exec runs one command line. It reports true when the session should end.
func (r *repl) exec(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch name {
	case "analyze":
		text := rest
		if text == "" {
			text = r.readBlock()
		}
		analysis, err := r.session.Analyze(ctx, text)
		if err != nil {
			r.printer.PrintFailure(err)
			return false
		}
		r.printer.PrintAnalysis(analysis)
		r.session.Wait()
		r.printer.PrintAnswerList(r.session.Active(), r.session.Answers())

	case "job":
		r.form.JobTitle = rest
	case "company":
		r.form.CompanyName = rest

	case "ask":
		in := r.form
		in.Question = rest
		answer, err := r.session.Generate(ctx, in)
		if err != nil {
			r.printer.PrintFailure(err)
			return false
		}
		r.printer.PrintAnswer(answer)
		r.session.Wait()

	case "answers":
		r.printer.PrintAnswerList(r.session.Active(), r.session.Answers())

	case "refresh":
		active := r.session.Active()
		if active == nil {
			r.printer.Notice("No active resume analysis.")
			return false
		}
		r.printer.PrintAnswerList(active, r.session.Refresh(ctx, *active))

	case "select":
		id, err := parseID(rest)
		if err != nil {
			r.printer.PrintFailure(err)
			return false
		}
		if !r.session.SelectAnswer(id) {
			r.printer.Notice("Answer %d is not among the saved answers.", id)
			return false
		}
		r.printer.PrintSession(r.session.Snapshot())

	case "delete-answer":
		id, err := parseID(rest)
		if err != nil {
			r.printer.PrintFailure(err)
			return false
		}
		if err := r.session.DeleteAnswer(ctx, id); err != nil {
			r.printer.PrintFailure(err)
			return false
		}
		r.printer.Success("Deleted answer %d", id)

	case "delete-analysis":
		active := r.session.Active()
		if err := r.session.DeleteAnalysis(ctx); err != nil {
			r.printer.PrintFailure(err)
			return false
		}
		r.printer.Success("Deleted resume analysis %d", *active)

	case "focus":
		id, err := parseID(rest)
		if err != nil {
			r.printer.PrintFailure(err)
			return false
		}
		r.printer.PrintAnswerList(&id, r.session.Focus(ctx, id))

	case "clear":
		r.session.Clear()
		r.printer.Success("Cleared resume workflow")

	case "status":
		r.session.Wait()
		r.printer.PrintStatus(r.session.Snapshot().Status)

	case "show":
		r.printer.PrintSession(r.session.Snapshot())

	case "help":
		_, _ = fmt.Fprintln(r.out, replHelp)

	case "quit", "exit":
		return true

	default:
		r.printer.Notice("Unknown command %q. Type \"help\" for commands.", name)
	}
	return false
}

// readBlock reads lines until a line holding a single "." or end of input.
func (r *repl) readBlock() string {
	var lines []string
	for r.in.Scan() {
		line := r.in.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
