package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shardpy/pybc/internal/asm"
	"github.com/shardpy/pybc/internal/eval"
	"github.com/shardpy/pybc/internal/trace"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "read pybc assembly a program at a time and run each one",
	Long: `repl reads assembly source terminated by a blank line, assembles
it, and runs the result under a fresh evaluator. Submit ".exit" to quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return runInteractiveRepl()
		}
		return runPipedRepl(os.Stdin)
	},
}

func runInteractiveRepl() error {
	rl, err := readline.New("pybc> ")
	if err != nil {
		return fmt.Errorf("starting repl: %w", err)
	}
	defer rl.Close()

	var buf []string
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(buf) == 0 {
				break
			}
			buf = nil
			continue
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(line) == ".exit" {
			break
		}
		if strings.TrimSpace(line) == "" {
			if len(buf) > 0 {
				runSnippet(strings.Join(buf, "\n"))
				buf = nil
			}
			rl.SetPrompt("pybc> ")
			continue
		}
		buf = append(buf, line)
		rl.SetPrompt("....> ")
	}
	if len(buf) > 0 {
		runSnippet(strings.Join(buf, "\n"))
	}
	return nil
}

func runPipedRepl(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	var buf []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == ".exit" {
			break
		}
		if strings.TrimSpace(line) == "" {
			if len(buf) > 0 {
				runSnippet(strings.Join(buf, "\n"))
				buf = nil
			}
			continue
		}
		buf = append(buf, line)
	}
	if len(buf) > 0 {
		runSnippet(strings.Join(buf, "\n"))
	}
	return scanner.Err()
}

func runSnippet(src string) {
	code, err := asm.AssembleVersion(src, opts.TargetVersion())
	if err != nil {
		fmt.Fprintln(os.Stderr, "assemble error:", err)
		return
	}
	ev := eval.New(code.Version)
	if opts.TraceLines || opts.TraceOpcodes {
		sess := trace.NewSession()
		trace.Attach(ev, sess)
		defer dumpTrace(sess)
	}
	result, err := ev.RunModule(code)
	if err != nil {
		fmt.Fprintln(os.Stderr, "runtime error:", err)
		return
	}
	fmt.Println(result)
}
