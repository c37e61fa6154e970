package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shardpy/pybc/internal/asm"
	"github.com/shardpy/pybc/internal/bytecode"
	"github.com/shardpy/pybc/internal/eval"
	"github.com/shardpy/pybc/internal/trace"
)

var runCmd = &cobra.Command{
	Use:   "run <file.pasm>",
	Short: "assemble and run a pybc assembly file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := assembleFile(args[0])
		if err != nil {
			return err
		}

		ev := eval.New(code.Version)
		if opts.TraceLines || opts.TraceOpcodes {
			sess := trace.NewSession()
			trace.Attach(ev, sess)
			defer dumpTrace(sess)
		}

		result, exc := ev.RunModule(code)
		if exc != nil {
			return fmt.Errorf("running %s: %w", args[0], exc)
		}
		fmt.Println(result)
		return nil
	},
}

func assembleFile(path string) (*bytecode.CodeObject, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	code, err := asm.AssembleVersion(string(src), opts.TargetVersion())
	if err != nil {
		return nil, fmt.Errorf("assembling %s: %w", path, err)
	}
	return code, nil
}

func dumpTrace(sess *trace.Session) {
	for _, r := range sess.Records {
		fmt.Fprintf(os.Stderr, "[%s] %-10s %s:%d\n", r.Session, r.Event, r.CodeName, r.Line)
	}
}
