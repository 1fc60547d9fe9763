package convsim

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Run parses flags and executes the selected command.
func Run(args []string) {
	setGlobals(extractFlag(args, "-f", "--config"), extractFlag(args, "", "--events"))

	opts := &Options{}
	opts.Init(firstCommand(args))

	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.SubcommandsOptional = true
	_, err := parser.ParseArgs(args)
	closeRuntime()
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		log.Fatalf("%v", err)
	}
	if opts.Version {
		fmt.Println(Version())
		return
	}
	if parser.Active == nil {
		parser.WriteHelp(os.Stdout)
	}
}

// extractFlag scans raw args for a global flag value before full parsing so
// that the runtime can be initialised by sub-command Execute.
func extractFlag(args []string, short, long string) string {
	for i, a := range args {
		switch {
		case a == long || (short != "" && a == short):
			if i+1 < len(args) {
				return args[i+1]
			}
		case strings.HasPrefix(a, long+"="):
			return strings.TrimPrefix(a, long+"=")
		}
	}
	return ""
}

// firstCommand returns the first argument naming a sub-command, skipping global flags.
func firstCommand(args []string) string {
	for _, a := range args {
		switch a {
		case "simulate", "batch", "serve", "show", "templates", "judge":
			return a
		}
	}
	return ""
}

// RunWithCommands is the binary entry point.
func RunWithCommands(args []string) {
	Run(args)
}
