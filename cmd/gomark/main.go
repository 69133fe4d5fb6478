package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses args and executes the selected command, mapping errors to the
// exit codes the CLI surface specifies: 0 success, 2 invalid options, 1
// runtime error.
func run(args []string) int {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("gomark"),
		kong.Description("Convert Markdown to HTML"),
		kong.UsageOnError(),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	if err := ctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var usage *usageError
		if errors.As(err, &usage) {
			return 2
		}
		return 1
	}

	return 0
}
