package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "connectexe: %s\n", err)
		os.Exit(1)
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	opts, rest, err := parseGlobalFlags(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		usage(os.Stdout)
		return nil
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		usage(os.Stderr)
		return fmt.Errorf("unknown command %q", rest[0])
	}

	a, err := newApp(opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if !opts.quiet {
		displayAppname(a.cfg.GetAppName())
	}
	return cmd.run(a, rest[1:])
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
