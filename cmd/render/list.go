package main

import (
	"flag"
	"fmt"
	"io"
	"sort"
)

type listCommand struct {
	output io.Writer
}

func (cmd *listCommand) Name() string {
	return "list"
}

func (cmd *listCommand) Help() string {
	return "Show the list of available backends"
}

func (cmd *listCommand) Register(*flag.FlagSet) {}

func (cmd *listCommand) Run() error {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(cmd.output, "Available backends:")
	for _, name := range names {
		fmt.Fprintf(cmd.output, "\t%s\t%s\n", name, backends[name].help)
	}
	return nil
}
