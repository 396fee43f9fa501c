// Copyright 2026 The PotteryTracker Authors
// SPDX-License-Identifier: Apache-2.0

// pottery-archive exports a potter's workshop data into a portable
// archive container and imports such containers, optionally into a
// different potter or a different installation.
package main

import (
	"fmt"
	"os"

	"github.com/CruzerUzer/potterytracker/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	subcommand := os.Args[1]
	switch subcommand {
	case "export":
		return runExport(os.Args[2:])
	case "import":
		return runImport(os.Args[2:])
	case "list":
		return runList(os.Args[2:])
	case "version":
		fmt.Printf("pottery-archive %s\n", version.Info())
		return nil
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: pottery-archive <subcommand> [flags]

Subcommands:
  export    Export a potter's workshop into an archive container
  import    Import an archive container into a potter's workshop
  list      List archives recorded in the catalog
  version   Print version information

Run 'pottery-archive <subcommand> --help' for subcommand flags.
`)
}
