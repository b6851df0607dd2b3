package simdata

import (
	"flag"
	"fmt"
	"os"
)

// ShowHelp prints usage information for the seeding tool.
func ShowHelp() {
	fmt.Fprintf(os.Stderr, `seed-matches - generate and submit synthetic match statistics

Usage:
  seed-matches [flags]

Flags:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  seed-matches -url http://localhost:9080 -matches 500
  seed-matches -matches 2000 -referees 40 -workers 8 -top 20
`)
}
