// Package main provides the verify command-line tool for checking an output
// table (and optionally its inputs) against a run manifest.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"newsflat/pkg/metadata"
)

func main() {
	manifestPath := flag.String("manifest", "", "Path to the YAML run manifest")
	checkInputs := flag.Bool("inputs", false, "Also verify every recorded input file")
	flag.Parse()

	if *manifestPath == "" {
		fmt.Println("Usage: verify -manifest <path> [-inputs]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	m, err := metadata.Load(*manifestPath)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	fmt.Printf("📂 Manifest: %s (run %s, %d inputs)\n", *manifestPath, m.RunID, len(m.Inputs))

	failed := false

	if _, err := metadata.Verify(m); err != nil {
		fmt.Printf("❌ Output: %v\n", err)

		failed = true
	} else {
		fmt.Printf("✅ Output: %s (%d rows, %d columns)\n", m.Output.Path, m.Output.Rows, len(m.Output.Columns))
	}

	if *checkInputs {
		errs := metadata.VerifyInputs(m)
		for _, e := range errs {
			fmt.Printf("❌ Input: %v\n", e)
		}

		if len(errs) > 0 {
			failed = true
		} else {
			fmt.Printf("✅ Inputs: %d unchanged\n", len(m.Inputs))
		}
	}

	if failed {
		os.Exit(1)
	}
}
