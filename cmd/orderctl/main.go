// Command orderctl runs the order pipeline from the terminal: parse
// utterances as one conversation, validate a dictionary file, or inspect
// the jamo decomposition the matcher compares on.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
