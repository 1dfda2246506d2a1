// Command navsim replays navigation scripts against the in-memory host and
// prints the page and modal stacks after every step.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
