// Command cooldownsim runs cooldown scenarios described in TOML files.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/cooldown/cmd/cooldownsim/cmd"
)

func main() {
	cmd.Execute()
	atexit.Exit(0)
}
