// Package cmd provides the command-line interface of cooldownsim.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cooldownsim",
	Short: "cooldownsim runs ability cooldown scenarios.",
	Long: `cooldownsim runs ability cooldown scenarios described in TOML files ` +
		`and prints the effective cooldown of every granted ability.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}
