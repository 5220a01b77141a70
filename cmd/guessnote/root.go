//go:build !js
// +build !js

package main

import (
	"github.com/spf13/cobra"

	"github.com/simukka/guessnote/common"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "guessnote",
	Short: "Chord ear-training game",
	Long: `guessnote plays three chords of a four chord progression and asks
which chord completes it. Five rounds, ten seconds each.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			common.EnableDebug = true
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug output to stderr")
}

// Execute runs the root command and exits on error.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
