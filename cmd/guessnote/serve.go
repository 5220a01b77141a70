//go:build !js
// +build !js

package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/simukka/guessnote/server"
)

var (
	serveAddr   string
	serveAssets string
	serveOpts   = server.DefaultOptions
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser game and the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		serveOpts.StaticDir = serveAssets
		return server.New(serveOpts).ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveAssets, "assets", ".", "directory with guessnote.js and other static files")
	serveCmd.Flags().DurationVar(&serveOpts.SessionTTL, "session-ttl", serveOpts.SessionTTL, "forget sessions idle this long")
	serveCmd.Flags().IntVar(&serveOpts.EventLog, "event-log", serveOpts.EventLog, "events kept in memory")
	rootCmd.AddCommand(serveCmd)
}
