//go:build !js
// +build !js

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/bep/debounce"
	"github.com/spf13/cobra"

	"github.com/simukka/guessnote/audio"
	"github.com/simukka/guessnote/audio/native"
	"github.com/simukka/guessnote/common"
	"github.com/simukka/guessnote/game"
	"github.com/simukka/guessnote/i18n"
	"github.com/simukka/guessnote/telemetry"
	"github.com/simukka/guessnote/ui"
)

const frameInterval = 16 * time.Millisecond

var (
	playCfg        = game.DefaultConfig
	playAudio      = audio.DefaultConfig
	playLang       string
	playInstrument int
	playMute       bool
	playNoColor    bool
	playBeacon     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Play in the terminal. Type a key and press enter:
  enter   start / play again
  1-4     answer
  space   replay the hidden chord
  r       replay the progression
  m       mute
  q       quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return play(ctx, os.Stdin, cmd.OutOrStdout())
	},
}

func init() {
	playCmd.Flags().AddFlagSet(gameFlags(&playCfg, &playLang))
	playCmd.Flags().AddFlagSet(audioFlags(&playAudio, &playInstrument))
	playCmd.Flags().BoolVar(&playMute, "mute", false, "start muted")
	playCmd.Flags().BoolVar(&playNoColor, "no-color", false, "disable ANSI colors")
	playCmd.Flags().StringVar(&playBeacon, "beacon", "", "post telemetry to this URL (a guessnote server's /api/events)")
	rootCmd.AddCommand(playCmd)
}

func play(ctx context.Context, in io.Reader, out io.Writer) error {
	tr := i18n.New(i18n.DetectEnv(playLang))

	eng := audio.NewEngine(playAudio, audio.WithDevice(native.New(1024)))
	defer eng.Shutdown()

	sinks := []telemetry.Sink{telemetry.Log}
	if playBeacon != "" {
		beacon := telemetry.NewBeacon(playBeacon, 64)
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			beacon.Close(closeCtx)
		}()
		sinks = append(sinks, beacon)
	}

	term := ui.NewTerminal(out, tr, !playNoColor)
	term.SetShareURL(playCfg.ShareURL)

	g := game.New(playCfg,
		game.WithSynth(instrumentOffset{Engine: eng, offset: playInstrument}),
		game.WithRenderer(term),
		game.WithTelemetry(telemetry.Multi(sinks...)),
		game.WithTranslator(tr),
	)
	common.Debugf("play: seed %d lang %s", g.Seed(), tr.Lang())

	eng.Ensure()
	eng.SetMuted(playMute)
	term.Intro()

	keys := make(chan rune)
	go readKeys(ctx, in, keys)

	// replays are debounced so a held key does not restart playback on
	// every repeat
	replays := make(chan ui.Action, 1)
	debounced := debounce.New(150 * time.Millisecond)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case r, ok := <-keys:
			if !ok || r == 'q' || r == 'Q' {
				return nil
			}
			action, idx := ui.ActionForRune(r)
			switch action {
			case ui.ActionStart:
				g.Start()
			case ui.ActionChoose:
				g.SubmitIndex(idx)
			case ui.ActionReplayHidden, ui.ActionReplayProgression:
				debounced(func() {
					select {
					case replays <- action:
					default:
					}
				})
			case ui.ActionMute:
				if eng.ToggleMuted() {
					fmt.Fprintln(out, "(muted)")
				}
			}

		case action := <-replays:
			if action == ui.ActionReplayHidden {
				g.ReplayHiddenChord()
			} else {
				g.ReplayCurrentProgression()
			}

		case <-ticker.C:
			g.Tick()
		}
	}
}

// readKeys sends every rune typed on in, newlines included.
func readKeys(ctx context.Context, in io.Reader, keys chan<- rune) {
	defer close(keys)
	r := bufio.NewReader(in)
	for {
		c, _, err := r.ReadRune()
		if err != nil {
			return
		}
		select {
		case keys <- c:
		case <-ctx.Done():
			return
		}
	}
}

// instrumentOffset shifts the per-round instrument so --instrument picks
// the timbre of the first round.
type instrumentOffset struct {
	*audio.Engine
	offset int
}

func (s instrumentOffset) SetInstrument(n int) {
	s.Engine.SetInstrument(n + s.offset)
}
