//go:build js
// +build js

package main

import (
	"strings"

	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/guessnote/audio"
	"github.com/simukka/guessnote/common"
	"github.com/simukka/guessnote/game"
	"github.com/simukka/guessnote/i18n"
	"github.com/simukka/guessnote/telemetry"
	"github.com/simukka/guessnote/ui"
)

// frameDuration is the minimum time between game ticks in milliseconds.
const frameDuration = 1000.0 / 60

func main() {
	location := js.Global.Get("location")
	query := js.Global.Get("URLSearchParams").New(location.Get("search"))
	if query.Call("get", "debug").String() == "1" {
		common.EnableDebug = true
	}

	lang := i18n.Detect(query.Call("get", "lang").String(), js.Global.Get("navigator").Get("language").String())
	tr := i18n.New(lang)

	dom, err := ui.NewDOM(tr)
	if err != nil {
		common.DebugError("guessnote:", err)
		return
	}
	dom.ApplyTranslations()
	dom.MarkLanguage(lang)
	dom.RenderProgression([]string{"C", "F", "G"})

	eng := audio.NewWebAudio(audio.DefaultConfig, 0)

	var firebaseConfig js.M
	if cfg := js.Global.Get("firebaseConfig"); cfg != js.Undefined && cfg != nil {
		firebaseConfig = js.M{}
		for _, key := range js.Keys(cfg) {
			firebaseConfig[key] = cfg.Get(key)
		}
	}
	tel := telemetry.Multi(telemetry.NewFirebase(firebaseConfig), telemetry.Log)

	cfg := game.DefaultConfig
	cfg.ShareURL = strings.SplitN(location.Get("href").String(), "#", 2)[0]

	g := game.New(cfg,
		game.WithSynth(eng),
		game.WithRenderer(dom),
		game.WithTelemetry(tel),
		game.WithTranslator(tr),
	)

	stats := ui.NewStatsOverlay()
	ui.Bind(dom, g, eng, tel, stats)

	js.Global.Set("GuessNote", map[string]interface{}{
		"start":         g.Start,
		"replay":        g.ReplayCurrentProgression,
		"replayUnknown": g.ReplayHiddenChord,
		"answer":        g.SubmitAnswer,
		"getShareText":  g.ShareText,
		"toggleMute":    eng.ToggleMuted,
		"lang":          lang,
		"seed":          g.Seed(),
		"snapshot":      func() string { return common.Dump(g.Snapshot()) },
	})

	var last float64
	var loop func(now float64)
	loop = func(now float64) {
		js.Global.Call("requestAnimationFrame", loop)
		stats.UpdateFPS(now)
		if now-last < frameDuration {
			return
		}
		last = now

		g.Tick()
		if stats.Visible {
			dom.RenderStatsOverlay(stats, stats.Lines(g.Snapshot(), audioStats(eng), g.Pending()))
		} else {
			dom.RenderStatsOverlay(stats, nil)
		}
	}
	js.Global.Call("requestAnimationFrame", loop)

	js.Global.Call("addEventListener", "beforeunload", func() {
		eng.Shutdown()
	})
}

func audioStats(eng *audio.WebAudio) ui.AudioStats {
	return ui.AudioStats{
		Time:       eng.Time(),
		Voices:     len(eng.ActiveVoices()),
		Noises:     len(eng.ActiveNoises()),
		Sounding:   eng.Sounding(),
		Instrument: audio.InstrumentName(eng.Instrument()),
		Muted:      eng.IsMuted(),
	}
}
