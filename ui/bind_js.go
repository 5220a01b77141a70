//go:build js
// +build js

package ui

import (
	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/guessnote/game"
)

// Player is what the page controls. *game.Game implements it.
type Player interface {
	Start()
	SubmitAnswer(id string)
	SubmitIndex(i int)
	ReplayCurrentProgression()
	ReplayHiddenChord()
	ShareText() string
	Snapshot() game.Snapshot
}

// Sound is the audio control the page needs. *audio.Engine implements it.
type Sound interface {
	Resume()
	ToggleMuted() bool
}

// Bind wires page events to the game.
func Bind(d *DOM, p Player, snd Sound, tel game.Telemetry, stats *StatsOverlay) {
	d.OnPick(p.SubmitAnswer)

	// start gate: browsers only allow audio after a gesture
	tap := d.Element("tapToStart")
	start := func() {
		switch p.Snapshot().Phase {
		case game.PhaseIdle, game.PhaseEnded:
		default:
			return
		}
		tap.Get("dataset").Set("started", "1")
		d.HideEnd()
		snd.Resume()
		p.Start()
	}
	tap.Call("addEventListener", "click", func(*js.Object) {
		if tap.Get("dataset").Get("started").String() == "1" {
			return
		}
		start()
	})

	js.Global.Call("addEventListener", "keydown", func(ev *js.Object) {
		action, idx := ActionForKey(ev.Get("keyCode").Int())
		switch action {
		case ActionReplayHidden:
			ev.Call("preventDefault")
			p.ReplayHiddenChord()
			tel.Record("replay_unknown", map[string]any{})
		case ActionReplayProgression:
			p.ReplayCurrentProgression()
		case ActionChoose:
			if d.ChoiceEnabled(idx) {
				p.SubmitIndex(idx)
			}
		case ActionStart:
			start()
		case ActionMute:
			snd.ToggleMuted()
		case ActionToggleStats:
			ev.Call("preventDefault")
			stats.Toggle()
		}
	})

	// tapping the hidden slot replays it on touch screens
	d.Element("progression").Call("addEventListener", "click", func(ev *js.Object) {
		target := ev.Get("target")
		if target == nil || target == js.Undefined {
			return
		}
		slot := target.Call("closest", ".slot")
		if slot == nil || slot == js.Undefined {
			return
		}
		if slot.Get("classList").Call("contains", "q").Bool() {
			p.ReplayHiddenChord()
			tel.Record("replay_unknown", map[string]any{"method": "tap"})
		}
	})

	bindShare(d, p, tel)
	bindLanguages(d, tel)
}

func openURL(u string) {
	js.Global.Call("open", u, "_blank", "noopener,noreferrer")
}

// shareButtons maps share platforms to their end card buttons.
var shareButtons = map[string]string{
	"whatsapp":  "shareWhatsapp",
	"instagram": "shareInstagram",
	"facebook":  "shareFacebook",
}

func bindShare(d *DOM, p Player, tel game.Telemetry) {
	for _, platform := range game.SharePlatforms {
		id := platform.ID
		d.Element(shareButtons[id]).Call("addEventListener", "click", func(*js.Object) {
			text := p.ShareText()
			tel.Record("share_click", map[string]any{"platform": id})

			href := js.Global.Get("location").Get("href").String()
			if u := game.ShareURL(id, text, href); u != "" {
				openURL(u)
				return
			}
			shareNative(d, id, text, tel)
		})
	}
}

// shareNative hands text to the system share sheet, falling back to the
// clipboard.
func shareNative(d *DOM, platform, text string, tel game.Telemetry) {
	nav := js.Global.Get("navigator")
	if nav.Get("share") != js.Undefined {
		nav.Call("share", js.M{"text": text}).Call("then",
			func() {
				tel.Record("share_success", map[string]any{"platform": platform, "method": "native"})
			},
			func() { copyShareText(d, text, tel) },
		)
		return
	}
	copyShareText(d, text, tel)
}

// copyShareText puts text on the clipboard, or shows it in a prompt when
// the clipboard is unavailable.
func copyShareText(d *DOM, text string, tel game.Telemetry) {
	prompt := func() {
		js.Global.Call("prompt", translate(d.tr, "share.copy.prompt", "Copy this:"), text)
	}
	clip := js.Global.Get("navigator").Get("clipboard")
	if clip == js.Undefined || clip == nil {
		prompt()
		return
	}
	clip.Call("writeText", text).Call("then",
		func() {
			js.Global.Call("alert", translate(d.tr, "share.instagram.copied", "Copied"))
			tel.Record("share_success", map[string]any{"platform": "instagram", "method": "copy"})
		},
		func() { prompt() },
	)
}

func bindLanguages(d *DOM, tel game.Telemetry) {
	nodes := d.doc.Call("querySelectorAll", ".langBtn")
	for i := 0; i < nodes.Length(); i++ {
		node := nodes.Index(i)
		node.Call("addEventListener", "click", func(*js.Object) {
			lang := node.Call("getAttribute", "data-lang").String()
			if lang == "" {
				return
			}
			tel.Record("lang_change", map[string]any{"lang": lang})
			u := js.Global.Get("URL").New(js.Global.Get("location").Get("href"))
			u.Get("searchParams").Call("set", "lang", lang)
			js.Global.Get("location").Set("href", u.Call("toString"))
		})
	}
}
