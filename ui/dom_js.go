//go:build js
// +build js

package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/guessnote/chords"
	"github.com/simukka/guessnote/game"
)

// Element ids the page must provide.
var domIDs = []string{
	"timerValue", "okCount", "noCount", "msg", "round", "roundLeft",
	"choices", "overlay", "progression", "tapToStart", "endCard",
	"endScore", "shareWhatsapp", "shareInstagram", "shareFacebook",
}

// DOM renders the game into the page.
type DOM struct {
	doc *js.Object
	el  map[string]*js.Object
	tr  game.Translator

	onPick       func(id string)
	feedbackHold time.Duration
	stats        *js.Object
}

// NewDOM looks up every element the game draws into.
func NewDOM(tr game.Translator) (*DOM, error) {
	doc := js.Global.Get("document")
	d := &DOM{
		doc:          doc,
		el:           make(map[string]*js.Object, len(domIDs)),
		tr:           tr,
		feedbackHold: game.DefaultConfig.FeedbackDelay,
	}
	for _, id := range domIDs {
		node := doc.Call("getElementById", id)
		if node == nil || node == js.Undefined {
			return nil, fmt.Errorf("missing #%s", id)
		}
		d.el[id] = node
	}
	return d, nil
}

// Element returns the node with id, looked up at construction.
func (d *DOM) Element(id string) *js.Object {
	return d.el[id]
}

// OnPick sets the handler for clicks on answer buttons.
func (d *DOM) OnPick(fn func(id string)) {
	d.onPick = fn
}

// ApplyTranslations sets the text of every [data-i18n] element.
func (d *DOM) ApplyTranslations() {
	nodes := d.doc.Call("querySelectorAll", "[data-i18n]")
	for i := 0; i < nodes.Length(); i++ {
		node := nodes.Index(i)
		key := node.Call("getAttribute", "data-i18n").String()
		if key == "" {
			continue
		}
		node.Set("textContent", translate(d.tr, key, key))
	}
}

// MarkLanguage highlights the .langBtn whose data-lang is lang.
func (d *DOM) MarkLanguage(lang string) {
	nodes := d.doc.Call("querySelectorAll", ".langBtn")
	for i := 0; i < nodes.Length(); i++ {
		node := nodes.Index(i)
		if node.Call("getAttribute", "data-lang").String() == lang {
			node.Get("classList").Call("add", "active")
		} else {
			node.Get("classList").Call("remove", "active")
		}
	}
}

// RenderProgression fills the four slots.
func (d *DOM) RenderProgression(visible []string) {
	slots := d.el["progression"].Call("querySelectorAll", ".slot")
	labels := SlotLabels(visible)
	for i := 0; i < 4 && i < slots.Length(); i++ {
		slot := slots.Index(i)
		slot.Set("textContent", labels[i])
		if i == 3 {
			slot.Get("classList").Call("add", "q")
		} else {
			slot.Get("classList").Call("remove", "q")
			fitText(slot)
		}
	}
}

// fitText shrinks the font until the label fits its box.
func fitText(node *js.Object) {
	size := Theme.SlotMaxFont
	style := node.Get("style")
	style.Set("fontSize", strconv.Itoa(size)+"px")
	style.Set("whiteSpace", "nowrap")

	box := node.Get("clientWidth").Int() - Theme.SlotPadding
	if box < 10 {
		box = 10
	}
	for size > Theme.SlotMinFont && node.Get("scrollWidth").Int() > box {
		size--
		style.Set("fontSize", strconv.Itoa(size)+"px")
	}
}

func (d *DOM) RenderRound(v game.RoundView) {
	d.RenderProgression(v.Visible)

	choices := d.el["choices"]
	choices.Set("innerHTML", "")
	for i, id := range v.Options {
		id := id
		div := d.doc.Call("createElement", "div")
		div.Set("className", "choice")
		div.Call("setAttribute", "role", "button")
		div.Call("setAttribute", "tabindex", "0")
		div.Call("setAttribute", "aria-disabled", "false")
		div.Call("setAttribute", "data-chord", id)
		div.Set("innerHTML", `<div class="sub">OPTION</div>`+
			`<div class="title"><div class="t">`+chords.Label(id)+`</div>`+
			`<div class="kbd">`+strconv.Itoa(i+1)+`</div></div>`)

		choose := func() {
			if d.onPick != nil {
				d.onPick(id)
			}
		}
		div.Call("addEventListener", "click", func(*js.Object) { choose() })
		div.Call("addEventListener", "keydown", func(ev *js.Object) {
			key := ev.Get("key").String()
			if key == "Enter" || key == " " {
				ev.Call("preventDefault")
				choose()
			}
		})
		choices.Call("appendChild", div)
	}
}

func (d *DOM) RenderStats(s game.Stats) {
	d.el["okCount"].Set("textContent", strconv.Itoa(s.Correct))
	d.el["noCount"].Set("textContent", strconv.Itoa(s.Wrong))
	d.el["round"].Set("textContent", FormatFraction(s.Round, s.Max))
	d.el["roundLeft"].Set("textContent", strconv.Itoa(s.Left))
}

func (d *DOM) RenderTimer(remaining time.Duration) {
	d.el["timerValue"].Set("textContent", FormatTimer(remaining))
}

func (d *DOM) LockChoices(locked bool) {
	nodes := d.el["choices"].Call("querySelectorAll", ".choice")
	for i := 0; i < nodes.Length(); i++ {
		nodes.Index(i).Call("setAttribute", "aria-disabled", strconv.FormatBool(locked))
	}
}

// ChoiceEnabled reports whether option i can be clicked.
func (d *DOM) ChoiceEnabled(i int) bool {
	nodes := d.el["choices"].Call("querySelectorAll", ".choice")
	if i < 0 || i >= nodes.Length() {
		return false
	}
	return nodes.Index(i).Call("getAttribute", "aria-disabled").String() != "true"
}

// ShowFeedback flashes text over the board. It hides itself after the
// feedback delay unless newer feedback replaced it.
func (d *DOM) ShowFeedback(text string, kind game.FeedbackKind) {
	msg := d.el["msg"]
	class := FeedbackClass(kind)
	msg.Set("textContent", text)
	msg.Set("className", strings.TrimSpace("msg show "+class))

	// reading offsetWidth restarts the CSS animation
	msg.Get("offsetWidth")
	msg.Set("className", strings.TrimSpace("msg show anim "+class))
	d.el["overlay"].Set("className", strings.TrimSpace("overlay show "+class))

	js.Global.Call("setTimeout", func() {
		if msg.Get("textContent").String() == text {
			d.ClearFeedback()
		}
	}, d.feedbackHold.Milliseconds())
}

func (d *DOM) ClearFeedback() {
	d.el["msg"].Set("textContent", "")
	d.el["msg"].Set("className", "msg")
	if !strings.Contains(d.el["endCard"].Get("className").String(), "show") {
		d.el["overlay"].Set("className", "overlay")
	}
}

func (d *DOM) ShowEnd(score, max int, shareText string) {
	d.el["endScore"].Set("textContent", FormatFraction(score, max))
	d.el["overlay"].Set("className", "overlay show")
	d.el["endCard"].Set("className", "endCard show")
	d.el["endCard"].Call("setAttribute", "aria-hidden", "false")
}

// HideEnd closes the end card before a replay.
func (d *DOM) HideEnd() {
	d.el["endCard"].Set("className", "endCard")
	d.el["endCard"].Call("setAttribute", "aria-hidden", "true")
	d.el["overlay"].Set("className", "overlay")
}

// RenderStatsOverlay draws the overlay into a <pre id="stats">, creating
// it on first use.
func (d *DOM) RenderStatsOverlay(s *StatsOverlay, lines []string) {
	if d.stats == nil {
		d.stats = d.doc.Call("createElement", "pre")
		d.stats.Set("id", "stats")
		style := d.stats.Get("style")
		style.Set("position", "fixed")
		style.Set("top", "16px")
		style.Set("right", "16px")
		style.Set("margin", "0")
		style.Set("padding", "8px 12px")
		style.Set("font", "12px monospace")
		style.Set("color", Theme.AccentColor)
		style.Set("background", "rgba(0,0,0,0.75)")
		style.Set("zIndex", "1000")
		d.doc.Get("body").Call("appendChild", d.stats)
	}
	if !s.Visible {
		d.stats.Get("style").Set("display", "none")
		return
	}
	d.stats.Get("style").Set("display", "block")
	d.stats.Set("textContent", strings.Join(lines, "\n"))
}
