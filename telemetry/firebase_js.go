//go:build js
// +build js

package telemetry

import (
	"github.com/gopherjs/gopherjs/js"

	"github.com/simukka/guessnote/common"
)

// Firebase logs events through the page's Firebase Analytics, when the
// firebase scripts are loaded. Without them every call is a no-op.
type Firebase struct {
	analytics *js.Object
}

// NewFirebase reuses the page's first Firebase app, or initializes one
// from config (a firebaseConfig object) when there is none.
func NewFirebase(config js.M) *Firebase {
	f := &Firebase{}
	defer func() {
		if r := recover(); r != nil {
			common.DebugWarn("firebase init:", r)
			f.analytics = nil
		}
	}()

	fb := js.Global.Get("firebase")
	if fb == js.Undefined || fb.Get("initializeApp") == js.Undefined {
		return f
	}

	var app *js.Object
	if apps := fb.Get("apps"); apps != js.Undefined && apps.Length() > 0 {
		app = apps.Index(0)
	} else if config != nil {
		app = fb.Call("initializeApp", config)
	} else {
		return f
	}

	if fb.Get("analytics") != js.Undefined {
		f.analytics = fb.Call("analytics", app)
	}
	return f
}

// Enabled reports whether analytics is available.
func (f *Firebase) Enabled() bool {
	return f.analytics != nil
}

func (f *Firebase) Record(name string, props map[string]any) {
	if f.analytics == nil {
		return
	}
	if props == nil {
		props = map[string]any{}
	}
	f.analytics.Call("logEvent", name, props)
}
