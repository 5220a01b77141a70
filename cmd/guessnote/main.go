//go:build !js
// +build !js

// Command guessnote plays the chord ear-training game in a terminal, serves
// the browser build, and renders progressions to audio files.
package main

func main() {
	Execute()
}
