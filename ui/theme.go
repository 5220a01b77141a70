package ui

// Theme holds the visual styling for both front ends.
var Theme = struct {
	// Page colors
	BackgroundColor string
	TextColor       string
	DimColor        string
	AccentColor     string

	// Feedback colors
	OKColor  string
	BadColor string

	// Terminal escapes
	AnsiReset  string
	AnsiBold   string
	AnsiDim    string
	AnsiOK     string
	AnsiBad    string
	AnsiAccent string

	// Progression slot font sizes (px)
	SlotMaxFont int
	SlotMinFont int
	SlotPadding int
}{
	BackgroundColor: "#0b0b0f",
	TextColor:       "#f2f2f2",
	DimColor:        "#777",
	AccentColor:     "#9F0",

	OKColor:  "#3c6",
	BadColor: "#e44",

	AnsiReset:  "\x1b[0m",
	AnsiBold:   "\x1b[1m",
	AnsiDim:    "\x1b[2m",
	AnsiOK:     "\x1b[32m",
	AnsiBad:    "\x1b[31m",
	AnsiAccent: "\x1b[92m",

	SlotMaxFont: 36,
	SlotMinFont: 16,
	SlotPadding: 22,
}
