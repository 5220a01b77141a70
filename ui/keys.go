// Package ui holds the renderers and input mapping shared by the browser
// and terminal front ends.
package ui

// Canonical key codes.
const (
	KeyEnter = 13
	KeySpace = 32
	Key1     = 49
	Key2     = 50
	Key3     = 51
	Key4     = 52
	KeyM     = 77
	KeyR     = 82
	KeyF10   = 121
)

// KeyMap maps alternative keys to canonical key codes.
var KeyMap = map[int]int{
	27:  KeyM,     // Esc => M
	96:  KeySpace, // Numpad 0 => Space
	97:  Key1,     // Numpad 1
	98:  Key2,     // Numpad 2
	99:  Key3,     // Numpad 3
	100: Key4,     // Numpad 4
}

// TranslateKeyCode converts alternative key codes to canonical key codes.
func TranslateKeyCode(keyCode int) int {
	if mapped, ok := KeyMap[keyCode]; ok {
		return mapped
	}
	return keyCode
}

// Action is what a key does in the game.
type Action int

const (
	ActionNone Action = iota
	ActionChoose
	ActionReplayHidden
	ActionReplayProgression
	ActionStart
	ActionMute
	ActionToggleStats
)

func (a Action) String() string {
	switch a {
	case ActionChoose:
		return "choose"
	case ActionReplayHidden:
		return "replay_hidden"
	case ActionReplayProgression:
		return "replay_progression"
	case ActionStart:
		return "start"
	case ActionMute:
		return "mute"
	case ActionToggleStats:
		return "toggle_stats"
	}
	return "none"
}

// ActionForKey maps a browser keyCode to an action. For ActionChoose the
// second result is the 0-based option index.
func ActionForKey(keyCode int) (Action, int) {
	switch code := TranslateKeyCode(keyCode); {
	case code >= Key1 && code <= Key4:
		return ActionChoose, code - Key1
	case code == KeySpace:
		return ActionReplayHidden, 0
	case code == KeyR:
		return ActionReplayProgression, 0
	case code == KeyEnter:
		return ActionStart, 0
	case code == KeyM:
		return ActionMute, 0
	case code == KeyF10:
		return ActionToggleStats, 0
	}
	return ActionNone, 0
}

// ActionForRune maps terminal input to an action.
func ActionForRune(r rune) (Action, int) {
	switch {
	case r >= '1' && r <= '4':
		return ActionChoose, int(r - '1')
	case r == ' ':
		return ActionReplayHidden, 0
	case r == 'r' || r == 'R':
		return ActionReplayProgression, 0
	case r == '\n' || r == '\r' || r == 's' || r == 'S':
		return ActionStart, 0
	case r == 'm' || r == 'M':
		return ActionMute, 0
	}
	return ActionNone, 0
}
