package input

import "github.com/gdamore/tcell/v2"

// KeyTable maps keys to intents
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, function keys)
	SpecialKeys map[tcell.Key]Intent

	// Plain rune bindings, matched case-insensitively
	Runes map[rune]Intent
}

// DefaultKeyTable returns the default driving bindings: arrows and WASD
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]Intent{
			tcell.KeyCtrlQ:  IntentQuit,
			tcell.KeyCtrlC:  IntentQuit,
			tcell.KeyEscape: IntentQuit,
			tcell.KeyCtrlR:  IntentReset,
			tcell.KeyCtrlS:  IntentToggleAudio,
			tcell.KeyCtrlT:  IntentToggleRecord,
			tcell.KeyTab:    IntentToggleHUD,
			tcell.KeyUp:     IntentThrottle,
			tcell.KeyDown:   IntentReverse,
			tcell.KeyLeft:   IntentSteerLeft,
			tcell.KeyRight:  IntentSteerRight,
		},
		Runes: map[rune]Intent{
			'w': IntentThrottle,
			's': IntentReverse,
			'a': IntentSteerLeft,
			'd': IntentSteerRight,
			' ': IntentHandbrake,
			'r': IntentReset,
			'q': IntentQuit,
			'p': IntentPause,
		},
	}
}

// Lookup resolves a key and its rune to an intent
func (kt *KeyTable) Lookup(key tcell.Key, r rune) Intent {
	if key == tcell.KeyRune {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return kt.Runes[r]
	}
	return kt.SpecialKeys[key]
}

// Merge applies a sparse override table on top of kt
// IntentNone entries unbind the key
func (kt *KeyTable) Merge(over *KeyTable) {
	if over == nil {
		return
	}
	for k, in := range over.SpecialKeys {
		if in == IntentNone {
			delete(kt.SpecialKeys, k)
			continue
		}
		kt.SpecialKeys[k] = in
	}
	for r, in := range over.Runes {
		if in == IntentNone {
			delete(kt.Runes, r)
			continue
		}
		kt.Runes[r] = in
	}
}
