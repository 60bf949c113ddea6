package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Rune aliases for keys that can't be written as a bare single char in config files
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

var specialKeyNames = map[string]tcell.Key{
	"up":     tcell.KeyUp,
	"down":   tcell.KeyDown,
	"left":   tcell.KeyLeft,
	"right":  tcell.KeyRight,
	"enter":  tcell.KeyEnter,
	"tab":    tcell.KeyTab,
	"esc":    tcell.KeyEscape,
	"escape": tcell.KeyEscape,
	"ctrl+c": tcell.KeyCtrlC,
	"ctrl+q": tcell.KeyCtrlQ,
	"ctrl+r": tcell.KeyCtrlR,
	"ctrl+s": tcell.KeyCtrlS,
	"ctrl+t": tcell.KeyCtrlT,
	"f1":     tcell.KeyF1,
	"f2":     tcell.KeyF2,
}

// LoadKeyConfig turns an action → keys map (the input.bindings config section)
// into a sparse override KeyTable
// Returns error on unknown action names or invalid key names
func LoadKeyConfig(bindings map[string][]string) (*KeyTable, error) {
	kt := &KeyTable{
		SpecialKeys: make(map[tcell.Key]Intent),
		Runes:       make(map[rune]Intent),
	}
	for action, keys := range bindings {
		intent, ok := parseIntent(strings.ToLower(action))
		if !ok {
			return nil, fmt.Errorf("keymap: unknown action %q", action)
		}
		for _, name := range keys {
			if err := kt.bind(name, intent); err != nil {
				return nil, fmt.Errorf("keymap %s: %w", action, err)
			}
		}
	}
	return kt, nil
}

func (kt *KeyTable) bind(name string, intent Intent) error {
	lower := strings.ToLower(strings.TrimSpace(name))
	if k, ok := specialKeyNames[lower]; ok {
		kt.SpecialKeys[k] = intent
		return nil
	}
	if r, ok := runeAliases[lower]; ok {
		kt.Runes[r] = intent
		return nil
	}
	if utf8.RuneCountInString(lower) == 1 {
		r, _ := utf8.DecodeRuneInString(lower)
		kt.Runes[r] = intent
		return nil
	}
	return fmt.Errorf("invalid key name %q", name)
}
