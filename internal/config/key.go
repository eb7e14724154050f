package config

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Key is a key press with optional modifiers, written "Ctrl+Alt+z".
type Key struct {
	Name string
	Ctrl bool
	Alt  bool
}

var namedKeys = map[string]bool{
	"Enter":     true,
	"Left":      true,
	"Right":     true,
	"Up":        true,
	"Down":      true,
	"Backspace": true,
	"Delete":    true,
	"Tab":       true,
	"BackTab":   true,
	"Esc":       true,
}

// ParseKey parses the textual key form used in the key map.
func ParseKey(s string) (Key, error) {
	tokens := strings.Split(s, "+")
	last := tokens[len(tokens)-1]
	if last == "" {
		return Key{}, fmt.Errorf("empty key in %q", s)
	}

	var k Key
	switch {
	case namedKeys[last]:
		k.Name = last
	case utf8.RuneCountInString(last) == 1 && validChar(rune(last[0])):
		k.Name = last
	default:
		return Key{}, fmt.Errorf("unknown key %q", last)
	}

	for _, mod := range tokens[:len(tokens)-1] {
		switch mod {
		case "Ctrl":
			k.Ctrl = true
		case "Alt":
			k.Alt = true
		default:
			return Key{}, fmt.Errorf("unknown key modifier %q", mod)
		}
	}
	return k, nil
}

func validChar(c rune) bool {
	return c == ' ' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func (k Key) String() string {
	var b strings.Builder
	if k.Ctrl {
		b.WriteString("Ctrl+")
	}
	if k.Alt {
		b.WriteString("Alt+")
	}
	b.WriteString(k.Name)
	return b.String()
}
