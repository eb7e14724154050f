package ui

import (
	"strings"
	"unicode"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"PixelBoard/internal/config"
	"PixelBoard/internal/state"
)

var specialKeys = map[fyne.KeyName]string{
	fyne.KeyUp:        "Up",
	fyne.KeyDown:      "Down",
	fyne.KeyLeft:      "Left",
	fyne.KeyRight:     "Right",
	fyne.KeyReturn:    "Enter",
	fyne.KeyEnter:     "Enter",
	fyne.KeyBackspace: "Backspace",
	fyne.KeyDelete:    "Delete",
	fyne.KeyTab:       "Tab",
	fyne.KeyEscape:    "Esc",
}

// keyForName maps non-character keys. Characters arrive as runes.
func keyForName(n fyne.KeyName) (config.Key, bool) {
	name, ok := specialKeys[n]
	return config.Key{Name: name}, ok
}

func keyForRune(r rune) config.Key {
	return config.Key{Name: string(r)}
}

// shortcutFor returns the fyne shortcut for bindings that need modifiers.
func shortcutFor(k config.Key) (*desktop.CustomShortcut, bool) {
	if k.Name == "BackTab" {
		return &desktop.CustomShortcut{KeyName: fyne.KeyTab, Modifier: fyne.KeyModifierShift}, true
	}
	if !k.Ctrl && !k.Alt {
		return nil, false
	}

	var mod fyne.KeyModifier
	if k.Ctrl {
		mod |= fyne.KeyModifierControl
	}
	if k.Alt {
		mod |= fyne.KeyModifierAlt
	}

	var name fyne.KeyName
	for n, s := range specialKeys {
		if s == k.Name && n != fyne.KeyEnter {
			name = n
		}
	}
	if name == "" {
		r := []rune(k.Name)
		if len(r) != 1 {
			return nil, false
		}
		switch {
		case r[0] == ' ':
			name = fyne.KeySpace
		case unicode.IsUpper(r[0]):
			mod |= fyne.KeyModifierShift
			name = fyne.KeyName(k.Name)
		default:
			name = fyne.KeyName(strings.ToUpper(k.Name))
		}
	}
	return &desktop.CustomShortcut{KeyName: name, Modifier: mod}, true
}

// BindKeys routes key presses on c through keys to post.
func BindKeys(c fyne.Canvas, keys config.KeyMap, post func(state.Intent)) {
	lookup := func(k config.Key) {
		if in, ok := keys.Lookup(k); ok {
			post(in)
		}
	}
	c.SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if k, ok := keyForName(ev.Name); ok {
			lookup(k)
		}
	})
	c.SetOnTypedRune(func(r rune) {
		lookup(keyForRune(r))
	})
	for k, in := range keys {
		sc, ok := shortcutFor(k)
		if !ok {
			continue
		}
		c.AddShortcut(sc, func(fyne.Shortcut) { post(in) })
	}
}
