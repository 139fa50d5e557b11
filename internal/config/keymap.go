package config

import (
	"fmt"

	"github.com/rainfrog/rainfrog/internal/action"
)

// Keymap is the resolved map[focus][key-sequence]Action the App Loop looks
// bindings up in, per SPEC_FULL.md §6.2 — a flat lookup table, not the
// nested map[string]map[string]string the config file stores.
type Keymap map[string]map[string]action.Name

// BuildKeymap resolves a config file's raw `keybindings` table against the
// action registry. An unrecognized action name is a config error: fatal at
// startup, per spec.md §7.
func BuildKeymap(raw map[string]map[string]string) (Keymap, error) {
	km := make(Keymap, len(raw))
	for focus, bindings := range raw {
		resolved := make(map[string]action.Name, len(bindings))
		for seq, actionName := range bindings {
			name, ok := action.ByName(actionName)
			if !ok {
				return nil, fmt.Errorf("config: keybindings[%q][%q]: unknown action %q", focus, seq, actionName)
			}
			resolved[seq] = name
		}
		km[focus] = resolved
	}
	return km, nil
}

// DefaultKeymap is the baseline bound before any config-file override is
// merged in. It covers the focuses spec.md's App Loop distinguishes:
// "editor", "menu", "data" (the Results Viewport), plus "favorites" and
// the global sequence any focus falls back to.
func DefaultKeymap() Keymap {
	return Keymap{
		"global": {
			"ctrl+c": action.Quit,
			"q":      action.Quit,
			"1":      action.FocusMenu,
			"2":      action.FocusEditor,
			"3":      action.FocusData,
			"4":      action.FocusFavorites,
			"ctrl+s": action.SaveFavorite,
			"ctrl+e": action.ExportResults,
		},
		"editor": {
			"ctrl+enter": action.SubmitQuery,
		},
		"menu": {
			"enter": action.MenuSelect,
		},
		"favorites": {
			"enter": action.LoadFavorite,
		},
		"data": {
			"h": action.ScrollLeft, "j": action.ScrollDown, "k": action.ScrollUp, "l": action.ScrollRight,
			"left": action.ScrollLeft, "down": action.ScrollDown, "up": action.ScrollUp, "right": action.ScrollRight,
			"w": action.NextColumn, "e": action.NextColumn, "b": action.PrevColumn,
			"g": action.GoToTop, "G": action.GoToBottom,
			"0": action.GoToFirstCol, "$": action.GoToLastCol,
			"v": action.SelectCell, "V": action.SelectRow,
			"y": action.Yank,
		},
	}
}

// Merge overlays override onto base, per-focus and per-sequence — the
// config file's keybindings only need to name the sequences they change.
func (base Keymap) Merge(override Keymap) Keymap {
	out := make(Keymap, len(base))
	for focus, bindings := range base {
		merged := make(map[string]action.Name, len(bindings))
		for seq, a := range bindings {
			merged[seq] = a
		}
		out[focus] = merged
	}
	for focus, bindings := range override {
		merged, ok := out[focus]
		if !ok {
			merged = make(map[string]action.Name, len(bindings))
			out[focus] = merged
		}
		for seq, a := range bindings {
			merged[seq] = a
		}
	}
	return out
}

// Lookup resolves one key sequence for a focus, falling back to "global".
func (km Keymap) Lookup(focus, seq string) (action.Name, bool) {
	if bindings, ok := km[focus]; ok {
		if a, ok := bindings[seq]; ok {
			return a, true
		}
	}
	if bindings, ok := km["global"]; ok {
		if a, ok := bindings[seq]; ok {
			return a, true
		}
	}
	return "", false
}
