// Package shell renders the persistent console chrome: the collapsible
// sidebar with its menu, the header, and the frame around page content.
package shell

import (
	"net/url"
)

// Icon is one of the glyphs used by the chrome.
type Icon int

const (
	IconHome Icon = iota
	IconRocket
	IconSetting
	IconMenuFold
	IconMenuUnfold
)

var glyphs = map[Icon]string{
	IconHome:       "⌂",
	IconRocket:     "🚀",
	IconSetting:    "⚙",
	IconMenuFold:   "⇤",
	IconMenuUnfold: "⇥",
}

var iconNames = map[Icon]string{
	IconHome:       "home",
	IconRocket:     "rocket",
	IconSetting:    "setting",
	IconMenuFold:   "menu-fold",
	IconMenuUnfold: "menu-unfold",
}

func (i Icon) String() string { return iconNames[i] }

// Glyph is the character drawn for the icon.
func (i Icon) Glyph() string { return glyphs[i] }

// CollapseParam is the query parameter carrying the sidebar state.
const CollapseParam = "collapsed"

// Collapsed reads the sidebar state from a request query. Missing or
// unparsable values mean expanded.
func Collapsed(q url.Values) bool {
	switch q.Get(CollapseParam) {
	case "1", "true":
		return true
	}
	return false
}

// Toggle returns the sidebar state after a click on the trigger.
func Toggle(collapsed bool) bool { return !collapsed }

// TriggerIcon picks the trigger glyph: unfold while collapsed, fold otherwise.
func TriggerIcon(collapsed bool) Icon {
	if collapsed {
		return IconMenuUnfold
	}
	return IconMenuFold
}

// Logo is the sidebar brand for the given state.
func Logo(collapsed bool) string {
	if collapsed {
		return "🦨"
	}
	return "Moufette v0.1"
}
