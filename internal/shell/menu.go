package shell

import (
	"github.com/moufette/console/internal/router"
)

// MenuItem is a sidebar entry. Items with children are submenus; their Key
// is not a path.
type MenuItem struct {
	Key      string
	Label    string
	Icon     Icon
	HasIcon  bool
	Children []MenuItem
}

// WidgetMenuKey is the key of the Widget submenu.
const WidgetMenuKey = "widget"

// Menu is the fixed sidebar navigation.
var Menu = []MenuItem{
	{Key: router.Root, Label: "Home", Icon: IconHome, HasIcon: true},
	{Key: WidgetMenuKey, Label: "Widget", Icon: IconRocket, HasIcon: true, Children: []MenuItem{
		{Key: router.WidgetSettings, Label: "Settings"},
		{Key: router.WidgetFeedbacks, Label: "Feedbacks"},
		{Key: router.WidgetFeatures, Label: "Features"},
	}},
	{Key: router.Properties, Label: "Properties", Icon: IconSetting, HasIcon: true},
	{Key: router.Setup, Label: "Setup", Icon: IconSetting, HasIcon: true},
	{Key: router.Integrations, Label: "Integrations", Icon: IconSetting, HasIcon: true},
}

// DefaultOpenKeys are the submenus expanded on every page.
var DefaultOpenKeys = []string{WidgetMenuKey}

// SelectedKeys derives the highlighted menu keys from the current path.
func SelectedKeys(path string) []string {
	if path == "" {
		path = router.Root
	}
	return []string{path}
}

// OpenKeys returns the default open submenus plus the one holding path.
func OpenKeys(path string) []string {
	keys := append([]string{}, DefaultOpenKeys...)
	for _, item := range Menu {
		for _, child := range item.Children {
			if child.Key == path && !contains(keys, item.Key) {
				keys = append(keys, item.Key)
			}
		}
	}
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
