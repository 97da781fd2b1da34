package shell

import (
	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/moufette/console/internal/domain"
	"github.com/moufette/console/internal/ui"
)

// PropertiesResult is the outcome of the properties query, passed to the
// selector as is.
type PropertiesResult struct {
	Items    []domain.Property
	Selected uuid.UUID
	Err      error
}

// Current returns the selected property, falling back to the first one.
func (p PropertiesResult) Current() *domain.Property {
	for i := range p.Items {
		if p.Items[i].ID == p.Selected {
			return &p.Items[i]
		}
	}
	if len(p.Items) > 0 {
		return &p.Items[0]
	}
	return nil
}

// Props is everything the layout needs for one request.
type Props struct {
	Path       string
	Collapsed  bool
	User       *domain.User
	Properties PropertiesResult
	Content    templ.Component
}

func collapsedClass(collapsed bool) string {
	if collapsed {
		return "collapsed"
	}
	return ""
}

func propertyOptions(res PropertiesResult) []ui.SelectOption {
	current := res.Current()
	options := make([]ui.SelectOption, 0, len(res.Items))
	for _, prop := range res.Items {
		options = append(options, ui.SelectOption{
			Value:    prop.ID.String(),
			Label:    prop.Name,
			Selected: current != nil && prop.ID == current.ID,
		})
	}
	return options
}

func menuItemClass(selected bool) string {
	if selected {
		return "menu-item selected"
	}
	return "menu-item"
}
