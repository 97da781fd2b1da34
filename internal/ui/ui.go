// Package ui holds the templ components shared by the shell and the pages:
// buttons, cards, alerts and form controls.
package ui

import (
	"bytes"
	"context"
	"strings"

	"github.com/a-h/templ"
)

// CN merges class lists, dropping duplicates and keeping first-seen order.
func CN(inputs ...string) string {
	var classes []string
	seen := make(map[string]bool)

	for _, input := range inputs {
		for _, part := range strings.Fields(input) {
			if !seen[part] {
				classes = append(classes, part)
				seen[part] = true
			}
		}
	}
	return strings.Join(classes, " ")
}

// Buffer renders c into memory so a failed render leaves the response
// untouched.
func Buffer(ctx context.Context, c templ.Component) (*bytes.Buffer, error) {
	buf := new(bytes.Buffer)
	if err := c.Render(ctx, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ButtonVariant selects the button's look.
type ButtonVariant string

const (
	ButtonVariantDefault ButtonVariant = "default"
	ButtonVariantPrimary ButtonVariant = "primary"
	ButtonVariantDanger  ButtonVariant = "danger"
	ButtonVariantLink    ButtonVariant = "link"
)

// ButtonProps configures Button.
type ButtonProps struct {
	Variant ButtonVariant
	Submit  bool
	Class   string
}

func buttonClass(v ButtonVariant, extra string) string {
	if v == "" {
		v = ButtonVariantDefault
	}
	return CN("btn", "btn-"+string(v), extra)
}

func buttonType(submit bool) string {
	if submit {
		return "submit"
	}
	return "button"
}

// AlertKind selects the alert colour.
type AlertKind string

const (
	AlertSuccess AlertKind = "success"
	AlertError   AlertKind = "error"
)

// InputProps configures Input. Type defaults to text.
type InputProps struct {
	Type        string
	Value       string
	Placeholder string
	Required    bool
}

func inputType(t string) string {
	if t == "" {
		return "text"
	}
	return t
}

// SelectOption is a <select> choice.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}
