// Package components holds the small templ components shared by the auth
// pages. They are plain templ.Components so they can be rendered directly or
// embedded into html/template pages through templ.ToGoHTML.
package components

import (
	"context"
	"fmt"
	"io"

	"github.com/Oudwins/tailwind-merge-go/pkg/twmerge"
	"github.com/a-h/templ"
)

// AlertVariant selects the banner styling.
type AlertVariant string

const (
	AlertError   AlertVariant = "error"
	AlertSuccess AlertVariant = "success"
	AlertInfo    AlertVariant = "info"
)

const alertBase = "relative w-full rounded-lg border p-4 text-sm"

// AlertProps configures an Alert.
type AlertProps struct {
	Variant     AlertVariant
	Title       string
	Description string
	Class       string // merged over the variant classes
}

func (v AlertVariant) classes() string {
	switch v {
	case AlertError:
		return "border-red-300 bg-red-50 text-red-700"
	case AlertSuccess:
		return "border-green-300 bg-green-50 text-green-700"
	default:
		return "border-gray-200 bg-white text-gray-900"
	}
}

// Alert renders a page-level banner with a title and description.
func Alert(p AlertProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		variant := p.Variant
		if variant == "" {
			variant = AlertInfo
		}
		role := "status"
		if variant == AlertError {
			role = "alert"
		}

		_, err := fmt.Fprintf(w,
			`<div class="%s" role="%s" data-variant="%s"><h5 class="mb-1 font-medium leading-none tracking-tight">%s</h5><div class="text-sm">%s</div></div>`,
			templ.EscapeString(twmerge.Merge(alertBase, variant.classes(), p.Class)),
			role,
			templ.EscapeString(string(variant)),
			templ.EscapeString(p.Title),
			templ.EscapeString(p.Description),
		)
		return err
	})
}
