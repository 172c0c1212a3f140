package components

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/Oudwins/tailwind-merge-go/pkg/twmerge"
	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const socialButtonBase = "inline-flex w-full items-center justify-center gap-2 rounded-md border border-gray-300 bg-white px-4 py-2 text-sm font-medium text-gray-700 hover:bg-gray-50 disabled:pointer-events-none disabled:opacity-50"

// providerNames covers providers whose brand casing title-casing gets wrong.
var providerNames = map[string]string{
	"github": "GitHub",
}

var titleCaser = cases.Title(language.English)

// ProviderName returns the display name for a provider key.
func ProviderName(provider string) string {
	if name, ok := providerNames[provider]; ok {
		return name
	}
	return titleCaser.String(provider)
}

// SocialLoginButtonProps configures a SocialLoginButton.
type SocialLoginButtonProps struct {
	Provider string
	Label    string // defaults to "Sign in with {Provider}"
	Instance string // page instance the click is submitted against
	Loading  bool
	Disabled bool
	Class    string
}

// SocialLoginButton renders a self-contained form posting to
// /login/social/{provider}. The button is disabled while loading.
func SocialLoginButton(p SocialLoginButtonProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		label := p.Label
		if label == "" {
			label = "Sign in with " + ProviderName(p.Provider)
		}
		action := "/login/social/" + url.PathEscape(p.Provider)

		if _, err := fmt.Fprintf(w,
			`<form method="post" action="%s"><input type="hidden" name="instance" value="%s"><button type="submit" class="%s" data-provider="%s"`,
			templ.EscapeString(action),
			templ.EscapeString(p.Instance),
			templ.EscapeString(twmerge.Merge(socialButtonBase, p.Class)),
			templ.EscapeString(p.Provider),
		); err != nil {
			return err
		}
		if p.Loading || p.Disabled {
			if _, err := io.WriteString(w, ` disabled`); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `>`); err != nil {
			return err
		}
		if p.Loading {
			if err := Spinner("").Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<span>%s</span></button></form>`, templ.EscapeString(label))
		return err
	})
}
