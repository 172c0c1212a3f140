package handler

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	authpages "github.com/DukeRupert/authpages/internal/templ/pages/auth"
	"github.com/DukeRupert/authpages/internal/templ/components"
	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// Date/Time functions
		"year": func() int {
			return time.Now().Year()
		},

		// String functions
		"lower": func(s string) string {
			return strings.ToLower(s)
		},
		"title": func(v interface{}) string {
			s := fmt.Sprint(v)
			return cases.Title(language.English).String(s)
		},

		// Conditional/Logic functions
		"default": func(defaultVal, val interface{}) interface{} {
			if val == nil || val == "" || val == 0 {
				return defaultVal
			}
			return val
		},

		// Collection functions
		"dict": func(values ...interface{}) map[string]interface{} {
			if len(values)%2 != 0 {
				return nil
			}
			dict := make(map[string]interface{}, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				key, ok := values[i].(string)
				if !ok {
					return nil
				}
				dict[key] = values[i+1]
			}
			return dict
		},

		// templ components
		"alert": func(b *authpages.Banner) (template.HTML, error) {
			return templ.ToGoHTML(context.Background(), components.Alert(components.AlertProps{
				Variant:     b.Variant,
				Title:       b.Title,
				Description: b.Message,
			}))
		},
		"socialButton": func(instance string, b authpages.SocialButton) (template.HTML, error) {
			return templ.ToGoHTML(context.Background(), components.SocialLoginButton(components.SocialLoginButtonProps{
				Provider: b.Provider,
				Label:    b.Label,
				Instance: instance,
				Loading:  b.Loading,
				Disabled: b.Disabled,
			}))
		},
		"spinner": func(class string) (template.HTML, error) {
			return templ.ToGoHTML(context.Background(), components.Spinner(class))
		},

		// metaRefresh builds the tag by hand; html/template refuses to
		// interpolate into a meta content attribute.
		"metaRefresh": func(seconds int, url string) template.HTML {
			return template.HTML(fmt.Sprintf(`<meta http-equiv="refresh" content="%d;url=%s">`,
				seconds, template.HTMLEscapeString(url)))
		},
	}
}
