package components

import (
	"context"
	"fmt"
	"io"

	"github.com/Oudwins/tailwind-merge-go/pkg/twmerge"
	"github.com/a-h/templ"
)

const spinnerBase = "animate-spin -ml-1 mr-3 h-5 w-5 text-current"

// Spinner renders the loading indicator shown on in-flight submit buttons.
func Spinner(class string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<svg class="%s" xmlns="http://www.w3.org/2000/svg" fill="none" viewBox="0 0 24 24" aria-hidden="true">`+
				`<circle class="opacity-25" cx="12" cy="12" r="10" stroke="currentColor" stroke-width="4"></circle>`+
				`<path class="opacity-75" fill="currentColor" d="M4 12a8 8 0 018-8V0C5.373 0 0 5.373 0 12h4zm2 5.291A7.962 7.962 0 014 12H0c0 3.042 1.135 5.824 3 7.938l3-2.647z"></path>`+
				`</svg>`,
			templ.EscapeString(twmerge.Merge(spinnerBase, class)),
		)
		return err
	})
}
