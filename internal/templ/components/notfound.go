package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// NotFoundPage renders the standalone page shown for unmatched paths.
func NotFoundPage(path string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Page not found</title>
</head>
<body class="flex min-h-screen items-center justify-center bg-gray-100">
<main class="text-center">
<h1 class="mb-4 text-4xl font-bold">404</h1>
<p class="mb-4 text-xl text-gray-600">Oops! Page not found</p>
<p class="mb-4 text-sm text-gray-500"><code>%s</code></p>
<a href="/" class="text-blue-500 underline hover:text-blue-700">Return to Home</a>
</main>
</body>
</html>
`, templ.EscapeString(path))
		return err
	})
}
