package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/tankbattle/internal/web/templates/layout"
)

// Error renders a generic failure page
func Error(data layout.PageData, message string) templ.Component {
	return layout.Base(data, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := layout.NewWriter(w)
		hw.Raw(`<section class="error-page"><h1>Something went wrong</h1><p>`)
		hw.Text(message)
		hw.Raw(`</p><p><a href="/">Back to Tank Battle</a></p></section>`)
		return hw.Err()
	}))
}
