package output

import "context"

// BrowserPort is the shared browser session collaborator. The page handle
// behind it is created once per run and owned outside the executor; the
// executor only drives it.
type BrowserPort interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	Fill(ctx context.Context, selector, text string) error
	Text(ctx context.Context, selector string) (string, error)
	Screenshot(ctx context.Context, path string) (string, error)

	CurrentURL() string
	Close()
}
