package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jonathan/dnav/internal/fetch"
	"github.com/jonathan/dnav/internal/types"
	"go.uber.org/zap"
)

// URLOptions configures LoadURL.
type URLOptions struct {
	Fetch *fetch.Options
	// UseBrowser re-renders the page in headless Chrome when the HTTP
	// response yields too little text.
	UseBrowser     bool
	BrowserTimeout time.Duration
	Logger         *zap.Logger
}

// LoadURL fetches a filing or investor-relations page and returns its pages.
// HTML with explicit page containers keeps them; otherwise source-specific
// selectors pick the main content as a single page. Plain-text and JSON
// responses are parsed like files.
func LoadURL(ctx context.Context, urlStr string, opts URLOptions) ([]types.PageText, *Metadata, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidURL, urlStr)
	}
	fileName := path.Base(parsed.Path)
	if fileName == "/" || fileName == "." {
		fileName = parsed.Host
	}

	source := fetch.DetectSource(urlStr)
	logger.Debug("fetching document", zap.String("url", urlStr), zap.String("source", string(source)))

	result, err := fetch.URL(ctx, urlStr, opts.Fetch)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	format := formatForResponse(result.ContentType, urlStr)
	var pages []types.PageText
	if format == FormatHTML {
		pages, err = htmlPages(ctx, result.HTML, urlStr, fileName, source, opts, logger)
	} else {
		pages, err = parsePages([]byte(result.HTML), fileName, format)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	metadata := NewMetadata([]byte(result.HTML), urlStr, fileName, format, len(pages))
	metadata.Site = string(source)
	logger.Info("document loaded",
		zap.String("url", urlStr),
		zap.String("format", format),
		zap.Int("pages", len(pages)),
	)
	return pages, metadata, nil
}

func htmlPages(ctx context.Context, html, urlStr, fileName string, source fetch.Source, opts URLOptions, logger *zap.Logger) ([]types.PageText, error) {
	pages, err := ParseHTMLPages(html, fileName)
	if err != nil {
		return nil, err
	}
	if len(pages) > 1 {
		return pages, nil
	}

	contentSelectors := fetch.SourceContentSelectors(source)
	noiseSelectors := fetch.SourceNoiseSelectors(source)
	text, err := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...)
	if err != nil {
		return nil, err
	}

	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		logger.Info("content too short, falling back to browser rendering",
			zap.Int("chars", len(text)), zap.Int("min", fetch.MinContentLength))
		timeout := opts.BrowserTimeout
		if timeout <= 0 {
			timeout = fetch.DefaultTimeout
		}
		rendered, browserErr := fetch.WithBrowser(ctx, urlStr, timeout, logger)
		if browserErr != nil {
			// keep the HTTP content
			logger.Warn("browser rendering failed", zap.Error(browserErr))
		} else if browserText, err := fetch.ExtractMainText(rendered, contentSelectors, noiseSelectors...); err == nil {
			text = browserText
		}
	}

	return []types.PageText{{FileName: fileName, PageNumber: 1, Text: text}}, nil
}

func formatForResponse(contentType, urlStr string) string {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		return FormatJSON
	case strings.Contains(ct, "text/plain"):
		return FormatText
	case strings.Contains(ct, "html"):
		return FormatHTML
	}
	if f := FormatForPath(urlStr); f != FormatText {
		return f
	}
	return FormatHTML
}
