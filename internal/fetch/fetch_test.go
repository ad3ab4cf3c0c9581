package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	// Create test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result) // Result is returned even on error
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText_WithMainElement(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Main Content</h1>
				<p>This is the important text.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Main Content")
	assert.Contains(t, text, "important text")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
}

func TestExtractMainText_WithArticleElement(t *testing.T) {
	html := `
	<html>
		<body>
			<article>
				<h1>Article Title</h1>
				<p>Article body.</p>
			</article>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Article Title")
	assert.Contains(t, text, "Article body")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	html := `
	<html>
		<body>
			<div>Some content here.</div>
		</body>
	</html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}

func TestExtractMainText_IRSelectors(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Sidebar junk</div>
			<div class="module_nav">Press releases | Events | Stock</div>
			<div class="module_body">
				<h2>Second Quarter Update</h2>
				<p>We will open the Reno plant in Q3 2025.</p>
			</div>
		</body>
	</html>`

	source := SourceInvestorRelations
	text, err := ExtractMainText(html, SourceContentSelectors(source), SourceNoiseSelectors(source)...)
	require.NoError(t, err)
	assert.Equal(t, "Second Quarter Update\nWe will open the Reno plant in Q3 2025.", text)
}

func TestExtractMainText_OneLinePerBlock(t *testing.T) {
	html := `<html><body><main>
		<p>We will
		   expand the
		   plant.</p>
		<p>First line<br>second line</p>
		<table><tr><td>Revenue</td><td>1,234</td><td>2,345</td></tr></table>
		<!-- hidden comment -->
	</main></body></html>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Equal(t, "We will expand the plant.\nFirst line\nsecond line\nRevenue\t1,234\t2,345", text)
}

func TestExtractMainText_EDGARHiddenFacts(t *testing.T) {
	html := `<html><body>
		<div style="display:none">us-gaap:Revenues 123456</div>
		<p>We plan to hire 200 engineers next year.</p>
	</body></html>`

	text, err := ExtractMainText(html, SourceContentSelectors(SourceEDGAR), SourceNoiseSelectors(SourceEDGAR)...)
	require.NoError(t, err)
	assert.Equal(t, "We plan to hire 200 engineers next year.", text)
}

func TestURL_CustomHeaders(t *testing.T) {
	var gotAgent, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, &Options{
		UserAgent: "dnav-test",
		Headers:   map[string]string{"Accept": "text/html"},
	})
	require.NoError(t, err)
	assert.Equal(t, "dnav-test", gotAgent)
	assert.Equal(t, "text/html", gotAccept)
}

func TestDefaultTextSelectors(t *testing.T) {
	selectors := DefaultTextSelectors()
	assert.Contains(t, selectors, "main")
	assert.Contains(t, selectors, "article")
}

func TestDetectSource(t *testing.T) {
	tests := []struct {
		url  string
		want Source
	}{
		{"https://www.sec.gov/Archives/edgar/data/1318605/000095017024.htm", SourceEDGAR},
		{"https://sec.gov/cgi-bin/browse-edgar", SourceEDGAR},
		{"https://ir.tesla.com/press-release/q2-2025", SourceInvestorRelations},
		{"https://investors.example.com/news", SourceInvestorRelations},
		{"https://www.example.com/investor-relations/quarterly", SourceInvestorRelations},
		{"https://example.com/blog", SourceUnknown},
		{"not a url\x7f", SourceUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectSource(tt.url))
		})
	}
}

func TestSourceNoiseSelectors(t *testing.T) {
	assert.Contains(t, SourceNoiseSelectors(SourceEDGAR), "[style*='display:none']")
	assert.Contains(t, SourceNoiseSelectors(SourceInvestorRelations), ".module_nav")
	assert.Contains(t, SourceNoiseSelectors(SourceUnknown), "form")
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("short"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("x", MinContentLength)))
}
