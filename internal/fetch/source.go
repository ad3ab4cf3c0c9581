package fetch

import (
	"net/url"
	"strings"
)

// Source is a known family of disclosure sites.
type Source string

const (
	// SourceEDGAR is the SEC EDGAR filing archive.
	SourceEDGAR Source = "edgar"
	// SourceInvestorRelations is a company investor-relations site.
	SourceInvestorRelations Source = "investor_relations"
	// SourceUnknown is an unrecognized site.
	SourceUnknown Source = "unknown"
)

// DetectSource identifies the disclosure site family from a URL.
func DetectSource(urlStr string) Source {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return SourceUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	path := strings.ToLower(parsed.Path)

	if host == "sec.gov" || strings.HasSuffix(host, ".sec.gov") {
		return SourceEDGAR
	}
	if strings.HasPrefix(host, "ir.") || strings.HasPrefix(host, "investor.") ||
		strings.HasPrefix(host, "investors.") || strings.Contains(host, "q4cdn.com") ||
		strings.HasPrefix(path, "/investor") || strings.Contains(path, "/investor-relations") {
		return SourceInvestorRelations
	}
	return SourceUnknown
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// SourceContentSelectors returns content selectors for a site family.
func SourceContentSelectors(source Source) []string {
	switch source {
	case SourceEDGAR:
		return []string{
			"document",
			".formContent",
			"#formDiv",
			"body",
		}
	case SourceInvestorRelations:
		return []string{
			".press-release",
			".news-release",
			".module_body",
			".q4-news-body",
			"article",
			"main",
			".content",
		}
	default:
		return DefaultTextSelectors()
	}
}

// SourceNoiseSelectors returns noise exclusion selectors for a site family.
func SourceNoiseSelectors(source Source) []string {
	common := []string{
		"form",
		".social-share",
		".share-buttons",
		".social-links",
		".cookie-consent",
		".gdpr-notice",
		".breadcrumb",
	}

	switch source {
	case SourceEDGAR:
		return append(common,
			"[style*='display:none']",
			"[style*='display: none']",
			"#PageHeader",
			".xbrl-hidden",
		)
	case SourceInvestorRelations:
		return append(common,
			".module_nav",
			".module-subscribe",
			".email-alerts",
			".stock-ticker",
			".footer-links",
		)
	default:
		return common
	}
}
