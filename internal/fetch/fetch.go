// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads paper PDFs by identifier. An identifier is an
// arXiv ID, a DOI, or a direct URL; the PDF lands under the data
// directory's uploads folder and arXiv metadata is filled in when
// available.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/discovery-engine/pkg/types"
)

// IdentifierType classifies an input identifier.
type IdentifierType int

const (
	TypeUnknown IdentifierType = iota
	TypeArxiv
	TypeDOI
	TypeURL
)

func (t IdentifierType) String() string {
	switch t {
	case TypeArxiv:
		return "arxiv"
	case TypeDOI:
		return "doi"
	case TypeURL:
		return "url"
	default:
		return "unknown"
	}
}

// Base URLs for identifier resolution. Declared as vars so tests can
// substitute httptest servers.
var (
	arxivPDFBase = "https://arxiv.org/pdf/"
	arxivAPIBase = "https://export.arxiv.org/api/query"
	doiBase      = "https://doi.org/"
)

// arxivPattern matches arXiv IDs: "2301.07041", "arXiv:2301.07041", "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// doiPattern matches DOIs: "10.1145/1234567.1234568".
var doiPattern = regexp.MustCompile(`^10\.\d{4,9}/[^\s]+$`)

// Classify determines the identifier type and returns the normalized form.
// For arXiv, it strips the optional "arXiv:" prefix.
func Classify(identifier string) (IdentifierType, string) {
	identifier = strings.TrimSpace(identifier)

	if m := arxivPattern.FindStringSubmatch(identifier); m != nil {
		return TypeArxiv, m[1]
	}

	if doiPattern.MatchString(identifier) {
		return TypeDOI, identifier
	}

	if u, err := url.Parse(identifier); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return TypeURL, identifier
	}

	return TypeUnknown, identifier
}

// Slug returns a filesystem-safe filename stem for the identifier.
func Slug(idType IdentifierType, normalized string) string {
	switch idType {
	case TypeArxiv:
		return normalized
	case TypeDOI:
		return strings.NewReplacer("/", "-", ":", "-").Replace(normalized)
	case TypeURL:
		u, err := url.Parse(normalized)
		if err != nil {
			return urlHashSlug(normalized)
		}
		base := strings.TrimSuffix(filepath.Base(u.Path), filepath.Ext(u.Path))
		if base == "" || base == "." || base == "/" {
			return urlHashSlug(normalized)
		}
		return base
	default:
		return "unknown"
	}
}

// PDFURL returns the download URL for the identifier. For arXiv, this is
// the arxiv.org PDF endpoint. For DOI, this is the doi.org resolver
// (the HTTP client follows redirects). For direct URLs, it returns as-is.
func PDFURL(idType IdentifierType, normalized string) string {
	switch idType {
	case TypeArxiv:
		return arxivPDFBase + normalized
	case TypeDOI:
		return doiBase + normalized
	case TypeURL:
		return normalized
	default:
		return ""
	}
}

func urlHashSlug(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("url-%x", h[:8])
}

// Fetch resolves identifier to a PDF URL, downloads it into destDir, and
// returns a Paper record with the local path set. An already-downloaded
// PDF is reused without a new request. For arXiv identifiers the paper's
// title, authors, and year are filled from the arXiv API; a metadata
// failure is reported on w but does not fail the fetch.
func Fetch(ctx context.Context, client *http.Client, identifier, destDir string, cfg types.HTTPConfig, w io.Writer) (*types.Paper, error) {
	idType, normalized := Classify(identifier)
	if idType == TypeUnknown {
		return nil, fmt.Errorf("unrecognized identifier format: %q", identifier)
	}

	slug := Slug(idType, normalized)
	pdfPath := filepath.Join(destDir, slug+".pdf")

	if _, err := os.Stat(pdfPath); err == nil {
		fmt.Fprintf(w, "reusing already downloaded %s\n", slug)
	} else {
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", destDir, err)
		}
		fmt.Fprintf(w, "downloading %s (%s)\n", slug, idType)
		if err := downloadFile(ctx, client, PDFURL(idType, normalized), pdfPath, cfg); err != nil {
			return nil, fmt.Errorf("downloading %s: %w", slug, err)
		}
	}

	info, err := os.Stat(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("checking downloaded pdf: %w", err)
	}

	paper := &types.Paper{
		PDFPath:      pdfPath,
		PDFSizeBytes: info.Size(),
	}
	if idType == TypeDOI {
		paper.DOI = normalized
	}
	if idType == TypeArxiv {
		if err := fetchArxivMetadata(ctx, client, normalized, paper, cfg); err != nil {
			fmt.Fprintf(w, "warning: arXiv metadata fetch failed: %v\n", err)
		}
	}
	return paper, nil
}

// downloadFile fetches url to destPath using a temporary file so a
// partial download never lands at the final path.
func downloadFile(ctx context.Context, client *http.Client, url, destPath string, cfg types.HTTPConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title     string        `xml:"title"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// fetchArxivMetadata fills paper's title, authors, and year from the
// arXiv API.
func fetchArxivMetadata(ctx context.Context, client *http.Client, arxivID string, paper *types.Paper, cfg types.HTTPConfig) error {
	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, arxivID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return fmt.Errorf("parsing arXiv response: %w", err)
	}

	if len(feed.Entries) == 0 {
		return fmt.Errorf("no entries found for arXiv ID %s", arxivID)
	}

	entry := feed.Entries[0]
	paper.Title = strings.TrimSpace(entry.Title)
	for _, a := range entry.Authors {
		paper.Authors = append(paper.Authors, strings.TrimSpace(a.Name))
	}
	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		paper.Year = t.Year()
	}
	return nil
}
