package io

import (
	"bytes"
	"context"
	"fmt"
	stdio "io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/firefly/textproc/internal/fetcher"
	"github.com/firefly/textproc/internal/parser"
)

// Source selects where input text comes from. URL wins over Path; with
// neither set the reader's stdin is used.
type Source struct {
	Path string
	URL  string
	HTML bool // extract text from HTML even if it is not detected
}

// PageFetcher downloads URL inputs
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Page, error)
}

// Reader loads input text
type Reader struct {
	fetcher PageFetcher
	parser  *parser.Parser
	stdin   stdio.Reader
	logger  *slog.Logger
}

// NewReader creates a Reader that falls back to stdin when no file or URL is given
func NewReader(stdin stdio.Reader, f PageFetcher, p *parser.Parser, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil {
		p = parser.New()
	}
	return &Reader{fetcher: f, parser: p, stdin: stdin, logger: logger}
}

// Read returns the whole input as text
func (r *Reader) Read(ctx context.Context, src Source) (string, error) {
	var (
		data []byte
		html = src.HTML
		err  error
	)

	switch {
	case src.URL != "":
		if r.fetcher == nil {
			return "", fmt.Errorf("reading %s: no fetcher configured", src.URL)
		}
		page, fetchErr := r.fetcher.Fetch(ctx, src.URL)
		if fetchErr != nil {
			return "", fmt.Errorf("fetching input: %w", fetchErr)
		}
		data = page.Body
		html = html || parser.IsHTML(page.ContentType, page.Body)

	case src.Path != "":
		data, err = os.ReadFile(src.Path)
		if err != nil {
			return "", fmt.Errorf("reading input file: %w", err)
		}

	default:
		data, err = stdio.ReadAll(r.stdin)
		if err != nil {
			return "", fmt.Errorf("reading standard input: %w", err)
		}
	}

	text, err := decode(data)
	if err != nil {
		return "", err
	}

	r.logger.Debug("read input", "bytes", humanize.Bytes(uint64(len(data))), "html", html)

	if !html {
		return text, nil
	}

	extracted, err := r.parser.ExtractText(bytes.NewReader([]byte(text)))
	if err != nil {
		return "", fmt.Errorf("extracting text from HTML: %w", err)
	}
	return extracted, nil
}

// decode strips a leading byte order mark, converting UTF-16 input to UTF-8
func decode(data []byte) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("decoding input: %w", err)
	}
	return string(out), nil
}
