package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"

	"github.com/GriffinCanCode/framebridge/internal/infrastructure/resilience"
)

// MaxDocumentSize bounds a fetched component document.
const MaxDocumentSize = 4 * 1024 * 1024

var (
	ErrNotHTML      = errors.New("layout: source is not an HTML document")
	ErrDocumentSize = errors.New("layout: document exceeds maximum size")
)

// Source yields the current component document.
type Source interface {
	Fetch(ctx context.Context) (io.Reader, error)
}

// FileSource reads a document from disk.
type FileSource struct {
	Path string
}

// Fetch implements Source.
func (s FileSource) Fetch(context.Context) (io.Reader, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return Decode(data, "")
}

// HTTPSource fetches a document over HTTP. Connection errors and 5xx
// responses are retried; a source that keeps failing trips its breaker and fails fast with
// resilience.ErrOpen until the cooldown passes.
type HTTPSource struct {
	url     string
	client  *resty.Client
	breaker *resilience.Breaker
}

// NewHTTPSource creates a source for url.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.Logger = nil

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(timeout).
		SetHeader("Accept", "text/html").
		SetHeader("User-Agent", "framebridge-component/1.0")

	return &HTTPSource{
		url:    url,
		client: client,
		breaker: resilience.New("document:"+url, resilience.Settings{
			Threshold: 3,
			Cooldown:  30 * time.Second,
		}),
	}
}

// Breaker returns the breaker guarding the source.
func (s *HTTPSource) Breaker() *resilience.Breaker {
	return s.breaker
}

// Fetch implements Source.
func (s *HTTPSource) Fetch(ctx context.Context) (io.Reader, error) {
	var doc io.Reader
	err := s.breaker.Do(func() error {
		resp, err := s.client.R().SetContext(ctx).Get(s.url)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", s.url, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return fmt.Errorf("fetch %s: unexpected status %d", s.url, resp.StatusCode())
		}
		doc, err = Decode(resp.Body(), resp.Header().Get("Content-Type"))
		return err
	})
	return doc, err
}

// Decode validates that data is an HTML document and converts it to UTF-8.
// The charset comes from contentType when it names one and is detected from
// the bytes otherwise.
func Decode(data []byte, contentType string) (io.Reader, error) {
	if len(data) > MaxDocumentSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrDocumentSize, len(data))
	}
	if mt := mimetype.Detect(data); !mt.Is("text/html") && !mt.Is("text/plain") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotHTML, mt.String())
	}

	if strings.Contains(strings.ToLower(contentType), "charset=") {
		return charset.NewReader(bytes.NewReader(data), contentType)
	}
	if utf8.Valid(data) {
		return bytes.NewReader(data), nil
	}
	res, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || res == nil {
		return bytes.NewReader(data), nil
	}
	return charset.NewReader(bytes.NewReader(data), "text/html; charset="+strings.ToLower(res.Charset))
}

// Load fetches and parses a document from src.
func Load(ctx context.Context, src Source) (*Document, error) {
	r, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(r)
}

// Reload fetches a new version of the document from src and swaps it in.
// On failure the current content is kept.
func (d *Document) Reload(ctx context.Context, src Source) error {
	r, err := src.Fetch(ctx)
	if err != nil {
		return err
	}
	return d.Replace(r)
}
