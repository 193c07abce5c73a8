// Package ventures downloads a public startup directory and turns it into a reference corpus.
package ventures

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/idea-screener/internal/idea"
)

const (
	// DefaultURL lists every company of the YC directory mirror.
	DefaultURL = "https://yc-oss.github.io/api/companies/all.json"
	userAgent  = "spigell/idea-screener"
)

type Client struct {
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	URL        string
}

func New(logger *zap.Logger, url string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if url == "" {
		url = DefaultURL
	}

	return &Client{
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		UserAgent: userAgent,
		URL:       url,
	}
}

// Companies downloads and decodes the directory.
func (c *Client) Companies(ctx context.Context) ([]*Company, error) {
	items, err := c.getItems(ctx, c.URL)
	if err != nil {
		return nil, err
	}

	companies, err := decodeCompanies(items)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got companies from directory",
		zap.String("url", c.URL),
		zap.Int("items", len(items)),
		zap.Int("companies", len(companies)),
	)

	return companies, nil
}

// Corpus downloads the directory and converts every named company into an idea.
func (c *Client) Corpus(ctx context.Context) (idea.Corpus, error) {
	companies, err := c.Companies(ctx)
	if err != nil {
		return nil, err
	}

	corpus := make(idea.Corpus, 0, len(companies))
	for _, company := range companies {
		if entry := company.Idea(); entry != nil {
			corpus = append(corpus, entry)
		}
	}

	return corpus, nil
}
