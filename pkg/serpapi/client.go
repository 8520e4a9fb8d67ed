package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
)

const (
	// UpstreamName labels this client in errors, logs and metrics.
	UpstreamName = "serpapi"

	defaultBaseURL              = "https://serpapi.com"
	defaultTimeout              = 10 * time.Second
	shoppingEngine              = "google_shopping"
	defaultLanguage             = "en"
	MaxResults                  = 40
	responseBodyReadLimit int64 = 1024

	noResultsMessage = "hasn't returned any results"
)

var errAPIKeyRequired = errors.New("serpapi api key is required")

// Client queries the SerpAPI Google Shopping engine.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the SerpAPI host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the SerpAPI client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// SearchRequest describes one shopping search.
type SearchRequest struct {
	Query        string
	GL           string
	GoogleDomain string
	Num          int
}

// ShoppingResult is a normalized shopping listing.
type ShoppingResult struct {
	Title     string
	Price     string
	Link      string
	Source    string
	Thumbnail string
	Rating    *float64
	Reviews   *int
}

type shoppingItem struct {
	Title       string   `json:"title"`
	Price       string   `json:"price"`
	Link        string   `json:"link"`
	ProductLink string   `json:"product_link"`
	Source      string   `json:"source"`
	Thumbnail   string   `json:"thumbnail"`
	Rating      *float64 `json:"rating"`
	Reviews     *int     `json:"reviews"`
}

type searchResponse struct {
	Error           string         `json:"error"`
	ShoppingResults []shoppingItem `json:"shopping_results"`
}

// Search runs a Google Shopping query and returns at most req.Num listings
// (MaxResults when unset) in upstream order.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]ShoppingResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "shopping search client not configured")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeMissingInput, "missing search query")
	}
	limit := req.Num
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query, req.GL, req.GoogleDomain, limit), nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "build search request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "execute search request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, &pkgerrors.UpstreamError{
			Upstream:   UpstreamName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}, "search request failed")
	}

	var apiResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode search response")
	}
	if apiResp.Error != "" && len(apiResp.ShoppingResults) == 0 {
		if strings.Contains(apiResp.Error, noResultsMessage) {
			return []ShoppingResult{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, &pkgerrors.UpstreamError{
			Upstream:   UpstreamName,
			StatusCode: resp.StatusCode,
			Body:       apiResp.Error,
		}, "search request rejected")
	}

	items := apiResp.ShoppingResults
	if len(items) > limit {
		items = items[:limit]
	}
	results := make([]ShoppingResult, 0, len(items))
	for _, item := range items {
		link := item.Link
		if link == "" {
			link = item.ProductLink
		}
		results = append(results, ShoppingResult{
			Title:     item.Title,
			Price:     item.Price,
			Link:      link,
			Source:    item.Source,
			Thumbnail: item.Thumbnail,
			Rating:    item.Rating,
			Reviews:   item.Reviews,
		})
	}
	return results, nil
}

func (c *Client) searchURL(query, gl, domain string, num int) string {
	params := url.Values{}
	params.Set("engine", shoppingEngine)
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("hl", defaultLanguage)
	if gl != "" {
		params.Set("gl", gl)
	}
	if domain != "" {
		params.Set("google_domain", domain)
	}
	params.Set("num", strconv.Itoa(num))
	return fmt.Sprintf("%s/search.json?%s", strings.TrimRight(c.baseURL, "/"), params.Encode())
}
