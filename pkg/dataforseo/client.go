package dataforseo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
)

const (
	// UpstreamName labels this client in errors, logs and metrics.
	UpstreamName = "dataforseo"

	defaultBaseURL              = "https://api.dataforseo.com"
	defaultTimeout              = 10 * time.Second
	defaultLanguageName         = "English"
	keywordsForKeywordsPath     = "v3/keywords_data/google_ads/keywords_for_keywords/live"
	responseBodyReadLimit int64 = 1024

	statusOK = 20000
)

var errCredentialsRequired = errors.New("dataforseo login and password are required")

// Client calls the DataForSEO Google Ads keyword endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	login      string
	password   string
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

// WithBaseURL overrides the DataForSEO host.
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

// NewClient builds a client authenticating with HTTP basic auth.
func NewClient(login, password string, opts ...Option) (*Client, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		login:      login,
		password:   password,
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

// KeywordRequest selects the seed keyword and target location.
type KeywordRequest struct {
	Keyword      string
	LocationCode int
	LanguageName string
}

// MonthlySearch is the search volume of one calendar month.
type MonthlySearch struct {
	Year         int  `json:"year"`
	Month        int  `json:"month"`
	SearchVolume *int `json:"search_volume"`
}

// KeywordData is one keyword row returned by the API.
type KeywordData struct {
	Keyword         string          `json:"keyword"`
	SearchVolume    *int            `json:"search_volume"`
	Competition     Competition     `json:"competition"`
	CPC             *float64        `json:"cpc"`
	MonthlySearches []MonthlySearch `json:"monthly_searches"`
}

// Competition is reported either as a level ("LOW", "HIGH") or as a number
// depending on the endpoint version. Both decode to text.
type Competition string

func (c *Competition) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*c = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*c = Competition(s)
		return nil
	}
	f, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return fmt.Errorf("competition: unsupported value %s", trimmed)
	}
	*c = Competition(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

type taskPayload struct {
	Keywords     []string `json:"keywords"`
	LanguageName string   `json:"language_name"`
	LocationCode int      `json:"location_code"`
}

type apiResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Tasks         []struct {
		StatusCode    int    `json:"status_code"`
		StatusMessage string `json:"status_message"`
		Result        []struct {
			Keywords []KeywordData `json:"keywords"`
		} `json:"result"`
	} `json:"tasks"`
}

// KeywordsForKeywords returns the keyword ideas for req.Keyword. An answer
// without tasks, results or keywords is a NO_DATA error.
func (c *Client) KeywordsForKeywords(ctx context.Context, req KeywordRequest) ([]KeywordData, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, "keyword data provider not configured")
	}
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, pkgerrors.New(pkgerrors.CodeMissingInput, "keyword required")
	}
	language := req.LanguageName
	if language == "" {
		language = defaultLanguageName
	}

	payload, err := json.Marshal([]taskPayload{{
		Keywords:     []string{keyword},
		LanguageName: language,
		LocationCode: req.LocationCode,
	}})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "marshal keyword request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(keywordsForKeywordsPath), bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "build keyword request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.login, c.password)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "execute keyword request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, &pkgerrors.UpstreamError{
			Upstream:   UpstreamName,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}, "keyword request failed")
	}

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode keyword response")
	}
	if apiResp.StatusCode != 0 && apiResp.StatusCode != statusOK {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, &pkgerrors.UpstreamError{
			Upstream:   UpstreamName,
			StatusCode: apiResp.StatusCode,
			Body:       apiResp.StatusMessage,
		}, "keyword request rejected")
	}

	if len(apiResp.Tasks) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNoData, "no tasks returned from keyword provider")
	}
	task := apiResp.Tasks[0]
	if len(task.Result) == 0 {
		if task.StatusCode != 0 && task.StatusCode != statusOK {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUpstream, &pkgerrors.UpstreamError{
				Upstream:   UpstreamName,
				StatusCode: task.StatusCode,
				Body:       task.StatusMessage,
			}, "keyword task failed")
		}
		return nil, pkgerrors.New(pkgerrors.CodeNoData, "no results returned from keyword provider")
	}
	keywords := task.Result[0].Keywords
	if len(keywords) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNoData, "no keywords found for this query")
	}
	return keywords, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
