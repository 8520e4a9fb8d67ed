package dataforseo

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/pricesnapshot/pkg/errors"
)

const keywordsBody = `{"status_code":20000,"status_message":"Ok.","tasks":[{"status_code":20000,"status_message":"Ok.","result":[{"keywords":[
	{"keyword":"dog beds","search_volume":14800,"competition":"HIGH","cpc":1.42,"monthly_searches":[{"year":2024,"month":5,"search_volume":12100}]},
	{"keyword":"Dog Bed","search_volume":40500,"competition":0.87,"cpc":null,"monthly_searches":[]}
]}]}]}`

func TestClientKeywordsForKeywordsRequest(t *testing.T) {
	var capturedURL string
	var capturedBody []map[string]any
	var user, pass string
	var hasAuth bool

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		user, pass, hasAuth = req.BasicAuth()
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(raw, &capturedBody); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		return jsonResponse(http.StatusOK, keywordsBody), nil
	})

	client, err := NewClient("me@example.com", "secret", WithBaseURL("http://dfs.test/"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	keywords, err := client.KeywordsForKeywords(context.Background(), KeywordRequest{Keyword: " dog bed ", LocationCode: 2036})
	if err != nil {
		t.Fatalf("keywords: %v", err)
	}

	if capturedURL != "http://dfs.test/v3/keywords_data/google_ads/keywords_for_keywords/live" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if !hasAuth || user != "me@example.com" || pass != "secret" {
		t.Fatalf("basic auth missing")
	}
	if len(capturedBody) != 1 {
		t.Fatalf("expected one task, got %d", len(capturedBody))
	}
	task := capturedBody[0]
	if task["language_name"] != "English" || task["location_code"] != float64(2036) {
		t.Fatalf("unexpected task %+v", task)
	}
	if kws, _ := task["keywords"].([]any); len(kws) != 1 || kws[0] != "dog bed" {
		t.Fatalf("unexpected keywords %+v", task["keywords"])
	}

	if len(keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(keywords))
	}
	first := keywords[0]
	if first.Competition != "HIGH" || first.CPC == nil || *first.CPC != 1.42 || *first.SearchVolume != 14800 {
		t.Fatalf("unexpected first keyword %+v", first)
	}
	if len(first.MonthlySearches) != 1 || first.MonthlySearches[0].Month != 5 {
		t.Fatalf("unexpected monthly searches %+v", first.MonthlySearches)
	}
	second := keywords[1]
	if second.Competition != "0.87" || second.CPC != nil {
		t.Fatalf("unexpected second keyword %+v", second)
	}
}

func TestClientKeywordsForKeywordsNoData(t *testing.T) {
	bodies := map[string]string{
		"no tasks":    `{"status_code":20000,"tasks":[]}`,
		"no results":  `{"status_code":20000,"tasks":[{"status_code":20000,"result":null}]}`,
		"no keywords": `{"status_code":20000,"tasks":[{"status_code":20000,"result":[{"keywords":[]}]}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := newStubClient(t, http.StatusOK, body)
			_, err := client.KeywordsForKeywords(context.Background(), KeywordRequest{Keyword: "x", LocationCode: 2840})
			if !pkgerrors.IsCode(err, pkgerrors.CodeNoData) {
				t.Fatalf("expected NO_DATA, got %v", err)
			}
		})
	}
}

func TestClientKeywordsForKeywordsUpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "http", status: http.StatusUnauthorized, body: `{"status_message":"auth failed"}`, wantStatus: http.StatusUnauthorized},
		{name: "envelope", status: http.StatusOK, body: `{"status_code":40100,"status_message":"You are not authorized."}`, wantStatus: 40100},
		{name: "task", status: http.StatusOK, body: `{"status_code":20000,"tasks":[{"status_code":40501,"status_message":"Invalid Field: 'location_code'."}]}`, wantStatus: 40501},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newStubClient(t, tt.status, tt.body)
			_, err := client.KeywordsForKeywords(context.Background(), KeywordRequest{Keyword: "x"})
			if !pkgerrors.IsCode(err, pkgerrors.CodeUpstream) {
				t.Fatalf("expected upstream error, got %v", err)
			}
			var upErr *pkgerrors.UpstreamError
			if !errors.As(err, &upErr) || upErr.StatusCode != tt.wantStatus {
				t.Fatalf("unexpected upstream error %v", err)
			}
		})
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	if _, err := NewClient("", "secret"); err == nil {
		t.Fatalf("expected error for missing login")
	}
	if _, err := NewClient("me", ""); err == nil {
		t.Fatalf("expected error for missing password")
	}
	var nilClient *Client
	_, err := nilClient.KeywordsForKeywords(context.Background(), KeywordRequest{Keyword: "x"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeUpstream) {
		t.Fatalf("expected not configured error, got %v", err)
	}
}

func TestCompetitionUnmarshal(t *testing.T) {
	tests := map[string]Competition{
		`"LOW"`: "LOW",
		`0.5`:   "0.5",
		`1`:     "1",
		`null`:  "",
	}
	for raw, want := range tests {
		var c Competition
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
		if c != want {
			t.Fatalf("unmarshal %s: expected %q got %q", raw, want, c)
		}
	}
	var c Competition
	if err := json.Unmarshal([]byte(`{"a":1}`), &c); err == nil {
		t.Fatalf("expected error for object competition")
	}
}

func newStubClient(t *testing.T, status int, body string) *Client {
	t.Helper()
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(status, body), nil
	})
	client, err := NewClient("login", "password", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
