// Package classifier talks to the external AI service that labels incidents.
// Any OpenAI-compatible chat completions endpoint works; a service that
// answers with the classification object directly is accepted too.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/safeegypt/incident-reporting/internal/core/domain"
)

const (
	defaultTimeout = 20 * time.Second
	defaultModel   = "gpt-4o-mini"
	maxBodyBytes   = 1 << 20
)

const systemPrompt = `You review citizen safety reports. Answer with a single JSON object and nothing else:
{"category": "Violence" | "Accident" | "Utility" | "Illegal Activity" | "Other",
 "severity": "Low" | "Medium" | "High",
 "verified": "Real" | "False",
 "title": "<at most eight words>"}
"verified" is "False" when the report looks fabricated, spam or unrelated to public safety.`

var (
	categories = map[string]string{
		"violence":         "Violence",
		"accident":         "Accident",
		"utility":          "Utility",
		"illegal activity": "Illegal Activity",
		"illegal_activity": "Illegal Activity",
		"other":            "Other",
	}
	severities = map[string]string{"low": "Low", "medium": "Medium", "high": "High"}
	verdicts   = map[string]string{"real": "Real", "true": "Real", "false": "False", "fake": "False"}
)

// Config configures the classifier client.
type Config struct {
	URL     string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client is an HTTP classification client.
type Client struct {
	url    string
	apiKey string
	model  string
	http   *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		model:  model,
		http:   &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

// Classify asks the collaborator about incident. Transport failures, non-2xx
// answers and unparseable bodies are reported as domain.ErrUpstreamUnavailable.
func (c *Client) Classify(ctx context.Context, incident *domain.Incident) (domain.Classification, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: describe(incident)},
		},
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return domain.Classification{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return domain.Classification{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Classification{}, fmt.Errorf("%w: read body: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Classification{}, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	return parse(body)
}

func describe(i *domain.Incident) string {
	var b strings.Builder
	if i.Category != "" {
		fmt.Fprintf(&b, "Reported category: %s\n", i.Category)
	}
	if i.Title != "" {
		fmt.Fprintf(&b, "Title: %s\n", i.Title)
	}
	fmt.Fprintf(&b, "Description: %s\n", i.Description)
	if i.Location.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", i.Location.Address)
	}
	fmt.Fprintf(&b, "Coordinates: %.6f, %.6f\n", i.Location.Latitude, i.Location.Longitude)
	if len(i.Media) > 0 {
		fmt.Fprintf(&b, "Attached media files: %d\n", len(i.Media))
	}
	return b.String()
}

// parse extracts the classification from a chat completion or a bare object.
func parse(body []byte) (domain.Classification, error) {
	if !gjson.ValidBytes(body) {
		return domain.Classification{}, fmt.Errorf("%w: invalid json", domain.ErrUpstreamUnavailable)
	}

	result := gjson.ParseBytes(body)
	if content := result.Get("choices.0.message.content"); content.Exists() {
		raw := stripFences(content.String())
		if !gjson.Valid(raw) {
			return domain.Classification{}, fmt.Errorf("%w: model answer is not json", domain.ErrUpstreamUnavailable)
		}
		result = gjson.Parse(raw)
	}

	c := domain.Classification{
		Category: normalize(categories, result.Get("category").String()),
		Severity: normalize(severities, result.Get("severity").String()),
		Verified: verdict(result.Get("verified")),
		Title:    truncate(strings.TrimSpace(result.Get("title").String()), 255),
	}
	if c.IsEmpty() {
		return c, fmt.Errorf("%w: empty classification", domain.ErrUpstreamUnavailable)
	}
	return c, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func normalize(allowed map[string]string, v string) string {
	return allowed[strings.ToLower(strings.TrimSpace(v))]
}

func verdict(v gjson.Result) string {
	switch v.Type {
	case gjson.True:
		return "Real"
	case gjson.False:
		return "False"
	default:
		return normalize(verdicts, v.String())
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
