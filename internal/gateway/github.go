package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bishnuhaldar/dealerdesk/internal/apperr"
	"github.com/bishnuhaldar/dealerdesk/internal/models"
)

// shared client (keep-alive, TLS session reuse across fetch/update pairs).
var defaultClient = &http.Client{
	Timeout: 30 * time.Second,
}

// GitHub implements Provider against the GitHub contents API for one file.
type GitHub struct {
	client  *http.Client
	apiBase string
	repo    string
	branch  string
	path    string
	token   string
}

// NewGitHub creates a gateway for the file at repo/path on the given branch.
// apiBase is normally "https://api.github.com".
func NewGitHub(apiBase, repo, branch, path, token string) *GitHub {
	return &GitHub{
		client:  defaultClient,
		apiBase: strings.TrimRight(apiBase, "/"),
		repo:    repo,
		branch:  branch,
		path:    path,
		token:   token,
	}
}

func (g *GitHub) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/contents/%s", g.apiBase, g.repo, g.path)
}

func (g *GitHub) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+g.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}

// Fetch retrieves the page content and its blob sha.
func (g *GitHub) Fetch(ctx context.Context) (*models.RemoteFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.contentsURL()+"?ref="+g.branch, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: build fetch request: %w", err)
	}
	g.setHeaders(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway: fetch %s: %w", g.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("gateway: fetch %s: %w", g.path, apperr.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway: fetch %s: %s", g.path, remoteMessage(resp))
	}

	var body struct {
		Content string `json:"content"`
		SHA     string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("gateway: decode fetch response: %w", err)
	}
	if body.Content == "" || body.SHA == "" {
		return nil, fmt.Errorf("gateway: fetch response missing content or sha")
	}

	// The API wraps base64 content in newlines; strip all whitespace first.
	raw, err := base64.StdEncoding.DecodeString(stripWhitespace(body.Content))
	if err != nil {
		return nil, fmt.Errorf("gateway: decode base64 content: %w", err)
	}

	return &models.RemoteFile{Content: string(raw), SHA: body.SHA}, nil
}

// Update commits new page content keyed by sha and returns the new blob sha.
func (g *GitHub) Update(ctx context.Context, content, sha, message string) (string, error) {
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString([]byte(content)),
		"sha":     sha,
		"branch":  g.branch,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("gateway: marshal update payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("gateway: build update request: %w", err)
	}
	g.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway: update %s: %w", g.path, err)
	}
	defer resp.Body.Close()

	// A stale sha comes back as 409, or as 422 from some API versions.
	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		return "", fmt.Errorf("gateway: update %s: %s: %w", g.path, remoteMessage(resp), apperr.ErrConflict)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("gateway: update %s: %s", g.path, remoteMessage(resp))
	}

	var body struct {
		Content struct {
			SHA string `json:"sha"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("gateway: decode update response: %w", err)
	}
	if body.Content.SHA == "" {
		return "", fmt.Errorf("gateway: update response missing new sha")
	}
	return body.Content.SHA, nil
}

// remoteMessage extracts the API's error message for verbatim passthrough,
// falling back to the HTTP status line.
func remoteMessage(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var body struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			return fmt.Sprintf("%s (%s)", body.Message, resp.Status)
		}
	}
	return resp.Status
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, s)
}
