// Package testutil provides shared test helpers: a sample directory page and
// a fake GitHub contents server.
package testutil

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
)

// SampleDocument is a minimal directory page carrying both embedded data
// regions in the shape the codec expects: a dealersData assignment with bare
// object keys, and an areaSelect block with a placeholder plus two regions.
const SampleDocument = `<!DOCTYPE html>
<html>
<head><title>Paddy Dealers</title></head>
<body>
    <div class="filters">
        <select class="area-select" id="areaSelect">
                    <option value="">-- Choose an area --</option>
                    <option value="Burdwan">Burdwan</option>
                    <option value="Hooghly">Hooghly</option>
                </select>
    </div>
    <script>
        const dealersData = [
            {
                name: "Haldar Traders",
                contact: "📞 98300 11111",
                rating: "⭐ 4.5",
                regions: ["Burdwan"],
                paddyTypes: [
                    { name: "Swarna", price: "₹2100", unit: "per quintal" }
                ]
            }
        ];
    </script>
</body>
</html>
`

// ContentsServer emulates the GitHub contents API for a single file with
// sha-based optimistic concurrency.
type ContentsServer struct {
	mu      sync.Mutex
	content string
	sha     int
	puts    int
}

func (c *ContentsServer) shaString() string {
	// Monotonic fake blob sha; opaque to the client, which must echo it back.
	return "sha-" + strconv.Itoa(c.sha)
}

// Content returns the current remote file content.
func (c *ContentsServer) Content() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// SetContent replaces the remote content out-of-band, advancing the sha, as
// a concurrent editor would.
func (c *ContentsServer) SetContent(content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.content = content
	c.sha++
}

// SHA returns the current version token.
func (c *ContentsServer) SHA() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shaString()
}

// Puts returns how many successful writes the server has accepted.
func (c *ContentsServer) Puts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.puts
}

func (c *ContentsServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]string{
				// Real responses wrap base64 at 60 columns; a stray newline
				// exercises the client's whitespace stripping.
				"content": base64.StdEncoding.EncodeToString([]byte(c.content)) + "\n",
				"sha":     c.shaString(),
			})
		case http.MethodPut:
			var body struct {
				Message string `json:"message"`
				Content string `json:"content"`
				SHA     string `json:"sha"`
				Branch  string `json:"branch"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if body.SHA != c.shaString() {
				w.WriteHeader(http.StatusConflict)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "is at a different revision"})
				return
			}
			raw, err := base64.StdEncoding.DecodeString(body.Content)
			if err != nil {
				w.WriteHeader(http.StatusUnprocessableEntity)
				return
			}
			c.content = string(raw)
			c.sha++
			c.puts++
			_ = json.NewEncoder(w).Encode(map[string]any{
				"content": map[string]string{"sha": c.shaString()},
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

// NewContentsServer starts a fake contents API serving the given initial
// content and returns it with its base URL. The server is shut down via
// t.Cleanup.
func NewContentsServer(t *testing.T, initial string) (*ContentsServer, string) {
	t.Helper()
	cs := &ContentsServer{content: initial, sha: 1}
	srv := httptest.NewServer(cs.handler())
	t.Cleanup(srv.Close)
	return cs, srv.URL
}
