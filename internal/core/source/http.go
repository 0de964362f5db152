package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gamelens/gamelens/internal/core"
)

// DefaultTimeout applies when a source is built without an HTTP client.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies requests from this tool.
const DefaultUserAgent = "gamelens"

func httpClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: DefaultTimeout}
}

func userAgent(value string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return DefaultUserAgent
}

func parseBase(value, fallback string) *url.URL {
	if strings.TrimSpace(value) != "" {
		if parsed, err := url.Parse(value); err == nil {
			return parsed
		}
	}
	parsed, _ := url.Parse(fallback)
	return parsed
}

// endpoint joins path elements onto base and attaches the query.
func endpoint(base *url.URL, query url.Values, elem ...string) string {
	joined := base.JoinPath(elem...)
	if len(query) > 0 {
		joined.RawQuery = query.Encode()
	}
	return joined.String()
}

// send executes req and classifies transport failures and non-2xx statuses.
// The caller owns the returned body.
func send(client *http.Client, kind core.SourceKind, req *http.Request, agent string) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent(agent))

	resp, err := httpClient(client).Do(req)
	if err != nil {
		return nil, core.NewSourceError(kind, core.KindTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil, core.NewSourceError(kind, core.KindTransport, fmt.Errorf("%s %s: status %d", req.Method, req.URL.Redacted(), resp.StatusCode))
	}
	return resp, nil
}

// getJSON issues a GET and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, kind core.SourceKind, agent, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return core.NewSourceError(kind, core.KindTransport, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := send(client, kind, req, agent)
	if err != nil {
		return err
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return core.NewSourceError(kind, core.KindDeserialization, err)
	}
	return nil
}

// requiredField pairs a JSON field name with whether the payload carried it.
type requiredField struct {
	name    string
	present bool
}

// checkRequired fails with Deserialization when any field is absent, so a
// missing value is never mistaken for its zero value.
func checkRequired(kind core.SourceKind, object string, fields ...requiredField) error {
	var missing []string
	for _, field := range fields {
		if !field.present {
			missing = append(missing, field.name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return core.NewSourceError(kind, core.KindDeserialization,
		fmt.Errorf("%s: missing required field %s", object, strings.Join(missing, ", ")))
}
