package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gamelens/gamelens/internal/core"
)

const defaultHowLongToBeatURL = "https://howlongtobeat.com/"

const tidbitClass = "search_list_tidbit"

// HowLongToBeatSource scrapes completion times from the HowLongToBeat
// search page. A hit must match the alias exactly, ignoring case.
type HowLongToBeatSource struct {
	Client    *http.Client
	BaseURL   string
	UserAgent string
}

// HowLongToBeatRecord holds completion times in hours. Missing values are nil.
type HowLongToBeatRecord struct {
	Name          string   `json:"name" yaml:"name"`
	MainStory     *float64 `json:"main_story,omitempty" yaml:"main_story,omitempty"`
	MainPlusExtra *float64 `json:"main_plus_extra,omitempty" yaml:"main_plus_extra,omitempty"`
	Completionist *float64 `json:"completionist,omitempty" yaml:"completionist,omitempty"`
}

func (r *HowLongToBeatRecord) Source() core.SourceKind { return core.SourceHowLongToBeat }

func (r *HowLongToBeatRecord) DisplayName() string { return r.Name }

func (r *HowLongToBeatRecord) Summary() string {
	parts := make([]string, 0, 3)
	for _, entry := range []struct {
		label string
		hours *float64
	}{
		{"Main Story", r.MainStory},
		{"Main + Extra", r.MainPlusExtra},
		{"Completionist", r.Completionist},
	} {
		if entry.hours == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s - %s hours", entry.label, strconv.FormatFloat(*entry.hours, 'f', -1, 64)))
	}
	if len(parts) == 0 {
		return "None found"
	}
	return strings.Join(parts, ", ")
}

// Kind returns the source kind.
func (s *HowLongToBeatSource) Kind() core.SourceKind { return core.SourceHowLongToBeat }

// Label returns the report label.
func (s *HowLongToBeatSource) Label() string { return "How Long To Beat" }

// Endpoint reports the site base used for provenance.
func (s *HowLongToBeatSource) Endpoint() string { return s.baseURL().String() }

// Lookup posts a search and scans the result list for an exact title match.
func (s *HowLongToBeatSource) Lookup(ctx context.Context, alias string) (core.Record, error) {
	if s == nil {
		return nil, fmt.Errorf("howlongtobeat source is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	form := url.Values{
		"queryString": {alias},
		"t":           {"games"},
	}
	reqURL := endpoint(s.baseURL(), nil, "search_results")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, core.NewSourceError(core.SourceHowLongToBeat, core.KindTransport, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := send(s.Client, core.SourceHowLongToBeat, req, s.UserAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	nodes, err := html.ParseFragment(resp.Body, &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	if err != nil {
		return nil, core.NewSourceError(core.SourceHowLongToBeat, core.KindDeserialization, err)
	}

	return matchSearchResults(nodes, alias)
}

func (s *HowLongToBeatSource) baseURL() *url.URL {
	return parseBase(s.BaseURL, defaultHowLongToBeatURL)
}

func matchSearchResults(nodes []*html.Node, alias string) (core.Record, error) {
	var items []*html.Node
	for _, node := range nodes {
		items = append(items, findAll(node, isElement(atom.Li))...)
	}

	for _, item := range items {
		title := firstTitleLink(item)
		if title == nil {
			continue
		}
		name := textContent(title)
		if strings.ToLower(name) != alias {
			continue
		}

		cells := findAll(item, divWithClass(tidbitClass))
		if len(cells) < 6 {
			return nil, core.NewSourceError(core.SourceHowLongToBeat, core.KindDeserialization,
				fmt.Errorf("result %q has %d time cells, want 6", name, len(cells)))
		}

		return &HowLongToBeatRecord{
			Name:          name,
			MainStory:     parseHours(textContent(cells[1])),
			MainPlusExtra: parseHours(textContent(cells[3])),
			Completionist: parseHours(textContent(cells[5])),
		}, nil
	}

	return nil, core.ErrNotFound
}

// firstTitleLink returns the first <a> nested in an <h3>.
func firstTitleLink(item *html.Node) *html.Node {
	for _, heading := range findAll(item, isElement(atom.H3)) {
		if links := findAll(heading, isElement(atom.A)); len(links) > 0 {
			return links[0]
		}
	}
	return nil
}

// parseHours reads values such as "12½ Hours" or "40 Hours". Placeholders
// like "--" yield nil.
func parseHours(value string) *float64 {
	value = strings.ReplaceAll(value, "Â½", ".5")
	value = strings.ReplaceAll(value, "½", ".5")
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return nil
	}
	hours, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil
	}
	return &hours
}

func isElement(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

func divWithClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Div {
			return false
		}
		for _, attr := range n.Attr {
			if attr.Key != "class" {
				continue
			}
			for _, value := range strings.Fields(attr.Val) {
				if value == class {
					return true
				}
			}
		}
		return false
	}
}

// findAll collects descendants of root (root included) in document order.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return out
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
