package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"pharmadesk/m/domain"
)

// ResultLimit bounds every catalog request.
const ResultLimit = 10

// Client proxies brand-name searches to the OpenFDA drug label API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

type labelResponse struct {
	Results []struct {
		OpenFDA struct {
			BrandName []string `json:"brand_name"`
		} `json:"openfda"`
	} `json:"results"`
}

// Search returns brand names matching query in the order the API returns
// them. A blank query returns an empty list without touching the network.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	names := []string{}
	query = strings.TrimSpace(query)
	if query == "" {
		return names, nil
	}

	params := url.Values{}
	params.Set("search", "openfda.brand_name:"+query)
	params.Set("limit", fmt.Sprint(ResultLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &domain.LookupError{Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.LookupError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.LookupError{StatusCode: resp.StatusCode}
	}

	var body labelResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &domain.LookupError{Err: fmt.Errorf("decode response: %w", err)}
	}
	for _, result := range body.Results {
		if len(result.OpenFDA.BrandName) == 0 {
			continue
		}
		names = append(names, result.OpenFDA.BrandName[0])
	}
	return names, nil
}
