// Package geocode proxies reverse-geocoding lookups to Nominatim so the SPA
// does not talk to the upstream service directly.
package geocode

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim usage policy requires an identifying User-Agent.
const userAgent = "ProyectoKn/1.0"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type result struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road        string `json:"road"`
		HouseNumber string `json:"house_number"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		Postcode    string `json:"postcode"`
	} `json:"address"`
}

// ReverseResult carries the postal address for a coordinate, in the same
// field vocabulary the user records use.
type ReverseResult struct {
	Street      string `json:"street"`
	Number      string `json:"number"`
	City        string `json:"city"`
	PostalCode  string `json:"postalCode"`
	DisplayName string `json:"displayName"`
}

func (c *Client) Reverse(lat, lng float64) (*ReverseResult, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	fullURL := fmt.Sprintf("%s/reverse?%s", c.baseURL, params.Encode())
	log.Printf("geocode request: %s", fullURL)

	req, err := http.NewRequest(http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("geocode error: status %d, body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("geocode api error: status %d", resp.StatusCode)
	}

	var r result
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.Village
	}

	return &ReverseResult{
		Street:      r.Address.Road,
		Number:      r.Address.HouseNumber,
		City:        city,
		PostalCode:  r.Address.Postcode,
		DisplayName: r.DisplayName,
	}, nil
}
