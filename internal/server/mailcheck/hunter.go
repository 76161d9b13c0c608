package mailcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/referral/internal/common"
)

// HunterClient implements Checker over the hunter.io HTTP API.
type HunterClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHunterClient(baseURL, apiKey string) *HunterClient {
	return &HunterClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type verifierResponse struct {
	Data struct {
		Status string `json:"status"`
	} `json:"data"`
}

type accountResponse struct {
	Data struct {
		Requests struct {
			Verifications struct {
				Available int `json:"available"`
				Used      int `json:"used"`
			} `json:"verifications"`
		} `json:"requests"`
	} `json:"data"`
}

func (c *HunterClient) IsDeliverable(ctx context.Context, email string) (bool, error) {
	endpoint := fmt.Sprintf("%semail-verifier?email=%s&api_key=%s",
		c.baseURL, url.QueryEscape(email), url.QueryEscape(c.apiKey))

	var result verifierResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return false, err
	}

	return result.Data.Status == "valid", nil
}

func (c *HunterClient) AvailableVerifications(ctx context.Context) (int, error) {
	endpoint := fmt.Sprintf("%saccount?api_key=%s", c.baseURL, url.QueryEscape(c.apiKey))

	var result accountResponse
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return 0, err
	}

	v := result.Data.Requests.Verifications
	return v.Available - v.Used, nil
}

func (c *HunterClient) getJSON(ctx context.Context, endpoint string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building oracle request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: email oracle: %v", common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: email oracle returned status %d", common.ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: decoding oracle response: %v", common.ErrUnavailable, err)
	}

	return nil
}
