// Package client calls the AcademicVerify JSON API.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/harrylevesque/academicverify/internal/models"
	"github.com/harrylevesque/academicverify/internal/verify"
)

// DefaultBaseURL is used when neither the flag nor the environment names a server.
const DefaultBaseURL = "http://localhost:8080"

// Client is a thin JSON API client.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New returns a client for baseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient}
}

type streamEvent struct {
	Step   *verify.Step               `json:"step"`
	Result *models.VerificationResult `json:"result"`
	Error  *verify.Error              `json:"error"`
}

// Lookup fetches the unpaced result for id.
func (c *Client) Lookup(ctx context.Context, id string) (models.VerificationResult, error) {
	var res models.VerificationResult
	if err := c.do(ctx, http.MethodGet, "/api/credentials/"+url.PathEscape(id), nil, &res); err != nil {
		return models.VerificationResult{}, err
	}
	return checkStatus(res)
}

// checkStatus rejects results whose status this client cannot display.
func checkStatus(res models.VerificationResult) (models.VerificationResult, error) {
	if !res.Status.Valid() {
		return models.VerificationResult{}, fmt.Errorf("unknown credential status %q", res.Status)
	}
	return res, nil
}

// Verify runs a paced verification, calling onStep as each step arrives.
func (c *Client) Verify(ctx context.Context, id string, onStep func(verify.Step)) (models.VerificationResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/verify/"+url.PathEscape(id)+"/stream", nil)
	if err != nil {
		return models.VerificationResult{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return models.VerificationResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return models.VerificationResult{}, decodeError(resp)
	}

	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		var ev streamEvent
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return models.VerificationResult{}, fmt.Errorf("decode stream: %w", err)
		}
		switch {
		case ev.Error != nil:
			return models.VerificationResult{}, ev.Error
		case ev.Result != nil:
			return checkStatus(*ev.Result)
		case ev.Step != nil && onStep != nil:
			onStep(*ev.Step)
		}
	}
	if err := sc.Err(); err != nil {
		return models.VerificationResult{}, err
	}
	return models.VerificationResult{}, fmt.Errorf("stream ended without a result")
}

// Fingerprint asks the server for a fresh fingerprint of seed.
func (c *Client) Fingerprint(ctx context.Context, seed string) (string, error) {
	var out struct {
		Fingerprint string `json:"fingerprint"`
	}
	err := c.do(ctx, http.MethodGet, "/api/fingerprint?seed="+url.QueryEscape(seed), nil, &out)
	return out.Fingerprint, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeError turns a non-200 response into a *verify.Error when the server
// sent one, otherwise a plain status error.
func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	var verr verify.Error
	if err := json.Unmarshal(b, &verr); err == nil && verr.Code != "" {
		return &verr
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}
