package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/rs/zerolog"

	"github.com/valyxo/valyxo/internal/clientcache"
)

// Client calls the external narrative generator service. The service is an
// opaque "summaries in, up to three short strings out" collaborator; its
// responses are model-generated, so parsing is deliberately forgiving.
type Client struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientcache.Repository
}

// NewClient creates a new generator client.
// cacheRepo is optional - if nil, caching is disabled
func NewClient(baseURL string, cacheRepo *clientcache.Repository, log zerolog.Logger) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
		log:       log.With().Str("client", "insight-generator").Logger(),
		cacheRepo: cacheRepo,
	}
}

// generateRequest is the wire shape sent to the generator.
type generateRequest struct {
	CompanyID string          `json:"company_id"`
	Summaries []MetricSummary `json:"summaries"`
}

// generateResponse is the expected (but not guaranteed) response shape.
type generateResponse struct {
	Insights []string `json:"insights"`
}

// Generate asks the generator for narrative lines about the given summaries.
// Fresh cached responses short-circuit the call; on upstream failure a stale
// cached response is better than nothing.
func (c *Client) Generate(ctx context.Context, companyID string, summaries []MetricSummary) ([]string, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("insight service URL not configured")
	}

	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh(clientcache.TableInsightPayloads, companyID)
		if err == nil && data != nil {
			if lines := parseInsightBody(data); len(lines) > 0 {
				c.log.Debug().Str("company_id", companyID).Msg("Cache hit")
				return lines, nil
			}
		}
	}

	body, err := json.Marshal(generateRequest{CompanyID: companyID, Summaries: summaries})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.staleFallback(companyID, fmt.Errorf("generator request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.staleFallback(companyID, fmt.Errorf("generator returned status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return c.staleFallback(companyID, fmt.Errorf("failed to read generator response: %w", err))
	}

	lines := parseInsightBody(raw)
	if len(lines) == 0 {
		return c.staleFallback(companyID, fmt.Errorf("generator response contained no insights"))
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(clientcache.TableInsightPayloads, companyID, generateResponse{Insights: lines}, clientcache.TTLInsightPayload); err != nil {
			c.log.Warn().Err(err).Str("company_id", companyID).Msg("Failed to cache generator response")
		}
	}

	return lines, nil
}

// staleFallback returns a previously cached response regardless of age, or
// the original error when there is nothing cached.
func (c *Client) staleFallback(companyID string, cause error) ([]string, error) {
	if c.cacheRepo == nil {
		return nil, cause
	}

	data, err := c.cacheRepo.Get(clientcache.TableInsightPayloads, companyID)
	if err != nil || data == nil {
		return nil, cause
	}

	lines := parseInsightBody(data)
	if len(lines) == 0 {
		return nil, cause
	}

	c.log.Warn().Err(cause).Str("company_id", companyID).Msg("Using stale cached insights")
	return lines, nil
}

// parseInsightBody extracts insight lines from a generator response body.
// Strict JSON is tried first; malformed bodies go through json-repair before
// giving up, since the generator occasionally wraps its JSON in prose or
// markdown fences. Returns nil when nothing usable can be recovered.
func parseInsightBody(raw []byte) []string {
	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		repaired, repairErr := jsonrepair.RepairJSON(string(raw))
		if repairErr != nil {
			return nil
		}
		if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
			return nil
		}
	}

	var lines []string
	for _, line := range parsed.Insights {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxInsightsPerRun {
			break
		}
	}

	return lines
}
