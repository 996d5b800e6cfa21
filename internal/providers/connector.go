package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/valyxo/valyxo/internal/clientcache"
	"github.com/valyxo/valyxo/internal/modules/snapshots"
)

// ConnectorClient pulls snapshot rows from the external connector service,
// which aggregates billing and accounting integrations per company.
type ConnectorClient struct {
	baseURL   string
	client    *http.Client
	log       zerolog.Logger
	cacheRepo *clientcache.Repository
}

// NewConnectorClient creates a new connector provider.
// cacheRepo is optional - if nil, caching is disabled
func NewConnectorClient(baseURL string, cacheRepo *clientcache.Repository, log zerolog.Logger) *ConnectorClient {
	return &ConnectorClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 10 * time.Second},
		log:       log.With().Str("client", "connector").Logger(),
		cacheRepo: cacheRepo,
	}
}

// Name identifies the provider in logs and events.
func (c *ConnectorClient) Name() string {
	return "connector"
}

// connectorResponse is the connector's wire shape.
type connectorResponse struct {
	Rows []connectorRow `json:"rows"`
}

type connectorRow struct {
	PeriodDate string              `json:"period_date"`
	KPIs       map[string]*float64 `json:"kpis"`
}

// FetchSnapshots returns all snapshot rows the connector has for a company.
// Fresh cached responses short-circuit the call; on upstream failure a stale
// cached response is returned when available.
func (c *ConnectorClient) FetchSnapshots(ctx context.Context, companyID string) ([]snapshots.Snapshot, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("connector base URL not configured")
	}

	if c.cacheRepo != nil {
		data, err := c.cacheRepo.GetIfFresh(clientcache.TableConnectorRows, companyID)
		if err == nil && data != nil {
			if rows, err := parseConnectorBody(data, companyID); err == nil {
				c.log.Debug().Str("company_id", companyID).Msg("Cache hit")
				return rows, nil
			}
		}
	}

	endpoint := fmt.Sprintf("%s/companies/%s/snapshots", c.baseURL, url.PathEscape(companyID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build connector request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return c.staleFallback(companyID, fmt.Errorf("connector request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.staleFallback(companyID, fmt.Errorf("connector returned status %d", resp.StatusCode))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return c.staleFallback(companyID, fmt.Errorf("failed to read connector response: %w", err))
	}

	rows, err := parseConnectorBody(raw, companyID)
	if err != nil {
		return c.staleFallback(companyID, err)
	}

	if c.cacheRepo != nil {
		if err := c.cacheRepo.Store(clientcache.TableConnectorRows, companyID, json.RawMessage(raw), clientcache.TTLConnectorRows); err != nil {
			c.log.Warn().Err(err).Str("company_id", companyID).Msg("Failed to cache connector response")
		}
	}

	return rows, nil
}

// staleFallback returns a previously cached response regardless of age, or
// the original error when there is nothing cached.
func (c *ConnectorClient) staleFallback(companyID string, cause error) ([]snapshots.Snapshot, error) {
	if c.cacheRepo == nil {
		return nil, cause
	}

	data, err := c.cacheRepo.Get(clientcache.TableConnectorRows, companyID)
	if err != nil || data == nil {
		return nil, cause
	}

	rows, err := parseConnectorBody(data, companyID)
	if err != nil {
		return nil, cause
	}

	c.log.Warn().Err(cause).Str("company_id", companyID).Msg("Using stale cached connector rows")
	return rows, nil
}

// parseConnectorBody decodes a connector response into snapshot rows. Rows
// with an unparseable period date are skipped rather than failing the batch.
func parseConnectorBody(raw []byte, companyID string) ([]snapshots.Snapshot, error) {
	var parsed connectorResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse connector response: %w", err)
	}

	out := make([]snapshots.Snapshot, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		period, err := time.Parse(snapshots.PeriodLayout, row.PeriodDate)
		if err != nil {
			continue
		}

		kpis := row.KPIs
		if kpis == nil {
			kpis = map[string]*float64{}
		}

		out = append(out, snapshots.Snapshot{
			CompanyID:  companyID,
			PeriodDate: period,
			KPIs:       kpis,
		})
	}

	return out, nil
}
