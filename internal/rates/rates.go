// Package rates quotes fiat prices for the crypto payment rails.
package rates

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"topup-bot/internal/common/logger"
)

// Asset is a crypto asset with a known price feed.
type Asset string

const (
	AssetTON  Asset = "ton"
	AssetUSDT Asset = "usdt"
)

// coingeckoID maps assets to CoinGecko coin ids.
var coingeckoID = map[Asset]string{
	AssetTON:  "the-open-network",
	AssetUSDT: "tether",
}

// fallbackRUB is returned when the price endpoint is unreachable or returns
// garbage. No retry and no caching: the next quote makes a fresh call.
var fallbackRUB = map[Asset]float64{
	AssetTON:  235.0,
	AssetUSDT: 81.0,
}

type Client struct {
	http *resty.Client
}

// NewClient builds a client against baseURL (the CoinGecko API host).
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second),
	}
}

// Rate returns the current RUB price for one unit of asset, or the per-asset
// fallback on any failure. It never returns an error to the caller.
func (c *Client) Rate(ctx context.Context, asset Asset) float64 {
	rate, err := c.fetch(ctx, asset)
	if err != nil {
		logger.Error().Err(err).Str("asset", string(asset)).Msg("rate lookup failed, using fallback")
		return fallbackRUB[asset]
	}
	return rate
}

func (c *Client) fetch(ctx context.Context, asset Asset) (float64, error) {
	id, ok := coingeckoID[asset]
	if !ok {
		return 0, fmt.Errorf("unknown asset %q", asset)
	}

	// Response shape: {"the-open-network":{"rub":235.4}}
	var out map[string]map[string]float64
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           id,
			"vs_currencies": "rub",
		}).
		SetResult(&out).
		Get("/api/v3/simple/price")
	if err != nil {
		return 0, err
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("price request status: %d", resp.StatusCode())
	}

	rate, ok := out[id]["rub"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no rub price for %q in response", id)
	}
	return rate, nil
}
