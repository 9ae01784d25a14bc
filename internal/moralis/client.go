package moralis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fractionft/fraction-marketplace/internal/config"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// ErrNoCredentials marks the configured-without-a-key case so callers can
// fall straight through to on-chain scanning.
var ErrNoCredentials = errors.New("moralis api key not configured")

type Nft struct {
	TokenAddress string `json:"token_address"`
	TokenId      string `json:"token_id"`
	Name         string `json:"name"`
	Metadata     string `json:"metadata"`
	TokenUri     string `json:"token_uri"`
}

type Client interface {
	NftsByOwner(ctx context.Context, owner string) ([]Nft, error)
}

type client struct {
	baseUrl string
	apiKey  string
	chain   string
	http    *retryablehttp.Client
}

func NewClient(cfg config.MoralisConfig, httpClient *retryablehttp.Client) Client {
	return client{strings.TrimRight(cfg.Url, "/"), cfg.Key, cfg.Chain, httpClient}
}

// NftsByOwner is a best-effort bulk ownership lookup. Any failure is returned
// to the caller, which degrades to per-contract scanning.
func (c client) NftsByOwner(ctx context.Context, owner string) ([]Nft, error) {
	if c.apiKey == "" {
		return nil, ErrNoCredentials
	}

	endpoint := fmt.Sprintf("%s/%s/nft?chain=%s&format=decimal&media_items=false", c.baseUrl, owner, c.chain)

	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		zap.L().With(zap.Error(err), zap.String("owner", owner)).Warn("Moralis: request failure")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, errors.New(resp.Status)
	}

	var payload struct {
		Result []Nft `json:"result"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4<<20)).Decode(&payload); err != nil {
		return nil, err
	}

	return payload.Result, nil
}
