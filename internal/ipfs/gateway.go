package ipfs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

var ErrAllGatewaysFailed = errors.New("all ipfs gateways failed")

var leadingScheme = regexp.MustCompile(`^ipfs://`)

// Resolver fetches content-addressed data through an ordered list of public
// gateways, returning the first successful response. Individual gateways are
// unreliable and rate-limited; trying them in sequence server-side is what
// makes browser-facing fetches dependable.
type Resolver interface {
	Fetch(ctx context.Context, path string, rangeHeader string) (*http.Response, error)
	Hosts() []string
}

type resolver struct {
	hosts  []string
	client *retryablehttp.Client
}

func NewResolver(hosts []string, timeout time.Duration) Resolver {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.HTTPClient.Timeout = timeout

	return resolver{hosts, retryClient}
}

func (r resolver) Hosts() []string {
	return r.hosts
}

// CleanPath strips an ipfs:// prefix and any leading slashes, leaving the
// bare <cid>[/subpath] fragment.
func CleanPath(raw string) string {
	return strings.TrimLeft(leadingScheme.ReplaceAllString(raw, ""), "/")
}

func (r resolver) Fetch(ctx context.Context, path string, rangeHeader string) (*http.Response, error) {
	cleaned := CleanPath(path)
	if cleaned == "" {
		return nil, errors.New("empty ipfs path")
	}

	for _, host := range r.hosts {
		gateway := fmt.Sprintf("%s/ipfs/%s", strings.TrimRight(host, "/"), cleaned)

		req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, gateway, nil)
		if err != nil {
			continue
		}
		if rangeHeader != "" {
			req.Header.Set("Range", rangeHeader)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			zap.L().With(zap.Error(err), zap.String("gateway", gateway)).Debug("Ipfs: gateway failure")
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			zap.L().With(zap.String("gateway", gateway), zap.Int("status", resp.StatusCode)).Debug("Ipfs: gateway hit")
			return resp, nil
		}

		resp.Body.Close()
	}

	return nil, ErrAllGatewaysFailed
}
