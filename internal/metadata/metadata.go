package metadata

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/fractionft/fraction-marketplace/internal/entity"
	"github.com/fractionft/fraction-marketplace/internal/helper"
	"github.com/fractionft/fraction-marketplace/internal/ipfs"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/patrickmn/go-cache"
)

const maxMetadataBytes = 1 << 20

type Service interface {
	Fetch(ctx context.Context, uri string) (*entity.Metadata, error)
	ResolveImageURL(raw string) string
	Placeholder(tokenId string) entity.Metadata
}

type service struct {
	client       *retryablehttp.Client
	ipfs         ipfs.Resolver
	cache        *cache.Cache
	resolverPath string
}

func NewMetadataService(client *retryablehttp.Client, ipfsResolver ipfs.Resolver, metadataCache *cache.Cache, resolverPath string) Service {
	return service{client, ipfsResolver, metadataCache, resolverPath}
}

// Fetch resolves a token URI to its JSON metadata. data: URIs are decoded
// inline without touching the network; ipfs URIs go through the gateway
// resolver; anything else is fetched as a plain URL.
func (s service) Fetch(ctx context.Context, uri string) (*entity.Metadata, error) {
	if uri == "" {
		return nil, errors.New("empty metadata uri")
	}

	if cached, found := s.cache.Get(uri); found {
		md := cached.(entity.Metadata)
		return &md, nil
	}

	var (
		md  *entity.Metadata
		err error
	)

	switch {
	case strings.HasPrefix(uri, "data:"):
		md, err = decodeDataUri(uri)
	default:
		md, err = s.fetchRemote(ctx, uri)
	}

	if err != nil {
		return nil, err
	}

	s.cache.Set(uri, *md, cache.DefaultExpiration)

	return md, nil
}

// ResolveImageURL turns a raw metadata image field into a display-ready URL.
// ipfs content is routed through the same-origin resolver endpoint; the
// result is never a raw ipfs:// URI.
func (s service) ResolveImageURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "data:") {
		return trimmed
	}

	if path, ok := helper.IpfsPath(trimmed); ok {
		return s.resolverPath + "?path=" + url.QueryEscape(path)
	}

	if strings.HasPrefix(trimmed, "ar://") {
		return "https://arweave.net/" + strings.TrimPrefix(trimmed, "ar://")
	}

	return trimmed
}

// Placeholder builds the deterministic inline image used whenever metadata
// cannot be resolved, so one bad listing never renders as a broken tile.
func (s service) Placeholder(tokenId string) entity.Metadata {
	svg := fmt.Sprintf(
		`<svg width="400" height="400" xmlns="http://www.w3.org/2000/svg">`+
			`<rect width="100%%" height="100%%" fill="#1a1a1a"/>`+
			`<text x="50%%" y="40%%" text-anchor="middle" fill="#666" font-size="24" font-family="monospace">NFT</text>`+
			`<text x="50%%" y="60%%" text-anchor="middle" fill="#888" font-size="32" font-family="monospace">#%s</text>`+
			`</svg>`, tokenId)

	return entity.Metadata{
		Name:  "NFT #" + tokenId,
		Image: "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg)),
	}
}

func (s service) fetchRemote(ctx context.Context, uri string) (*entity.Metadata, error) {
	var body io.ReadCloser

	if path, ok := helper.IpfsPath(uri); ok {
		resp, err := s.ipfs.Fetch(ctx, path, "")
		if err != nil {
			return nil, err
		}
		body = resp.Body
	} else {
		req, err := retryablehttp.NewRequestWithContext(ctx, "GET", uri, nil)
		if err != nil {
			return nil, err
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != 200 {
			resp.Body.Close()
			return nil, errors.New(resp.Status)
		}
		body = resp.Body
	}
	defer body.Close()

	return decodeJson(io.LimitReader(body, maxMetadataBytes))
}

func decodeDataUri(uri string) (*entity.Metadata, error) {
	idx := strings.Index(uri, ",")
	if idx == -1 {
		return nil, errors.New("malformed data uri")
	}

	payload := uri[idx+1:]
	if strings.Contains(uri[:idx], "base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, err
		}
		return decodeJson(strings.NewReader(string(decoded)))
	}

	unescaped, err := url.QueryUnescape(payload)
	if err != nil {
		return nil, err
	}

	return decodeJson(strings.NewReader(unescaped))
}

func decodeJson(r io.Reader) (*entity.Metadata, error) {
	var md entity.Metadata
	if err := json.NewDecoder(r).Decode(&md); err != nil {
		return nil, err
	}

	return &md, nil
}
