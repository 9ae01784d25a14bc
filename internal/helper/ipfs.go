package helper

import (
	"net/url"
	"regexp"
	"strings"
)

var cidRe = regexp.MustCompile("((Qm[1-9A-HJ-NP-Za-km-z]{44}|baf[a-z2-7]{20,})(/.*)?$)")

func IsUrl(uri string) bool {
	u, err := url.Parse(uri)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func IsIpfs(uri string) bool {
	_, ok := IpfsPath(uri)
	return ok
}

// IpfsPath extracts the <cid>[/subpath] fragment from any of the URI shapes
// seen in the wild: ipfs://<cid>, gateway URLs with an ipfs/ segment, and
// bare CID paths.
func IpfsPath(uri string) (string, bool) {
	if strings.HasPrefix(uri, "ipfs://") {
		return strings.TrimLeft(uri[7:], "/"), true
	}

	if idx := strings.Index(uri, "ipfs/"); idx != -1 {
		return strings.TrimLeft(uri[idx+5:], "/"), true
	}

	if !IsUrl(uri) {
		parts := cidRe.FindStringSubmatch(uri)
		if len(parts) > 1 {
			return parts[1], true
		}
	}

	return "", false
}
