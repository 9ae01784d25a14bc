package helper_test

import (
	"testing"

	"github.com/fractionft/fraction-marketplace/internal/helper"
	"github.com/stretchr/testify/assert"
)

const testCid = "QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG"

func TestIpfsPath(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
		ok       bool
	}{
		{"ipfs scheme", "ipfs://" + testCid, testCid, true},
		{"ipfs scheme with subpath", "ipfs://" + testCid + "/image.png", testCid + "/image.png", true},
		{"gateway url", "https://ipfs.io/ipfs/" + testCid, testCid, true},
		{"bare cid", testCid, testCid, true},
		{"bafy cid", "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi", "bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi", true},
		{"plain http", "https://example.com/metadata.json", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := helper.IpfsPath(tt.uri)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, path)
		})
	}
}

func TestIsIpfs(t *testing.T) {
	assert.True(t, helper.IsIpfs("ipfs://"+testCid))
	assert.False(t, helper.IsIpfs("https://example.com/x.json"))
}

func TestIsUrl(t *testing.T) {
	assert.True(t, helper.IsUrl("https://example.com/x"))
	assert.False(t, helper.IsUrl(testCid))
}
