package version

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuildInfoDefaults(t *testing.T) {
	info := GetBuildInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, Commit, info.Commit)
	assert.Equal(t, Date, info.Date)
}

func TestBuildInfoJSONRoundTrips(t *testing.T) {
	info := BuildInfo{Version: "v1.2.3", Commit: "abc123", Date: "2026-01-01"}
	raw, err := info.JSON()
	require.NoError(t, err)

	var decoded BuildInfo
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, info, decoded)
}

func TestBuildInfoShortIsVersionOnly(t *testing.T) {
	info := BuildInfo{Version: "v1.2.3", Commit: "abc", Date: "today"}
	assert.Equal(t, "v1.2.3", info.Short())
}

func TestBuildInfoStringContainsAllFields(t *testing.T) {
	info := BuildInfo{Version: "v1.2.3", Commit: "abc", Date: "today"}
	s := info.String()
	assert.Contains(t, s, "v1.2.3")
	assert.Contains(t, s, "abc")
	assert.Contains(t, s, "today")
}
