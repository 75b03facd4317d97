package runner

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPayloadFunctions(t *testing.T) {
	lines := filepath.Join(t.TempDir(), "lines.txt")
	require.NoError(t, os.WriteFile(lines, []byte("alpha\n\n  beta  \n"), 0o644))

	tests := []struct {
		name    string
		payload string
		check   func(t *testing.T, got string)
	}{
		{
			name:    "randomInt",
			payload: `{{randomInt 5 8}}`,
			check: func(t *testing.T, got string) {
				n, err := strconv.Atoi(got)
				require.NoError(t, err)
				assert.GreaterOrEqual(t, n, 5)
				assert.Less(t, n, 8)
			},
		},
		{
			name:    "randomInt empty range",
			payload: `{{randomInt 3 3}}`,
			check: func(t *testing.T, got string) {
				assert.Equal(t, "3", got)
			},
		},
		{
			name:    "randomChoice",
			payload: `{{randomChoice "a" "b"}}`,
			check: func(t *testing.T, got string) {
				assert.Contains(t, []string{"a", "b"}, got)
			},
		},
		{
			name:    "randomLine skips blank lines",
			payload: `{{randomLine "` + filepath.ToSlash(lines) + `"}}`,
			check: func(t *testing.T, got string) {
				assert.Contains(t, []string{"alpha", "beta"}, got)
			},
		},
		{
			name:    "randomUUID",
			payload: `{{randomUUID}}`,
			check: func(t *testing.T, got string) {
				assert.Regexp(t, regexp.MustCompile(`^[0-9a-f-]{36}$`), got)
			},
		},
		{
			name:    "repeat",
			payload: `{{repeat "ab" 3}}`,
			check: func(t *testing.T, got string) {
				assert.Equal(t, "ababab", got)
			},
		},
		{
			name:    "clientID and uuid",
			payload: `{{clientID}}-{{uuid}}`,
			check: func(t *testing.T, got string) {
				assert.Regexp(t, regexp.MustCompile(`^\d-[0-9a-f-]{36}$`), got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloads, err := NewTemplateEngine().RenderPayloads(tt.payload, 2)
			require.NoError(t, err)
			require.Len(t, payloads, 2)
			for _, p := range payloads {
				tt.check(t, string(p))
			}
		})
	}
}

func TestRenderPayloadErrors(t *testing.T) {
	_, err := NewTemplateEngine().RenderPayloads(`{{randomLine "/no/such/file"}}`, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render payload for client 0")

	_, err = NewTemplateEngine().RenderPayloads(`{{`, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse payload template")
}

func TestRenderPayloadVerbatim(t *testing.T) {
	payloads, err := NewTemplateEngine().RenderPayloads("Hello", 3)
	require.NoError(t, err)
	for _, p := range payloads {
		assert.Equal(t, "Hello", string(p))
	}
}
