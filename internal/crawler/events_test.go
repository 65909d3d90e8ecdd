package crawler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"log", Event{Kind: EventLog, Message: "✅ Scanned: https://example.com"}, `{"log":"✅ Scanned: https://example.com"}`},
		{"progress zero", Event{Kind: EventProgress, Progress: 0, Scanned: 1}, `{"progress":0,"scanned":1}`},
		{"progress", progressEvent(1, 1), `{"progress":50,"scanned":1}`},
		{"complete", Event{Kind: EventComplete, Message: CompleteMessage, Download: "/api/download/abc"}, `{"log":"✅ Crawl complete","download":"/api/download/abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw, err := json.Marshal(tt.ev)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
		})
	}
}
