package driver

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTraceWritesNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.ndjson")

	Trace(TraceEntry{Driver: "dropped"})

	cleanup, err := EnableTracing(path)
	require.NoError(t, err)
	Trace(TraceEntry{
		Driver:      "openai",
		Endpoint:    "https://api.example.test/v1/chat/completions",
		Method:      "POST",
		Model:       "gpt-test",
		RequestBody: json.RawMessage(`{"model":"gpt-test"}`),
		StatusCode:  200,
		Duration:    1500 * time.Millisecond,
	})
	cleanup()
	Trace(TraceEntry{Driver: "after-cleanup"})

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 1)

	entry := lines[0]
	require.Equal(t, "completion", entry["event"])
	require.Equal(t, "openai", entry["driver"])
	require.Equal(t, "gpt-test", entry["model"])
	require.EqualValues(t, 200, entry["status_code"])
	require.EqualValues(t, 1500, entry["duration_ms"])
	require.Equal(t, map[string]any{"model": "gpt-test"}, entry["request_body"])
	require.NotEmpty(t, entry["timestamp"])
}
