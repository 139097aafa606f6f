package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/rankwatch/internal/common"
	"github.com/aleister1102/rankwatch/internal/config"
	"github.com/aleister1102/rankwatch/internal/httpclient"
)

func newTestHTTPClient(t *testing.T) *httpclient.HTTPClient {
	t.Helper()
	client, err := httpclient.NewHTTPClient(httpclient.DefaultClientConfig(), zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestFormatSnapshotMessage_Layout(t *testing.T) {
	msg := SnapshotMessage{
		SourceURL:        "https://example.com/rankings",
		FetchedAt:        time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		RenderedSnapshot: "1. Alice — 95 pts\n2. Bob — 88 pts\n",
		RowCount:         2,
	}

	got := FormatSnapshotMessage(msg)

	expected := "Ranking snapshot (2026-03-14 09:26:53 UTC)\n" +
		"Source: https://example.com/rankings\n" +
		"\n" +
		"1. Alice — 95 pts\n" +
		"2. Bob — 88 pts"
	assert.Equal(t, expected, got)
}

func TestFormatSnapshotMessage_DiffSectionOnlyWhenChanged(t *testing.T) {
	msg := SnapshotMessage{
		SourceURL:        "https://example.com/rankings",
		FetchedAt:        time.Now(),
		RenderedSnapshot: "1. Alice — 95 pts\n",
		DiffSummary:      "- 1. Alice — 93 pts\n+ 1. Alice — 95 pts",
	}

	msg.Changed = false
	assert.NotContains(t, FormatSnapshotMessage(msg), "Changes since last snapshot:")

	msg.Changed = true
	formatted := FormatSnapshotMessage(msg)
	assert.Contains(t, formatted, "Changes since last snapshot:")
	assert.Contains(t, formatted, "+ 1. Alice — 95 pts")
}

func TestFormatSnapshotMessage_HeaderUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	msg := SnapshotMessage{
		SourceURL:        "https://example.com/rankings",
		FetchedAt:        time.Date(2026, 3, 14, 16, 26, 53, 0, loc),
		RenderedSnapshot: "1. Alice — 95 pts\n",
	}

	got := FormatSnapshotMessage(msg)
	assert.Contains(t, got, "Ranking snapshot (2026-03-14 09:26:53 UTC)")
}

func TestConsoleNotifier_Notify(t *testing.T) {
	var buf bytes.Buffer
	cn := NewConsoleNotifier(zerolog.Nop())
	cn.out = &buf

	err := cn.Notify(context.Background(), "1. Alice — 95 pts")
	require.NoError(t, err)

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "1. Alice — 95 pts\n"))
	assert.Contains(t, output, strings.Repeat("-", consoleSeparatorWidth)+"\n")
}

func TestWebhookNotifier_Notify_PostsTextPayload(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	wn, err := NewWebhookNotifier(server.URL, newTestHTTPClient(t), zerolog.Nop())
	require.NoError(t, err)

	err = wn.Notify(context.Background(), "1. Alice — 95 pts")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "application/json", gotContentType)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "1. Alice — 95 pts", payload["text"])
}

func TestWebhookNotifier_Notify_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	wn, err := NewWebhookNotifier(server.URL, newTestHTTPClient(t), zerolog.Nop())
	require.NoError(t, err)

	err = wn.Notify(context.Background(), "snapshot")
	require.Error(t, err)

	var notifyErr *common.NotifyError
	require.True(t, errors.As(err, &notifyErr))
	assert.Equal(t, "webhook", notifyErr.Sink)
	assert.Contains(t, notifyErr.Reason, "429")
}

func TestWebhookNotifier_Notify_ServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	wn, err := NewWebhookNotifier(serverURL, newTestHTTPClient(t), zerolog.Nop())
	require.NoError(t, err)

	err = wn.Notify(context.Background(), "snapshot")
	require.Error(t, err)

	var notifyErr *common.NotifyError
	assert.True(t, errors.As(err, &notifyErr))
}

func TestNewWebhookNotifier_InvalidURL(t *testing.T) {
	_, err := NewWebhookNotifier("not a url", newTestHTTPClient(t), zerolog.Nop())
	assert.Error(t, err)
}

func TestNewFromConfig_Routing(t *testing.T) {
	client := newTestHTTPClient(t)

	sink, err := NewFromConfig(config.NotificationConfig{WebhookURL: ""}, client, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &ConsoleNotifier{}, sink)

	sink, err = NewFromConfig(config.NotificationConfig{WebhookURL: "https://hooks.example.com/abc"}, client, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &WebhookNotifier{}, sink)
}
