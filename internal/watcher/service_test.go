package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/rankwatch/internal/common"
	"github.com/aleister1102/rankwatch/internal/config"
	"github.com/aleister1102/rankwatch/internal/httpclient"
	"github.com/aleister1102/rankwatch/internal/notifier"
)

const rankingPageHTML = `<html><body><table>
<tr><th>Pos</th><th>Name</th><th>Points</th></tr>
<tr><td>1</td><td>Alice</td><td>95</td></tr>
<tr><td>2</td><td>Bob</td><td>88</td></tr>
<tr><td>3</td><td>Cara</td><td>70</td></tr>
</table></body></html>`

const rankingPageHTMLUpdated = `<html><body><table>
<tr><th>Pos</th><th>Name</th><th>Points</th></tr>
<tr><td>1</td><td>Alice</td><td>97 </td></tr>
<tr><td>2</td><td>Bob</td><td>88</td></tr>
<tr><td>3</td><td>Cara</td><td>70</td></tr>
</table></body></html>`

const expectedRenderedSnapshot = "1. Alice — 95 pts\n2. Bob — 88 pts\n3. Cara — 70 pts\n"

// pageHost serves mutable ranking page HTML for multi cycle tests.
type pageHost struct {
	mu     sync.Mutex
	html   string
	status int
}

func newPageHost(html string) *pageHost {
	return &pageHost{html: html, status: http.StatusOK}
}

func (ph *pageHost) set(html string) {
	ph.mu.Lock()
	defer ph.mu.Unlock()
	ph.html = html
}

func (ph *pageHost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ph.mu.Lock()
	defer ph.mu.Unlock()
	w.WriteHeader(ph.status)
	_, _ = w.Write([]byte(ph.html))
}

// captureSink records delivered messages and can be told to fail.
type captureSink struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (cs *captureSink) Notify(_ context.Context, message string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.err != nil {
		return cs.err
	}
	cs.messages = append(cs.messages, message)
	return nil
}

func (cs *captureSink) setError(err error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.err = err
}

func (cs *captureSink) count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.messages)
}

func (cs *captureSink) last() string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.messages) == 0 {
		return ""
	}
	return cs.messages[len(cs.messages)-1]
}

func newServiceTestConfig(t *testing.T, sourceURL string) *config.GlobalConfig {
	t.Helper()
	cfg := config.NewDefaultGlobalConfig()
	cfg.WatcherConfig.SourceURL = sourceURL
	dir := t.TempDir()
	cfg.StorageConfig.StateFilePath = filepath.Join(dir, "state.json")
	cfg.StorageConfig.OutputFilePath = filepath.Join(dir, "ranking_latest.txt")
	return cfg
}

func newTestService(t *testing.T, cfg *config.GlobalConfig, sink notifier.Notifier) *WatcherService {
	t.Helper()
	client, err := httpclient.NewHTTPClient(httpclient.DefaultClientConfig(), zerolog.Nop())
	require.NoError(t, err)
	return NewWatcherService(cfg, client, sink, nil, zerolog.Nop())
}

func TestWatcherService_FirstCycle_PostsAndPersists(t *testing.T) {
	server := httptest.NewServer(newPageHost(rankingPageHTML))
	defer server.Close()

	cfg := newServiceTestConfig(t, server.URL)
	sink := &captureSink{}
	service := newTestService(t, cfg, sink)

	result, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.True(t, result.Posted)
	assert.Equal(t, 3, result.RowCount)
	require.Equal(t, 1, sink.count())

	message := sink.last()
	assert.Contains(t, message, "Ranking snapshot (")
	assert.Contains(t, message, "Source: "+server.URL)
	assert.Contains(t, message, "1. Alice — 95 pts")
	assert.Contains(t, message, "3. Cara — 70 pts")

	outputData, err := os.ReadFile(cfg.StorageConfig.OutputFilePath)
	require.NoError(t, err)
	assert.Equal(t, expectedRenderedSnapshot, string(outputData))

	assert.Equal(t, result.Fingerprint, service.State().Fingerprint)

	stateData, err := os.ReadFile(cfg.StorageConfig.StateFilePath)
	require.NoError(t, err)
	var persisted map[string]interface{}
	require.NoError(t, json.Unmarshal(stateData, &persisted))
	assert.Equal(t, result.Fingerprint, persisted["fingerprint"])
	assert.Equal(t, server.URL, persisted["source_url"])
}

func TestWatcherService_UnchangedCycle_DoesNotPost(t *testing.T) {
	server := httptest.NewServer(newPageHost(rankingPageHTML))
	defer server.Close()

	cfg := newServiceTestConfig(t, server.URL)
	sink := &captureSink{}
	service := newTestService(t, cfg, sink)

	first, err := service.RunCycle(context.Background())
	require.NoError(t, err)
	firstUpdatedAt := service.State().UpdatedAt

	time.Sleep(10 * time.Millisecond)

	second, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.False(t, second.Changed)
	assert.False(t, second.Posted)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, 1, sink.count())

	// The state file is refreshed on unchanged cycles too.
	assert.True(t, service.State().UpdatedAt.After(firstUpdatedAt))
	assert.Equal(t, first.Fingerprint, service.State().Fingerprint)
}

func TestWatcherService_ChangedCycle_PostsWithDiff(t *testing.T) {
	host := newPageHost(rankingPageHTML)
	server := httptest.NewServer(host)
	defer server.Close()

	cfg := newServiceTestConfig(t, server.URL)
	sink := &captureSink{}
	service := newTestService(t, cfg, sink)

	first, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	host.set(rankingPageHTMLUpdated)

	second, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.True(t, second.Changed)
	assert.True(t, second.Posted)
	assert.NotEqual(t, first.Fingerprint, second.Fingerprint)
	require.Equal(t, 2, sink.count())

	message := sink.last()
	assert.Contains(t, message, "1. Alice — 97 pts")
	assert.Contains(t, message, "Changes since last snapshot:")
	assert.Contains(t, message, "- 1. Alice — 95 pts")
	assert.Contains(t, message, "+ 1. Alice — 97 pts")

	outputData, err := os.ReadFile(cfg.StorageConfig.OutputFilePath)
	require.NoError(t, err)
	assert.Contains(t, string(outputData), "1. Alice — 97 pts\n")

	assert.Equal(t, second.Fingerprint, service.State().Fingerprint)
}

func TestWatcherService_NotificationFailure_WithholdsFingerprint(t *testing.T) {
	server := httptest.NewServer(newPageHost(rankingPageHTML))
	defer server.Close()

	cfg := newServiceTestConfig(t, server.URL)
	sink := &captureSink{}
	sink.setError(common.NewNotifyError("webhook", "status 500", nil))
	service := newTestService(t, cfg, sink)

	_, err := service.RunCycle(context.Background())
	require.Error(t, err)

	var notifyErr *common.NotifyError
	assert.True(t, errors.As(err, &notifyErr))

	// Fingerprint withheld in memory and on disk.
	assert.Empty(t, service.State().Fingerprint)
	_, statErr := os.Stat(cfg.StorageConfig.StateFilePath)
	assert.True(t, os.IsNotExist(statErr))

	// The output file still reflects the fetched snapshot.
	outputData, err := os.ReadFile(cfg.StorageConfig.OutputFilePath)
	require.NoError(t, err)
	assert.Equal(t, expectedRenderedSnapshot, string(outputData))

	// Once delivery recovers, the same content is posted again.
	sink.setError(nil)
	result, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.True(t, result.Posted)
	assert.Equal(t, 1, sink.count())
	assert.Equal(t, result.Fingerprint, service.State().Fingerprint)
}

func TestWatcherService_AlwaysPost_PostsUnchangedSnapshots(t *testing.T) {
	server := httptest.NewServer(newPageHost(rankingPageHTML))
	defer server.Close()

	cfg := newServiceTestConfig(t, server.URL)
	cfg.NotificationConfig.AlwaysPost = true
	sink := &captureSink{}
	service := newTestService(t, cfg, sink)

	_, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	second, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.False(t, second.Changed)
	assert.True(t, second.Posted)
	assert.Equal(t, 2, sink.count())
	assert.NotContains(t, sink.last(), "Changes since last snapshot:")
}

func TestWatcherService_CorruptStateFile_TreatedAsFirstRun(t *testing.T) {
	server := httptest.NewServer(newPageHost(rankingPageHTML))
	defer server.Close()

	cfg := newServiceTestConfig(t, server.URL)
	require.NoError(t, os.WriteFile(cfg.StorageConfig.StateFilePath, []byte("{broken"), 0644))

	sink := &captureSink{}
	service := newTestService(t, cfg, sink)

	result, err := service.RunCycle(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.True(t, result.Posted)

	// The corrupt file is replaced with valid state.
	stateData, err := os.ReadFile(cfg.StorageConfig.StateFilePath)
	require.NoError(t, err)
	var persisted map[string]interface{}
	assert.NoError(t, json.Unmarshal(stateData, &persisted))
}

func TestWatcherService_FetchFailure_NoStateTouched(t *testing.T) {
	server := httptest.NewServer(newPageHost(rankingPageHTML))
	serverURL := server.URL
	server.Close()

	cfg := newServiceTestConfig(t, serverURL)
	sink := &captureSink{}
	service := newTestService(t, cfg, sink)

	_, err := service.RunCycle(context.Background())
	require.Error(t, err)

	var netErr *common.NetworkError
	assert.True(t, errors.As(err, &netErr))
	assert.Equal(t, 0, sink.count())

	_, statErr := os.Stat(cfg.StorageConfig.OutputFilePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWatcherService_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone fishing", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := newServiceTestConfig(t, server.URL)
	sink := &captureSink{}
	service := newTestService(t, cfg, sink)

	_, err := service.RunCycle(context.Background())
	require.Error(t, err)

	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestWatcherService_ParseFailure_NoOutputWritten(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html><body><p>maintenance</p></body></html>")
	}))
	defer server.Close()

	cfg := newServiceTestConfig(t, server.URL)
	sink := &captureSink{}
	service := newTestService(t, cfg, sink)

	_, err := service.RunCycle(context.Background())
	require.Error(t, err)

	var parseErr *common.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 0, sink.count())

	_, statErr := os.Stat(cfg.StorageConfig.OutputFilePath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWatcherService_StatePersistsAcrossRestarts(t *testing.T) {
	server := httptest.NewServer(newPageHost(rankingPageHTML))
	defer server.Close()

	cfg := newServiceTestConfig(t, server.URL)
	sink := &captureSink{}

	first := newTestService(t, cfg, sink)
	_, err := first.RunCycle(context.Background())
	require.NoError(t, err)

	// A fresh service instance reads the persisted fingerprint and sees
	// the unchanged page as unchanged.
	restarted := newTestService(t, cfg, sink)
	result, err := restarted.RunCycle(context.Background())
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.Equal(t, 1, sink.count())
}
