package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityForStatus(t *testing.T) {
	assert.Equal(t, SeverityInfo, SeverityForStatus(200))
	assert.Equal(t, SeverityInfo, SeverityForStatus(202))
	assert.Equal(t, SeverityAlert, SeverityForStatus(500))
	assert.Equal(t, SeverityAlert, SeverityForStatus(404))
	assert.Equal(t, SeverityAlert, SeverityForStatus(201))
}

func TestTelegramNotifierChannelRouting(t *testing.T) {
	var gotChatIDs []string
	var gotTexts []string
	var gotPaths []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		gotChatIDs = append(gotChatIDs, r.URL.Query().Get("chat_id"))
		gotTexts = append(gotTexts, r.URL.Query().Get("text"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	n := NewTelegramNotifier(server.URL, "test-token", "logging-channel", "alerting-channel")

	err := n.Notify(context.Background(), "Data is being uploaded", SeverityInfo)
	assert.NoError(t, err)

	err = n.Notify(context.Background(), "Failed to upload the data to BigQuery.", SeverityAlert)
	assert.NoError(t, err)

	assert.Equal(t, []string{"/bottest-token/sendMessage", "/bottest-token/sendMessage"}, gotPaths)
	assert.Equal(t, []string{"logging-channel", "alerting-channel"}, gotChatIDs)
	assert.Equal(t, "Data is being uploaded", gotTexts[0])
	assert.Contains(t, gotTexts[1], "Failed to upload")
}

func TestTelegramNotifierHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	n := NewTelegramNotifier(server.URL, "bad-token", "logging-channel", "alerting-channel")

	err := n.Notify(context.Background(), "message", SeverityInfo)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
