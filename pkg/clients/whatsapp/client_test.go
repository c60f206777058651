package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/juicepos/internal/config"
)

func TestAPIClient_SendTextMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{
		AccessToken: "secret", PhoneNumberID: "12345",
		BaseURL: srv.URL + "/", APIVersion: "v20.0", SendTimeout: time.Second,
	})

	resp, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "919876543210", Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "wamid.1", resp.MessageID())

	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "919876543210", got["to"])
	assert.Equal(t, "hello", got["text"].(map[string]any)["body"])
}

func TestAPIClient_ReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer srv.Close()

	c := NewClient(config.WhatsAppConfig{AccessToken: "bad", PhoneNumberID: "1", BaseURL: srv.URL, APIVersion: "v20.0"})

	_, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=190")
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestLinkClient(t *testing.T) {
	c := NewLinkClient("")

	resp, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "919876543210", Body: "Your total: ₹240"})
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/919876543210?text=Your+total%3A+%E2%82%B9240", resp.Link)
	assert.Empty(t, resp.MessageID())

	_, err = c.SendTextMessage(context.Background(), SendTextMessageRequest{Body: "x"})
	assert.Error(t, err)
}
