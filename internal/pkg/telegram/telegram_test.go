package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	var mu sync.Mutex
	var got []sendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)

		var req sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		mu.Lock()
		got = append(got, req)
		mu.Unlock()

		if req.ChatID == "bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(config.TelegramConfig{BotToken: "TOKEN", APIBaseURL: srv.URL + "/"})

	require.NoError(t, c.SendMessage(context.Background(), "42", "hello"))

	err := c.Broadcast(context.Background(), []string{"1", "bad", "2"}, "digest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 4)
	assert.Equal(t, sendMessageRequest{ChatID: "42", Text: "hello"}, got[0])
}

func TestNotConfigured(t *testing.T) {
	c := NewClient(config.TelegramConfig{})
	assert.False(t, c.Configured())
	assert.ErrorIs(t, c.SendMessage(context.Background(), "1", "x"), ErrNotConfigured)
}

func TestRecipients(t *testing.T) {
	c := NewClient(config.TelegramConfig{BotToken: "t", DefaultChatIDs: []string{"100"}})
	assert.Equal(t, []string{"100"}, c.Recipients(nil))
	assert.Equal(t, []string{"7"}, c.Recipients([]string{"7"}))
}
