package answer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second, zap.NewNop())
}

func TestAsk_SendsQuestionAndHistory(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"result":{"success":"The deadline is July 15."}}`))
	})

	text, err := client.Ask(context.Background(), Request{
		Question: "What is the admission deadline?",
		History:  [][2]string{{"Hi", "Hi there! How can I help?"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "The deadline is July 15.", text)

	assert.Equal(t, "What is the admission deadline?", got["question"])
	assert.Equal(t, []any{[]any{"Hi", "Hi there! How can I help?"}}, got["history"])
}

func TestAsk_EmptyHistoryIsAnEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"result":{"success":"ok"}}`))
	})

	_, err := client.Ask(context.Background(), Request{Question: "q"})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw["history"]))
}

func TestAsk_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "boom",
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusInternalServerError, se.Code)
				assert.Equal(t, "boom", se.Body)
			},
		},
		{
			name:   "unauthorized marker",
			status: http.StatusOK,
			body:   `{"result":{"error":"Unauthorized"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name:   "other error marker",
			status: http.StatusOK,
			body:   `{"result":{"error":"quota"}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "quota")
			},
		},
		{
			name:   "malformed body",
			status: http.StatusOK,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformed)
			},
		},
		{
			name:   "missing answer",
			status: http.StatusOK,
			body:   `{"result":{}}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrMalformed)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			text, err := client.Ask(context.Background(), Request{Question: "q"})
			require.Error(t, err)
			assert.Empty(t, text)
			tc.check(t, err)
		})
	}
}

func TestAsk_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second, nil)
	_, err := client.Ask(context.Background(), Request{Question: "q"})
	assert.ErrorContains(t, err, "request failed")
}
