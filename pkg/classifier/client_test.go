package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

// fakeService records requests and answers with a fixed status and body.
type fakeService struct {
	calls  atomic.Int32
	status int
	body   string

	mu      sync.Mutex
	lastReq PredictRequest
	headers http.Header
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	data, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.headers = r.Header.Clone()
	_ = json.Unmarshal(data, &f.lastReq)
	f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func newTestClient(t *testing.T, svc http.Handler, cfg Config) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(svc)
	t.Cleanup(srv.Close)
	cfg.URL = srv.URL + "/predict"
	return NewClient(cfg, nil).WithHTTPClient(srv.Client()), srv
}

func TestPredictSuccess(t *testing.T) {
	svc := &fakeService{status: http.StatusOK, body: `{"prediction": "spam"}`}
	c, _ := newTestClient(t, svc, Config{AuthToken: "secret-token"})

	p, err := c.Predict(context.Background(), "  WIN a FREE cruise now  ")
	require.NoError(t, err)

	assert.Equal(t, "spam", p.Label)
	assert.Equal(t, "SPAM", p.Display())
	assert.True(t, p.IsSpam())
	assert.Equal(t, "  WIN a FREE cruise now  ", p.Message)
	assert.NotEmpty(t, p.RequestID)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, int32(1), svc.calls.Load())
	assert.Equal(t, "  WIN a FREE cruise now  ", svc.lastReq.Message, "message is sent as typed")
	assert.Equal(t, "application/json", svc.headers.Get("Content-Type"))
	assert.Equal(t, "Bearer secret-token", svc.headers.Get("Authorization"))
	assert.Equal(t, p.RequestID, svc.headers.Get("X-Request-ID"))
}

func TestPredictHam(t *testing.T) {
	svc := &fakeService{status: http.StatusOK, body: `{"prediction": "ham"}`}
	c, _ := newTestClient(t, svc, Config{})

	p, err := c.Predict(context.Background(), "see you at lunch")
	require.NoError(t, err)
	assert.Equal(t, "HAM", p.Display())
	assert.False(t, p.IsSpam())
	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Empty(t, svc.headers.Get("Authorization"))
}

func TestPredictRejectsBlankWithoutRequest(t *testing.T) {
	svc := &fakeService{status: http.StatusOK, body: `{"prediction": "ham"}`}
	c, _ := newTestClient(t, svc, Config{})

	for _, msg := range []string{"", "   ", "\n\t "} {
		_, err := c.Predict(context.Background(), msg)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}
	assert.Equal(t, int32(0), svc.calls.Load())
}

func TestPredictStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"error field", http.StatusInternalServerError, `{"error": "model not loaded"}`, "HTTP error! status: 500 - model not loaded"},
		{"json without error field", http.StatusBadRequest, `{"detail": "bad input"}`, `HTTP error! status: 400 - {"detail":"bad input"}`},
		{"non-string error field", http.StatusUnprocessableEntity, `{"error": {"code": 7}}`, `HTTP error! status: 422 - {"code":7}`},
		{"empty error field", http.StatusBadRequest, `{"error": ""}`, `HTTP error! status: 400 - {"error":""}`},
		{"null error field", http.StatusBadRequest, `{"error": null}`, `HTTP error! status: 400 - {"error":null}`},
		{"false error field", http.StatusBadRequest, `{"error": false}`, `HTTP error! status: 400 - {"error":false}`},
		{"zero error field", http.StatusBadRequest, `{"error": 0}`, `HTTP error! status: 400 - {"error":0}`},
		{"true error field", http.StatusBadRequest, `{"error": true}`, `HTTP error! status: 400 - true`},
		{"null body", http.StatusInternalServerError, `null`, "HTTP error! status: 500"},
		{"plain text body", http.StatusBadGateway, `upstream down`, "HTTP error! status: 502"},
		{"empty body", http.StatusNotFound, ``, "HTTP error! status: 404"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{status: tt.status, body: tt.body}
			c, _ := newTestClient(t, svc, Config{})

			p, err := c.Predict(context.Background(), "hello")
			require.Error(t, err)
			assert.Nil(t, p)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestPredictBadSuccessBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>ok</html>`},
		{"missing prediction", `{"label": "spam"}`},
		{"empty prediction", `{"prediction": "  "}`},
		{"wrong type", `{"prediction": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{status: http.StatusOK, body: tt.body}
			c, _ := newTestClient(t, svc, Config{})

			p, err := c.Predict(context.Background(), "hello")
			assert.Error(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestPredictNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/predict"
	srv.Close()

	c := NewClient(Config{URL: url}, nil)
	_, err := c.Predict(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send request")

	msg := FailureMessage(err, c.Endpoint())
	assert.Contains(t, msg, "Failed to get prediction.")
	assert.Contains(t, msg, "Please ensure the API server at "+url+" is running and accessible.")
}

func TestPredictCancelled(t *testing.T) {
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		close(started)
		<-r.Context().Done()
	})
	c, _ := newTestClient(t, handler, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Predict(ctx, "hello")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Request cancelled.", FailureMessage(err, c.Endpoint()))
}

func TestPredictTimeout(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c, _ := newTestClient(t, handler, Config{Timeout: 50 * time.Millisecond})

	_, err := c.Predict(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
