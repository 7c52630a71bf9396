package http

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/ValentinKolb/rgKV/rpc/common"
)

// newTestServer starts the server routes on a random port, the handler echoes "<shardId>:<body>"
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := &httpServerTransport{}
	st.RegisterHandler(func(shardId uint64, req []byte) []byte {
		return append([]byte(strconv.FormatUint(shardId, 10)+":"), req...)
	})
	srv := httptest.NewServer(st.mux())
	t.Cleanup(srv.Close)
	return srv
}

func TestSendRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	ct := NewHttpClientTransport()
	if err := ct.Connect(common.ClientConfig{Endpoints: []string{srv.URL}, TimeoutSecond: 5, RetryCount: 2}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer ct.Close()

	// send twice to check that the body survives the reuse of the connection
	for i := 0; i < 2; i++ {
		resp, err := ct.Send(7, []byte("ping"))
		if err != nil {
			t.Fatalf("Send failed: %v", err)
		}
		if string(resp) != "7:ping" {
			t.Errorf("Send() = %q, want %q", resp, "7:ping")
		}
	}
}

func TestEndpointWithoutScheme(t *testing.T) {
	srv := newTestServer(t)

	ct := NewHttpClientTransport()
	endpoint := strings.TrimPrefix(srv.URL, "http://")
	if err := ct.Connect(common.ClientConfig{Endpoints: []string{endpoint}, TimeoutSecond: 5}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer ct.Close()

	if _, err := ct.Send(1, []byte("x")); err != nil {
		t.Errorf("Send failed: %v", err)
	}
}

func TestInvalidShardId(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/not-a-number", "application/octet-stream", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// produce at least one request metric
	if _, err := http.Post(srv.URL+"/1", "application/octet-stream", bytes.NewReader([]byte("x"))); err != nil {
		t.Fatalf("POST failed: %v", err)
	}

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "rgkv_http_requests_total") {
		t.Errorf("metrics output misses request counter:\n%s", body)
	}
}

func TestSendErrors(t *testing.T) {
	ct := NewHttpClientTransport()
	if _, err := ct.Send(1, nil); err == nil {
		t.Errorf("expected error for unconnected transport")
	}
	if err := ct.Connect(common.ClientConfig{}); err == nil {
		t.Errorf("expected error for missing endpoints")
	}

	srv := newTestServer(t)
	if err := ct.Connect(common.ClientConfig{Endpoints: []string{srv.URL + "/nested"}, TimeoutSecond: 5}); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	// POST /nested/1 does not match any route
	if _, err := ct.Send(1, nil); err == nil {
		t.Errorf("expected http error for unknown route")
	}
}
