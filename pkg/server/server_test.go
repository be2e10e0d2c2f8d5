package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/threadtree/pkg/errors"
	"github.com/matzehuels/threadtree/pkg/pipeline"
)

const sampleGraph = `{"nodes":[{"id":"A"},{"id":"B"},{"id":"C"},{"id":"D"}],
"edges":[{"from":"A","to":"B"},{"from":"A","to":"C"},{"from":"B","to":"D"}]}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(Config{
		Logger:  logger,
		Runner:  pipeline.NewRunner(nil, nil, logger),
		Version: "test",
	})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("missing request ID header")
	}
	body := decode[healthResponse](t, resp)
	if body.Status != "ok" || body.Version != "test" {
		t.Errorf("health = %+v", body)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	ts := newTestServer(t)
	const id = "0b9e8b2a-6f7d-4c1e-9a43-2a6e2d0c4f11"
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request ID = %q, want %q", got, id)
	}
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/v1/validate", `{"graph":`+sampleGraph+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body := decode[validateResponse](t, resp); !body.Valid || body.Root != "A" || body.Nodes != 4 {
		t.Errorf("validate = %+v", body)
	}

	forest := `{"graph":{"nodes":[{"id":"A"},{"id":"B"}],"edges":[]}}`
	resp = do(t, ts, http.MethodPost, "/v1/validate", forest)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("forest status = %d", resp.StatusCode)
	}
	body := decode[errorResponse](t, resp)
	if body.Error.Code != errors.ErrCodeInvalidTree || body.Error.RequestID == "" {
		t.Errorf("forest error = %+v", body.Error)
	}
}

func TestTraverse(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		opts string
		want []string
	}{
		{`{"order":"pre"}`, []string{"A", "B", "D", "C"}},
		{`{"order":"in","threaded":true}`, []string{"D", "B", "A", "C"}},
		{`{"order":"post","threaded":true}`, []string{"D", "B", "C", "A"}},
		{`{"order":"in","order_by":"id-desc"}`, []string{"C", "A", "D", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.opts, func(t *testing.T) {
			resp := do(t, ts, http.MethodPost, "/v1/traverse", `{"graph":`+sampleGraph+`,"options":`+tt.opts+`}`)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			res := decode[pipeline.Result](t, resp)
			if !slices.Equal(res.Sequence, tt.want) {
				t.Errorf("sequence = %v, want %v", res.Sequence, tt.want)
			}
		})
	}
}

func TestTraverseErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   errors.Code
	}{
		{"bad json", `{"graph":`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing graph", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"unknown field", `{"graph":` + sampleGraph + `,"extra":1}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad order", `{"graph":` + sampleGraph + `,"options":{"order":"level"}}`, http.StatusBadRequest, errors.ErrCodeInvalidOrder},
		{"unknown edge node", `{"graph":{"nodes":[{"id":"A"}],"edges":[{"from":"A","to":"Z"}]}}`, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{
			"ternary",
			`{"graph":{"nodes":[{"id":"A"},{"id":"B"},{"id":"C"},{"id":"D"}],"edges":[{"from":"A","to":"B"},{"from":"A","to":"C"},{"from":"A","to":"D"}]}}`,
			http.StatusUnprocessableEntity, errors.ErrCodeNotBinary,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, ts, http.MethodPost, "/v1/traverse", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decode[errorResponse](t, resp); body.Error.Code != tt.code {
				t.Errorf("code = %s, want %s (%s)", body.Error.Code, tt.code, body.Error.Message)
			}
		})
	}
}

func TestRenderDOT(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodPost, "/v1/render",
		`{"graph":`+sampleGraph+`,"options":{"order":"in","threads":true,"formats":["dot"]}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("Content-Type = %q", ct)
	}
	if resp.Header.Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache = %q", resp.Header.Get("X-Cache"))
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "digraph T") {
		t.Errorf("body is not DOT: %s", data)
	}
}

func TestStoredGraphs(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, ts, http.MethodPost, "/v1/graphs", `{"name":"sample","graph":`+sampleGraph+`}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("put status = %d", resp.StatusCode)
	}
	created := decode[recordResponse](t, resp)
	if created.ID == "" || created.Nodes != 4 || created.Edges != 3 {
		t.Fatalf("created = %+v", created)
	}
	if loc := resp.Header.Get("Location"); loc != "/v1/graphs/"+created.ID {
		t.Errorf("Location = %q", loc)
	}

	resp = do(t, ts, http.MethodGet, "/v1/graphs", "")
	if list := decode[[]recordResponse](t, resp); len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("list = %+v", list)
	}

	resp = do(t, ts, http.MethodGet, "/v1/graphs/"+created.ID, "")
	if got := decode[recordResponse](t, resp); got.Name != "sample" || len(got.Graph) == 0 {
		t.Errorf("get = %+v", got)
	}

	resp = do(t, ts, http.MethodGet, "/v1/graphs/"+created.ID+"/traverse?order=post&thread=true", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("traverse status = %d", resp.StatusCode)
	}
	res := decode[pipeline.Result](t, resp)
	if !res.Threaded || !slices.Equal(res.Sequence, []string{"D", "B", "C", "A"}) {
		t.Errorf("stored traverse = %+v", res)
	}

	resp = do(t, ts, http.MethodGet, "/v1/graphs/"+created.ID+"/traverse?thread=maybe", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad thread param status = %d", resp.StatusCode)
	}

	resp = do(t, ts, http.MethodDelete, "/v1/graphs/"+created.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp = do(t, ts, http.MethodGet, "/v1/graphs/"+created.ID, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
}

func TestUnknownGraphID(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, ts, http.MethodGet, "/v1/graphs/not-a-uuid", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if body := decode[errorResponse](t, resp); body.Error.Code != errors.ErrCodeNotFound {
		t.Errorf("code = %s", body.Error.Code)
	}
}
