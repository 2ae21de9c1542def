package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	crossroadshttp "github.com/aretw0/crossroads/pkg/adapters/http"
	"github.com/aretw0/crossroads/pkg/adapters/memory"
	"github.com/aretw0/crossroads/pkg/domain"
)

const planMessage = `Here is the plan.

Decision points
1) **Scope** (single-select): How far should the refactor go?
  1. Minimal (Recommended)
  2. Full rewrite
2) **Tests** (multi-select): Which suites should I extend?
  1. Unit
  2. Integration
`

func newTestServer(t *testing.T, opts ...crossroadshttp.Option) *httptest.Server {
	t.Helper()
	handler, err := crossroadshttp.NewHandler(opts...)
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestGetSwagger(t *testing.T) {
	doc, err := crossroadshttp.GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "Crossroads API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/v1/dialogs/{id}/events"))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestParse(t *testing.T) {
	srv := newTestServer(t)

	payload, _ := json.Marshal(map[string]string{"message": planMessage, "dialect": "lenient"})
	resp, body := do(t, srv, http.MethodPost, "/v1/parse", string(payload))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out struct {
		Found   bool         `json:"found"`
		Dialect string       `json:"dialect"`
		Round   domain.Round `json:"round"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Found)
	assert.Equal(t, "lenient", out.Dialect)
	require.Len(t, out.Round.Questions, 2)
	assert.Equal(t, domain.MultiSelect, out.Round.Questions[1].Kind)

	resp, body = do(t, srv, http.MethodPost, "/v1/parse", `{"message":"no decisions here"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"found":false,"dialect":"strict"}`, string(body))
}

func TestParse_Validation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/v1/parse", `{"dialect":"strict"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "message is required")

	resp, _ = do(t, srv, http.MethodPost, "/v1/parse", `{"message":"x","dialect":"klingon"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

const roundJSON = `{"questions":[
	{"label":"Scope","prompt":"How far?","kind":"single-select","options":[{"title":"small"},{"title":"large"},{"title":"(None) Type your answer","is_free_text":true}]},
	{"label":"Tests","prompt":"Which?","kind":"multi-select","options":[{"title":"unit"},{"title":"e2e"},{"title":"(None) Type your answer","is_free_text":true}]}
]}`

func TestEncodeDecode(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/v1/encode",
		`{"round":`+roundJSON+`,"answers":[{"selected":[1]},{"selected":[0,1]}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"reply":"2\n1,2"}`, string(body))

	resp, body = do(t, srv, http.MethodPost, "/v1/decode", `{"round":`+roundJSON+`,"reply":"2\nonly smoke"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"answers":[{"selected":[1]},{"free_text":"only smoke"}]}`, string(body))

	resp, _ = do(t, srv, http.MethodPost, "/v1/decode", `{"round":`+roundJSON+`,"reply":"2"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/v1/encode", `{"round":`+roundJSON+`,"answers":[{"selected":[1]}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestInstructions(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, http.MethodGet, "/v1/instructions/lenient", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Dialect      string `json:"dialect"`
		MaxRounds    int    `json:"max_rounds"`
		Instructions string `json:"instructions"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "lenient", out.Dialect)
	assert.Equal(t, 3, out.MaxRounds)
	assert.Contains(t, out.Instructions, "Decision points")

	resp, _ = do(t, srv, http.MethodGet, "/v1/instructions/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDialogLifecycle(t *testing.T) {
	outbox := memory.NewOutbox(1)
	srv := newTestServer(t, crossroadshttp.WithReplySink(outbox))

	resp, body := do(t, srv, http.MethodPost, "/v1/dialogs", `{"round":`+roundJSON+`}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var opened crossroadshttp.DialogResponse
	require.NoError(t, json.Unmarshal(body, &opened))
	require.NotEmpty(t, opened.ID)
	assert.Len(t, opened.Frame.Tabs, 2)

	resp, body = do(t, srv, http.MethodGet, "/v1/dialogs/"+opened.ID+"?width=60", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var got crossroadshttp.DialogResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Contains(t, got.Render, "☐ Scope")

	resp, body = do(t, srv, http.MethodPost, "/v1/dialogs/"+opened.ID+"/events",
		`{"events":[{"kind":"quick_select","digit":2},{"kind":"quick_select","digit":1}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var mid crossroadshttp.DialogResponse
	require.NoError(t, json.Unmarshal(body, &mid))
	assert.Equal(t, 1, mid.State.ActiveTab)
	assert.False(t, mid.State.Complete)

	resp, body = do(t, srv, http.MethodPost, "/v1/dialogs/"+opened.ID+"/events", `{"events":[{"kind":"navigate_right"}]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var done crossroadshttp.DialogResponse
	require.NoError(t, json.Unmarshal(body, &done))
	assert.True(t, done.State.Submitted)
	assert.Equal(t, "2\n1", done.Reply)
	assert.Equal(t, "2\n1", (<-outbox.Replies()).Text)

	resp, _ = do(t, srv, http.MethodGet, "/v1/dialogs/"+opened.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDialogFromMessage(t *testing.T) {
	srv := newTestServer(t)

	payload, _ := json.Marshal(map[string]string{"message": planMessage})
	resp, body := do(t, srv, http.MethodPost, "/v1/dialogs", string(payload))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = do(t, srv, http.MethodPost, "/v1/dialogs", `{"message":"nothing to decide"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/v1/dialogs", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDialogEvents_Validation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/v1/dialogs/missing/events", `{"events":[{"kind":"activate"}]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/v1/dialogs/missing/events", `{"events":[{"kind":"jump"}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/v1/dialogs/missing/events", `{"events":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/v1/dialogs/missing", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	metrics := crossroadshttp.NewMetrics()
	srv := newTestServer(t, crossroadshttp.WithMetrics(metrics))

	payload, _ := json.Marshal(map[string]string{"message": planMessage})
	do(t, srv, http.MethodPost, "/v1/parse", string(payload))

	resp, body := do(t, srv, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `crossroads_rounds_parsed_total{dialect="strict"} 1`)
	assert.Contains(t, string(body), `crossroads_http_request_duration_seconds_count{method="POST",route="/v1/parse",status="200"} 1`)
}

func TestMetricsHooks(t *testing.T) {
	metrics := crossroadshttp.NewMetrics()
	hooks := metrics.Hooks()
	hooks.OnCancelled(context.Background(), &domain.DialogEvent{})

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "crossroads_dialog_cancellations_total" {
			assert.Equal(t, 1.0, f.GetMetric()[0].GetCounter().GetValue())
			return
		}
	}
	t.Fatal("cancellation counter not gathered")
}
