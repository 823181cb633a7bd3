package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/aretw0/bitty/pkg/controller"
	"github.com/aretw0/bitty/pkg/domain"
	"github.com/aretw0/bitty/pkg/observability"
	"github.com/aretw0/bitty/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	doc := memory.NewDocument()
	root := doc.CreateElement(domain.DefaultTagName)
	root.SetAttr("id", "app")
	button := doc.CreateElement("button")
	button.SetAttr("id", "inc")
	button.SetData(domain.KeySend, "increment")
	out := doc.CreateElement("output")
	out.SetAttr("id", "out")
	out.SetData(domain.KeyReceive, "increment")
	require.NoError(t, root.AppendChild(button))
	require.NoError(t, root.AppendChild(out))
	require.NoError(t, doc.Root().AppendChild(root))

	reg := registry.NewRegistry()
	noop := func(context.Context, *domain.Event, domain.Node) error { return nil }
	require.NoError(t, reg.SetDefault(func() (domain.Controller, error) {
		return controller.Signals{"increment": noop, "reset": noop}, nil
	}))

	traces := memory.NewTraceStore()
	recorder := observability.NewTraceRecorder(traces, "test", nil)
	eng := bitty.New(doc, bitty.WithRegistry(reg), bitty.WithLifecycleHooks(recorder.Hooks()))
	require.NoError(t, eng.Define(context.Background(), doc.Root()))

	srv := &Server{Engine: eng, Document: doc, Traces: traces, Stream: "test"}
	return srv, NewHandler(srv)
}

func TestServer_Health(t *testing.T) {
	_, handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServer_PostEvent(t *testing.T) {
	_, handler := newTestServer(t)

	body := `{"type":"click","target":"inc"}`
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/events", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp DispatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.EventID)
	require.Len(t, resp.Dispatches, 1)
	assert.Equal(t, "increment", resp.Dispatches[0].Signal)
	assert.Len(t, resp.Dispatches[0].Receivers, 1)

	// Recorded into the trace store through the hooks.
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/traces", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var recs []domain.DispatchEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recs))
	assert.Len(t, recs, 1)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/traces?stream=all", nil))
	assert.JSONEq(t, `["test"]`, w.Body.String())
}

func TestServer_PostEventErrors(t *testing.T) {
	_, handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/events", strings.NewReader(`{"type":"click","target":"ghost"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/events", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ForwardAndComponents(t *testing.T) {
	srv, handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/components", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var infos []ComponentInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &infos))
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Connected)
	assert.Len(t, infos[0].Receivers, 1)

	id := srv.Engine.Components()[0].ID()
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/components/"+id+"/forward", bytes.NewBufferString(`{"signal":"reset"}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp DispatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Dispatches, 1)
	assert.True(t, resp.Dispatches[0].Fallback)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/components/nope/forward", bytes.NewBufferString(`{"signal":"reset"}`)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Tree(t *testing.T) {
	_, handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/tree", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<button id="inc"`)
}

func TestServer_SubscribeDispatches(t *testing.T) {
	srv, handler := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wSub := httptest.NewRecorder()
	reqSub := httptest.NewRequest("GET", "/stream", nil).WithContext(ctx)
	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(wSub, reqSub)
		close(done)
	}()

	require.Eventually(t, func() bool { return srv.Streams.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/events", strings.NewReader(`{"type":"click","target":"inc"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	// Give the subscriber a moment to drain, then disconnect.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	output := wSub.Body.String()
	assert.Contains(t, output, "event: ping")
	assert.Contains(t, output, `"signal":"increment"`)
}
