package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sphereview_backend/internal/config"
	"sync/atomic"
	"testing"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeReference(t *testing.T) {
	tests := map[string]string{
		"John 3:16":             "John 3:16",
		"Genesis 1:1-2a":        "Genesis 1:1-2",
		"Romans 8:28a":          "Romans 8:28",
		"Mark 12:30B-31":        "Mark 12:30-31",
		"  Psalm 23 ":           "Psalm 23",
		"1 Samuel 16b":          "1 Samuel 16",
		"Habakkuk 2:14; Acts 2": "Habakkuk 2:14; Acts 2",
		"":                      "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeReference(in), "input %q", in)
	}
}

func newScriptureServer(t *testing.T, handler http.HandlerFunc) (*ScriptureService, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	svc := NewScriptureService(config.ScriptureConfig{BaseURL: srv.URL, TimeoutSeconds: 2, CacheHours: 24}, nil)
	return svc, &calls
}

func TestScriptureLookup(t *testing.T) {
	var gotPath string
	svc, _ := newScriptureServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reference":"Genesis 1:1-2","text":"In the beginning...\n","translation_name":"","translation_note":""}`))
	})

	passage := svc.Lookup(context.Background(), "Genesis 1:1-2a")
	require.NotNil(t, passage)
	assert.Equal(t, "/Genesis 1:1-2", gotPath)
	assert.Equal(t, "Genesis 1:1-2", passage.Reference)
	assert.Equal(t, "In the beginning...", passage.Text)
	assert.Equal(t, "World English Bible", passage.TranslationName)
	assert.Equal(t, "Public Domain", passage.TranslationNote)
}

func TestScriptureLookupMissing(t *testing.T) {
	svc, calls := newScriptureServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	assert.Nil(t, svc.Lookup(context.Background(), "Nowhere 99:99"))
	assert.Nil(t, svc.Lookup(context.Background(), "   "))
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}

func TestScriptureLookupOpensBreaker(t *testing.T) {
	svc, calls := newScriptureServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 10; i++ {
		assert.Nil(t, svc.Lookup(context.Background(), "John 3:16"))
	}
	// 连续 5 次失败后熔断，后续请求不再到达上游
	assert.EqualValues(t, 5, atomic.LoadInt32(calls))
}

func TestScriptureLookupCanceledKeepsBreakerClosed(t *testing.T) {
	svc, calls := newScriptureServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reference":"John 3:16","text":"For God so loved the world"}`))
	})

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 10; i++ {
		assert.Nil(t, svc.Lookup(canceled, "John 3:16"))
	}
	assert.Equal(t, gobreaker.StateClosed, svc.breaker.State())

	passage := svc.Lookup(context.Background(), "John 3:16")
	require.NotNil(t, passage)
	assert.Equal(t, "For God so loved the world", passage.Text)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
}
