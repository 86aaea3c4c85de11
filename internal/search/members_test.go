package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/skz_roster/internal/models"
)

type fakeES struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
}

func (f *fakeES) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/_search"):
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":1},"hits":[{"_id":"3","_source":{"id":3,"stageName":"Felix","firstName":"Yongbok","lastName":"Lee","skzoo":"BbokAri"}}]}}`)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"result":"not_found"}`)
	default:
		_, _ = io.WriteString(w, `{"result":"created"}`)
	}
}

func newTestIndex(t *testing.T) (*MemberIndex, *fakeES) {
	t.Helper()
	f := &fakeES{}
	srv := httptest.NewServer(http.HandlerFunc(f.handler))
	t.Cleanup(srv.Close)

	idx, err := NewMemberIndex(Config{URL: srv.URL})
	require.NoError(t, err)
	return idx, f
}

func TestMemberIndex_Search(t *testing.T) {
	idx, f := newTestIndex(t)

	total, members, err := idx.Search(context.Background(), "felix", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, members, 1)
	assert.Equal(t, uint(3), members[0].ID)
	assert.Equal(t, "Felix", members[0].StageName)

	require.Len(t, f.requests, 1)
	assert.Equal(t, "POST /members/_search", f.requests[0])

	var q map[string]any
	require.NoError(t, json.Unmarshal([]byte(f.bodies[0]), &q))
	mm := q["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "felix", mm["query"])
	assert.Contains(t, mm["fields"], "stageName^2")
}

func TestMemberIndex_IndexAndDelete(t *testing.T) {
	idx, f := newTestIndex(t)

	require.NoError(t, idx.Index(context.Background(), models.Member{ID: 7, StageName: "I.N"}))
	require.NoError(t, idx.Delete(context.Background(), 7))

	require.Len(t, f.requests, 2)
	assert.Equal(t, "PUT /members/_doc/7", f.requests[0])
	assert.Contains(t, f.bodies[0], `"stageName":"I.N"`)
	assert.Equal(t, "DELETE /members/_doc/7", f.requests[1])
}
