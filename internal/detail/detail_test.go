package detail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDetail_ClassifiesLegalEntries(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"document":{"legalList":[
			{"legalType":"A","description":"123 Main St"},
			{"legalType":"P","description":"11-22-333"},
			{"legalType":"A","description":"456 Oak Ave"},
			{"legalType":"X","description":"ignored"}
		]}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL)
	supplement := c.FetchDetail(context.Background(), "Bearer tok", json.RawMessage(`42`))

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, float64(42), gotBody["searchDocId"])
	assert.Nil(t, gotBody["searchResultId"])
	assert.Nil(t, gotBody["searchResultAuthCode"])

	assert.Equal(t, []string{"123 Main St", "456 Oak Ave"}, supplement.Addresses)
	assert.Equal(t, []string{"11-22-333"}, supplement.Parcels)
}

func TestFetchDetail_ServerErrorYieldsEmptySupplement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	supplement := c.FetchDetail(context.Background(), "Bearer tok", json.RawMessage(`42`))
	assert.Empty(t, supplement.Addresses)
	assert.Empty(t, supplement.Parcels)
}

func TestFetchDetail_UnreachableHostYieldsEmptySupplement(t *testing.T) {
	c := NewClient("http://127.0.0.1:1")
	supplement := c.FetchDetail(context.Background(), "Bearer tok", json.RawMessage(`42`))
	assert.Empty(t, supplement.Addresses)
	assert.Empty(t, supplement.Parcels)
}

func TestFetchDetail_MissingIDOrCredentialSkipsRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		requests++
	}))
	defer server.Close()

	c := NewClient(server.URL)
	assert.Empty(t, c.FetchDetail(context.Background(), "", json.RawMessage(`42`)).Addresses)
	assert.Empty(t, c.FetchDetail(context.Background(), "Bearer tok", nil).Addresses)
	assert.Zero(t, requests)
}
