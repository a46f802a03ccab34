package settings_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/abpadmin/pkg/restclient"
	"github.com/dmitrymomot/abpadmin/pkg/settings"
)

func TestAdapter(t *testing.T) {
	t.Parallel()

	var lastPut map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sample/settings", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"enabled":true,"value":"test"}`))
		case http.MethodPut:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&lastPut))
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))
	defer srv.Close()

	client, err := restclient.New(srv.URL)
	require.NoError(t, err)
	adapter := settings.NewAdapter[sample, sampleUpdate](client, "sample", "/api/sample/settings")
	assert.Equal(t, "sample", adapter.Name())
	assert.Equal(t, "/api/sample/settings", adapter.Path())

	got, err := adapter.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sample{Enabled: true, Value: "test"}, got)

	out, err := adapter.Update(context.Background(), sampleUpdate{Value: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, sampleUpdate{}, out)
	assert.Equal(t, map[string]any{"value": "new"}, lastPut)
}

func TestAdapter_PassesErrorsThrough(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"Authorization failed!"}}`))
	}))
	defer srv.Close()

	client, err := restclient.New(srv.URL)
	require.NoError(t, err)
	adapter := settings.NewAdapter[sample, sampleUpdate](client, "sample", "/x")

	_, err = adapter.Get(context.Background())
	assert.ErrorIs(t, err, restclient.ErrForbidden)

	store := settings.NewStore[sample, sampleUpdate](adapter)
	require.Error(t, store.Reload(context.Background()))
	assert.Equal(t, "Authorization failed!", store.State().Error)
}
