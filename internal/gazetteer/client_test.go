package gazetteer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-reconcile/internal/logger"
	"github.com/gcbaptista/go-reconcile/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		BaseURL: server.URL,
		Timeout: 2 * time.Second,
		Logger:  logger.Discard(),
	})
	require.NoError(t, err)
	return client, server
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{"missing base url", Options{}, "base URL is required"},
		{"relative base url", Options{BaseURL: "kima"}, "invalid gazetteer base URL"},
		{"search path without placeholder", Options{BaseURL: "http://x", SearchPath: "/search"}, "{query}"},
		{"place path without placeholder", Options{BaseURL: "http://x", PlacePath: "/place"}, "{id}"},
		{"defaults", Options{BaseURL: "http://x/"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.opts)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "http://x", c.baseURL)
				assert.Equal(t, DefaultSearchPath, c.searchPath)
				assert.Equal(t, DefaultPlacePath, c.placePath)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSearchByText(t *testing.T) {
	var gotPath string
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"placeId": 101, "primary_heb_full": "וילנה", "variant": "Vilna"},
			{"placeId": "102", "primary_heb_full": null},
			{"primary_heb_full": "no id"}
		]`))
	})

	candidates, err := client.SearchByText(context.Background(), "Tel Aviv")
	require.NoError(t, err)

	assert.Equal(t, "/api/Variants/SearchVariants/Tel%20Aviv/100/1", gotPath)
	assert.Equal(t, []model.CandidateSummary{
		{ID: "101", DisplayName: "וילנה"},
		{ID: "102", DisplayName: ""},
	}, candidates)
}

func TestSearchByText_NoMatch(t *testing.T) {
	bodies := []string{"[]", "null", ""}

	for _, body := range bodies {
		t.Run("body "+body, func(t *testing.T) {
			client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})

			candidates, err := client.SearchByText(context.Background(), "nowhere")
			require.NoError(t, err)
			assert.Empty(t, candidates)
		})
	}
}

func TestSearchByText_NonSuccessIsEmpty(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	candidates, err := client.SearchByText(context.Background(), "Vilna")
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestSearchByText_TransportError(t *testing.T) {
	client, server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.SearchByText(context.Background(), "Vilna")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search 'Vilna'")
}

func TestFetchRecord(t *testing.T) {
	var gotPath string
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{
			"placeId": 201,
			"country_code": "IL",
			"geoname_ID": 293100,
			"coor": "32.96, 35.49",
			"desc": "",
			"wd": null,
			"active": true,
			"tags": ["galilee"]
		}`))
	})

	record, err := client.FetchRecord(context.Background(), "201")
	require.NoError(t, err)

	assert.Equal(t, "/api/Places/Place/201", gotPath)
	assert.Equal(t, "IL", record.Value("country_code"))
	assert.Equal(t, "293100", record.Value("geoname_ID"))
	assert.Equal(t, "32.96, 35.49", record.Value("coor"))
	assert.Equal(t, "true", record.Value("active"))
	assert.Equal(t, `["galilee"]`, record.Value("tags"))

	desc, hasDesc := record["desc"]
	assert.True(t, hasDesc)
	assert.Equal(t, "", desc)

	_, hasWD := record["wd"]
	assert.False(t, hasWD, "null values are left out")
	assert.Equal(t, "", record.Value("wd"))
}

func TestFetchRecord_Errors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		_, err := client.FetchRecord(context.Background(), "9")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
	})

	t.Run("malformed body", func(t *testing.T) {
		client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"country_code":`))
		})
		_, err := client.FetchRecord(context.Background(), "9")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode response")
	})
}

func TestClient_HonoursContextDeadline(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchRecord(ctx, "1")
	require.Error(t, err)
}

func TestClient_RateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(Options{
		BaseURL:           server.URL,
		RequestsPerSecond: 1,
		Burst:             1,
		Logger:            logger.Discard(),
	})
	require.NoError(t, err)

	_, err = client.SearchByText(context.Background(), "first")
	require.NoError(t, err)

	// The second call would wait about a second for a token
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = client.SearchByText(ctx, "second")
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRawText(t *testing.T) {
	tests := map[string]string{
		`"IL"`:      "IL",
		`"a \"q\""`: `a "q"`,
		`972`:       "972",
		`-1.50`:     "-1.50",
		`false`:     "false",
		`null`:      "",
		`  `:        "",
		`{"a": 1}`:  `{"a": 1}`,
	}

	for in, want := range tests {
		assert.Equal(t, want, rawText([]byte(in)), "rawText(%s)", in)
	}
}
