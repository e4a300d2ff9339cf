package health_test

import (
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/km-arc/go-force/framework/health"
	gohttp "github.com/km-arc/go-force/framework/http"
	"github.com/km-arc/go-force/framework/routing"
)

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	table, err := routing.BuildTable(health.NewController(health.NewService()))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	gohttp.NewDispatcher(table).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth_Status(t *testing.T) {
	rec := serve(t, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHealth_TrailingSlash(t *testing.T) {
	assert.Equal(t, http.StatusOK, serve(t, "/health/").Code)
}

func TestHealth_Info(t *testing.T) {
	rec := serve(t, "/health/info")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Equal(t, runtime.Version(), gjson.Get(body, "goVersion").String())
	assert.Positive(t, gjson.Get(body, "cpus").Int())
	assert.Positive(t, gjson.Get(body, "totalMemory").Float())
	assert.True(t, gjson.Get(body, "hostName").Exists())
}

func TestHealth_RouteNames(t *testing.T) {
	table, err := routing.BuildTable(health.NewController(health.NewService()))
	require.NoError(t, err)

	var names []string
	for _, e := range table.Entries() {
		names = append(names, e.HandlerName)
	}
	assert.ElementsMatch(t, []string{"health.status", "health.info"}, names)
}
