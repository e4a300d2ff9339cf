package product_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/km-arc/go-force/app/exception"
	"github.com/km-arc/go-force/app/product"
	"github.com/km-arc/go-force/framework/config"
	gohttp "github.com/km-arc/go-force/framework/http"
	"github.com/km-arc/go-force/framework/persistence"
	"github.com/km-arc/go-force/framework/routing"
	"github.com/km-arc/go-force/framework/security"
)

var tokens = security.NewJWT(config.JWTConfig{Secret: "s3cr3t", Issuer: "GoForce"})

func newCatalogue(t *testing.T) http.Handler {
	t.Helper()
	c := product.NewController(&product.Settings{Name: "Widget"}, newService(t), zap.NewNop())
	table, err := routing.BuildTable(c)
	require.NoError(t, err)
	return gohttp.NewDispatcher(table,
		gohttp.WithFilters(gohttp.NewFilterChain(security.NewSecurityFilter(tokens, nil))),
		gohttp.WithExceptions(gohttp.NewExceptions(persistence.NotFoundAdvice{}, exception.Advice{})),
	)
}

func do(h http.Handler, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func TestController_List(t *testing.T) {
	rec := do(newCatalogue(t), http.MethodGet, "/product", "", "User-Agent", "test-suite")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Widget", rec.Header().Get("info"))
	assert.Equal(t, int64(3), gjson.Get(rec.Body.String(), "#").Int())
	assert.Equal(t, "Chair", gjson.Get(rec.Body.String(), "0.name").String())
}

func TestController_CountBeatsPathVariable(t *testing.T) {
	rec := do(newCatalogue(t), http.MethodGet, "/product/count", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), gjson.Get(rec.Body.String(), "count").Int())
}

func TestController_GetByID(t *testing.T) {
	h := newCatalogue(t)

	rec := do(h, http.MethodGet, "/product/2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lamp", gjson.Get(rec.Body.String(), "name").String())

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/product/99", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/product/abc", "").Code)
}

func TestController_Search(t *testing.T) {
	h := newCatalogue(t)

	rec := do(h, http.MethodGet, "/product/search?name=mug", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mug", gjson.Get(rec.Body.String(), "0.name").String())

	rec = do(h, http.MethodGet, "/product/search", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String(), "the default name Guest matches nothing")
}

func TestController_Info(t *testing.T) {
	h := newCatalogue(t)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/product/info/1/Chair", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/product/info/1/Lamp", "").Code)
}

// ── Writes ────────────────────────────────────────────────────────────────────

func TestController_CreateEchoesPayload(t *testing.T) {
	rec := do(newCatalogue(t), http.MethodPost, "/product", `{"name":"Desk","description":"Walnut","price":22.5}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, int64(4), gjson.Get(body, "id").Int())
	assert.Equal(t, "Desk", gjson.Get(body, "name").String())
	assert.Equal(t, 22.5, gjson.Get(body, "price").Float())
}

func TestController_CreateValidatesPayload(t *testing.T) {
	rec := do(newCatalogue(t), http.MethodPost, "/product", `{"name":"Desk","price":49.9}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "The price must be less than or equal to 22.5.", gjson.Get(body, "errors.price.0").String())
	assert.True(t, gjson.Get(body, "errors.description").Exists())
}

func TestController_CreateWithoutBody(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, do(newCatalogue(t), http.MethodPost, "/product", "").Code)
}

func TestController_Update(t *testing.T) {
	h := newCatalogue(t)

	rec := do(h, http.MethodPut, "/product/2", `{"name":"Lamp","description":"Floor lamp","price":20}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Floor lamp", gjson.Get(rec.Body.String(), "description").String())

	rec = do(h, http.MethodPut, "/product/99", `{"name":"Lamp","description":"Floor lamp","price":20}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestController_Patch(t *testing.T) {
	h := newCatalogue(t)

	rec := do(h, http.MethodPatch, "/product/3", `{"price":3.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.5, gjson.Get(rec.Body.String(), "price").Float())
	assert.Equal(t, "Mug", gjson.Get(rec.Body.String(), "name").String())

	rec = do(h, http.MethodPatch, "/product/3", `{"owner":"me"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, `field "owner" cannot be patched`, gjson.Get(rec.Body.String(), "message").String())
}

func TestController_DeleteIsSecured(t *testing.T) {
	h := newCatalogue(t)

	rec := do(h, http.MethodDelete, "/product/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, routing.DefaultSecuredMessage, gjson.Get(rec.Body.String(), "message").String())

	token, err := tokens.Generate("admin")
	require.NoError(t, err)
	rec = do(h, http.MethodDelete, "/product/1", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	assert.Equal(t, http.StatusNotFound, do(h, http.MethodGet, "/product/1", "").Code)
}
