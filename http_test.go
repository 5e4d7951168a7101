package adminapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/pretty"

	"go.cachewatch.io/adminapi"
	"go.cachewatch.io/adminapi/admin"
)

func testHTTPRequest(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()

	store := admin.NewStore()
	store.Seed()

	schema, err := admin.Init(store, nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	handler := adminapi.HTTPHandler(schema)

	handler.ServeHTTP(rr, req)
	return rr
}

func TestHTTPMustBePost(t *testing.T) {
	req, err := http.NewRequest("GET", "/graphql", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	if diff := pretty.Compare(rr.Body.String(), `{"data":null,"errors":[{"message":"request must be a POST","extensions":{"code":"Unknown"},"paths":[]}]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPParseQuery(t *testing.T) {
	req, err := http.NewRequest("POST", "/graphql", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	if diff := pretty.Compare(rr.Body.String(), `{"data":null,"errors":[{"message":"request must include a query","extensions":{"code":"Unknown"},"paths":[]}]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPMustHaveQuery(t *testing.T) {
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(`{"query":""}`))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	if diff := pretty.Compare(rr.Body.String(), `{"data":null,"errors":[{"message":"must have a single query","extensions":{"code":"Unknown"},"paths":[]}]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPQuerySuccess(t *testing.T) {
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(`{"query": "{ users { id name role } }"}`))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	want := `{"data":{"users":[{"id":"usr_1","name":"Ada Root","role":"ADMIN"},{"id":"usr_2","name":"Sam Ops","role":"OPERATOR"}]},"errors":null}`
	if diff := pretty.Compare(rr.Body.String(), want); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPQueryVariables(t *testing.T) {
	body := `{"query": "query User($id: ID) { user(id: $id) { name email active } }", "variables": { "id": "usr_1" }}`
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	want := `{"data":{"user":{"active":true,"email":"ada@cachewatch.io","name":"Ada Root"}},"errors":null}`
	if diff := pretty.Compare(rr.Body.String(), want); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPMutation(t *testing.T) {
	body := `{"query": "mutation { evictCacheItem(key: \"session:42\") { key region } }"}`
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	want := `{"data":{"evictCacheItem":{"key":"session:42","region":"eu-west"}},"errors":null}`
	if diff := pretty.Compare(rr.Body.String(), want); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPResolverError(t *testing.T) {
	body := `{"query": "{ user(id: \"usr_404\") { name } }"}`
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	want := `{"data":null,"errors":[{"message":"user usr_404 not found","extensions":{"code":"NotFound"},"paths":[]}]}`
	if diff := pretty.Compare(rr.Body.String(), want); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPSubscriptionRejected(t *testing.T) {
	body := `{"query": "subscription { inconsistencyReported { key } }"}`
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if diff := pretty.Compare(rr.Body.String(), `{"data":null,"errors":[{"message":"subscriptions must use the websocket endpoint","extensions":{"code":"Unknown"},"paths":[]}]}`); diff != "" {
		t.Errorf("expected response to match, but received %s", diff)
	}
}

func TestHTTPContentType(t *testing.T) {
	req, err := http.NewRequest("POST", "/graphql", strings.NewReader(`{"query": "{ users { id } }"}`))
	if err != nil {
		t.Fatal(err)
	}

	rr := testHTTPRequest(t, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}

	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("expected application/json, but received %s", got)
	}
}

func TestPlaygroundHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	adminapi.PlaygroundHandler("cachewatch admin", "/graphql").ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected 200, but received %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("expected text/html, but received %s", ct)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<title>cachewatch admin</title>") {
		t.Errorf("expected playground title in HTML, got: %s", body)
	}
	if !strings.Contains(body, "fetch('/graphql'") {
		t.Errorf("expected /graphql endpoint in HTML")
	}
}
