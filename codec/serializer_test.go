package codec

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/erraggy/restcodec"
	"github.com/erraggy/restcodec/codecerrors"
	"github.com/erraggy/restcodec/command"
	"github.com/erraggy/restcodec/description"
	"github.com/erraggy/restcodec/internal/testutil"
	"github.com/erraggy/restcodec/requestlocation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadUsers(t *testing.T) *description.Description {
	t.Helper()
	desc, err := description.ParseWithOptions(description.WithBytes([]byte(testutil.UsersYAML)))
	require.NoError(t, err)
	return desc
}

func newSerializer(t *testing.T, desc *description.Description, opts ...Option) *Serializer {
	t.Helper()
	s, err := NewSerializer(desc, opts...)
	require.NoError(t, err)
	return s
}

func body(t *testing.T, req *http.Request) string {
	t.Helper()
	if req.Body == nil {
		return ""
	}
	data, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	return string(data)
}

// countingLocation records calls and delegates placement to a header.
type countingLocation struct {
	mu     sync.Mutex
	visits []string
	afters int
	order  *[]string
	name   string
}

func (c *countingLocation) Visit(_ *command.Command, req *requestlocation.Request, param *description.Parameter) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visits = append(c.visits, param.Name)
	req.HTTP.Header.Add("X-Visited", param.Name)
	return nil
}

func (c *countingLocation) After(_ *command.Command, _ *requestlocation.Request, _ *description.Operation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afters++
	if c.order != nil {
		*c.order = append(*c.order, c.name)
	}
	return nil
}

func TestSerializeGetUser(t *testing.T) {
	s := newSerializer(t, loadUsers(t))

	req, err := s.Serialize(context.Background(), command.New("GetUser", map[string]any{
		"id":     42,
		"fields": []string{"name", "email"},
		"trace":  "t-1",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "https://api.example.com/users/42?fields=name%2Cemail", req.URL.String())
	assert.Equal(t, "t-1", req.Header.Get("X-Trace-Id"))
	assert.Equal(t, restcodec.UserAgent(), req.Header.Get("User-Agent"))
}

func TestSerializeCreateUser(t *testing.T) {
	s := newSerializer(t, loadUsers(t))

	req, err := s.Serialize(context.Background(), command.New("CreateUser", map[string]any{
		"name": "Ann",
		"age":  30,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, `{"name":"Ann","age":30}`, body(t, req))
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "2024-01-01", req.Header.Get("X-Api-Version"), "static default is always sent")
}

func TestSerializeInheritedOperation(t *testing.T) {
	s := newSerializer(t, loadUsers(t))

	req, err := s.Serialize(context.Background(), command.New("UpdateUser", map[string]any{
		"id":      7,
		"name":    "Ann",
		"tags":    []string{"A", "B"},
		"address": map[string]any{"city": "new york"},
	}))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "https://api.example.com/users/7", req.URL.String())
	assert.Equal(t, `{"name":"Ann","tags":["a","b"],"address":{"city":"New York"}}`, body(t, req))
}

func TestSerializeQueryTemplateAndFilters(t *testing.T) {
	s := newSerializer(t, loadUsers(t))

	req, err := s.Serialize(context.Background(), command.New("ListUsers", map[string]any{
		"page":   2,
		"status": "ACTIVE",
	}))
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method, "method is normalized")
	assert.Equal(t, "https://api.example.com/users?page=2&status=active", req.URL.String())
}

func TestSerializeXML(t *testing.T) {
	s := newSerializer(t, loadUsers(t))

	req, err := s.Serialize(context.Background(), command.New("SendNote", map[string]any{
		"to":       "bob",
		"priority": "high",
		"body":     "hi",
	}))
	require.NoError(t, err)
	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+
			`<Note xmlns:n="urn:notes" priority="high"><to>bob</to><Body>hi</Body></Note>`,
		body(t, req))
}

func TestSerializeBodyAndHeader(t *testing.T) {
	s := newSerializer(t, loadUsers(t))

	req, err := s.Serialize(context.Background(), command.New("Echo", map[string]any{
		"payload":     "hello",
		"contentType": "text/plain",
	}))
	require.NoError(t, err)
	assert.Equal(t, "HELLO", body(t, req))
	assert.Equal(t, int64(5), req.ContentLength)
	assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))
}

func TestSerializeWithoutURIUsesBaseURL(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com/v1/rpc?key=abc",
		Operations: map[string]*description.Operation{
			"Ping": {HTTPMethod: "HEAD"},
		},
	})
	require.NoError(t, err)

	req, err := newSerializer(t, desc).Serialize(context.Background(), command.New("Ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.MethodHead, req.Method)
	assert.Equal(t, "https://api.example.com/v1/rpc?key=abc", req.URL.String())
}

func TestSerializeURIValues(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com/v1/",
		Operations: map[string]*description.Operation{
			"Find": {
				URI: "search/{term}{?ids*,opts*}",
				Params: description.NewParams(
					&description.Parameter{Name: "term", Location: description.LocationURI, Filters: []string{"uppercase"}},
					&description.Parameter{Name: "ids", Location: description.LocationURI},
					&description.Parameter{Name: "opts", Location: description.LocationURI},
				),
			},
		},
	})
	require.NoError(t, err)

	req, err := newSerializer(t, desc).Serialize(context.Background(), command.New("Find", map[string]any{
		"term": "go lang",
		"ids":  []int{1, 2},
		"opts": map[string]any{"b": 2, "a": "x"},
	}))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/search/GO%20LANG?ids=1&ids=2&a=x&b=2", req.URL.String())
}

func TestSerializeRelativeURIKeepsEncoding(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com/v1",
		Operations: map[string]*description.Operation{
			"Get": {
				URI:    "users/{id}",
				Params: description.NewParams(&description.Parameter{Name: "id", Location: description.LocationURI}),
			},
		},
	})
	require.NoError(t, err)

	req, err := newSerializer(t, desc).Serialize(context.Background(), command.New("Get", map[string]any{"id": "a/b c"}))
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/users/a%2Fb%20c", req.URL.String())
}

func TestSerializeEffectiveValues(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com",
		Operations: map[string]*description.Operation{
			"List": {
				URI: "/items",
				Params: description.NewParams(
					&description.Parameter{Name: "limit", Location: description.LocationQuery, Default: 10},
					&description.Parameter{Name: "cursor", Location: description.LocationQuery},
				),
			},
		},
	})
	require.NoError(t, err)

	req, err := newSerializer(t, desc).Serialize(context.Background(), command.New("List", map[string]any{
		"limit":  nil,
		"cursor": nil,
	}))
	require.NoError(t, err)
	assert.Equal(t, "limit=10", req.URL.RawQuery)
}

func TestSerializeInvalidMethod(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com",
		Operations: map[string]*description.Operation{
			"Bad": {HTTPMethod: "GET POST", URI: "/bad"},
		},
	})
	require.NoError(t, err)

	req, err := newSerializer(t, desc).Serialize(context.Background(), command.New("Bad", nil))
	assert.Nil(t, req)
	var he *codecerrors.LocationHandlerError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "Bad", he.Operation)
	assert.Equal(t, "uri", he.Location)
}

func TestSerializeUnknownOperation(t *testing.T) {
	s := newSerializer(t, loadUsers(t))

	req, err := s.Serialize(context.Background(), command.New("doesNotExist", nil))
	assert.Nil(t, req)
	var uoe *codecerrors.UnknownOperationError
	require.ErrorAs(t, err, &uoe)
	assert.Equal(t, "doesNotExist", uoe.Operation)
}

func TestSerializeUnregisteredLocation(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com",
		Operations: map[string]*description.Operation{
			"Op": {
				URI: "/op",
				Params: description.NewParams(
					&description.Parameter{Name: "session", Location: "cookie"},
				),
			},
		},
	})
	require.NoError(t, err)

	req, err := newSerializer(t, desc).Serialize(context.Background(), command.New("Op", map[string]any{"session": "s"}))
	assert.Nil(t, req)
	var ule *codecerrors.UnregisteredLocationError
	require.ErrorAs(t, err, &ule)
	assert.Equal(t, "Op", ule.Operation)
	assert.Equal(t, "session", ule.Parameter)
	assert.Equal(t, "cookie", ule.Location)
}

func TestSerializeCustomLocation(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com",
		Operations: map[string]*description.Operation{
			"Op": {
				URI: "/op",
				Params: description.NewParams(
					&description.Parameter{Name: "a", Location: "cookie"},
					&description.Parameter{Name: "b", Location: "cookie"},
					&description.Parameter{Name: "c", Location: "cookie"},
					&description.Parameter{Name: "q", Location: description.LocationQuery},
				),
			},
		},
	})
	require.NoError(t, err)
	cookie := &countingLocation{}
	s := newSerializer(t, desc, WithRequestLocation("cookie", cookie))

	req, err := s.Serialize(context.Background(), command.New("Op", map[string]any{"a": 1, "c": 3, "q": "x"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, cookie.visits, "unsupplied parameters are not visited")
	assert.Equal(t, 1, cookie.afters, "After runs once per location")
	assert.Equal(t, []string{"a", "c"}, req.Header.Values("X-Visited"))
	assert.Equal(t, "q=x", req.URL.RawQuery)
}

func TestSerializeAfterOrder(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com",
		Operations: map[string]*description.Operation{
			"Op": {
				URI: "/op",
				Params: description.NewParams(
					&description.Parameter{Name: "b1", Location: "second"},
					&description.Parameter{Name: "a1", Location: "first"},
					&description.Parameter{Name: "b2", Location: "second"},
					&description.Parameter{Name: "unused", Location: "third"},
				),
				AdditionalParameters: &description.Parameter{Location: "extra"},
			},
		},
	})
	require.NoError(t, err)

	var order []string
	first := &countingLocation{order: &order, name: "first"}
	second := &countingLocation{order: &order, name: "second"}
	third := &countingLocation{order: &order, name: "third"}
	extra := &countingLocation{order: &order, name: "extra"}
	s := newSerializer(t, desc,
		WithRequestLocation("first", first),
		WithRequestLocation("second", second),
		WithRequestLocation("third", third),
		WithRequestLocation("extra", extra),
	)

	_, err = s.Serialize(context.Background(), command.New("Op", map[string]any{"a1": 1, "b1": 1, "b2": 2}))
	require.NoError(t, err)
	assert.Equal(t, []string{"second", "first", "extra"}, order)
	assert.Zero(t, third.afters)
	assert.Empty(t, extra.visits)
}

func TestSerializeAdditionalParameters(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com",
		Operations: map[string]*description.Operation{
			"Search": {
				URI:                  "/search",
				Params:               description.NewParams(&description.Parameter{Name: "q", Location: description.LocationQuery}),
				AdditionalParameters: &description.Parameter{Location: description.LocationQuery, Filters: []string{"lowercase"}},
			},
		},
	})
	require.NoError(t, err)

	req, err := newSerializer(t, desc).Serialize(context.Background(), command.New("Search", map[string]any{
		"q":    "go",
		"Lang": "EN",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Lang=en&q=go", req.URL.RawQuery)
}

func TestSerializeAdditionalFieldsWithFile(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com",
		Operations: map[string]*description.Operation{
			"Upload": {
				HTTPMethod:           "POST",
				URI:                  "/upload",
				Params:               description.NewParams(&description.Parameter{Name: "file", Location: description.LocationPostFile}),
				AdditionalParameters: &description.Parameter{Location: description.LocationPostField},
			},
		},
	})
	require.NoError(t, err)

	req, err := newSerializer(t, desc).Serialize(context.Background(), command.New("Upload", map[string]any{
		"file":  []byte("hello"),
		"extra": "value",
	}))
	require.NoError(t, err)
	assert.Contains(t, req.Header.Get("Content-Type"), "multipart/form-data")
	payload := body(t, req)
	assert.Contains(t, payload, `name="extra"`)
	assert.Contains(t, payload, "value")
	assert.Contains(t, payload, "hello")
}

func TestSerializeFilterError(t *testing.T) {
	desc, err := description.New(description.Document{
		BaseURL: "https://api.example.com",
		Operations: map[string]*description.Operation{
			"Decode": {
				URI:    "/decode",
				Params: description.NewParams(&description.Parameter{Name: "data", Location: description.LocationHeader, SentAs: "X-Data", Filters: []string{"base64_decode"}}),
			},
		},
	})
	require.NoError(t, err)

	req, err := newSerializer(t, desc).Serialize(context.Background(), command.New("Decode", map[string]any{"data": "%%%"}))
	assert.Nil(t, req)
	var fe *codecerrors.FilterError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Decode", fe.Operation)
	assert.Equal(t, "data", fe.Parameter)
	assert.Equal(t, "header", fe.Location)
}

func TestSerializeValidation(t *testing.T) {
	desc := loadUsers(t)
	cmd := command.New("CreateUser", map[string]any{"name": "Ann", "age": -1})

	_, err := newSerializer(t, desc).Serialize(context.Background(), cmd)
	require.NoError(t, err, "validation is off by default")

	req, err := newSerializer(t, desc, WithValidation(true)).Serialize(context.Background(), cmd)
	assert.Nil(t, req)
	assert.ErrorIs(t, err, codecerrors.ErrValidation)
}

func TestSerializeUserAgent(t *testing.T) {
	desc := loadUsers(t)
	cmd := command.New("GetUser", map[string]any{"id": 1})

	req, err := newSerializer(t, desc, WithUserAgent("")).Serialize(context.Background(), cmd)
	require.NoError(t, err)
	assert.Empty(t, req.Header.Get("User-Agent"))

	req, err = newSerializer(t, desc, WithUserAgent("custom/1.0")).Serialize(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "custom/1.0", req.Header.Get("User-Agent"))
}

func TestSerializeCarriesContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	req, err := newSerializer(t, loadUsers(t)).Serialize(ctx, command.New("GetUser", map[string]any{"id": 1}))
	require.NoError(t, err)
	assert.Equal(t, "v", req.Context().Value(key{}))
}

func TestSerializeConcurrent(t *testing.T) {
	s := newSerializer(t, loadUsers(t))

	var wg sync.WaitGroup
	urls := make([]string, 32)
	for i := range urls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req, err := s.Serialize(context.Background(), command.New("GetUser", map[string]any{"id": i}))
			if assert.NoError(t, err) {
				urls[i] = req.URL.Path
			}
		}()
	}
	wg.Wait()
	for i, u := range urls {
		assert.Equal(t, "/users/"+strconv.Itoa(i), u)
	}
}
