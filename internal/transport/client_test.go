package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/logging"
)

func TestClient_Headers(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithTokenSource(StaticToken("abc")))
	ctx := logging.WithRequestID(context.Background(), "req-1")

	resp, err := c.Get(ctx, "/api/products")
	require.NoError(t, err)
	var out []any
	require.NoError(t, DecodeResponse(resp, &out))

	require.NotNil(t, got)
	assert.Equal(t, "/api/products", got.URL.Path)
	assert.Equal(t, "Bearer abc", got.Header.Get("Authorization"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "req-1", got.Header.Get(RequestIDHeader))
	assert.Empty(t, got.Header.Get("Content-Type"))
}

func TestClient_NoTokenSendsNoAuthorization(t *testing.T) {
	var auth, requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestID = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(StaticToken("")))
	resp, err := c.Delete(context.Background(), "/api/products/1")
	require.NoError(t, err)
	require.NoError(t, DecodeResponse(resp, nil))

	assert.Empty(t, auth)
	assert.NotEmpty(t, requestID)
}

func TestClient_SendJSON(t *testing.T) {
	var contentType, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		_, _ = io.WriteString(w, `{"id":7}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.SendJSON(context.Background(), http.MethodPut, "/api/products/7", map[string]any{"price": 9.99})
	require.NoError(t, err)

	var out struct {
		ID int `json:"id"`
	}
	require.NoError(t, DecodeResponse(resp, &out))
	assert.Equal(t, 7, out.ID)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"price":9.99}`, body)
}

func TestClient_SendMultipart(t *testing.T) {
	type received struct {
		name, stock, filename, fileType, content string
	}
	var got received
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		got.name = r.FormValue("name")
		got.stock = r.FormValue("stock")
		f, hdr, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		got.filename = hdr.Filename
		got.fileType = hdr.Header.Get("Content-Type")
		got.content = string(data)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	form := &Form{
		Fields:    map[string]string{"name": "Lamp", "stock": ""},
		FileField: "image",
		FileName:  "lamp.png",
		FileType:  "image/png",
		File:      strings.NewReader("pixels"),
	}
	resp, err := New(srv.URL).SendMultipart(context.Background(), http.MethodPost, "/api/products", form)
	require.NoError(t, err)
	require.NoError(t, DecodeResponse(resp, &map[string]any{}))

	assert.Equal(t, received{name: "Lamp", stock: "", filename: "lamp.png", fileType: "image/png", content: "pixels"}, got)
}

func TestDecodeResponse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		check       func(error) bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"token expired"}`, "token expired", errors.IsUnauthorized},
		{"forbidden", http.StatusForbidden, ``, "Forbidden", errors.IsUnauthorized},
		{"not found", http.StatusNotFound, `{"error":"no such product"}`, "no such product", errors.IsNotFound},
		{"bad request", http.StatusBadRequest, `name too long`, "name too long", errors.IsValidationError},
		{"server error", http.StatusInternalServerError, `boom`, "boom", errors.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set(RequestIDHeader, "srv-1")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			resp, err := New(srv.URL).Get(context.Background(), "/api/products")
			require.NoError(t, err)
			err = DecodeResponse(resp, &[]any{})
			require.Error(t, err)
			assert.True(t, tt.check(err))

			var apiErr *errors.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, http.MethodGet, apiErr.Method)
			assert.Equal(t, "/api/products", apiErr.Endpoint)
			assert.Equal(t, "srv-1", apiErr.RequestID)
		})
	}
}

func TestDecodeResponse_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{not json`)
	}))
	defer srv.Close()

	resp, err := New(srv.URL).Get(context.Background(), "/")
	require.NoError(t, err)

	var parseErr *errors.ParseError
	assert.True(t, errors.As(DecodeResponse(resp, &map[string]any{}), &parseErr))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Get(context.Background(), "/api/products")
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
}

func TestClient_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL).Get(ctx, "/api/products")
	require.Error(t, err)
	assert.True(t, errors.IsCanceled(err))
}

func TestClient_URL(t *testing.T) {
	c := New("")
	assert.Equal(t, "http://localhost:5000", c.BaseURL())
	assert.Equal(t, "http://localhost:5000/api/products/3", c.URL("/api/products/3"))
}
