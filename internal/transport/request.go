package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/logging"
)

// Form is a multipart/form-data body with plain fields and at most one file.
type Form struct {
	Fields map[string]string

	FileField string
	FileName  string
	FileType  string
	File      io.Reader
}

// Encode renders the form. Fields are written in name order so bodies are
// reproducible.
func (f *Form) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, name := range slices.Sorted(maps.Keys(f.Fields)) {
		if err := w.WriteField(name, f.Fields[name]); err != nil {
			return nil, "", errors.WrapIO("write", "form field "+name, err)
		}
	}

	if f.File != nil {
		part, err := w.CreatePart(fileHeader(f.FileField, f.FileName, f.FileType))
		if err != nil {
			return nil, "", errors.WrapIO("write", "form file "+f.FileName, err)
		}
		if _, err := io.Copy(part, f.File); err != nil {
			return nil, "", errors.WrapIO("read", f.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.WrapIO("write", "form", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(field, filename, contentType string) map[string][]string {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return map[string][]string{
		"Content-Disposition": {`form-data; name="` + quoteEscaper.Replace(field) + `"; filename="` + quoteEscaper.Replace(filename) + `"`},
		"Content-Type":        {contentType},
	}
}

// DecodeResponse decodes a JSON response into the target structure. Any 2xx
// status is a success; an empty body or a nil target decodes nothing. A 401
// or 403 becomes an AuthenticationError wrapping the APIError.
func DecodeResponse(resp *http.Response, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			// Log warning but don't override the main error
			logging.Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &errors.APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, body),
			RequestID:  resp.Header.Get(RequestIDHeader),
		}
		if resp.Request != nil {
			apiErr.Method = resp.Request.Method
			apiErr.Endpoint = resp.Request.URL.Path
			if apiErr.RequestID == "" {
				apiErr.RequestID = resp.Request.Header.Get(RequestIDHeader)
			}
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return errors.NewAuthenticationError("bearer", "session rejected by backend", apiErr)
		}
		return apiErr
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}

// errorMessage extracts a message from {"message": ...} or {"error": ...}
// bodies, falling back to the raw body or the status text.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(status)
}
