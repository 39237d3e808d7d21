// Copyright (c) 2026 Editaliza. All rights reserved.

/*
Package requestutil extracts bodies and query values from HTTP
requests so handlers share one set of error responses for bad input.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/editaliza/editaliza/internal/platform/validate"
)

// maxBodyBytes bounds JSON bodies; auth payloads are a few hundred bytes.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body into target.

Returns:
  - validate.ErrEmptyBody when the body is missing or blank
  - validate.ErrInvalidJSON when it is not a single JSON value
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	if request.Body == nil {
		return validate.ErrEmptyBody
	}

	decoder := json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return validate.ErrEmptyBody
		}
		return validate.ErrInvalidJSON
	}
	return nil
}

// Query returns the trimmed query parameter name, or "".
func Query(request *http.Request, name string) string {
	return strings.TrimSpace(request.URL.Query().Get(name))
}
