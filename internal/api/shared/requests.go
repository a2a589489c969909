package shared

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// maxRequestBody caps request bodies at 1 MiB; no endpoint needs more.
const maxRequestBody = 1 << 20

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}
