package response

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/armonaut/armonaut/core/handler"
)

// JSON renders v as application/json with 200 OK.
func JSON(v any) handler.Response {
	return JSONWithStatus(v, http.StatusOK)
}

// JSONWithStatus renders v with the given status. A zero status means 200,
// or 204 when v is nil. v is encoded before anything is written, so an
// encoding failure reaches the error handler instead of truncating the body.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		if status == 0 {
			status = http.StatusOK
			if v == nil {
				status = http.StatusNoContent
			}
		}

		var buf bytes.Buffer
		if status != http.StatusNoContent && status != http.StatusNotModified {
			if err := json.NewEncoder(&buf).Encode(v); err != nil {
				return err
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, err := w.Write(buf.Bytes())
		return err
	}
}
