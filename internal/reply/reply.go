// Package reply writes plain text and JSON responses.
package reply

import (
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
)

type (
	// ErrorBody is the JSON shape used by the resource endpoints.
	ErrorBody struct {
		Error string `json:"error"`
	}

	// RejectBody is the JSON shape used by the registration endpoint.
	RejectBody struct {
		Error string `json:"Error"`
	}
)

// Text writes msg as is, without the trailing newline http.Error adds.
func Text(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Length", strconv.Itoa(len(msg)))
	w.WriteHeader(status)
	io.WriteString(w, msg)
}

func JSON(w http.ResponseWriter, status int, body interface{}) {
	buf, err := json.Marshal(body)
	if err != nil {
		Text(w, http.StatusInternalServerError, "unable to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(buf)))
	w.WriteHeader(status)
	w.Write(buf)
}

// Decode reads a JSON object from r into out.
func Decode(r *http.Request, out interface{}) error {
	return json.NewDecoder(r.Body).Decode(out)
}
