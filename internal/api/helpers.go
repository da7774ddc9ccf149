package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/lmendes/studytrack/internal/errors"
)

// maxBodySize caps request body reads at 1 MiB.
const maxBodySize = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
