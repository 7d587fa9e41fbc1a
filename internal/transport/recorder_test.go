package transport

import (
	"encoding/json"
	"net/http/httptest"

	"autoparts-store/internal/middleware"
)

type responseRecorder struct {
	*httptest.ResponseRecorder
}

func newRecorder() *responseRecorder {
	return &responseRecorder{httptest.NewRecorder()}
}

func (r *responseRecorder) decode(v interface{}) error {
	return json.Unmarshal(r.Body.Bytes(), v)
}

func (r *responseRecorder) errorMessage() string {
	var resp middleware.ErrorResponse
	_ = r.decode(&resp)
	return resp.Error.Message
}
