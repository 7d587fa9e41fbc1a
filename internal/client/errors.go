package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// APIError is a non-2xx answer from one of the endpoints
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// errorBody accepts both {"error":"msg"} and {"error":{"message":"msg"}}
type errorBody struct {
	Error json.RawMessage `json:"error"`
}

func newAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Error) == 0 {
		return apiErr
	}

	var text string
	if err := json.Unmarshal(body.Error, &text); err == nil && text != "" {
		apiErr.Message = text
		return apiErr
	}

	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body.Error, &structured); err == nil && structured.Message != "" {
		apiErr.Message = structured.Message
	}

	return apiErr
}
