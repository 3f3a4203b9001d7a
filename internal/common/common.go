package common

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"

	"github.com/pkg/errors"
)

type BaseResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func RespondWithError(err error, resp http.ResponseWriter, statusCode int) {
	resp.Header().Set("Content-Type", "application/json; charset=utf-8")
	resp.WriteHeader(statusCode)
	_ = json.NewEncoder(resp).Encode(&BaseResponse{
		Status:  http.StatusText(statusCode),
		Message: err.Error(),
	})
}

func RespondWithJSON(resp http.ResponseWriter, statusCode int, body interface{}) error {
	resp.Header().Set("Content-Type", "application/json; charset=utf-8")
	resp.WriteHeader(statusCode)
	return json.NewEncoder(resp).Encode(body)
}

type responseWriter struct {
	http.ResponseWriter
	status        int
	error         []byte
	headerWritten bool
}

func WrapResponse(response http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: response, status: http.StatusOK}
}

func (rw *responseWriter) Status() int {
	return rw.status
}

func (rw *responseWriter) Error() []byte {
	return rw.error
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if rw.headerWritten {
		return
	}
	rw.status = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
	rw.headerWritten = true
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	if rw.status >= http.StatusBadRequest {
		rw.error = p
	}
	return rw.ResponseWriter.Write(p)
}

// Hijack lets websocket upgrades pass through the wrapper.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	rw.status = http.StatusSwitchingProtocols
	rw.headerWritten = true
	return hijacker.Hijack()
}

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
