package clients

import (
	"errors"
	"net/http"
	"time"
)

// ErrRemoteCallFailed marks a per-request failure (transport error or a
// non-success response). Callers recover locally: log, drop the result,
// keep going.
var ErrRemoteCallFailed = errors.New("remote call failed")

// ErrMalformedResponse marks a response body that could not be decoded.
// Handled the same way as ErrRemoteCallFailed.
var ErrMalformedResponse = errors.New("malformed response")

type HTTP struct{ c *http.Client }

func NewHTTP() *HTTP { return &HTTP{c: &http.Client{Timeout: 60 * time.Second}} }
