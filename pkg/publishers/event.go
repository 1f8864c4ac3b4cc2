package publishers

import (
	"encoding/base64"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"
)

// Body encodings used in Result.BodyEncoding.
const (
	BodyEncodingText   = "text"
	BodyEncodingBase64 = "base64"
)

// Result is the payload published downstream for one scrape job. Body carries the
// response exactly as received: as text when it is valid UTF-8, base64 otherwise.
type Result struct {
	JobID        string              `json:"job_id"`
	Method       string              `json:"method"`
	StatusCode   int                 `json:"status_code"`
	Headers      map[string][]string `json:"headers,omitempty"`
	Body         string              `json:"body"`
	BodyEncoding string              `json:"body_encoding"`
	CollectedAt  time.Time           `json:"collected_at"`
}

// NewResult constructs a Result for the given job and raw response parts.
func NewResult(jobID, method string, status int, header http.Header, body []byte) Result {
	r := Result{
		JobID:        jobID,
		Method:       method,
		StatusCode:   status,
		BodyEncoding: BodyEncodingText,
		CollectedAt:  time.Now().UTC(),
	}
	if len(header) > 0 {
		r.Headers = map[string][]string(header.Clone())
	}
	if utf8.Valid(body) {
		r.Body = string(body)
	} else {
		r.Body = base64.StdEncoding.EncodeToString(body)
		r.BodyEncoding = BodyEncodingBase64
	}
	return r
}

// attributes are the routing attributes attached by queue/topic publishers.
func (r Result) attributes() map[string]string {
	return map[string]string{
		"job_id":      r.JobID,
		"status_code": strconv.Itoa(r.StatusCode),
	}
}
