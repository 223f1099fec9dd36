package solrx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/clinia/solrx/errorx"
)

// Response is a successful Collections API response.
type Response struct {
	Action     ActionKind
	StatusCode int

	body []byte
}

// NewResponse checks a raw response body. It returns a *DecodeError when the body is not a JSON
// object and a *RemoteError when the cluster reports a failure.
func NewResponse(action ActionKind, statusCode int, body []byte) (*Response, error) {
	if !gjson.ValidBytes(body) {
		return nil, &DecodeError{Action: action, Reason: "body is not valid JSON", Body: body}
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, &DecodeError{Action: action, Reason: "expected a JSON object, got " + root.Type.String(), Body: body}
	}

	if isRemoteFailure(statusCode, root) {
		return nil, newRemoteError(action, statusCode, root, body)
	}

	return &Response{Action: action, StatusCode: statusCode, body: body}, nil
}

func isRemoteFailure(statusCode int, root gjson.Result) bool {
	return statusCode >= http.StatusBadRequest ||
		root.Get("responseHeader.status").Int() != 0 ||
		root.Get("error").Exists() ||
		root.Get("failure").Exists()
}

func newRemoteError(action ActionKind, statusCode int, root gjson.Result, body []byte) *RemoteError {
	code := int(root.Get("error.code").Int())
	if code == 0 {
		code = int(root.Get("responseHeader.status").Int())
	}
	if code == 0 {
		code = statusCode
	}

	msg := root.Get("error.msg").String()
	if msg == "" {
		msg = root.Get("exception.msg").String()
	}
	if msg == "" {
		// Asynchronous sub-request failures are reported per node.
		root.Get("failure").ForEach(func(_, v gjson.Result) bool {
			msg = v.String()
			return false
		})
	}
	if msg == "" {
		msg = http.StatusText(statusCode)
	}

	return &RemoteError{
		Action:     action,
		StatusCode: statusCode,
		Code:       code,
		Message:    msg,
		Kind:       classifyRemoteError(code, msg),
		Body:       body,
	}
}

func classifyRemoteError(code int, msg string) errorx.ErrorType {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "already exists"):
		return errorx.ErrorTypeAlreadyExists
	case code == http.StatusNotFound,
		strings.Contains(m, "not found"),
		strings.Contains(m, "could not find"),
		strings.Contains(m, "does not exist"):
		return errorx.ErrorTypeNotFound
	case code == http.StatusServiceUnavailable:
		return errorx.ErrorTypeUnavailable
	case code >= http.StatusInternalServerError:
		return errorx.ErrorTypeInternal
	default:
		return errorx.ErrorTypeFailedPrecondition
	}
}

func (r *Response) Body() []byte {
	return r.body
}

// Get returns the value at a gjson path of the body.
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.body, path)
}

// QTime is the server side processing time in milliseconds.
func (r *Response) QTime() int64 {
	return r.Get("responseHeader.QTime").Int()
}

// Map decodes the whole body.
func (r *Response) Map() (map[string]any, error) {
	m := map[string]any{}
	if err := json.Unmarshal(r.body, &m); err != nil {
		return nil, &DecodeError{Action: r.Action, Reason: "body is not a JSON object", Body: r.body, Err: err}
	}
	return m, nil
}
