package llm

import (
	"strconv"

	goerrors "github.com/goliatone/go-errors"
)

const (
	CodeRequestFailed   = "BACKEND_REQUEST_FAILED"
	CodeEmptyResponse   = "BACKEND_EMPTY_RESPONSE"
	CodeTimeout         = "BACKEND_TIMEOUT"
	CodeBadStatus       = "BACKEND_BAD_STATUS"
	CodeContentRejected = "CONTENT_REJECTED"
)

func requestFailed(err error, backend string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, backend+": request failed").
		WithTextCode(CodeRequestFailed)
}

func emptyResponse(backend string) error {
	return goerrors.New(backend+": empty response", goerrors.CategoryExternal).
		WithTextCode(CodeEmptyResponse)
}

func badStatus(backend string, status int) error {
	return goerrors.New(backend+": unexpected status "+strconv.Itoa(status), goerrors.CategoryExternal).
		WithTextCode(CodeBadStatus)
}

func timedOut(backend string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, backend+": generation timed out").
		WithTextCode(CodeTimeout)
}

func contentRejected(text string) error {
	return goerrors.New("generated text rejected: "+text, goerrors.CategoryValidation).
		WithTextCode(CodeContentRejected)
}

// HasCode reports whether err is a go-errors value carrying code.
func HasCode(err error, code string) bool {
	var e *goerrors.Error
	if !goerrors.As(err, &e) {
		return false
	}
	return e.TextCode == code
}
