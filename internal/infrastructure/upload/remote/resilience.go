package remote

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kirillkom/accounting-doc-router/internal/core/domain"
	"github.com/kirillkom/accounting-doc-router/internal/infrastructure/resilience"
)

type HTTPStatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "upload status error"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("upload status: %s", e.Status)
	}
	return fmt.Sprintf("upload status: %s: %s", e.Status, strings.TrimSpace(e.Body))
}

// classifyUploadError records server-side and transport failures against the
// breaker. Client errors such as a rejected file do not trip it.
func classifyUploadError(err error) resilience.ErrorClassification {
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isServerSideStatus(statusErr.StatusCode) {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	return resilience.ClassifyTransport(err)
}

func wrapTemporaryIfNeeded(err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
		return domain.WrapError(domain.ErrUnauthorized, "upload", err)
	}
	if classifyUploadError(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, "upload", err)
	}
	return err
}

func isServerSideStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
