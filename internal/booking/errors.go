package booking

import (
	"errors"
	"fmt"
)

var (
	ErrIdentityUnavailable     = errors.New("booking: identity unavailable")
	ErrLoginRequired           = errors.New("booking: login required")
	ErrRegistrationCheckFailed = errors.New("booking: registration check failed")
	ErrRegistrationFailed      = errors.New("booking: registration failed")
	ErrGateBusy                = errors.New("booking: registration gate already has a waiter")
	ErrCatalogUnavailable      = errors.New("booking: catalog unavailable")

	ErrMissingDate       = errors.New("booking: missing date")
	ErrInvalidDate       = errors.New("booking: invalid date")
	ErrDateInPast        = errors.New("booking: date in the past")
	ErrMissingTime       = errors.New("booking: missing time")
	ErrNoServiceSelected = errors.New("booking: no service selected")
	ErrUnknownService    = errors.New("booking: unknown service")

	ErrSubmissionTimeout    = errors.New("booking: submission timed out")
	ErrSubmissionRejected   = errors.New("booking: submission rejected")
	ErrSubmissionFailed     = errors.New("booking: submission failed")
	ErrSubmissionInProgress = errors.New("booking: submission in progress")

	ErrScreenNotReady = errors.New("booking: booking screen not reached")
	ErrSessionClosed  = errors.New("booking: session closed")
)

// RejectedError is a non-success reply to a booking submission. It matches
// ErrSubmissionRejected.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("booking: submission rejected (%d): %s", e.StatusCode, e.Message)
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrSubmissionRejected
}

// CatalogError is a failed catalog load. Message is meant for display.
type CatalogError struct {
	Message string
	Err     error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("booking: catalog unavailable: %s", e.Message)
}

func (e *CatalogError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}

func (e *CatalogError) Unwrap() error { return e.Err }

// RegistrationError is a failed profile submission. Message holds the server
// text when there was one.
type RegistrationError struct {
	Message string
	Err     error
}

func (e *RegistrationError) Error() string {
	if e.Message != "" {
		return "booking: registration failed: " + e.Message
	}
	return fmt.Sprintf("booking: registration failed: %v", e.Err)
}

func (e *RegistrationError) Is(target error) bool {
	return target == ErrRegistrationFailed
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// UserMessage returns the text shown to the user for err.
func UserMessage(err error) string {
	var rejected *RejectedError
	var catalogErr *CatalogError
	var regErr *RegistrationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rejected):
		return rejected.Message
	case errors.As(err, &catalogErr):
		return catalogErr.Message
	case errors.As(err, &regErr):
		if regErr.Message != "" {
			return regErr.Message
		}
		return "註冊失敗，請稍後再試"
	case errors.Is(err, ErrMissingDate):
		return "請選擇預約日期。"
	case errors.Is(err, ErrInvalidDate):
		return "日期格式錯誤，須為 YYYY-MM-DD"
	case errors.Is(err, ErrDateInPast):
		return "無法預約今天以前的日期。"
	case errors.Is(err, ErrMissingTime):
		return "請選擇預約時段。"
	case errors.Is(err, ErrNoServiceSelected):
		return "請至少選擇一個服務項目。"
	case errors.Is(err, ErrUnknownService):
		return "選擇的服務項目已不存在，請重新整理後再試。"
	case errors.Is(err, ErrIdentityUnavailable):
		return "無法取得您的使用者資訊，請重新整理頁面再試。"
	case errors.Is(err, ErrLoginRequired):
		return "請先登入後再預約。"
	case errors.Is(err, ErrRegistrationCheckFailed):
		return "檢查使用者狀態失敗"
	case errors.Is(err, ErrSubmissionTimeout):
		return "連線逾時，請稍後再試。"
	case errors.Is(err, ErrSubmissionInProgress):
		return "預約傳送中，請稍候。"
	case errors.Is(err, ErrSubmissionFailed):
		return "預約送出失敗，請稍後再試。"
	default:
		return "系統發生錯誤，請稍後再試。"
	}
}
