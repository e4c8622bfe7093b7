package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// 业务错误，handler 负责映射为 HTTP 状态码
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrShopExists        = errors.New("shop already exists")
	ErrShopNotFound      = errors.New("shop not found")
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidCode       = errors.New("invalid code")
	ErrCodeAlreadyUsed   = fmt.Errorf("%w: code already used", ErrInvalidCode)
	ErrNoRewardAvailable = errors.New("no reward available")
	ErrInternal          = errors.New("internal error")
	ErrLedgerBusy        = fmt.Errorf("%w: ledger busy", ErrInternal)
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

func invalidInput(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}

func internalError(err error) error {
	return fmt.Errorf("%w: %w", ErrInternal, err)
}

// NormalizeSlug 去空格并转小写
func NormalizeSlug(slug string) (string, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return "", invalidInput("slug is required")
	}
	if !slugPattern.MatchString(slug) {
		return "", invalidInput("slug must contain only lowercase letters, digits, '-' or '_'")
	}
	return slug, nil
}

func normalizeCustomerID(customerID string) (string, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return "", invalidInput("customerId is required")
	}
	return customerID, nil
}
