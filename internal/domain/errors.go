package domain

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrAccountNameRequired = errors.New("account name is required")
	ErrRestoreCodeRequired = errors.New("restore code is required")
	ErrNoOwnedAccounts     = errors.New("no accounts found for this user")
	ErrSecretNotFound      = errors.New("secret not found")
	ErrCredentialMissing   = errors.New("automation credential is not configured")
	ErrQueueBusy           = errors.New("automation already in progress")
	ErrHandshakeFailed     = errors.New("handshake failed")
)
