package server

import "errors"

var (
	// ErrMissingAddress is returned when server address is not provided.
	ErrMissingAddress = errors.New("server address is required")

	// ErrServerAlreadyRunning is returned by Start on a running server.
	ErrServerAlreadyRunning = errors.New("server is already running")

	// ErrListen wraps failures to bind the listen address.
	ErrListen = errors.New("failed to listen")

	// ErrShutdown wraps graceful shutdown failures.
	ErrShutdown = errors.New("server shutdown error")

	// ErrLoadCertificate wraps TLS key pair loading failures.
	ErrLoadCertificate = errors.New("failed to load certificate")
)
