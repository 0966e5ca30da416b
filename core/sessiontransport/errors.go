package sessiontransport

import "errors"

var (
	// ErrNilStore is returned when a transport is built without a session store.
	ErrNilStore = errors.New("sessiontransport: nil session store")

	// ErrNilCookieManager is returned when a transport is built without a cookie manager.
	ErrNilCookieManager = errors.New("sessiontransport: nil cookie manager")

	// ErrSaveFailed wraps encoding, store and cookie failures while saving.
	ErrSaveFailed = errors.New("sessiontransport: failed to save session")
)
