package service

import "errors"

var (
	ErrCartItemNotFound = errors.New("cart item not found")

	// Checkout preconditions and selection rules. The bulk refusal mirrors a
	// known upstream limitation: /transaksi only accepts a single product.
	ErrCheckoutNotAllowed      = errors.New("role is not entitled to checkout")
	ErrNothingSelected         = errors.New("no product selected for checkout")
	ErrMultiSelection          = errors.New("more than one product selected")
	ErrBulkCheckoutUnsupported = errors.New("bulk checkout is not supported upstream")

	ErrWatchNotFound = errors.New("no active payment watch")
)
