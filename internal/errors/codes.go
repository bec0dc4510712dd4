package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The SPA maps these codes to its own message copy; the messages returned
// alongside them are fallbacks.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED" // login required
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzUserOnly     = "AUTHZ_USER_ONLY" // checkout requires the User role

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"

	// ==================== Cart (CART_) ====================
	CartItemNotFound = "CART_ITEM_NOT_FOUND"
	CartEmpty        = "CART_EMPTY"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutNothingSelected = "CHECKOUT_NOTHING_SELECTED"
	CheckoutMultiSelection  = "CHECKOUT_MULTI_SELECTION"  // 2+ but not all selected
	CheckoutBulkUnsupported = "CHECKOUT_BULK_UNSUPPORTED" // select-all path refused upstream
	CheckoutUpstreamError   = "CHECKOUT_UPSTREAM_ERROR"

	// ==================== Payment (PAYMENT_) ====================
	PaymentWatchActive   = "PAYMENT_WATCH_ACTIVE"
	PaymentWatchNotFound = "PAYMENT_WATCH_NOT_FOUND"
	PaymentOrderNotFound = "PAYMENT_ORDER_NOT_FOUND"

	// ==================== Upstream (UPSTREAM_) ====================
	UpstreamUnavailable = "UPSTREAM_UNAVAILABLE"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
