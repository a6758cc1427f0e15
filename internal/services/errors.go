package services

import "errors"

var (
	// ErrRepositoryMissing indicates a required repository dependency is absent.
	ErrRepositoryMissing = errors.New("service: repository is not configured")
	// ErrInvalidInput signals the supplied payload failed validation.
	ErrInvalidInput = errors.New("service: invalid input")
	// ErrUnavailable indicates the backing store could not serve the request.
	ErrUnavailable = errors.New("service: backend unavailable")

	// ErrCategoryNotFound indicates no category exists for the provided id.
	ErrCategoryNotFound = errors.New("catalog service: category not found")
	// ErrProductNotFound indicates no product exists for the provided id.
	ErrProductNotFound = errors.New("catalog service: product not found")
	// ErrInsufficientStock indicates stock cannot cover the requested quantity.
	ErrInsufficientStock = errors.New("catalog service: insufficient stock")

	// ErrOrderNotFound indicates no order exists for the provided id or number.
	ErrOrderNotFound = errors.New("order service: order not found")
	// ErrInvalidStatus signals an unrecognised order status value.
	ErrInvalidStatus = errors.New("order service: invalid status")
	// ErrInvalidPaymentStatus signals an unrecognised payment status value.
	ErrInvalidPaymentStatus = errors.New("order service: invalid payment status")
	// ErrOrderCreationFailed wraps non-business failures during order creation.
	ErrOrderCreationFailed = errors.New("order service: order creation failed")

	// ErrCustomerNotFound indicates no customer exists for the provided id or email.
	ErrCustomerNotFound = errors.New("customer service: customer not found")

	// ErrDiscountNotFound indicates no active discount carries the code.
	ErrDiscountNotFound = errors.New("discount service: discount not found")
	// ErrDiscountExpired indicates the discount's validity window has passed.
	ErrDiscountExpired = errors.New("discount service: discount expired")
	// ErrDiscountExhausted indicates the discount's usage cap has been reached.
	ErrDiscountExhausted = errors.New("discount service: discount exhausted")
	// ErrMinimumOrderNotMet indicates the order amount is below the discount threshold.
	ErrMinimumOrderNotMet = errors.New("discount service: minimum order amount not met")
	// ErrDuplicateDiscountCode indicates the code is already registered.
	ErrDuplicateDiscountCode = errors.New("discount service: discount code already exists")
)
