package domain

import "errors"

var (
	ErrInsufficientInventory = errors.New("insufficient ticket inventory")
	ErrTierNotFound          = errors.New("ticket tier not found")
	ErrTierInUse             = errors.New("ticket tier is referenced by orders")
	ErrEventNotFound         = errors.New("event not found")
	ErrTierExists            = errors.New("tier already exists for this event and category")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderNotPending       = errors.New("order is not pending")
	ErrTicketNotFound        = errors.New("ticket not found")
	ErrTicketAlreadyUsed     = errors.New("ticket already used")
	ErrGatewaySession        = errors.New("payment session creation failed")
)
