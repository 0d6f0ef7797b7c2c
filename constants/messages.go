package constants

// Boundary messages. Every decode and validation failure collapses to
// MsgInvalidReceipt once it leaves the service.
const (
	MsgInvalidReceipt  = "The receipt is invalid"
	MsgReceiptNotFound = "No receipt found for that id"
	MsgInternalError   = "internal error"
)

// Field-level validation messages.
const (
	MsgRetailerBlank        = "Retailer name cannot be blank"
	MsgRetailerInvalid      = "Retailer name contains invalid characters"
	MsgPurchaseDateBlank    = "Purchase date cannot be blank"
	MsgPurchaseTimeBlank    = "Purchase time cannot be blank"
	MsgTotalBlank           = "Total amount cannot be blank"
	MsgTotalFormat          = "Receipt total amount must be in the format X.XX"
	MsgItemsRequired        = "At least one item is required"
	MsgItemDescriptionBlank = "Item description cannot be blank"
	MsgItemDescriptionChars = "Item description contains invalid characters"
	MsgItemPriceBlank       = "Item price cannot be blank"
	MsgItemPriceFormat      = "Item price amount must be in the format X.XX"
)
