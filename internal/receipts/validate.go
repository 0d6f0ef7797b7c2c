package receipts

import (
	"fmt"
	"regexp"

	"github.com/joseph-ayodele/receipt-processor/constants"
	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/entity"
)

// Whitespace is spelled out because RE2's \s omits the vertical tab.
var (
	reRetailer    = regexp.MustCompile(`^[\w\t\n\v\f\r \-&]+$`)
	reDescription = regexp.MustCompile(`^[\w\t\n\v\f\r \-]+$`)
	reAmount      = regexp.MustCompile(`^\d+\.\d{2}$`)
)

// ValidateReceipt checks every field of r independently. It returns nil or a
// common.ValidationErrors with at most one entry per field.
func ValidateReceipt(r entity.Receipt) error {
	v := common.NewValidator().
		Field("retailer", r.Retailer,
			common.NotBlank(constants.MsgRetailerBlank),
			common.Matches(reRetailer, constants.MsgRetailerInvalid)).
		Field("purchaseDate", r.PurchaseDate,
			common.NotBlank(constants.MsgPurchaseDateBlank)).
		Field("purchaseTime", r.PurchaseTime,
			common.NotBlank(constants.MsgPurchaseTimeBlank)).
		Field("total", r.Total,
			common.NotBlank(constants.MsgTotalBlank),
			common.Matches(reAmount, constants.MsgTotalFormat)).
		Field("items", r.Items,
			common.MinSize(1, constants.MsgItemsRequired))

	for i, item := range r.Items {
		v.Field(fmt.Sprintf("items[%d].shortDescription", i), item.ShortDescription,
			common.NotBlank(constants.MsgItemDescriptionBlank),
			common.Matches(reDescription, constants.MsgItemDescriptionChars))
		v.Field(fmt.Sprintf("items[%d].price", i), item.Price,
			common.NotBlank(constants.MsgItemPriceBlank),
			common.Matches(reAmount, constants.MsgItemPriceFormat))
	}
	return v.Err()
}
