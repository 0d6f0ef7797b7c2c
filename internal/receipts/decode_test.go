package receipts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
)

const validJSON = `{
  "retailer": "Target",
  "purchaseDate": "2022-01-01",
  "purchaseTime": "13:01",
  "items": [
    {"shortDescription": "Mountain Dew 12PK", "price": "6.49"},
    {"shortDescription": "Emils Cheese Pizza", "price": "12.25"}
  ],
  "total": "18.74"
}`

func TestDecodeReceipt_Valid(t *testing.T) {
	r, err := DecodeReceipt([]byte(validJSON))
	require.NoError(t, err)
	assert.Equal(t, "Target", r.Retailer)
	assert.Equal(t, "2022-01-01", r.PurchaseDate.String())
	assert.Equal(t, 13*60+1, r.PurchaseTime.Minutes())
	require.Len(t, r.Items, 2)
	assert.Equal(t, "12.25", r.Items[1].Price)
	assert.NoError(t, ValidateReceipt(r))
}

func TestDecodeReceipt_MalformedIsDecodeError(t *testing.T) {
	tests := map[string]string{
		"empty":            ``,
		"not json":         `{"retailer": `,
		"array":            `[]`,
		"trailing garbage": `{} {}`,
		"numeric retailer": `{"retailer": 123}`,
		"items object":     `{"items": {"price": "1.00"}}`,
		"item not object":  `{"items": ["Gatorade"]}`,
		"numeric price":    `{"items": [{"shortDescription": "Gatorade", "price": 2.25}]}`,
		"date order":       `{"purchaseDate": "20-01-2022"}`,
		"impossible date":  `{"purchaseDate": "2022-02-30"}`,
		"short time":       `{"purchaseTime": "9:30"}`,
		"impossible time":  `{"purchaseTime": "24:10"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeReceipt([]byte(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrDecode))
			assert.False(t, errors.Is(err, common.ErrValidation))
			assert.True(t, common.IsInvalidReceipt(err))
		})
	}
}

func TestDecodeReceipt_NullAndMissingLeftForValidation(t *testing.T) {
	r, err := DecodeReceipt([]byte(`{"retailer": null, "purchaseTime": null, "items": null}`))
	require.NoError(t, err)
	assert.True(t, r.PurchaseDate.IsZero())
	assert.True(t, r.PurchaseTime.IsZero())
	assert.Nil(t, r.Items)

	err = ValidateReceipt(r)
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestDecodeReceipt_ReportsField(t *testing.T) {
	_, err := DecodeReceipt([]byte(`{"items": [{"price": 2.25}]}`))
	var de *common.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "items/0/price", de.Field)
}

func TestDecodeReceipt_IgnoresUnknownFields(t *testing.T) {
	_, err := DecodeReceipt([]byte(`{"retailer": "Target", "loyaltyCard": "1234"}`))
	assert.NoError(t, err)
}

func TestDecodeReceipt_KeysAreCaseSensitive(t *testing.T) {
	body := `{
  "RETAILER": "Target",
  "PurchaseDate": "2022-01-01",
  "PURCHASETIME": "13:01",
  "Total": "6.49",
  "ITEMS": [{"shortDescription": "Mountain Dew 12PK", "price": "6.49"}]
}`
	r, err := DecodeReceipt([]byte(body))
	require.NoError(t, err)
	assert.Empty(t, r.Retailer)
	assert.True(t, r.PurchaseDate.IsZero())
	assert.True(t, r.PurchaseTime.IsZero())
	assert.Empty(t, r.Total)
	assert.Nil(t, r.Items)

	var ve common.ValidationErrors
	require.ErrorAs(t, ValidateReceipt(r), &ve)
	assert.Len(t, ve, 5)
}

func TestDecodeReceipt_ItemKeysAreCaseSensitive(t *testing.T) {
	body := `{
  "retailer": "Target",
  "purchaseDate": "2022-01-01",
  "purchaseTime": "13:01",
  "total": "6.49",
  "items": [{"ShortDescription": "Mountain Dew 12PK", "PRICE": "6.49"}]
}`
	r, err := DecodeReceipt([]byte(body))
	require.NoError(t, err)
	require.Len(t, r.Items, 1)
	assert.Empty(t, r.Items[0].ShortDescription)
	assert.Empty(t, r.Items[0].Price)
	assert.True(t, errors.Is(ValidateReceipt(r), common.ErrValidation))
}

func TestDecodeReceipt_MisCasedDateIsIgnored(t *testing.T) {
	r, err := DecodeReceipt([]byte(`{"PurchaseDate": "20-01-2022"}`))
	require.NoError(t, err)
	assert.True(t, r.PurchaseDate.IsZero())
}
