package entity

import "time"

// Item is a single line on a receipt.
type Item struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

// Receipt is a purchase submitted for scoring. Money fields keep the exact
// decimal text they arrived with.
type Receipt struct {
	Retailer     string `json:"retailer"`
	PurchaseDate Date   `json:"purchaseDate"`
	PurchaseTime Clock  `json:"purchaseTime"`
	Total        string `json:"total"`
	Items        []Item `json:"items"`
}

// Clone returns a copy that shares no memory with r.
func (r Receipt) Clone() Receipt {
	out := r
	if r.Items != nil {
		out.Items = make([]Item, len(r.Items))
		copy(out.Items, r.Items)
	}
	return out
}

// StoredReceipt is an accepted receipt keyed by its generated id.
type StoredReceipt struct {
	ID        string    `json:"id"`
	Receipt   Receipt   `json:"receipt"`
	CreatedAt time.Time `json:"created_at"`
}
