package receipts

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/receipt-processor/internal/common"
	"github.com/joseph-ayodele/receipt-processor/internal/entity"
)

// receiptSchema checks shape only. Presence and field content are left to
// ValidateReceipt so that a missing field is a validation failure, not a
// decode failure.
const receiptSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "retailer":     {"type": ["string", "null"]},
    "purchaseDate": {"type": ["string", "null"], "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
    "purchaseTime": {"type": ["string", "null"], "pattern": "^\\d{2}:\\d{2}$"},
    "total":        {"type": ["string", "null"]},
    "items": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "shortDescription": {"type": ["string", "null"]},
          "price":            {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var schema = jsonschema.MustCompileString("receipt.schema.json", receiptSchema)

// DecodeReceipt turns a JSON document into a Receipt. Malformed JSON, a
// shape mismatch, or an impossible date or time all fail with an error
// matching common.ErrDecode. A null or missing field decodes to its zero
// value and is left for validation.
func DecodeReceipt(data []byte) (entity.Receipt, error) {
	var r entity.Receipt

	if len(bytes.TrimSpace(data)) == 0 {
		return r, common.NewDecodeError("", errors.New("empty body"))
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return r, common.NewDecodeError("", err)
	}
	if err := schema.Validate(doc); err != nil {
		return r, common.NewDecodeError(schemaField(err), err)
	}
	exact, err := exactKeys(data)
	if err != nil {
		return r, common.NewDecodeError("", err)
	}
	if err := json.Unmarshal(exact, &r); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return entity.Receipt{}, common.NewDecodeError(typeErr.Field, err)
		}
		return entity.Receipt{}, common.NewDecodeError("", err)
	}
	return r, nil
}

var (
	receiptKeys = []string{"retailer", "purchaseDate", "purchaseTime", "total", "items"}
	itemKeys    = []string{"shortDescription", "price"}
)

// exactKeys re-encodes data keeping only the property names the schema
// declares, matched case-sensitively. encoding/json folds case when decoding
// into a struct, so "RETAILER" would otherwise bind to Retailer.
func exactKeys(data []byte) ([]byte, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	out := pick(obj, receiptKeys)
	if raw, ok := out["items"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		kept := make([]map[string]json.RawMessage, len(items))
		for i, item := range items {
			kept[i] = pick(item, itemKeys)
		}
		b, err := json.Marshal(kept)
		if err != nil {
			return nil, err
		}
		out["items"] = b
	}
	return json.Marshal(out)
}

func pick(obj map[string]json.RawMessage, keys []string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			out[k] = v
		}
	}
	return out
}

// schemaField returns the instance path of the deepest schema violation,
// e.g. "items/0/price".
func schemaField(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return ""
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return strings.TrimPrefix(ve.InstanceLocation, "/")
}
