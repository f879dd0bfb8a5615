package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The remote service is loose about types: numbers sometimes arrive as
// strings, and optional fields arrive as null. The flex* types absorb that
// so the rest of the client sees clean values.

type flexNumber struct{ v decimal.Decimal }

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	n.v = decimal.Zero
	s := string(bytes.TrimSpace(data))
	if s == "" || s == "null" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return nil
		}
		s = strings.TrimSpace(unq)
	}
	if d, err := decimal.NewFromString(s); err == nil {
		n.v = d
	}
	return nil
}

type flexInt struct{ v int64 }

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var f flexNumber
	if err := f.UnmarshalJSON(data); err != nil {
		return err
	}
	n.v = f.v.IntPart()
	return nil
}

type flexString struct{ v string }

func (s *flexString) UnmarshalJSON(data []byte) error {
	s.v = ""
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '"' {
		return json.Unmarshal(raw, &s.v)
	}
	s.v = string(raw)
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

type flexTime struct{ v time.Time }

func (t *flexTime) UnmarshalJSON(data []byte) error {
	t.v = time.Time{}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	t.v = ParseTime(s)
	return nil
}

func (t flexTime) ptr() *time.Time {
	if t.v.IsZero() {
		return nil
	}
	v := t.v
	return &v
}

// ParseTime accepts the timestamp shapes the service emits and returns the
// zero time for anything else.
func ParseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func (a *Account) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID            flexInt    `json:"id"`
		AccountNumber flexString `json:"accountNumber"`
		AccountHolder flexString `json:"accountHolder"`
		AccountType   flexString `json:"accountType"`
		Balance       flexNumber `json:"balance"`
		Status        flexString `json:"status"`
		CreatedAt     flexTime   `json:"createdAt"`
		FreezeReason  flexString `json:"freezeReason"`
		FrozenAt      flexTime   `json:"frozenAt"`
		UnfrozenAt    flexTime   `json:"unfrozenAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Account{
		ID:            raw.ID.v,
		AccountNumber: raw.AccountNumber.v,
		AccountHolder: raw.AccountHolder.v,
		AccountType:   AccountType(raw.AccountType.v),
		Balance:       raw.Balance.v,
		Status:        AccountStatus(raw.Status.v),
		CreatedAt:     raw.CreatedAt.v,
		FreezeReason:  raw.FreezeReason.v,
		FrozenAt:      raw.FrozenAt.ptr(),
		UnfrozenAt:    raw.UnfrozenAt.ptr(),
	}
	return nil
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           flexInt    `json:"id"`
		AccountID    flexInt    `json:"accountId"`
		Type         flexString `json:"type"`
		Amount       flexNumber `json:"amount"`
		Description  flexString `json:"description"`
		Timestamp    flexTime   `json:"timestamp"`
		BalanceAfter flexNumber `json:"balanceAfter"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Transaction{
		ID:           raw.ID.v,
		AccountID:    raw.AccountID.v,
		Type:         TxType(raw.Type.v),
		Amount:       raw.Amount.v,
		Description:  raw.Description.v,
		Timestamp:    raw.Timestamp.v,
		BalanceAfter: raw.BalanceAfter.v,
	}
	return nil
}

func (b *BalanceSnapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		AccountID flexInt    `json:"accountId"`
		Balance   flexNumber `json:"balance"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.AccountID = raw.AccountID.v
	b.Balance = raw.Balance.v
	return nil
}

// Field is one top-level key of a server-shaped document.
type Field struct {
	Key   string
	Value string
}

// Document holds a response whose shape belongs to the server (interest,
// statement, API info). Fields are sorted by key; nested values are kept as
// compact JSON.
type Document struct {
	Fields []Field
	raw    json.RawMessage
}

func (d *Document) UnmarshalJSON(data []byte) error {
	d.raw = append(json.RawMessage(nil), data...)
	d.Fields = nil

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		// Not an object; expose the whole value under one key.
		d.Fields = []Field{{Key: "value", Value: renderValue(data)}}
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		d.Fields = append(d.Fields, Field{Key: k, Value: renderValue(obj[k])})
	}
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	if len(d.raw) == 0 {
		return []byte("{}"), nil
	}
	return d.raw, nil
}

// Get returns the rendered value of key.
func (d Document) Get(key string) (string, bool) {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func renderValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
