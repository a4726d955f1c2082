package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// TimeFormat is the wire format for promotion dates: month-day-year,
// 24-hour clock, signed numeric UTC offset.
const TimeFormat = "01-02-2006 15:04:05 -0700"

// Promotion represents a discount campaign applied to a product.
// ID is assigned by the store on creation and never set by Deserialize.
// ProductID is a plain associative integer, not an enforced foreign key.
type Promotion struct {
	ID        int64
	Name      string `validate:"required,notblank,max=63"`
	StartDate time.Time
	EndDate   *time.Time // nil means open-ended
	Type      Type
	Value     float64
	Ongoing   bool
	ProductID int64
}

// promotionWire is the JSON shape of a promotion.
type promotionWire struct {
	ID        *int64          `json:"id"`
	Name      string          `json:"name"`
	StartDate string          `json:"start_date"`
	EndDate   *string         `json:"end_date"`
	Type      string          `json:"type"`
	Value     json.RawMessage `json:"value"`
	Ongoing   bool            `json:"ongoing"`
	ProductID int64           `json:"product_id"`
}

// MarshalJSON renders the promotion in its wire shape. Dates use TimeFormat,
// a nil EndDate renders as null, Type renders as its name, and Value always
// carries a fractional part so that a serialized promotion deserializes
// under the exact-type rules below.
func (p Promotion) MarshalJSON() ([]byte, error) {
	wire := promotionWire{
		Name:      p.Name,
		StartDate: p.StartDate.Format(TimeFormat),
		Type:      p.Type.String(),
		Value:     floatLiteral(p.Value),
		Ongoing:   p.Ongoing,
		ProductID: p.ProductID,
	}
	if p.ID != 0 {
		wire.ID = &p.ID
	}
	if p.EndDate != nil {
		end := p.EndDate.Format(TimeFormat)
		wire.EndDate = &end
	}
	return json.Marshal(wire)
}

// floatLiteral formats f as a JSON number that is recognizably
// floating-point, appending ".0" to whole values.
func floatLiteral(f float64) json.RawMessage {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return json.RawMessage(s)
}

// Deserialize populates the promotion from a JSON body, validating presence
// and exact type of every field in a fixed order. The first violation aborts
// the whole operation; on failure the promotion is left unchanged. ID is
// never read from the body, so client-supplied ids are discarded.
//
// Number checks are exact rather than coercive: value must carry a
// fractional or exponent part, product_id must not. A numerically whole
// float is still rejected for product_id, and an integer literal is
// rejected for value.
func (p *Promotion) Deserialize(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return malformedBody()
	}

	name, err := requireString(fields, "name")
	if err != nil {
		return err
	}

	startRaw, err := requireString(fields, "start_date")
	if err != nil {
		return err
	}
	startDate, perr := time.Parse(TimeFormat, startRaw)
	if perr != nil {
		return invalidFormat("start_date")
	}

	var endDate *time.Time
	if raw, ok := fields["end_date"]; ok {
		switch jsonKind(raw) {
		case kindNull:
			// explicit null means open-ended
		case kindString:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return invalidType("end_date", "a string or null")
			}
			end, perr := time.Parse(TimeFormat, s)
			if perr != nil {
				return invalidFormat("end_date")
			}
			endDate = &end
		default:
			return invalidType("end_date", "a string or null")
		}
	}

	typeName, err := requireString(fields, "type")
	if err != nil {
		return err
	}
	promoType, err := ParseType(typeName)
	if err != nil {
		return err
	}

	value, err := requireFloat(fields, "value")
	if err != nil {
		return err
	}

	ongoing, err := requireBool(fields, "ongoing")
	if err != nil {
		return err
	}

	productID, err := requireInt(fields, "product_id")
	if err != nil {
		return err
	}

	p.Name = name
	p.StartDate = startDate
	p.EndDate = endDate
	p.Type = promoType
	p.Value = value
	p.Ongoing = ongoing
	p.ProductID = productID
	return nil
}

type kind int

const (
	kindInvalid kind = iota
	kindString
	kindNumber
	kindBool
	kindNull
	kindObject
	kindArray
)

// jsonKind classifies a raw JSON value by its leading byte.
func jsonKind(raw json.RawMessage) kind {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return kindInvalid
	}
	switch trimmed[0] {
	case '"':
		return kindString
	case '{':
		return kindObject
	case '[':
		return kindArray
	case 't', 'f':
		return kindBool
	case 'n':
		return kindNull
	}
	if trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9') {
		return kindNumber
	}
	return kindInvalid
}

func requireString(fields map[string]json.RawMessage, field string) (string, error) {
	raw, ok := fields[field]
	if !ok {
		return "", missingField(field)
	}
	var s string
	if jsonKind(raw) != kindString || json.Unmarshal(raw, &s) != nil {
		return "", invalidType(field, "a string")
	}
	return s, nil
}

func requireBool(fields map[string]json.RawMessage, field string) (bool, error) {
	raw, ok := fields[field]
	if !ok {
		return false, missingField(field)
	}
	var b bool
	if jsonKind(raw) != kindBool || json.Unmarshal(raw, &b) != nil {
		return false, invalidType(field, "a boolean")
	}
	return b, nil
}

// requireFloat accepts only number literals with a fractional or exponent
// part: 10.0 is valid, 10 is not.
func requireFloat(fields map[string]json.RawMessage, field string) (float64, error) {
	raw, ok := fields[field]
	if !ok {
		return 0, missingField(field)
	}
	literal := string(bytes.TrimSpace(raw))
	if jsonKind(raw) != kindNumber || !strings.ContainsAny(literal, ".eE") {
		return 0, invalidType(field, "a floating point number")
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return 0, invalidType(field, "a floating point number")
	}
	return f, nil
}

// requireInt accepts only integer literals: 7 is valid, 7.0 is not.
func requireInt(fields map[string]json.RawMessage, field string) (int64, error) {
	raw, ok := fields[field]
	if !ok {
		return 0, missingField(field)
	}
	literal := string(bytes.TrimSpace(raw))
	if jsonKind(raw) != kindNumber || strings.ContainsAny(literal, ".eE") {
		return 0, invalidType(field, "an integer")
	}
	n, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return 0, invalidType(field, "an integer")
	}
	return n, nil
}
