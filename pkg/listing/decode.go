package listing

import (
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// UnmarshalBSON decodes a stored document leniently. A value of the wrong BSON type is
// coerced to the field's type, so "150" is a price of 150, and decodes as absent when it
// cannot be. Keys outside the schema are kept in Extra in document order.
func (l *Listing) UnmarshalBSON(data []byte) error {
	*l = Listing{}
	elems, err := bson.Raw(data).Elements()
	if err != nil {
		return err
	}

	strs := l.stringFields()
	nums := l.numberFields()
	bools := l.boolFields()
	for _, elem := range elems {
		key, v := elem.Key(), elem.Value()
		switch {
		case key == FieldMongoID:
			if oid, ok := v.ObjectIDOK(); ok {
				l.MongoID = oid
			} else {
				l.Extra = append(l.Extra, Field{Name: key, Value: displayRaw(v)})
			}
		case strs[key] != nil:
			*strs[key] = coerceString(v)
		case nums[key] != nil:
			*nums[key] = coerceNumber(v)
		case bools[key] != nil:
			*bools[key] = coerceBool(v)
		case key == FieldCoordinates:
			l.Coordinates = coerceCoordinates(v)
		case key == FieldImages:
			l.Images = coerceStrings(v)
		default:
			l.Extra = append(l.Extra, Field{Name: key, Value: displayRaw(v)})
		}
	}
	return nil
}

func coerceNumber(v bson.RawValue) *float64 {
	switch v.Type {
	case bson.TypeDouble:
		f := v.Double()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return Float(f)
	case bson.TypeInt32:
		return Float(float64(v.Int32()))
	case bson.TypeInt64:
		return Float(float64(v.Int64()))
	case bson.TypeDecimal128:
		if f, ok := ParseFloat(v.Decimal128().String()); ok {
			return Float(f)
		}
	case bson.TypeString:
		if f, ok := ParseFloat(v.StringValue()); ok {
			return Float(f)
		}
	case bson.TypeBoolean:
		if v.Boolean() {
			return Float(1)
		}
		return Float(0)
	}
	return nil
}

func coerceString(v bson.RawValue) *string {
	switch v.Type {
	case bson.TypeString:
		return String(v.StringValue())
	case bson.TypeDouble:
		return String(FormatNumber(v.Double()))
	case bson.TypeInt32:
		return String(strconv.FormatInt(int64(v.Int32()), 10))
	case bson.TypeInt64:
		return String(strconv.FormatInt(v.Int64(), 10))
	case bson.TypeDecimal128:
		return String(v.Decimal128().String())
	case bson.TypeBoolean:
		return String(strconv.FormatBool(v.Boolean()))
	case bson.TypeObjectID:
		return String(v.ObjectID().Hex())
	}
	return nil
}

func coerceBool(v bson.RawValue) *bool {
	var b bool
	switch v.Type {
	case bson.TypeBoolean:
		b = v.Boolean()
	case bson.TypeString:
		switch strings.ToLower(strings.TrimSpace(v.StringValue())) {
		case "true", "1", "yes":
			b = true
		case "false", "0", "no":
			b = false
		default:
			return nil
		}
	case bson.TypeInt32, bson.TypeInt64, bson.TypeDouble:
		f := coerceNumber(v)
		if f == nil || (*f != 0 && *f != 1) {
			return nil
		}
		b = *f == 1
	default:
		return nil
	}
	return &b
}

func coerceCoordinates(v bson.RawValue) *Coordinates {
	doc, ok := v.DocumentOK()
	if !ok {
		return nil
	}
	lat := coerceNumber(doc.Lookup("lat"))
	long := coerceNumber(doc.Lookup("long"))
	if lat == nil && long == nil {
		return nil
	}
	c := &Coordinates{}
	if lat != nil {
		c.Lat = *lat
	}
	if long != nil {
		c.Long = *long
	}
	return c
}

func coerceStrings(v bson.RawValue) []string {
	if s := coerceString(v); s != nil {
		return []string{*s}
	}
	arr, ok := v.ArrayOK()
	if !ok {
		return nil
	}
	values, err := arr.Values()
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, item := range values {
		if s := coerceString(item); s != nil {
			out = append(out, *s)
		}
	}
	return out
}

// displayRaw renders a value of a key outside the schema.
func displayRaw(v bson.RawValue) any {
	if v.Type == bson.TypeBoolean {
		return v.Boolean()
	}
	if f := coerceNumber(v); f != nil && v.IsNumber() {
		return *f
	}
	if s := coerceString(v); s != nil {
		return *s
	}
	if v.Type == bson.TypeNull || v.Type == bson.TypeUndefined {
		return nil
	}
	return v.String()
}
