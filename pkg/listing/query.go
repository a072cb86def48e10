package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// List query parameter names shared by the list views.
const (
	ParamSearchID   = "searchId"
	ParamSearchName = "searchName"
	ParamMinPrice   = "minPrice"
	ParamMaxPrice   = "maxPrice"
	ParamPage       = "page"
)

// Params are the raw list filter inputs as received in the query string.
type Params struct {
	ID       string
	Name     string
	MinPrice string
	MaxPrice string
}

// ParamsFromQuery reads the list filter parameters.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		ID:       q.Get(ParamSearchID),
		Name:     q.Get(ParamSearchName),
		MinPrice: q.Get(ParamMinPrice),
		MaxPrice: q.Get(ParamMaxPrice),
	}
}

// BuildFilter turns list parameters into a filter. Unparsable price bounds are ignored.
func BuildFilter(p Params) Filter {
	var f Filter
	if id := strings.TrimSpace(p.ID); id != "" {
		f = f.And(Equals(FieldID, id))
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		f = f.And(Contains(FieldName, name))
	}
	lower, lowerOK := ParseFloat(p.MinPrice)
	upper, upperOK := ParseFloat(p.MaxPrice)
	if lowerOK || upperOK {
		c := Between(FieldPrice, nil, nil)
		if lowerOK {
			c.Min = Float(lower)
		}
		if upperOK {
			c.Max = Float(upper)
		}
		f = f.And(c)
	}
	return f
}

// BuildCleanFilter is BuildFilter restricted to records with a usable name.
func BuildCleanFilter(p Params) Filter {
	return BuildFilter(p).And(NotIn(FieldName, true, "", " "))
}

// IDFilter matches a listing by identifier.
func IDFilter(id string) Filter {
	return Where(Equals(FieldID, id))
}

// NameFilter matches listings whose name contains name, ignoring case.
// A blank name matches everything.
func NameFilter(name string) Filter {
	name = strings.TrimSpace(name)
	if name == "" {
		return Filter{}
	}
	return Where(Contains(FieldName, name))
}

// PriceFilter matches listings priced within [lower, upper].
func PriceFilter(lower, upper int64) Filter {
	return Where(Between(FieldPrice, Float(float64(lower)), Float(float64(upper))))
}

// ParseFloat parses a trimmed decimal number. NaN and infinities are rejected.
func ParseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseInt parses a trimmed 64-bit integer. A finite decimal is truncated toward zero.
func ParseInt(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, true
	}
	f, ok := ParseFloat(raw)
	if !ok || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// leadingInt reads the integer prefix of raw after leading whitespace, so "2abc" is 2.
func leadingInt(raw string) (int64, bool) {
	raw = strings.TrimLeft(raw, " \t\n\r\f\v")
	end := 0
	if end < len(raw) && (raw[end] == '+' || raw[end] == '-') {
		end++
	}
	digits := end
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.ParseInt(raw[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
