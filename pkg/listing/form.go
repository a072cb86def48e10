package listing

import (
	"errors"
)

// Form field names of the add/update property form.
const (
	FormID              = "id"
	FormName            = "name"
	FormHostID          = "hostId"
	FormHostName        = "hostName"
	FormCountry         = "country"
	FormPrice           = "price"
	FormAvailability365 = "availability365"
	FormPropertyType    = "propertyType"
)

var (
	errInvalidPrice        = errors.New("price is not a number")
	errInvalidAvailability = errors.New("availability365 is not a number")
)

// Form carries the raw values of the property form, so a failed submission can be
// re-rendered exactly as typed.
type Form struct {
	ID              string
	Name            string
	HostID          string
	HostName        string
	Country         string
	Price           string
	Availability365 string
	PropertyType    string
}

// FormFromValues reads the property form through get (typically a form-value accessor).
func FormFromValues(get func(string) string) Form {
	return Form{
		ID:              get(FormID),
		Name:            get(FormName),
		HostID:          get(FormHostID),
		HostName:        get(FormHostName),
		Country:         get(FormCountry),
		Price:           get(FormPrice),
		Availability365: get(FormAvailability365),
		PropertyType:    get(FormPropertyType),
	}
}

// FormFromListing pre-fills the form from a stored record.
func FormFromListing(l *Listing) Form {
	f := Form{
		ID:           deref(l.ID),
		Name:         deref(l.Name),
		HostID:       deref(l.HostID),
		HostName:     deref(l.HostName),
		Country:      deref(l.Country),
		PropertyType: deref(l.PropertyType),
	}
	if l.Price != nil {
		f.Price = FormatNumber(*l.Price)
	}
	if l.Availability365 != nil {
		f.Availability365 = FormatNumber(*l.Availability365)
	}
	return f
}

// Changes coerces the mutable fields: price to a float, availability to an integer.
func (f Form) Changes() (Changes, error) {
	price, ok := ParseFloat(f.Price)
	if !ok {
		return Changes{}, errInvalidPrice
	}
	availability, ok := ParseInt(f.Availability365)
	if !ok {
		return Changes{}, errInvalidAvailability
	}
	return Changes{
		Name:            f.Name,
		HostID:          f.HostID,
		HostName:        f.HostName,
		Country:         f.Country,
		Price:           price,
		Availability365: float64(availability),
		PropertyType:    f.PropertyType,
	}, nil
}

// Listing builds a new record from the form. Text fields pass through as typed.
func (f Form) Listing() (*Listing, error) {
	changes, err := f.Changes()
	if err != nil {
		return nil, err
	}
	l := &Listing{ID: String(f.ID)}
	changes.Apply(l)
	return l, nil
}
