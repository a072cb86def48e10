package listing

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store.FindOne when no record matches.
var ErrNotFound = errors.New("listing not found")

// Store is the persistence contract for listings. When several records share an
// identifier, single-record operations act on the first in natural order.
type Store interface {
	Count(ctx context.Context, filter Filter) (int64, error)
	Find(ctx context.Context, filter Filter, skip, limit int64) ([]Listing, error)
	FindOne(ctx context.Context, filter Filter) (*Listing, error)
	Insert(ctx context.Context, l *Listing) error
	Update(ctx context.Context, filter Filter, changes Changes) error
	Delete(ctx context.Context, filter Filter) error
}

// Changes is the mutable field set overwritten by the update form.
// It never includes the identifier.
type Changes struct {
	Name            string
	HostID          string
	HostName        string
	Country         string
	Price           float64
	Availability365 float64
	PropertyType    string
}

// Apply overwrites the mutable fields of l.
func (c Changes) Apply(l *Listing) {
	l.Name = String(c.Name)
	l.HostID = String(c.HostID)
	l.HostName = String(c.HostName)
	l.Country = String(c.Country)
	l.Price = Float(c.Price)
	l.Availability365 = Float(c.Availability365)
	l.PropertyType = String(c.PropertyType)
}
