package listing

import (
	"strconv"
	"strings"
)

// Display placeholders for missing values.
const (
	MissingName  = "NA"
	MissingPrice = "N/A"
)

// Card is the list-view model of a listing.
type Card struct {
	ID       string
	Name     string
	HostName string
	Country  string
	Price    string
	Image    string
}

// NewCard maps a stored listing to its card, substituting placeholders for missing values.
func NewCard(l Listing) Card {
	card := Card{
		ID:       deref(l.ID),
		Name:     deref(l.Name),
		HostName: deref(l.HostName),
		Country:  deref(l.Country),
		Price:    MissingPrice,
		Image:    deref(l.Thumbnail),
	}
	if strings.TrimSpace(card.Name) == "" {
		card.Name = MissingName
	}
	if l.Price != nil {
		card.Price = FormatNumber(*l.Price)
	}
	return card
}

// Cards maps a page of listings.
func Cards(listings []Listing) []Card {
	cards := make([]Card, 0, len(listings))
	for _, l := range listings {
		cards = append(cards, NewCard(l))
	}
	return cards
}

// FormatNumber renders a number without a trailing ".0" for whole values.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
