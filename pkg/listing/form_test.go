package listing

import (
	"testing"
)

func formGetter(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func TestFormListing_CoercesNumbers(t *testing.T) {
	form := FormFromValues(formGetter(map[string]string{
		FormID:              "2001",
		FormName:            "Garden Loft",
		FormHostID:          "h-9",
		FormHostName:        "Bea",
		FormCountry:         "Italy",
		FormPrice:           "99.5",
		FormAvailability365: "120.7",
		FormPropertyType:    "Loft",
	}))

	l, err := form.Listing()
	if err != nil {
		t.Fatalf("Listing() error = %v", err)
	}
	if *l.ID != "2001" || *l.Name != "Garden Loft" || *l.HostID != "h-9" || *l.HostName != "Bea" || *l.Country != "Italy" || *l.PropertyType != "Loft" {
		t.Fatalf("text fields not passed through: %+v", l)
	}
	if *l.Price != 99.5 {
		t.Fatalf("price = %v, want 99.5", *l.Price)
	}
	if *l.Availability365 != 120 {
		t.Fatalf("availability = %v, want 120", *l.Availability365)
	}
}

func TestFormChanges_RejectsBadNumbers(t *testing.T) {
	tests := []Form{
		{Price: "", Availability365: "10"},
		{Price: "abc", Availability365: "10"},
		{Price: "10", Availability365: ""},
		{Price: "10", Availability365: "all year"},
	}
	for _, f := range tests {
		if _, err := f.Changes(); err == nil {
			t.Errorf("expected error for %+v", f)
		}
	}
}

func TestFormFromListing_RoundTripsEditableFields(t *testing.T) {
	l := &Listing{
		ID: String("1"), Name: String("Villa"), Price: Float(120), Availability365: Float(365),
	}
	f := FormFromListing(l)
	if f.ID != "1" || f.Name != "Villa" || f.Price != "120" || f.Availability365 != "365" || f.Country != "" {
		t.Fatalf("unexpected form %+v", f)
	}
}

func TestChangesApply_KeepsIdentifierAndOtherFields(t *testing.T) {
	l := &Listing{ID: String("1"), Name: String("Old"), Thumbnail: String("t.jpg")}
	Changes{Name: "New", Price: 5, Availability365: 7}.Apply(l)
	if *l.ID != "1" || *l.Thumbnail != "t.jpg" {
		t.Fatalf("non-mutable fields changed: %+v", l)
	}
	if *l.Name != "New" || *l.Price != 5 || *l.Availability365 != 7 || *l.Country != "" {
		t.Fatalf("mutable fields not applied: %+v", l)
	}
}
