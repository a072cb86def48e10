package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/nimburion/airbnb-listings/pkg/listing"
	"github.com/nimburion/airbnb-listings/pkg/testutil"
	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupMongoContainer(t *testing.T) string {
	t.Helper()
	testutil.RequireIntegration(t)

	ctx := context.Background()
	container, err := tcmongo.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongodb container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	return uri
}

func TestIntegration_ListingStore(t *testing.T) {
	uri := setupMongoContainer(t)
	log := &testutil.MockLogger{}

	adapter, err := NewAdapter(Config{URL: uri, Database: "Aanand"}, log)
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}
	defer adapter.Close()

	ctx := context.Background()
	if err := adapter.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck() error = %v", err)
	}

	s := adapter.Listings("airbnbs")
	seed := []*listing.Listing{
		{ID: listing.String("1"), Name: listing.String("Cozy Loft"), Price: listing.Float(120)},
		{ID: listing.String("2"), Name: listing.String(""), Price: listing.Float(80)},
		{ID: listing.String("3"), Price: listing.Float(300)},
		{ID: listing.String("4"), Name: listing.String("Sunny loft near park"), Price: listing.Float(200)},
		{ID: listing.String("5"), Name: listing.String(" "), Price: listing.Float(90)},
	}
	for _, l := range seed {
		if err := s.Insert(ctx, l); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	t.Run("count all", func(t *testing.T) {
		n, err := s.Count(ctx, listing.Filter{})
		if err != nil || n != 5 {
			t.Fatalf("Count() = %d, %v; want 5", n, err)
		}
	})

	t.Run("clean filter drops unnamed records", func(t *testing.T) {
		n, err := s.Count(ctx, listing.BuildCleanFilter(listing.Params{}))
		if err != nil || n != 2 {
			t.Fatalf("Count() = %d, %v; want 2", n, err)
		}
	})

	t.Run("name search is case-insensitive", func(t *testing.T) {
		got, err := s.Find(ctx, listing.NameFilter("LOFT"), 0, 10)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(got) != 2 || *got[0].ID != "1" || *got[1].ID != "4" {
			t.Fatalf("Find() = %+v, want ids 1 and 4 in insertion order", got)
		}
	})

	t.Run("price range is inclusive", func(t *testing.T) {
		n, err := s.Count(ctx, listing.PriceFilter(90, 200))
		if err != nil || n != 3 {
			t.Fatalf("Count() = %d, %v; want 3", n, err)
		}
	})

	t.Run("pages are contiguous", func(t *testing.T) {
		first, err := s.Find(ctx, listing.Filter{}, 0, 2)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		second, err := s.Find(ctx, listing.Filter{}, 2, 2)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if *first[0].ID != "1" || *first[1].ID != "2" || *second[0].ID != "3" || *second[1].ID != "4" {
			t.Fatalf("unexpected page contents: %+v %+v", first, second)
		}
	})

	t.Run("update then delete", func(t *testing.T) {
		err := s.Update(ctx, listing.IDFilter("3"), listing.Changes{
			Name:  "Penthouse",
			Price: 310,
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		got, err := s.FindOne(ctx, listing.IDFilter("3"))
		if err != nil {
			t.Fatalf("FindOne() error = %v", err)
		}
		if *got.Name != "Penthouse" || *got.Price != 310 {
			t.Fatalf("FindOne() = %+v, want updated fields", got)
		}

		if err := s.Delete(ctx, listing.IDFilter("3")); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.FindOne(ctx, listing.IDFilter("3")); !errors.Is(err, listing.ErrNotFound) {
			t.Fatalf("FindOne() after delete error = %v, want ErrNotFound", err)
		}
	})
}
