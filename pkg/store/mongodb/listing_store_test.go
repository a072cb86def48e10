package mongodb

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/nimburion/airbnb-listings/pkg/listing"
	"github.com/nimburion/airbnb-listings/pkg/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestToBSON(t *testing.T) {
	tests := []struct {
		name   string
		filter listing.Filter
		want   bson.D
	}{
		{
			name:   "empty filter matches everything",
			filter: listing.Filter{},
			want:   bson.D{},
		},
		{
			name:   "equality on id",
			filter: listing.IDFilter("1001254"),
			want:   bson.D{{Key: "id", Value: "1001254"}},
		},
		{
			name:   "name substring is escaped and case-insensitive",
			filter: listing.NameFilter("Loft (1.5)"),
			want: bson.D{{Key: "name", Value: bson.D{
				{Key: "$regex", Value: `loft \(1\.5\)`},
				{Key: "$options", Value: "i"},
			}}},
		},
		{
			name:   "closed price range",
			filter: listing.PriceFilter(100, 200),
			want: bson.D{{Key: "price", Value: bson.D{
				{Key: "$gte", Value: 100.0},
				{Key: "$lte", Value: 200.0},
			}}},
		},
		{
			name:   "open lower bound",
			filter: listing.Where(listing.Between(listing.FieldPrice, nil, listing.Float(50))),
			want:   bson.D{{Key: "price", Value: bson.D{{Key: "$lte", Value: 50.0}}}},
		},
		{
			name:   "unbounded range requires presence",
			filter: listing.Where(listing.Between(listing.FieldPrice, nil, nil)),
			want:   bson.D{{Key: "price", Value: bson.D{{Key: "$exists", Value: true}}}},
		},
		{
			name:   "unknown operation matches nothing",
			filter: listing.Where(listing.Condition{Field: "name"}),
			want:   bson.D{{Key: "$expr", Value: false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toBSON(tt.filter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("toBSON() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestToBSON_CleanFilterCombinesRepeatedField(t *testing.T) {
	f := listing.BuildCleanFilter(listing.Params{Name: "cozy"})

	got := toBSON(f)
	want := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "name", Value: bson.D{
			{Key: "$regex", Value: "cozy"},
			{Key: "$options", Value: "i"},
		}}},
		bson.D{{Key: "name", Value: bson.D{
			{Key: "$nin", Value: bson.A{nil, "", " "}},
		}}},
	}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("toBSON() = %#v, want %#v", got, want)
	}
}

func TestToBSON_CleanFilterWithoutNameStaysFlat(t *testing.T) {
	f := listing.BuildCleanFilter(listing.Params{ID: "42", MinPrice: "10"})

	got := toBSON(f)
	want := bson.D{
		{Key: "id", Value: "42"},
		{Key: "price", Value: bson.D{{Key: "$gte", Value: 10.0}}},
		{Key: "name", Value: bson.D{{Key: "$nin", Value: bson.A{nil, "", " "}}}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("toBSON() = %#v, want %#v", got, want)
	}
}

func TestChangesToBSON(t *testing.T) {
	got := changesToBSON(listing.Changes{
		Name:            "Cozy loft",
		HostID:          "h1",
		HostName:        "Ana",
		Country:         "United States",
		Price:           120,
		Availability365: 200,
		PropertyType:    "Loft",
	})

	keys := make([]string, 0, len(got))
	for _, e := range got {
		keys = append(keys, e.Key)
	}
	want := []string{"name", "hostId", "hostName", "country", "price", "availability365", "propertyType"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	if got[4].Value != 120.0 {
		t.Errorf("price = %v, want 120", got[4].Value)
	}
}

func newMockStore(mt *mtest.T) *ListingStore {
	return NewListingStore(mt.Coll, time.Second, &testutil.MockLogger{})
}

func namespace(mt *mtest.T) string {
	return mt.DB.Name() + "." + mt.Coll.Name()
}

func TestListingStore_Mock(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("count", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: int32(3)}}))

		n, err := newMockStore(mt).Count(context.Background(), listing.Filter{})
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if n != 3 {
			t.Errorf("Count() = %d, want 3", n)
		}
	})

	mt.Run("count error is wrapped", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "bad query",
		}))

		_, err := newMockStore(mt).Count(context.Background(), listing.Filter{})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	mt.Run("find decodes documents", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "id", Value: "1"},
				{Key: "name", Value: "Cozy loft"},
				{Key: "price", Value: int32(120)},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "id", Value: "2"},
				{Key: "name", Value: nil},
				{Key: "price", Value: 75.5},
			},
		))

		got, err := newMockStore(mt).Find(context.Background(), listing.Filter{}, 0, 100)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Find() returned %d listings, want 2", len(got))
		}
		if got[0].Price == nil || *got[0].Price != 120 {
			t.Errorf("first price = %v, want 120", got[0].Price)
		}
		if got[1].Name != nil {
			t.Errorf("null name decoded as %q, want nil", *got[1].Name)
		}
	})

	mt.Run("find tolerates mistyped fields", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "id", Value: "1"},
				{Key: "price", Value: 10.0},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "id", Value: int32(2)},
				{Key: "price", Value: "150"},
				{Key: "instantBookable", Value: "TRUE"},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "id", Value: "3"},
				{Key: "price", Value: "$80"},
				{Key: "neighbourhood", Value: bson.D{{Key: "name", Value: "Harlem"}}},
			},
		))

		got, err := newMockStore(mt).Find(context.Background(), listing.Filter{}, 0, 100)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("Find() returned %d listings, want 3", len(got))
		}
		if got[1].Price == nil || *got[1].Price != 150 {
			t.Errorf("numeric string price = %v, want 150", got[1].Price)
		}
		if got[1].ID == nil || *got[1].ID != "2" {
			t.Errorf("numeric id = %v, want \"2\"", got[1].ID)
		}
		if got[1].InstantBookable == nil || !*got[1].InstantBookable {
			t.Errorf("instantBookable = %v, want true", got[1].InstantBookable)
		}
		if got[2].Price != nil {
			t.Errorf("unparsable price = %v, want nil", *got[2].Price)
		}
		if got[2].Neighbourhood != nil {
			t.Errorf("document neighbourhood = %q, want nil", *got[2].Neighbourhood)
		}
	})

	mt.Run("find with no documents returns empty slice", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		got, err := newMockStore(mt).Find(context.Background(), listing.NameFilter("zzz"), 0, 10)
		if err != nil {
			t.Fatalf("Find() error = %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Find() = %#v, want empty non-nil slice", got)
		}
	})

	mt.Run("find one hit", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "id", Value: "1001254"}, {Key: "hostName", Value: "Madaline"}}))

		got, err := newMockStore(mt).FindOne(context.Background(), listing.IDFilter("1001254"))
		if err != nil {
			t.Fatalf("FindOne() error = %v", err)
		}
		if got.HostName == nil || *got.HostName != "Madaline" {
			t.Errorf("hostName = %v, want Madaline", got.HostName)
		}
	})

	mt.Run("find one miss", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := newMockStore(mt).FindOne(context.Background(), listing.IDFilter("missing"))
		if !errors.Is(err, listing.ErrNotFound) {
			t.Fatalf("FindOne() error = %v, want ErrNotFound", err)
		}
	})

	mt.Run("insert assigns document key", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		l := &listing.Listing{ID: listing.String("77"), Name: listing.String("Studio")}
		if err := newMockStore(mt).Insert(context.Background(), l); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if l.MongoID.IsZero() {
			t.Error("expected generated ObjectID to be set")
		}
	})

	mt.Run("insert error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		err := newMockStore(mt).Insert(context.Background(), &listing.Listing{ID: listing.String("77")})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	mt.Run("update", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		err := newMockStore(mt).Update(context.Background(), listing.IDFilter("77"), listing.Changes{Name: "Renamed"})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	})

	mt.Run("update error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 11600, Name: "InterruptedAtShutdown", Message: "shutting down",
		}))

		err := newMockStore(mt).Update(context.Background(), listing.IDFilter("77"), listing.Changes{})
		if err == nil {
			t.Fatal("expected error")
		}
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := newMockStore(mt).Delete(context.Background(), listing.IDFilter("77")); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
	})

	mt.Run("delete error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		if err := newMockStore(mt).Delete(context.Background(), listing.IDFilter("77")); err == nil {
			t.Fatal("expected error")
		}
	})
}
