package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/nimburion/airbnb-listings/pkg/listing"
	"github.com/nimburion/airbnb-listings/pkg/observability/logger"
	"github.com/nimburion/airbnb-listings/pkg/observability/metrics"
	"github.com/nimburion/airbnb-listings/pkg/observability/tracing"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// naturalOrder sorts by insertion-ordered ObjectID so pages and first-match lookups are stable.
var naturalOrder = bson.D{{Key: listing.FieldMongoID, Value: 1}}

// ListingStore implements listing.Store on one MongoDB collection.
type ListingStore struct {
	coll    *mongo.Collection
	timeout time.Duration
	logger  logger.Logger
}

// NewListingStore wraps a collection. A positive timeout bounds calls whose context has no deadline.
func NewListingStore(coll *mongo.Collection, timeout time.Duration, log logger.Logger) *ListingStore {
	return &ListingStore{coll: coll, timeout: timeout, logger: log}
}

func (s *ListingStore) Count(ctx context.Context, filter listing.Filter) (n int64, err error) {
	ctx, done := s.begin(ctx, "count", tracing.SpanOperationDBCount)
	defer func() { done(err) }()

	n, err = s.coll.CountDocuments(ctx, toBSON(filter))
	if err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

func (s *ListingStore) Find(ctx context.Context, filter listing.Filter, skip, limit int64) (out []listing.Listing, err error) {
	ctx, done := s.begin(ctx, "find", tracing.SpanOperationDBQuery)
	defer func() { done(err) }()

	opts := options.Find().SetSort(naturalOrder).SetSkip(skip).SetLimit(limit)
	cursor, err := s.coll.Find(ctx, toBSON(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	out = []listing.Listing{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	return out, nil
}

func (s *ListingStore) FindOne(ctx context.Context, filter listing.Filter) (_ *listing.Listing, err error) {
	ctx, done := s.begin(ctx, "find_one", tracing.SpanOperationDBQuery)
	defer func() {
		if errors.Is(err, listing.ErrNotFound) {
			done(nil)
			return
		}
		done(err)
	}()

	var l listing.Listing
	err = s.coll.FindOne(ctx, toBSON(filter), options.FindOne().SetSort(naturalOrder)).Decode(&l)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, listing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find listing: %w", err)
	}
	return &l, nil
}

func (s *ListingStore) Insert(ctx context.Context, l *listing.Listing) (err error) {
	ctx, done := s.begin(ctx, "insert", tracing.SpanOperationDBInsert)
	defer func() { done(err) }()

	res, err := s.coll.InsertOne(ctx, l)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		l.MongoID = oid
	}
	s.logger.WithContext(ctx).Debug("listing inserted", "listing_id", l.ID)
	return nil
}

func (s *ListingStore) Update(ctx context.Context, filter listing.Filter, changes listing.Changes) (err error) {
	ctx, done := s.begin(ctx, "update", tracing.SpanOperationDBUpdate)
	defer func() { done(err) }()

	res, err := s.coll.UpdateOne(ctx, toBSON(filter), bson.D{{Key: "$set", Value: changesToBSON(changes)}})
	if err != nil {
		return fmt.Errorf("update listing: %w", err)
	}
	s.logger.WithContext(ctx).Debug("listing updated", "matched", res.MatchedCount, "modified", res.ModifiedCount)
	return nil
}

func (s *ListingStore) Delete(ctx context.Context, filter listing.Filter) (err error) {
	ctx, done := s.begin(ctx, "delete", tracing.SpanOperationDBDelete)
	defer func() { done(err) }()

	res, err := s.coll.DeleteOne(ctx, toBSON(filter))
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	s.logger.WithContext(ctx).Debug("listing deleted", "deleted", res.DeletedCount)
	return nil
}

// begin opens a span and an operation timeout; the returned func closes both and records metrics.
func (s *ListingStore) begin(ctx context.Context, operation string, span tracing.SpanOperation) (context.Context, func(error)) {
	start := time.Now()
	ctx, sp := tracing.StartDatabaseSpan(ctx, span,
		tracing.WithDBSystem("mongodb"),
		tracing.WithDBName(s.coll.Database().Name()),
		tracing.WithDBCollection(s.coll.Name()),
	)
	ctx, cancel := withOperationTimeout(ctx, s.timeout)
	return ctx, func(err error) {
		cancel()
		tracing.End(sp, err)
		metrics.RecordStoreOperation(operation, time.Since(start), err)
	}
}

// toBSON translates a filter description into a MongoDB query document.
// Conditions on distinct fields form one flat document; repeated fields are combined with $and.
func toBSON(f listing.Filter) bson.D {
	doc := bson.D{}
	seen := make(map[string]bool, len(f.Conditions))
	repeated := false
	for _, c := range f.Conditions {
		if seen[c.Field] {
			repeated = true
		}
		seen[c.Field] = true
		doc = append(doc, conditionToBSON(c))
	}
	if !repeated {
		return doc
	}
	clauses := bson.A{}
	for _, e := range doc {
		clauses = append(clauses, bson.D{e})
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

func conditionToBSON(c listing.Condition) bson.E {
	switch c.Op {
	case listing.OpEquals:
		return bson.E{Key: c.Field, Value: c.Value}
	case listing.OpContains:
		return bson.E{Key: c.Field, Value: bson.D{
			{Key: "$regex", Value: regexp.QuoteMeta(c.Value)},
			{Key: "$options", Value: "i"},
		}}
	case listing.OpRange:
		bounds := bson.D{}
		if c.Min != nil {
			bounds = append(bounds, bson.E{Key: "$gte", Value: *c.Min})
		}
		if c.Max != nil {
			bounds = append(bounds, bson.E{Key: "$lte", Value: *c.Max})
		}
		if len(bounds) == 0 {
			bounds = append(bounds, bson.E{Key: "$exists", Value: true})
		}
		return bson.E{Key: c.Field, Value: bounds}
	case listing.OpNotIn:
		values := bson.A{}
		if c.Null {
			values = append(values, nil)
		}
		for _, v := range c.Values {
			values = append(values, v)
		}
		return bson.E{Key: c.Field, Value: bson.D{{Key: "$nin", Value: values}}}
	default:
		// An unknown condition must not widen the result set.
		return bson.E{Key: "$expr", Value: false}
	}
}

func changesToBSON(c listing.Changes) bson.D {
	return bson.D{
		{Key: listing.FieldName, Value: c.Name},
		{Key: listing.FieldHostID, Value: c.HostID},
		{Key: listing.FieldHostName, Value: c.HostName},
		{Key: listing.FieldCountry, Value: c.Country},
		{Key: listing.FieldPrice, Value: c.Price},
		{Key: listing.FieldAvailability365, Value: c.Availability365},
		{Key: listing.FieldPropertyType, Value: c.PropertyType},
	}
}

var _ listing.Store = (*ListingStore)(nil)
