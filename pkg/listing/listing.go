// Package listing holds the Listing entity, the store-agnostic filter description used to
// query it, pagination arithmetic and the mapping from stored records to view models.
package listing

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stored field names. They match the dataset's document keys.
const (
	FieldMongoID              = "_id"
	FieldID                   = "id"
	FieldName                 = "name"
	FieldHostID               = "hostId"
	FieldHostIdentityVerified = "hostIdentityVerified"
	FieldHostName             = "hostName"
	FieldNeighbourhoodGroup   = "neighbourhoodGroup"
	FieldNeighbourhood        = "neighbourhood"
	FieldCoordinates          = "coordinates"
	FieldCountry              = "country"
	FieldCountryCode          = "countryCode"
	FieldInstantBookable      = "instantBookable"
	FieldCancellationPolicy   = "cancellationPolicy"
	FieldRoomType             = "roomType"
	FieldConstructionYear     = "constructionYear"
	FieldPrice                = "price"
	FieldServiceFee           = "serviceFee"
	FieldMinimumNights        = "minimumNights"
	FieldNumberOfReviews      = "numberOfReviews"
	FieldLastReview           = "lastReview"
	FieldReviewsPerMonth      = "reviewsPerMonth"
	FieldReviewRateNumber     = "reviewRateNumber"
	FieldHostListingsCount    = "hostListingsCount"
	FieldAvailability365      = "availability365"
	FieldHouseRules           = "houseRules"
	FieldLicense              = "license"
	FieldPropertyType         = "propertyType"
	FieldThumbnail            = "thumbnail"
	FieldImages               = "images"
)

// Coordinates is a geographic position.
type Coordinates struct {
	Lat  float64 `bson:"lat"`
	Long float64 `bson:"long"`
}

// Listing is one property record. Every field is optional: nil means absent or null.
// Decoding is lenient, see UnmarshalBSON.
type Listing struct {
	MongoID              primitive.ObjectID `bson:"_id,omitempty"`
	ID                   *string            `bson:"id,omitempty"`
	Name                 *string            `bson:"name,omitempty"`
	HostID               *string            `bson:"hostId,omitempty"`
	HostIdentityVerified *bool              `bson:"hostIdentityVerified,omitempty"`
	HostName             *string            `bson:"hostName,omitempty"`
	NeighbourhoodGroup   *string            `bson:"neighbourhoodGroup,omitempty"`
	Neighbourhood        *string            `bson:"neighbourhood,omitempty"`
	Coordinates          *Coordinates       `bson:"coordinates,omitempty"`
	Country              *string            `bson:"country,omitempty"`
	CountryCode          *string            `bson:"countryCode,omitempty"`
	InstantBookable      *bool              `bson:"instantBookable,omitempty"`
	CancellationPolicy   *string            `bson:"cancellationPolicy,omitempty"`
	RoomType             *string            `bson:"roomType,omitempty"`
	ConstructionYear     *float64           `bson:"constructionYear,omitempty"`
	Price                *float64           `bson:"price,omitempty"`
	ServiceFee           *float64           `bson:"serviceFee,omitempty"`
	MinimumNights        *float64           `bson:"minimumNights,omitempty"`
	NumberOfReviews      *float64           `bson:"numberOfReviews,omitempty"`
	LastReview           *string            `bson:"lastReview,omitempty"`
	ReviewsPerMonth      *float64           `bson:"reviewsPerMonth,omitempty"`
	ReviewRateNumber     *float64           `bson:"reviewRateNumber,omitempty"`
	HostListingsCount    *float64           `bson:"hostListingsCount,omitempty"`
	Availability365      *float64           `bson:"availability365,omitempty"`
	HouseRules           *string            `bson:"houseRules,omitempty"`
	License              *string            `bson:"license,omitempty"`
	PropertyType         *string            `bson:"propertyType,omitempty"`
	Thumbnail            *string            `bson:"thumbnail,omitempty"`
	Images               []string           `bson:"images,omitempty"`

	// Extra holds stored keys outside the schema. It is read-only and never written back.
	Extra []Field `bson:"-"`
}

// Field is one (name, value) pair of a listing, for generic display.
type Field struct {
	Name  string
	Value any
}

// Fields returns every present field in schema order, starting with the document key,
// followed by the keys outside the schema.
func (l *Listing) Fields() []Field {
	if l == nil {
		return nil
	}
	var fields []Field
	if !l.MongoID.IsZero() {
		fields = append(fields, Field{Name: FieldMongoID, Value: l.MongoID.Hex()})
	}
	addString := func(name string, v *string) {
		if v != nil {
			fields = append(fields, Field{Name: name, Value: *v})
		}
	}
	addNumber := func(name string, v *float64) {
		if v != nil {
			fields = append(fields, Field{Name: name, Value: *v})
		}
	}
	addBool := func(name string, v *bool) {
		if v != nil {
			fields = append(fields, Field{Name: name, Value: *v})
		}
	}

	addString(FieldID, l.ID)
	addString(FieldName, l.Name)
	addString(FieldHostID, l.HostID)
	addBool(FieldHostIdentityVerified, l.HostIdentityVerified)
	addString(FieldHostName, l.HostName)
	addString(FieldNeighbourhoodGroup, l.NeighbourhoodGroup)
	addString(FieldNeighbourhood, l.Neighbourhood)
	if l.Coordinates != nil {
		fields = append(fields, Field{Name: FieldCoordinates, Value: *l.Coordinates})
	}
	addString(FieldCountry, l.Country)
	addString(FieldCountryCode, l.CountryCode)
	addBool(FieldInstantBookable, l.InstantBookable)
	addString(FieldCancellationPolicy, l.CancellationPolicy)
	addString(FieldRoomType, l.RoomType)
	addNumber(FieldConstructionYear, l.ConstructionYear)
	addNumber(FieldPrice, l.Price)
	addNumber(FieldServiceFee, l.ServiceFee)
	addNumber(FieldMinimumNights, l.MinimumNights)
	addNumber(FieldNumberOfReviews, l.NumberOfReviews)
	addString(FieldLastReview, l.LastReview)
	addNumber(FieldReviewsPerMonth, l.ReviewsPerMonth)
	addNumber(FieldReviewRateNumber, l.ReviewRateNumber)
	addNumber(FieldHostListingsCount, l.HostListingsCount)
	addNumber(FieldAvailability365, l.Availability365)
	addString(FieldHouseRules, l.HouseRules)
	addString(FieldLicense, l.License)
	addString(FieldPropertyType, l.PropertyType)
	addString(FieldThumbnail, l.Thumbnail)
	if len(l.Images) > 0 {
		fields = append(fields, Field{Name: FieldImages, Value: append([]string(nil), l.Images...)})
	}
	return append(fields, l.Extra...)
}

func (l *Listing) stringFields() map[string]**string {
	return map[string]**string{
		FieldID:                 &l.ID,
		FieldName:               &l.Name,
		FieldHostID:             &l.HostID,
		FieldHostName:           &l.HostName,
		FieldNeighbourhoodGroup: &l.NeighbourhoodGroup,
		FieldNeighbourhood:      &l.Neighbourhood,
		FieldCountry:            &l.Country,
		FieldCountryCode:        &l.CountryCode,
		FieldCancellationPolicy: &l.CancellationPolicy,
		FieldRoomType:           &l.RoomType,
		FieldPropertyType:       &l.PropertyType,
		FieldLastReview:         &l.LastReview,
		FieldHouseRules:         &l.HouseRules,
		FieldLicense:            &l.License,
		FieldThumbnail:          &l.Thumbnail,
	}
}

func (l *Listing) numberFields() map[string]**float64 {
	return map[string]**float64{
		FieldConstructionYear:  &l.ConstructionYear,
		FieldPrice:             &l.Price,
		FieldServiceFee:        &l.ServiceFee,
		FieldMinimumNights:     &l.MinimumNights,
		FieldNumberOfReviews:   &l.NumberOfReviews,
		FieldReviewsPerMonth:   &l.ReviewsPerMonth,
		FieldReviewRateNumber:  &l.ReviewRateNumber,
		FieldHostListingsCount: &l.HostListingsCount,
		FieldAvailability365:   &l.Availability365,
	}
}

func (l *Listing) boolFields() map[string]**bool {
	return map[string]**bool{
		FieldHostIdentityVerified: &l.HostIdentityVerified,
		FieldInstantBookable:      &l.InstantBookable,
	}
}

// stringField returns the value of a string-typed field by stored name.
func (l *Listing) stringField(name string) (string, bool) {
	p := l.stringFields()[name]
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// numberField returns the value of a numeric field by stored name.
func (l *Listing) numberField(name string) (float64, bool) {
	p := l.numberFields()[name]
	if p == nil || *p == nil {
		return 0, false
	}
	return **p, true
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
