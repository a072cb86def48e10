package listing_test

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nimburion/airbnb-listings/pkg/listing"
	"github.com/nimburion/airbnb-listings/pkg/listing/listingtest"
)

func seededStore(n int) *listingtest.MemoryStore {
	seed := make([]listing.Listing, n)
	for i := range seed {
		seed[i] = listing.Listing{ID: listing.String(strconv.Itoa(i)), Price: listing.Float(float64(i % 50))}
	}
	return listingtest.NewMemoryStore(seed...)
}

func TestProperty_TotalPagesFormula(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("total pages is max(1, ceil(total/size))", prop.ForAll(
		func(total int64, size int) bool {
			want := int(math.Ceil(float64(total) / float64(size)))
			if want < 1 {
				want = 1
			}
			return listing.NewPage(1, size, total).TotalPages == want
		},
		gen.Int64Range(0, 100000),
		gen.OneConstOf(listing.ListPageSize, listing.NamePageSize, listing.PricePageSize),
	))

	properties.TestingRun(t)
}

func TestProperty_ConsecutivePagesAreDisjointAndContiguous(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("page p and p+1 slice the same ordered set back to back", prop.ForAll(
		func(n int, size int, pageSeed int) bool {
			ctx := context.Background()
			store := seededStore(n)
			filter := listing.Filter{}

			total, err := store.Count(ctx, filter)
			if err != nil {
				return false
			}
			first := listing.NewPage(1, size, total)
			if first.TotalPages < 2 {
				return true
			}
			p := 1 + pageSeed%(first.TotalPages-1)
			cur := listing.NewPage(p, size, total)
			next := listing.NewPage(p+1, size, total)

			a, err := store.Find(ctx, filter, cur.Skip(), cur.Limit())
			if err != nil {
				return false
			}
			b, err := store.Find(ctx, filter, next.Skip(), next.Limit())
			if err != nil || len(a) != size || len(b) == 0 {
				return false
			}

			seen := map[string]bool{}
			for _, l := range a {
				seen[*l.ID] = true
			}
			for _, l := range b {
				if seen[*l.ID] {
					return false
				}
			}
			lastA, _ := strconv.Atoi(*a[len(a)-1].ID)
			firstB, _ := strconv.Atoi(*b[0].ID)
			return firstB == lastA+1
		},
		gen.IntRange(0, 400),
		gen.OneConstOf(listing.ListPageSize, listing.NamePageSize, listing.PricePageSize),
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// bound yields either a formatted number or text that does not parse.
func genBound() gopter.Gen {
	return gen.OneGenOf(
		gen.Float64Range(-100, 1100).Map(func(f float64) string { return fmt.Sprintf("%.2f", f) }),
		gen.IntRange(0, 1000).Map(strconv.Itoa),
		gen.OneConstOf("", " ", "abc", "NaN", "$10"),
	)
}

func TestProperty_PriceFilterInclusion(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("a listing is included iff its price respects every parsable bound", prop.ForAll(
		func(price float64, minRaw, maxRaw string) bool {
			l := &listing.Listing{Price: listing.Float(price)}
			got := listing.BuildFilter(listing.Params{MinPrice: minRaw, MaxPrice: maxRaw}).Matches(l)

			want := true
			if lo, ok := listing.ParseFloat(minRaw); ok && price < lo {
				want = false
			}
			if hi, ok := listing.ParseFloat(maxRaw); ok && price > hi {
				want = false
			}
			return got == want
		},
		gen.Float64Range(0, 1000),
		genBound(),
		genBound(),
	))

	properties.TestingRun(t)
}

func genName() gopter.Gen {
	return gen.OneGenOf(
		gen.Const((*string)(nil)),
		gen.OneConstOf("", " ", "  ", "Seaside Villa", "villa", "x").Map(func(s string) *string { return &s }),
		gen.AlphaString().Map(func(s string) *string { return &s }),
	)
}

func TestProperty_CleanViewExcludesBlankNames(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("clean never admits a null, empty or single-space name and is a subset of all", prop.ForAll(
		func(name *string, search string) bool {
			l := &listing.Listing{Name: name, Price: listing.Float(10)}
			params := listing.Params{Name: search}
			clean := listing.BuildCleanFilter(params).Matches(l)
			all := listing.BuildFilter(params).Matches(l)

			if clean && (name == nil || *name == "" || *name == " ") {
				return false
			}
			return !clean || all
		},
		genName(),
		gen.OneConstOf("", "villa", "VILLA", " x "),
	))

	properties.TestingRun(t)
}

func TestProperty_NameSearchIsCaseInsensitiveSubstring(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("any case variant of a substring of the name matches", prop.ForAll(
		func(prefix, middle, suffix string, upper bool) bool {
			name := prefix + middle + suffix
			query := middle
			if upper {
				query = strings.ToUpper(middle)
			}
			l := &listing.Listing{Name: listing.String(name)}
			return listing.NameFilter(query).Matches(l)
		},
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
