package extract

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/booklore/bookstore-crawler/internal/catalog"
)

const detailTemplate = `<!DOCTYPE html>
<html>
<body>
<ul class="breadcrumb">
	<li><a href="/">Home</a></li>
	<li><a href="/catalogue/category/books_1/index.html">Books</a></li>
	<li><a href="/catalogue/category/books/poetry_23/index.html">%s</a></li>
	<li class="active">A Light in the Attic</li>
</ul>
<div id="product_gallery" class="carousel">
	<div class="item active">
		<img src="../../media/cache/fe/72/fe72f0e4a9b0a68a2f8af9d2a2b0235f.jpg" alt="A Light in the Attic"/>
	</div>
</div>
<div class="col-sm-6 product_main">
	<h1>A Light in the Attic</h1>
	<p class="price_color">%s</p>
	<p class="instock availability">
		<i class="icon-ok"></i>
		%s
	</p>
	<p class="star-rating %s">
		<i class="icon-star"></i>
	</p>
</div>
</body>
</html>`

func detailDoc(category, price, availability, rating string) []byte {
	return []byte(fmt.Sprintf(detailTemplate, category, price, availability, rating))
}

func TestParseDetailFullRecord(t *testing.T) {
	t.Parallel()

	e := New()
	doc := detailDoc("Poetry", "£51.77", "In stock (22 available)", "Three")

	book, err := e.ParseDetail(doc, "https://books.toscrape.com/catalogue/a-light-in-the-attic_1000/index.html")
	require.NoError(t, err)

	require.Equal(t, "A Light in the Attic", book.Title)
	require.InDelta(t, 51.77, book.Price, 0.0001)
	require.Equal(t, 3, book.Rating)
	require.Equal(t, "22", book.Availability)
	require.Equal(t, "Poetry", book.Category)
	require.Equal(t,
		"https://books.toscrape.com/media/cache/fe/72/fe72f0e4a9b0a68a2f8af9d2a2b0235f.jpg",
		book.ImageURL)
}

func TestParseDetailRatingWords(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"One":   1,
		"Two":   2,
		"Three": 3,
		"Four":  4,
		"Five":  5,
		"Six":   0,
		"":      0,
	}
	e := New()
	for word, want := range cases {
		doc := detailDoc("Poetry", "£10.00", "In stock (1 available)", word)
		book, err := e.ParseDetail(doc, "https://books.toscrape.com/catalogue/x/index.html")
		require.NoError(t, err, "rating word %q", word)
		require.Equal(t, want, book.Rating, "rating word %q", word)
	}
}

func TestParseDetailMalformedPriceDefaultsToZero(t *testing.T) {
	t.Parallel()

	e := New()
	doc := detailDoc("Poetry", "£fifty", "In stock (1 available)", "One")
	book, err := e.ParseDetail(doc, "https://books.toscrape.com/catalogue/x/index.html")
	require.NoError(t, err)
	require.Zero(t, book.Price)
}

func TestParseDetailMojibakePrefix(t *testing.T) {
	t.Parallel()

	// The source site occasionally serves the pound sign double-encoded.
	e := New()
	doc := detailDoc("Poetry", "Â£23.88", "In stock (5 available)", "Two")
	book, err := e.ParseDetail(doc, "https://books.toscrape.com/catalogue/x/index.html")
	require.NoError(t, err)
	require.InDelta(t, 23.88, book.Price, 0.0001)
}

func TestParseDetailAvailabilityWithoutDigits(t *testing.T) {
	t.Parallel()

	e := New()
	doc := detailDoc("Poetry", "£10.00", "In stock", "One")
	book, err := e.ParseDetail(doc, "https://books.toscrape.com/catalogue/x/index.html")
	require.NoError(t, err)
	require.Empty(t, book.Availability)
}

func TestParseDetailMissingRequiredElements(t *testing.T) {
	t.Parallel()

	e := New()
	pageURL := "https://books.toscrape.com/catalogue/x/index.html"

	cases := []struct {
		name    string
		doc     string
		missing string
	}{
		{
			name:    "no title",
			doc:     `<html><body><div class="product_main"><p class="price_color">£1.00</p></div></body></html>`,
			missing: "title",
		},
		{
			name:    "no price",
			doc:     `<html><body><div class="product_main"><h1>T</h1></div></body></html>`,
			missing: "price",
		},
		{
			name: "no rating",
			doc: `<html><body><div class="product_main"><h1>T</h1>
				<p class="price_color">£1.00</p></div></body></html>`,
			missing: "rating",
		},
		{
			name: "short breadcrumb",
			doc: `<html><body><ul class="breadcrumb"><li><a href="/">Home</a></li></ul>
				<div class="product_main"><h1>T</h1><p class="price_color">£1.00</p>
				<p class="star-rating One"></p></div></body></html>`,
			missing: "breadcrumb",
		},
		{
			name: "no image",
			doc: `<html><body>
				<ul class="breadcrumb"><li>a</li><li>b</li><li><a>Poetry</a></li></ul>
				<div class="product_main"><h1>T</h1><p class="price_color">£1.00</p>
				<p class="star-rating One"></p></div></body></html>`,
			missing: "image",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := e.ParseDetail([]byte(tc.doc), pageURL)
			var parseErr *catalog.ParseError
			require.True(t, errors.As(err, &parseErr), "want ParseError, got %v", err)
			require.Equal(t, tc.missing, parseErr.Missing)
		})
	}
}

const listingDoc = `<html><body>
<article class="product_pod">
	<h3><a href="a-light-in-the-attic_1000/index.html" title="A Light in the Attic">A Light ...</a></h3>
</article>
<article class="product_pod">
	<h3><a href="tipping-the-velvet_999/index.html" title="Tipping the Velvet">Tipping ...</a></h3>
</article>
<ul class="pager">
	<li class="next"><a href="page-2.html">next</a></li>
</ul>
</body></html>`

func TestParseListingResolvesLinks(t *testing.T) {
	t.Parallel()

	e := New()
	page, err := e.ParseListing([]byte(listingDoc), "https://books.toscrape.com/catalogue/page-1.html")
	require.NoError(t, err)

	require.Equal(t, []string{
		"https://books.toscrape.com/catalogue/a-light-in-the-attic_1000/index.html",
		"https://books.toscrape.com/catalogue/tipping-the-velvet_999/index.html",
	}, page.ItemURLs)
	require.Equal(t, "https://books.toscrape.com/catalogue/page-2.html", page.NextPageURL)
}

func TestParseListingLastPageHasNoNextLink(t *testing.T) {
	t.Parallel()

	doc := `<html><body>
		<article class="product_pod"><h3><a href="x/index.html">X</a></h3></article>
	</body></html>`
	e := New()
	page, err := e.ParseListing([]byte(doc), "https://books.toscrape.com/catalogue/page-50.html")
	require.NoError(t, err)
	require.Empty(t, page.NextPageURL)
}

func TestParseListingWithoutContainersFails(t *testing.T) {
	t.Parallel()

	e := New()
	_, err := e.ParseListing([]byte("<html><body><p>maintenance</p></body></html>"), "https://books.toscrape.com/")
	var parseErr *catalog.ParseError
	require.True(t, errors.As(err, &parseErr))
}
