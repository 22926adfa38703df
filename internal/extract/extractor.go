// Package extract parses listing and detail documents into catalog types.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"github.com/booklore/bookstore-crawler/internal/catalog"
)

// ratingWords maps the star-rating class token to its numeric value.
// Anything not listed normalizes to 0.
var ratingWords = map[string]int{
	"One":   1,
	"Two":   2,
	"Three": 3,
	"Four":  4,
	"Five":  5,
}

// Extractor turns fetched documents into typed records. It is stateless
// and safe for concurrent use.
type Extractor struct{}

// New builds an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// ParseListing extracts the item detail links and the optional next-page
// link from one listing document. Links are resolved against baseURL.
// A listing without any item container is structurally broken and yields
// a ParseError; the caller aborts rather than skipping the page.
func (e *Extractor) ParseListing(doc []byte, baseURL string) (catalog.ListingPage, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return catalog.ListingPage{}, fmt.Errorf("parse listing document: %w", err)
	}

	page := catalog.ListingPage{URL: baseURL}

	pods := root.Find("article.product_pod")
	if pods.Length() == 0 {
		return catalog.ListingPage{}, &catalog.ParseError{URL: baseURL, Missing: "article.product_pod"}
	}

	var linkErr error
	pods.EachWithBreak(func(_ int, pod *goquery.Selection) bool {
		href, ok := pod.Find("h3 a").Attr("href")
		if !ok {
			linkErr = &catalog.ParseError{URL: baseURL, Missing: "item detail link"}
			return false
		}
		abs, err := resolveURL(baseURL, href)
		if err != nil {
			linkErr = err
			return false
		}
		page.ItemURLs = append(page.ItemURLs, abs)
		return true
	})
	if linkErr != nil {
		return catalog.ListingPage{}, linkErr
	}

	if href, ok := root.Find("li.next a").Attr("href"); ok {
		next, err := resolveURL(baseURL, href)
		if err != nil {
			return catalog.ListingPage{}, err
		}
		page.NextPageURL = next
	}

	return page, nil
}

// ParseDetail extracts one Book from a detail document. Title, price
// element, rating element, breadcrumb, and image are required; a malformed
// price numeral or an unrecognized rating token degrade to zero values
// instead of failing the item.
func (e *Extractor) ParseDetail(doc []byte, pageURL string) (catalog.Book, error) {
	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return catalog.Book{}, fmt.Errorf("parse detail document: %w", err)
	}

	title := strings.TrimSpace(root.Find("div.product_main h1").First().Text())
	if title == "" {
		return catalog.Book{}, &catalog.ParseError{URL: pageURL, Missing: "title"}
	}

	priceSel := root.Find("p.price_color").First()
	if priceSel.Length() == 0 {
		return catalog.Book{}, &catalog.ParseError{URL: pageURL, Missing: "price"}
	}
	price := parsePrice(priceSel.Text())

	ratingSel := root.Find("p.star-rating").First()
	if ratingSel.Length() == 0 {
		return catalog.Book{}, &catalog.ParseError{URL: pageURL, Missing: "rating"}
	}
	rating := parseRating(ratingSel.AttrOr("class", ""))

	availability := digitsOnly(root.Find("p.instock.availability").First().Text())

	crumbs := root.Find("ul.breadcrumb li")
	if crumbs.Length() < 3 {
		return catalog.Book{}, &catalog.ParseError{URL: pageURL, Missing: "breadcrumb"}
	}
	category := strings.TrimSpace(crumbs.Eq(2).Find("a").Text())

	imgSrc, ok := root.Find("#product_gallery img").First().Attr("src")
	if !ok {
		return catalog.Book{}, &catalog.ParseError{URL: pageURL, Missing: "image"}
	}
	imageURL, err := resolveURL(pageURL, imgSrc)
	if err != nil {
		return catalog.Book{}, err
	}

	return catalog.Book{
		Title:        title,
		Price:        price,
		Rating:       rating,
		Availability: availability,
		Category:     category,
		ImageURL:     imageURL,
	}, nil
}

// parsePrice strips the currency prefix and parses the remaining decimal.
// A malformed numeral yields 0.0 rather than an error.
func parsePrice(text string) float64 {
	trimmed := strings.TrimLeftFunc(strings.TrimSpace(text), func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	value, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// parseRating reads the second class token of the star-rating element.
func parseRating(class string) int {
	fields := strings.Fields(class)
	if len(fields) < 2 {
		return 0
	}
	return ratingWords[fields[1]]
}

func digitsOnly(text string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
}

func resolveURL(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", base, err)
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", ref, err)
	}
	return b.ResolveReference(r).String(), nil
}
