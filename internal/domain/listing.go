package domain

import (
	"fmt"
	"strings"
)

// Listing is a product listing submitted for analysis. Transient: it carries
// no persisted identity.
type Listing struct {
	title       string
	description string
}

// NewListing validates and creates a listing.
func NewListing(title, description string) (Listing, error) {
	if strings.TrimSpace(title) == "" {
		return Listing{}, fmt.Errorf("%w: product_title is required", ErrInvalidListing)
	}
	if strings.TrimSpace(description) == "" {
		return Listing{}, fmt.Errorf("%w: product_description is required", ErrInvalidListing)
	}
	return Listing{title: title, description: description}, nil
}

// Title returns the product title.
func (l *Listing) Title() string { return l.title }

// Description returns the product description.
func (l *Listing) Description() string { return l.description }

// Query returns the retrieval query text for this listing.
func (l *Listing) Query() string { return l.title + " " + l.description }
