// Package entity defines the core domain entities and validation logic for the application.
// It contains the article catalog and the vaccine schema rows, along with
// input parsing rules and domain-specific errors.
package entity

// Article represents a row of the artigo catalog.
// Price is nil when the stored price is NULL.
type Article struct {
	Code  int64
	Name  string
	Price *float64
}
