// Package addbook implements adding a new title to the catalog.
package addbook
