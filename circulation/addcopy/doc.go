// Package addcopy implements registering a new physical copy of a book,
// entering circulation in the available state. Barcodes are unique; the
// storage constraint reports a duplicate as a conflict.
package addcopy
