// Package extract pulls raw structure out of arbitrary HTML without any
// page-specific template. A document is cut into sections at its headings,
// and every section collects the tables, lists and label/value pairs found in
// the markup that follows its heading.
//
// All functions work on goquery selections. Where goquery only exposes
// element siblings, the underlying golang.org/x/net/html nodes are walked
// directly so text nodes are seen too.
package extract
