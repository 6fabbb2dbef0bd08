// Package model holds the records a scrape produces: the Insured, Agency and
// Policy entities, the raw sectioned structure they were mapped from, and the
// merge rules used to fold page results into one aggregate.
package model
