package ui

import "sync/atomic"

type Stats struct {
	Seeds       atomic.Int64
	FailedSeeds atomic.Int64
	Pages       atomic.Int64
	FailedPages atomic.Int64
	Policies    atomic.Int64
	Bytes       atomic.Int64
}
