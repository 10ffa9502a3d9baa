// Package listing drives the fetch lifecycle of the books view.
//
// The controller is a small state machine:
//
//	idle → initialLoading → {ready, failed}
//	ready/failed → refetching → {ready, failed}
//
// The distinction between initial load and refetch only affects which
// affordance the UI renders (full skeleton vs. an updating badge); both
// run the same query pipeline. Every Begin hands out a generation
// number and Resolve drops results from superseded generations, so
// overlapping fetches cannot leave a stale response on screen.
package listing
