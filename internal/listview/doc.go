// Package listview derives filtered, sorted and paginated views over record sets.
//
// The package mirrors the way a list page processes its data:
//   - FilterSpec and Matches: per-field predicates combined with logical AND
//   - Registry and SortSpec: named comparators applied with a stable sort
//   - PageSpec and Paginate: fixed-size pages with a clamped current page
//   - Engine.Derive: the three stages composed into one DerivedView
//   - State: the hosting-page state machine, including the fetch generation guard
//
// Everything except State is a pure function of its inputs. State is safe for
// concurrent use so that fetch completions may arrive from any goroutine.
package listview
