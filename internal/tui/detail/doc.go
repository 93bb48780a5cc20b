// Package detail renders a single record as a labelled field list for the
// detail screen of the interactive page view.
package detail
