// Package regions is a small, extraction-friendly HTTP component that serves
// state and province option lists keyed by country. It backs dynamic
// select fields whose descriptors point at its route with a dependentValue
// query parameter.
package regions
