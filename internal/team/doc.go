// Package team converts league table rows into typed Minor League Baseball
// team records and provides the sort orders used by listings.
package team
