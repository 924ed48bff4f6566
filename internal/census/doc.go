// Package census collects American Community Survey estimates for host cities.
//
// A city is resolved to its state and place FIPS codes, the variables the
// 5-year ACS serves for that place are probed in batches, and the available
// estimates are fetched as one row. The Census geocoder maps a city to the
// metropolitan (or, failing that, micropolitan) statistical area it lies in.
//
// The API answers every query with a JSON array whose first element is the
// header row:
//
//	[["NAME","B01003_001E","state","place"],
//	 ["Akron city, Ohio","190273","39","01000"]]
package census
