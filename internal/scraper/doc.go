// Package scraper fetches Wikipedia pages for the league list and host cities.
//
// Pages are read from the on-disk archive when present. A miss, or an
// explicit refresh, downloads the page through the paced HTTP client and
// archives it before it is parsed with goquery.
package scraper
