// Package storage archives fetched Wikipedia pages on disk.
//
// Pages are grouped by kind (the league list under milb/, city articles under
// city/) and named wiki_<slug>_<YYYYmmdd_HHMMSS>.html, where the slug is the
// lower-cased first four phrases of the article title. Re-runs read the
// newest archive instead of hitting the network again.
// The default storage location is ~/.local/share/milb-data/.
package storage
