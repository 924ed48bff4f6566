// Package record provides the typed cells, rows and frames shared by the
// extractors, the normalizers and the database sink.
//
// A Cell holds one scraped value that is either missing, text, a float, an
// integer or a timestamp. Rows map column names to cells and Frames keep an
// ordered column list alongside their rows so that multi-table extractions
// can be concatenated without losing column order.
package record
