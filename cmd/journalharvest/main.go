// Package main provides the entry point for the journalharvest CLI.
//
// journalharvest collects the accredited journal catalog from the SINTA
// (Science and Technology Index) listing: it renders the paginated listing
// in a browser, archives each page, extracts structured journal records,
// and writes CSV/JSON artifacts locally and to HDFS.
//
// Usage:
//
//	journalharvest harvest
//	journalharvest crawl
//	journalharvest etl --input sinta_pages
//
// See --help for all available options.
package main

// main is the entry point for journalharvest.
func main() {
	Execute()
}
