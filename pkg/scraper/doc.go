// Package scraper implements the enumeration engine: the pattern-sweep
// scheduler that approximates full channel membership despite the
// per-query result cap on the platform's participant search.
//
// One search call is issued per prefix, in a fixed order, with the limit
// shrunk to the remaining member budget; every batch is merged through the
// dedup cache. A failed prefix is logged and skipped, a failed resolve
// aborts the run. Results come back in first-seen order, truncated to the
// task's cap.
package scraper
