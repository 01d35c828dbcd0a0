// Package catalog drives the drama list screen and its detail screens.
//
// A Controller owns one list engine and wires it to its inputs: the
// connectivity monitor, the catalog fetcher and the offline cache. Engine
// state lives on the main loop; the controller only ever touches it from
// functions posted there, so its own methods may be called from any
// goroutine and never wait on the loop.
//
// Startup restores the last search keyword and the last cached response
// inside a suspended engine pass, so the renderer sees a single
// reconciliation for the restored state. Every successful fetch replaces the
// cached response. A failed fetch keeps the previous catalog and still
// reconciles, so the refresh indicator always completes.
package catalog
