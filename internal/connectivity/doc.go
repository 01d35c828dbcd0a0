// Package connectivity tracks whether the network is reachable and notifies
// subscribers on the main loop when that changes.
package connectivity
