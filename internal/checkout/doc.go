// Package checkout models the purchase flow that feeds the collection: a
// per-user cart, the shared marketplace of listings and settlement, which turns
// every purchased copy into one AddToCollection call.
package checkout
