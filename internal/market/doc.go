// Package market holds the pure marketplace rules: which offers a buyer may
// see, how they are grouped and ranked, what a multi-size offer submission
// must contain, and how seller contact details are presented.
//
// Nothing here performs I/O. Services fetch rows and hand them to these
// functions, so every rule can be recomputed on each request without side
// effects.
package market
