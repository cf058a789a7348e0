// Package fusion assembles multi-source evidence and produces grounded
// answers.
//
// The engine takes a routed query and builds an ordered evidence set
// from caller-supplied extras, document retrieval, and web search, then
// asks the language model to answer strictly from that context. Every
// evidence item yields one citation string, in the same order as the
// inline labels the model is told to cite with.
package fusion
