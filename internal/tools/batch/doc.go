// Package batch runs a tool operation over several IDs and reports one
// result per ID.
//
// Tools accept the IDs as a single string, an array, or a JSON-encoded
// array. ProcessBatch fans the calls out with a bounded errgroup and keeps
// going when individual IDs fail.
package batch
