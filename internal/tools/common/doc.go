// Package common holds helpers shared by the docsmith tool packages:
// instrumentation of handlers, account resolution, argument parsing and
// JSON results.
package common
