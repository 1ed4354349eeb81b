// Package doctor checks the environment funcwiz depends on.
//
// The checks cover:
//
//   - the Azure Functions Core Tools CLI (func) and its major version
//   - the optional Ballerina CLI (bal), only needed for Ballerina projects
//   - the configuration file
//   - the persisted feed cache
//   - the project in the current directory, if any
//
// On Linux the report also names the distribution from os-release.
//
// Each [Check] has a [Status] and an optional hint. A report with a
// failed check makes "funcwiz doctor" exit non-zero.
package doctor
