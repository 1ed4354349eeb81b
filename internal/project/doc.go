// Package project reads and updates the files of an Azure Functions
// project: host.json, local.settings.json and the per-function
// function.json binding files.
//
// Updates are read-modify-write. host.json keys funcwiz does not know
// about are preserved. Files are replaced atomically via internal/storage.
package project
