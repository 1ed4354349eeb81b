// Package flows builds the funcwiz workflows as wizards.
//
// Every workflow is a wizard.Wizard assembled from prompt and execute
// steps. Answers are stored on the wizard.Context under the Key*
// constants so sub-wizards can be shared between workflows: creating a
// project can splice in the create-function steps, and creating a
// storage-triggered function splices in the connection steps.
//
// Execute priorities follow one convention:
//
//	10s   prepare the filesystem
//	100s  invoke the func and bal CLIs
//	200s  write configuration (host.json, local.settings.json)
//	300s  best-effort extras
package flows
