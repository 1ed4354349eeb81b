// Package cmd provides helpers for executing external commands with proper
// error handling.
//
// funcwiz shells out to the Azure Functions Core Tools (func) and to
// language build tools (bal) instead of reimplementing project scaffolding.
// These helpers capture stderr and use it as the error text, so a failing
// "func new" surfaces the tool's own message to the user. A non-zero exit
// status is always a failure.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, projectDir, "func", "new", "--name", name); err != nil {
//	    return fmt.Errorf("func new: %w", err)
//	}
//
//	out, err := cmd.OutputContext(ctx, "", "func", "--version")
//
// Commands are logged through the context logger when verbose.
package cmd
