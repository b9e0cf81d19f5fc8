// Package toolerr defines the error taxonomy shared by all MCP tools.
//
// Every failure crossing a tool boundary is classified as one of three kinds:
// invalid input, a missing resource, or an upstream/library failure. The tool
// layer turns a classified error into a single protocol-visible error result;
// callers inside the process can still inspect the kind with errors.As or the
// KindOf helper.
package toolerr
