/*
Package app binds the controls of a document to their action handlers.

Initialize attaches one click listener per entry of the actions dispatch
table and returns a BoundApp. Each click runs on its own goroutine:

	read inputs -> build request -> execute -> render

Handlers are re-entrant and uncoordinated. Two clicks on the same control
issue two calls, and whichever response completes last owns the target.

The rendering boundary (present) decides what a failure looks like. By
default a failed call leaves its target untouched; Options.SurfaceErrors
writes the error text instead. Every call reports its Outcome to
Options.OnOutcome.

Close unbinds every listener and waits for calls in flight. Independent
BoundApps can be created over independent documents.
*/
package app
