// Package main provides the notecheck command line tool.
//
// notecheck matches banknote photos against a directory of reference templates and
// reports whether each note is likely genuine.
//
// Usage:
//
//	notecheck detect note.jpg
//	notecheck templates
//	notecheck serve --addr :9090
//
// See --help for all available options.
package main

func main() {
	Execute()
}
