// Package sigio reads signal and span files and writes run artifacts.
//
// Signals load from JSON arrays or plain text (one sample per line, or
// comma/whitespace separated). Span files load from JSON pair arrays
// ([[start, end], ...]) or plain text with one "start end" pair per line;
// blank lines and # comments are skipped. Run artifacts land in an output
// directory as <detection>_on_orig.json, <detection>_on_start.json, and a
// summary.json.
package sigio
