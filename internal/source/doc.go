// Package source expands command-line targets into the HTML documents to
// validate. Targets may be files, directories (walked recursively) or
// doublestar glob patterns such as "site/ports/**/*.html".
package source
