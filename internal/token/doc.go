// Package token defines lexical token kinds for legacy BASIC source.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Keywords are case-insensitive; LookupKeyword folds before matching.
//   - Whitespace, newlines, and comments are real tokens, never trivia:
//     newlines terminate statements, so the parser must see them.
//   - Type suffix characters (% & ! # @ $) directly after an identifier
//     or number are separate TypeSuffix tokens.
//   - Built-in type names (Integer, Long, Variant, ...) are keywords,
//     unlike user-defined type names which stay identifiers.
package token
