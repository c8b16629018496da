// Package pattern compiles element glob patterns into matchers that also
// extract named captures from the matched path.
//
// # Syntax
//
// Patterns are slash-separated and anchored at the project root:
//
//   - literal segments: src/models
//   - "*" matches any run of characters inside one segment
//   - "**" matches zero or more whole segments
//   - "?" matches one character, "[abc]" a character class
//   - "{a,b}" matches one of the alternatives
//   - "<name>" matches a non-empty part of one segment and binds it
//
// # Captures
//
// Capture tokens are "*", "**" and "<name>", in order of appearance.
// The element's capture list binds them positionally:
//
//	pattern:  src/actions/**/*.types.ts
//	captures: [version, actionName]
//	path:     src/actions/v1/createUser.types.ts
//	result:   version=v1 actionName=createUser
//
// A "<name>" token must sit at the position of the same name in the capture
// list, so "src/models/<modelName>.ts" requires captures [modelName].
//
// # Modes
//
// MatchFile matches files only, MatchFolder matches anything under a matching
// directory, MatchFull matches the complete path with no descent.
package pattern
