// Package document parses HTML documents and evaluates selectors against their nodes.
//
// Built on specialized libraries:
//   - htmlquery / x/net/html: parse tree and XPath navigators
//   - antchfx/xpath: XPath evaluation, including scalar results
//   - goquery / cascadia: CSS selector matching
//   - chardet / x/net/html/charset: character encoding detection
//   - mimetype: rejecting non-markup payloads before parsing
//   - bluemonday: sanitized HTML output
//
// Compiled selectors are cached per expression.
package document
