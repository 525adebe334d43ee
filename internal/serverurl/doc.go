// Package serverurl canonicalizes user-entered server addresses.
//
// A server is identified by a bare host label ("example"); the full server
// URL is always derivable from it by appending the hosted domain suffix,
// and the label is recoverable from any reasonable pasted URL by stripping
// scheme, path, query, fragment, port and the suffix:
//
//	serverurl.HostFromURL("https://example.chat.platrum.ru/path?x=1")
//	// "example"
//
//	serverurl.URLFromHost("example")
//	// "https://example.chat.platrum.ru"
//
// All functions are pure and total.
package serverurl
