// Package http implements the REST API of the feed server: authentication,
// the list feed with likes, comment threads and notifications.
//
// Every error response carries a JSON body {"error": "<message>"} whose
// message is one of the constants in internal/app, so the client can tell
// apart errors that share a status code.
package http
