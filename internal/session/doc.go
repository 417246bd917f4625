// Package session holds the signed-in user's access token and display name.
//
// A Manager is the single source of truth for the pair and is handed to every view controller
// and to the request client. The two values live under separate keys in a Backend (the OS
// keyring or a local SQLite file) but are always written and removed together.
package session
