// Package cli is the interactive admin client.
//
// It restores the saved session, then runs a REPL with login, logout, me,
// status, refresh, can and role commands. Protected calls go through
// client.Transport, so an expired access token is refreshed without the
// user noticing; a failed refresh prints a notice and drops back to the
// logged-out prompt.
package cli
