// Package ui implements the terminal interface with Bubble Tea.
//
// The root Model owns one sub-view per screen: login, register, the
// main book listing, the my-books listing, a book detail page, and a
// create/edit form. All network calls run as tea.Cmd functions and
// land back in Update as typed result messages, so the model itself
// never blocks.
package ui
