package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ahargrove/folio/internal/catalog"
	"github.com/ahargrove/folio/internal/guard"
)

// detailView shows a single book. Edit and delete bindings only work
// when the ownership guard allows them.
type detailView struct {
	book    catalog.Book
	loading bool
	errMsg  string

	confirmDelete bool
	deleting      bool

	from View
}

func (m Model) updateDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.confirmDelete {
		switch msg.String() {
		case "y":
			m.detail.confirmDelete = false
			m.detail.deleting = true
			return m, m.deleteBookCmd(m.detail.book.ID)
		case "n", "esc":
			m.detail.confirmDelete = false
			return m, nil
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = m.detail.from
		m.detail = detailView{}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if !guard.CanMutate(m.currentSession(), m.detail.book.OwnerID) {
			return m, nil
		}
		m.form = newEditForm(m.detail.book)
		m.form.from = ViewDetail
		m.view = ViewForm
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		if !guard.CanMutate(m.currentSession(), m.detail.book.OwnerID) {
			return m, nil
		}
		m.detail.confirmDelete = true
		return m, nil

	case key.Matches(msg, m.keys.Logout):
		return m.logout()
	}
	return m, nil
}

// handleBookResult lands the fresh copy fetched when the detail view
// opened. The row snapshot stays on screen until it arrives.
func (m Model) handleBookResult(msg bookResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && sessionLost(msg.err) {
		return m.toLogin("Session expired, please sign in again")
	}

	m.detail.loading = false
	if msg.err != nil {
		m.detail.errMsg = catalog.ErrorMessage(msg.err, "Failed to fetch book")
		return m, nil
	}
	m.detail.errMsg = ""
	m.detail.book = msg.book
	return m, nil
}

func (m Model) handleDeleteResult(msg deleteResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && sessionLost(msg.err) {
		return m.toLogin("Session expired, please sign in again")
	}

	m.detail.deleting = false
	if msg.err != nil {
		m.detail.errMsg = catalog.ErrorMessage(msg.err, "Failed to delete book")
		return m, nil
	}

	from := m.detail.from
	m.view = from
	m.detail = detailView{}
	if from == ViewMyBooks {
		m.mine.loading = true
		return m, m.fetchMyBooksCmd()
	}
	return m, m.beginBooksFetch()
}

func (m Model) renderDetail() string {
	var b strings.Builder
	bk := m.detail.book

	b.WriteString(m.renderHeader("Book"))
	b.WriteString("\n")

	title := bk.Title
	if bk.SubTitle != "" {
		title += ": " + bk.SubTitle
	}
	b.WriteString(m.styles.AccentText.Render(title))
	b.WriteString("\n\n")

	rows := []struct{ label, value string }{
		{"Author", bk.Author},
		{"Editors", bk.Editors},
		{"Publisher", bk.Publisher},
		{"Language", bk.Language},
		{"Published", formatDate(bk.PublishedAt)},
	}
	if bk.Owner != nil {
		rows = append(rows, struct{ label, value string }{"Owner", bk.Owner.Username})
	}
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		b.WriteString(m.styles.FieldLabel.Render(r.label))
		b.WriteString(m.styles.Text.Render(r.value))
		b.WriteString("\n")
	}

	if bk.Description != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render(bk.Description))
		b.WriteString("\n")
	}

	if m.detail.loading {
		b.WriteString("\n")
		b.WriteString(m.styles.InfoText.Render("Refreshing..."))
		b.WriteString("\n")
	}
	if m.detail.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorBox.Render(m.detail.errMsg))
		b.WriteString("\n")
	}
	if m.detail.deleting {
		b.WriteString("\n")
		b.WriteString(m.styles.WarningText.Render("Deleting..."))
		b.WriteString("\n")
	}
	if m.detail.confirmDelete {
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorBox.Render("Delete this book? y/n"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	hints := "esc back"
	if guard.CanMutate(m.currentSession(), bk.OwnerID) {
		hints = "e edit · d delete · " + hints
	}
	b.WriteString(m.styles.CommandBar.Render(hints))
	return b.String()
}
