package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ahargrove/folio/internal/catalog"
)

// Form field order. Published is toggled with space on its row rather
// than typed.
const (
	fieldTitle = iota
	fieldSubTitle
	fieldAuthor
	fieldEditors
	fieldDescription
	fieldImageURL
	fieldPublishedAt
	fieldPublisher
	fieldLanguage
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Title",
	"Subtitle",
	"Author",
	"Editors",
	"Description",
	"Image URL",
	"Published at",
	"Publisher",
	"Language",
}

// bookForm creates a new book or edits an existing one.
type bookForm struct {
	editing bool
	bookID  int64

	inputs     [fieldCount]textinput.Model
	published  bool
	focus      int
	errMsg     string
	submitting bool

	from View
}

func newBookForm() bookForm {
	var f bookForm
	placeholders := [fieldCount]string{
		"title", "subtitle (optional)", "author", "editors (optional)",
		"description (optional)", "https:// (optional)", "YYYY-MM-DD",
		"publisher", "english",
	}
	for i := range f.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.Prompt = ""
		in.CharLimit = 256
		f.inputs[i] = in
	}
	f.inputs[fieldTitle].Focus()
	return f
}

// newEditForm pre-fills the form from an existing book.
func newEditForm(bk catalog.Book) bookForm {
	f := newBookForm()
	f.editing = true
	f.bookID = bk.ID
	f.published = bk.Published

	f.inputs[fieldTitle].SetValue(bk.Title)
	f.inputs[fieldSubTitle].SetValue(bk.SubTitle)
	f.inputs[fieldAuthor].SetValue(bk.Author)
	f.inputs[fieldEditors].SetValue(bk.Editors)
	f.inputs[fieldDescription].SetValue(bk.Description)
	f.inputs[fieldImageURL].SetValue(bk.ImageURL)
	f.inputs[fieldPublishedAt].SetValue(bk.PublishedAt)
	f.inputs[fieldPublisher].SetValue(bk.Publisher)
	f.inputs[fieldLanguage].SetValue(bk.Language)
	return f
}

func (m Model) updateFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.view = m.form.from
		m.form = newBookForm()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.form = m.form.moveFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.form = m.form.moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keys.TogglePublish):
		m.form.published = !m.form.published
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.submitForm()

	case key.Matches(msg, m.keys.Submit):
		if m.form.focus == fieldCount-1 {
			return m.submitForm()
		}
		m.form = m.form.moveFocus(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (f bookForm) moveFocus(delta int) bookForm {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
	return f
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	if m.form.submitting {
		return m, nil
	}

	get := func(i int) string { return strings.TrimSpace(m.form.inputs[i].Value()) }
	if get(fieldTitle) == "" || get(fieldAuthor) == "" || get(fieldPublisher) == "" || get(fieldLanguage) == "" {
		m.form.errMsg = "Title, author, publisher, and language are required"
		return m, nil
	}

	m.form.errMsg = ""
	m.form.submitting = true

	if m.form.editing {
		patch := catalog.BookPatch{
			Title:       strp(get(fieldTitle)),
			SubTitle:    strp(get(fieldSubTitle)),
			Description: strp(get(fieldDescription)),
			Author:      strp(get(fieldAuthor)),
			Editors:     strp(get(fieldEditors)),
			ImageURL:    strp(get(fieldImageURL)),
			Published:   &m.form.published,
			PublishedAt: strp(get(fieldPublishedAt)),
			Publisher:   strp(get(fieldPublisher)),
			Language:    strp(get(fieldLanguage)),
		}
		return m, m.updateBookCmd(m.form.bookID, patch)
	}

	draft := catalog.BookDraft{
		Title:       get(fieldTitle),
		SubTitle:    get(fieldSubTitle),
		Description: get(fieldDescription),
		Author:      get(fieldAuthor),
		Editors:     get(fieldEditors),
		ImageURL:    get(fieldImageURL),
		Published:   m.form.published,
		PublishedAt: get(fieldPublishedAt),
		Publisher:   get(fieldPublisher),
		Language:    get(fieldLanguage),
	}
	return m, m.createBookCmd(draft)
}

func (m Model) handleSaveResult(msg saveResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && sessionLost(msg.err) {
		return m.toLogin("Session expired, please sign in again")
	}

	m.form.submitting = false
	if msg.err != nil {
		m.form.errMsg = catalog.ErrorMessage(msg.err, "Failed to save book")
		return m, nil
	}

	from := m.form.from
	created := msg.created
	if created {
		m.view = from
	} else {
		// Edits return to the detail view with the saved copy.
		m.detail.book = msg.book
		m.view = ViewDetail
	}
	m.form = newBookForm()

	if created {
		if from == ViewMyBooks {
			m.mine.loading = true
			return m, m.fetchMyBooksCmd()
		}
		return m, m.beginBooksFetch()
	}
	return m, nil
}

func (m Model) renderForm() string {
	var b strings.Builder

	heading := "New Book"
	if m.form.editing {
		heading = "Edit Book"
	}
	b.WriteString(m.renderHeader(heading))
	b.WriteString("\n")

	for i, in := range m.form.inputs {
		b.WriteString(m.styles.FieldLabel.Render(fieldLabels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}

	b.WriteString(m.styles.FieldLabel.Render("Published"))
	if m.form.published {
		b.WriteString(m.styles.SuccessText.Render("yes"))
	} else {
		b.WriteString(m.styles.MutedText.Render("no"))
	}
	b.WriteString("\n")

	if m.form.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorBox.Render(m.form.errMsg))
		b.WriteString("\n")
	}
	if m.form.submitting {
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render("Saving..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.CommandBar.Render("tab next field · ctrl+p toggle published · ctrl+s save · esc cancel"))
	return b.String()
}

func strp(s string) *string { return &s }
