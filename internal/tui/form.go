package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentstation/catalogadmin/internal/cmd/alerts"
	"github.com/agentstation/catalogadmin/pkg/confirm"
	"github.com/agentstation/catalogadmin/pkg/errors"
	"github.com/agentstation/catalogadmin/pkg/products"
)

// fieldImage is the form-only field holding a local image path.
const fieldImage = "image"

var formFields = []struct {
	key   string
	label string
}{
	{"name", "Name"},
	{"category", "Category"},
	{"stock", "Stock"},
	{"price", "Price"},
	{"imageUrl", "Image URL"},
	{fieldImage, "Image file"},
}

// productForm is the add or edit dialog.
type productForm struct {
	kind    confirm.Kind
	id      int
	initial map[string]string
	inputs  []textinput.Model
	focused int
	errors  map[string]string
	image   *products.Image
}

func newProductForm(kind confirm.Kind, values map[string]string) *productForm {
	f := &productForm{kind: kind, initial: values, errors: map[string]string{}}
	for _, field := range formFields {
		in := textinput.New()
		in.Prompt = ""
		in.SetValue(values[field.key])
		f.inputs = append(f.inputs, in)
	}
	f.inputs[0].Focus()
	return f
}

// newAddForm starts an empty draft with stock and price at zero.
func newAddForm() *productForm {
	return newProductForm(confirm.KindAdd, map[string]string{"stock": "0", "price": "0"})
}

func newEditForm(e products.Entry) *productForm {
	values := map[string]string{
		"name":     e.Name,
		"category": e.Category,
		"imageUrl": e.ImageURL,
		"stock":    "",
		"price":    "",
	}
	if e.Stock != nil {
		values["stock"] = strconv.Itoa(*e.Stock)
	}
	if e.Price != nil {
		values["price"] = strconv.FormatFloat(*e.Price, 'f', -1, 64)
	}
	f := newProductForm(confirm.KindEdit, values)
	f.id = e.ID
	return f
}

func (f *productForm) value(key string) string {
	for i, field := range formFields {
		if field.key == key {
			return f.inputs[i].Value()
		}
	}
	return ""
}

func (f *productForm) move(delta int) tea.Cmd {
	f.inputs[f.focused].Blur()
	f.focused = (f.focused + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focused].Focus()
}

// attach opens the image path field, replacing any image opened before.
func (f *productForm) attach() (*products.Image, bool) {
	f.release()
	path := strings.TrimSpace(f.value(fieldImage))
	if path == "" {
		return nil, true
	}
	img, err := products.OpenImage(path)
	if err != nil {
		f.errors[fieldImage] = "cannot open image: " + err.Error()
		return nil, false
	}
	f.image = img
	return img, true
}

func (f *productForm) release() {
	if f.image != nil {
		_ = f.image.Release()
		f.image = nil
	}
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		if f.kind == confirm.KindEdit {
			m.view.CancelEdit()
		}
		m.discardForm()
		m.mode = modeTable
		return m, nil
	case "tab", "down":
		return m, f.move(1)
	case "shift+tab", "up":
		return m, f.move(-1)
	case "ctrl+s":
		return m, m.submitForm()
	case "enter":
		if f.focused < len(f.inputs)-1 {
			return m, f.move(1)
		}
		return m, m.submitForm()
	}

	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return m, cmd
}

func (m *Model) submitForm() tea.Cmd {
	f := m.form
	f.errors = map[string]string{}
	if f.kind == confirm.KindEdit {
		return m.submitEdit()
	}
	return m.submitAdd()
}

func (m *Model) submitAdd() tea.Cmd {
	f := m.form
	stock, err := products.ParseStock(strings.TrimSpace(f.value("stock")))
	if err != nil {
		f.errors["stock"] = "stock must be a whole number"
	}
	price, err := products.ParsePrice(strings.TrimSpace(f.value("price")))
	if err != nil {
		f.errors["price"] = "price must be a number"
	}
	img, ok := f.attach()
	if !ok || len(f.errors) > 0 {
		f.release()
		return nil
	}

	draft := products.Draft{
		Name:     f.value("name"),
		Category: f.value("category"),
		ImageURL: f.value("imageUrl"),
		Stock:    stock.Ptr(),
		Price:    price.Ptr(),
		Image:    img,
	}
	if err := products.ValidateDraft(draft); err != nil {
		f.release()
		return m.formError(err)
	}
	f.image = nil
	return m.stage(confirm.Add{Draft: draft})
}

// submitEdit replays the changed form values onto a fresh edit of the row
// so that values reverted in the form drop out of the patch.
func (m *Model) submitEdit() tea.Cmd {
	f := m.form
	if err := m.view.BeginEdit(f.id); err != nil {
		m.discardForm()
		m.mode = modeTable
		return m.notify(alerts.FromError(err))
	}
	for _, field := range formFields {
		if field.key == fieldImage {
			continue
		}
		v := f.value(field.key)
		if v == f.initial[field.key] {
			continue
		}
		if err := m.view.SetField(field.key, v); err != nil {
			var ve *errors.ValidationError
			if errors.As(err, &ve) {
				f.errors[field.key] = ve.Message
			}
		}
	}
	img, ok := f.attach()
	if !ok || len(f.errors) > 0 {
		f.release()
		return nil
	}
	if img != nil {
		_ = m.view.AttachImage(img)
		f.image = nil
	}

	original, changes, err := m.view.SubmitEdit()
	if err != nil {
		return m.formError(err)
	}
	return m.stage(confirm.Edit{Original: original, Changes: changes})
}

// formError shows violations next to their fields and anything else as
// a toast.
func (m *Model) formError(err error) tea.Cmd {
	var violations products.Violations
	if errors.As(err, &violations) {
		for field, msg := range violations.Messages() {
			m.form.errors[field] = msg
		}
		return nil
	}
	var ve *errors.ValidationError
	if errors.As(err, &ve) {
		return m.notify(alerts.NewWarning(capitalize(ve.Message)))
	}
	return m.notify(alerts.FromError(err))
}

// stage hands the action to the workflow and opens the confirmation
// dialog.
func (m *Model) stage(a confirm.Action) tea.Cmd {
	if err := m.workflow.Stage(a); err != nil {
		switch a := a.(type) {
		case confirm.Add:
			_ = a.Draft.Image.Release()
		case confirm.Edit:
			_ = a.Changes.Image.Release()
		}
		return m.notify(alerts.FromError(err))
	}
	m.form = nil
	m.summary = confirm.Describe(a)
	m.mode = modeConfirm
	return nil
}

func (m *Model) formView() string {
	f := m.form
	title := "Add product"
	if f.kind == confirm.KindEdit {
		title = "Edit product"
	}

	lines := []string{titleStyle.Render(title), ""}
	for i, field := range formFields {
		label := labelStyle.Render(field.label)
		if f.kind == confirm.KindEdit && field.key != fieldImage && f.inputs[i].Value() != f.initial[field.key] {
			label = changedStyle.Render(field.label)
		}
		lines = append(lines, label+f.inputs[i].View())
		if msg, ok := f.errors[field.key]; ok {
			lines = append(lines, labelStyle.Render("")+errorStyle.Render(msg))
		}
	}
	lines = append(lines, "", dimStyle.Render("tab next field · enter on last field or ctrl+s to save · esc to cancel"))
	return dialogStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
