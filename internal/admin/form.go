package admin

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/five82/stockroom/internal/catalog"
)

// Field names one editable form field.
type Field string

const (
	FieldName        Field = "name"
	FieldPrice       Field = "price"
	FieldDescription Field = "description"
	FieldImage       Field = "image"
)

// Fields lists the editable fields in display order.
func Fields() []Field {
	return []Field{FieldName, FieldPrice, FieldDescription, FieldImage}
}

// Mode is derived from the form id; it is never stored.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// FormValues is the raw text of the form plus the id being edited.
type FormValues struct {
	ID          catalog.ID
	Name        string
	Price       string
	Description string
	Image       string
}

// Get returns the text of field f.
func (v FormValues) Get(f Field) string {
	switch f {
	case FieldName:
		return v.Name
	case FieldPrice:
		return v.Price
	case FieldDescription:
		return v.Description
	case FieldImage:
		return v.Image
	}
	return ""
}

func emptyValues() FormValues {
	return FormValues{Price: "0"}
}

// FormState is the single create/edit form. An empty id means create mode.
// The id only changes through LoadFrom and Reset.
type FormState struct {
	mu       sync.Mutex
	values   FormValues
	revision uint64
}

// NewFormState returns a form in create mode.
func NewFormState() *FormState {
	return &FormState{values: emptyValues()}
}

// LoadFrom overwrites every field, id included, from p.
func (f *FormState) LoadFrom(p catalog.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = FormValues{
		ID:          p.ID,
		Name:        p.Name,
		Price:       strconv.Itoa(p.Price),
		Description: p.Description,
		Image:       p.Image,
	}
	f.revision++
}

// SetField overwrites one field and leaves the rest alone.
func (f *FormState) SetField(field Field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch field {
	case FieldName:
		f.values.Name = value
	case FieldPrice:
		f.values.Price = value
	case FieldDescription:
		f.values.Description = value
	case FieldImage:
		f.values.Image = value
	default:
		return fmt.Errorf("unknown form field %q", field)
	}
	f.revision++
	return nil
}

// Reset returns the form to create mode with empty text and a zero price.
func (f *FormState) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *FormState) resetLocked() {
	f.values = emptyValues()
	f.revision++
}

// resetIfUnchanged resets the form only if nothing touched it since
// revision rev was read.
func (f *FormState) resetIfUnchanged(rev uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revision != rev {
		return false
	}
	f.resetLocked()
	return true
}

// Values returns a copy of the current form text.
func (f *FormState) Values() FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

// ID returns the id being edited, zero in create mode.
func (f *FormState) ID() catalog.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.ID
}

// Mode reports create or edit.
func (f *FormState) Mode() Mode {
	if f.ID().IsZero() {
		return ModeCreate
	}
	return ModeEdit
}

// Revision increments on every change.
func (f *FormState) Revision() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revision
}

// Input projects the form into a create/update payload.
func (f *FormState) Input() (catalog.ProductInput, error) {
	return f.Values().Input()
}

// Input projects v into a create/update payload. A blank price is zero; any
// other price that is not a base-10 integer is a ValidationError.
func (v FormValues) Input() (catalog.ProductInput, error) {
	price, err := parsePrice(v.Price)
	if err != nil {
		return catalog.ProductInput{}, err
	}
	return catalog.ProductInput{
		Name:        v.Name,
		Price:       price,
		Description: v.Description,
		Image:       v.Image,
	}, nil
}

func parsePrice(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, nil
	}
	price, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &ValidationError{Field: FieldPrice, Value: raw, Reason: "must be a whole number"}
	}
	return price, nil
}
