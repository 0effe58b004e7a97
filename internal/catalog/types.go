package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a product on the server. Servers hand out either numeric or
// string identifiers; both decode into ID. The zero value means "no id".
type ID string

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// String returns the id as text.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON number, a JSON string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(n.String())
		return nil
	}
}

// MarshalJSON writes ids in canonical integer form as JSON numbers and
// everything else, "007" or "+5" included, as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Product mirrors one element of the products resource.
type Product struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Input returns the mutable fields of p as a create/update payload.
func (p Product) Input() ProductInput {
	return ProductInput{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Image:       p.Image,
	}
}

// ProductInput is the body of create and update requests. It has no id:
// ids are assigned by the server and never change.
type ProductInput struct {
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ListResponse mirrors the enveloped form of GET /products.
type ListResponse struct {
	Data []Product `json:"data"`
}

// decodeList accepts either {"data": [...]} or a bare array.
func decodeList(body []byte) ([]Product, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	if body[0] == '[' {
		var items []Product
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var envelope ListResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}
