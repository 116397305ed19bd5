package bgc

import (
	"fmt"
	"strings"

	"idcheck/internal/document"
)

// ValidateResult is the outcome of a USOneValidate order.
type ValidateResult struct {
	OrderID      string            `json:"order_id"`
	Order        document.Document `json:"order"`
	IsValid      bool              `json:"is_valid"`
	IsDeceased   bool              `json:"is_deceased"`
	TextResponse string            `json:"text_response"`
	StateIssued  *string           `json:"state_issued"`
	YearIssued   *int              `json:"year_issued"`
}

// TraceResult is the outcome of a USOneTrace order.
type TraceResult struct {
	OrderID string              `json:"order_id"`
	Order   document.Document   `json:"order"`
	Records []document.Document `json:"records"`
}

func projectValidate(doc document.Document) (*ValidateResult, error) {
	root, order, err := productNode(doc, USOneValidate)
	if err != nil {
		return nil, err
	}
	validation, err := nodeAt(order, responseKey, "validation")
	if err != nil {
		return nil, err
	}

	res := &ValidateResult{}
	if res.OrderID, err = requireText(root, "order_id"); err != nil {
		return nil, err
	}
	if res.Order, err = nodeAt(order, "order"); err != nil {
		return nil, err
	}
	if res.IsValid, err = requireBool(validation, "is_valid"); err != nil {
		return nil, err
	}
	if res.IsDeceased, err = requireBool(validation, "is_deceased"); err != nil {
		return nil, err
	}
	textResponse, err := nodeAt(validation, "text_response")
	if err != nil {
		return nil, err
	}
	res.TextResponse = textResponse.Text()

	if state, ok := validation.Get("state_issued"); ok && !state.IsNull() {
		s := state.Text()
		res.StateIssued = &s
	}
	if year, ok := validation.Get("year_issued"); ok && !year.IsNull() {
		y, ok := yearOf(year)
		if !ok {
			return nil, fmt.Errorf("%w: year_issued %s is not a year", ErrMalformedResponse, year)
		}
		res.YearIssued = &y
	}
	return res, nil
}

func projectTrace(doc document.Document) (*TraceResult, error) {
	root, order, err := productNode(doc, USOneTrace)
	if err != nil {
		return nil, err
	}

	res := &TraceResult{}
	if res.OrderID, err = requireText(root, "order_id"); err != nil {
		return nil, err
	}
	if res.Order, err = nodeAt(order, "order"); err != nil {
		return nil, err
	}
	records, err := nodeAt(order, responseKey, "records")
	if err != nil {
		return nil, err
	}
	if !records.IsSequence() {
		return nil, fmt.Errorf("%w: records is a %s", ErrMalformedResponse, records.Kind())
	}
	res.Records = records.Items()
	return res, nil
}

func productNode(doc document.Document, product Product) (root, order document.Document, err error) {
	if root, err = nodeAt(doc, rootKey); err != nil {
		return root, order, err
	}
	order, err = nodeAt(root, productKey, product.Key())
	return root, order, err
}

func nodeAt(doc document.Document, path ...string) (document.Document, error) {
	v, ok := doc.Lookup(path...)
	if !ok {
		return document.Document{}, fmt.Errorf("%w: missing %s", ErrMalformedResponse, strings.Join(path, "."))
	}
	return v, nil
}

func requireText(doc document.Document, key string) (string, error) {
	v, err := nodeAt(doc, key)
	if err != nil {
		return "", err
	}
	if !v.IsScalar() || v.IsNull() {
		return "", fmt.Errorf("%w: %s is a %s", ErrMalformedResponse, key, v.Kind())
	}
	return v.Text(), nil
}

func requireBool(doc document.Document, key string) (bool, error) {
	v, err := nodeAt(doc, key)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, fmt.Errorf("%w: %s is a %s, want bool", ErrMalformedResponse, key, v.Kind())
	}
	return b, nil
}

func yearOf(v document.Document) (int, bool) {
	if p, ok := v.AsPartialDate(); ok {
		return p.Year(), true
	}
	if d, ok := v.AsDate(); ok {
		return d.Year, true
	}
	return v.Int()
}
