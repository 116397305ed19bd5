package bgc

import (
	"fmt"

	"idcheck/internal/document"
	"idcheck/internal/pipeline"
	"idcheck/internal/xmlcodec"
)

const (
	apiVersion     = "4.14"
	productVersion = "1"
	xsdNamespace   = "http://www.w3.org/2001/XMLSchema"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
)

// Product names a BGC product as it appears on the wire.
type Product string

const (
	USOneValidate Product = "USOneValidate"
	USOneTrace    Product = "USOneTrace"
)

// Key returns the product's key in a normalized response.
func (p Product) Key() string { return pipeline.ToSnakeCase(string(p)) }

func (p Product) String() string { return string(p) }

// TraceOrder is the subject of a USOneTrace request.
type TraceOrder struct {
	SSN       string `json:"ssn" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// BuildUSOneValidate returns the request document for a USOneValidate order.
func BuildUSOneValidate(login Login, ssn string) document.Document {
	order := document.Map(document.F("SSN", document.String(ssn)))
	return buildRequest(login, USOneValidate, order)
}

// BuildUSOneTrace returns the request document for a USOneTrace order.
func BuildUSOneTrace(login Login, o TraceOrder) document.Document {
	order := document.Map(
		document.F("SSN", document.String(o.SSN)),
		document.F("firstName", document.String(o.FirstName)),
		document.F("lastName", document.String(o.LastName)),
	)
	return buildRequest(login, USOneTrace, order)
}

// buildRequest assembles the envelope. BGC rejects requests whose product
// block precedes the login block, so login is always placed first.
func buildRequest(login Login, product Product, order document.Document) document.Document {
	return document.Map(document.F("BGC", document.Map(
		document.F("@version", document.String(apiVersion)),
		document.F("@xmlns:xsd", document.String(xsdNamespace)),
		document.F("@xmlns:xsi", document.String(xsiNamespace)),
		document.F("login", document.Map(
			document.F("user", document.String(login.User)),
			document.F("password", document.String(login.Password)),
			document.F("account", document.String(login.Account)),
		)),
		document.F("product", document.Map(
			document.F(string(product), document.Map(
				document.F("@version", document.String(productVersion)),
				document.F("order", order),
			)),
		)),
	)))
}

// EncodeRequest serializes a request document to XML text.
func EncodeRequest(req document.Document) ([]byte, error) {
	body, err := xmlcodec.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode bgc request: %w", err)
	}
	return body, nil
}
