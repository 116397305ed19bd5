package bgc

import (
	"idcheck/internal/document"
	"idcheck/internal/pipeline"
)

// normalized response keys
const (
	rootKey     = "bgc"
	productKey  = "product"
	responseKey = "response"
	errorsKey   = "errors"
	codeKey     = "code"
	textKey     = "text"
)

// CommonPipeline normalizes every raw BGC response before validation and
// projection.
var CommonPipeline = pipeline.New(
	pipeline.RemoveXMLNoise(),
	pipeline.ReplaceString("YES", document.Bool(true)),
	pipeline.ReplaceString("NO", document.Bool(false)),
	pipeline.SnakeCaseKeys(),
	pipeline.GuaranteeList("errors", "names", "addresses", "records"),
	pipeline.CompressWrapperList("errors", "names", "addresses", "records"),
	pipeline.ParseFullDate(),
	pipeline.ParsePartialDate(),
	pipeline.ExpandPrefixedKeys("street", "street_"),
)

// Validator checks a normalized response for vendor-reported errors. The
// general tier at bgc.response.errors is checked first and wins; the product
// tier at bgc.product.<product>.response.errors is checked only when the
// general tier is clean. A zero Product skips the product tier.
type Validator struct {
	Product Product
}

// Validate returns *APIError or *ProductError when the respective tier
// carries errors, nil otherwise.
func (v Validator) Validate(doc document.Document) error {
	if errs := collectErrors(doc, rootKey, responseKey, errorsKey); len(errs) > 0 {
		return &APIError{Errors: errs}
	}
	if v.Product == "" {
		return nil
	}
	if errs := collectErrors(doc, rootKey, productKey, v.Product.Key(), responseKey, errorsKey); len(errs) > 0 {
		return &ProductError{Product: v.Product, Errors: errs}
	}
	return nil
}

// collectErrors builds an ErrorSet from the error records at path. Records
// without a code are skipped; a later record with the same code wins.
func collectErrors(doc document.Document, path ...string) ErrorSet {
	node, ok := doc.Lookup(path...)
	if !ok {
		return nil
	}

	var records []document.Document
	switch node.Kind() {
	case document.KindSequence:
		records = node.Items()
	case document.KindMapping:
		records = []document.Document{node}
	default:
		return nil
	}

	errs := make(ErrorSet, len(records))
	for _, r := range records {
		code, ok := r.Get(codeKey)
		if !ok || code.IsNull() || !code.IsScalar() {
			continue
		}
		text, _ := r.Get(textKey)
		errs[code.Text()] = text.Text()
	}
	return errs
}
