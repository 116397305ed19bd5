package service

import (
	"idcheck/internal/bgc"
	"idcheck/internal/document"
)

// piiRecordKeys are dropped from trace records in regulated mode.
var piiRecordKeys = []string{"names", "name", "aliases", "addresses", "address"}

// MinimizeValidate drops the echoed order, which carries the SSN.
func MinimizeValidate(res *bgc.ValidateResult) *bgc.ValidateResult {
	if res == nil {
		return nil
	}
	out := *res
	out.Order = document.Null()
	return &out
}

// MinimizeTrace drops the echoed order and the names and addresses of each
// record.
func MinimizeTrace(res *bgc.TraceResult) *bgc.TraceResult {
	if res == nil {
		return nil
	}
	out := *res
	out.Order = document.Null()
	out.Records = make([]document.Document, len(res.Records))
	for i, rec := range res.Records {
		for _, key := range piiRecordKeys {
			rec = rec.Without(key)
		}
		out.Records[i] = rec
	}
	return &out
}
