package bgc_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idcheck/internal/bgc"
	d "idcheck/internal/document"
)

var testLogin = bgc.Login{User: "user", Password: "secret", Account: "acct"}

func TestBuildUSOneValidateDocument(t *testing.T) {
	req := bgc.BuildUSOneValidate(testLogin, "899999914")

	root, ok := req.Get("BGC")
	require.True(t, ok)
	assert.Equal(t, []string{"@version", "@xmlns:xsd", "@xmlns:xsi", "login", "product"}, root.Keys())

	version, _ := root.Get("@version")
	assert.Equal(t, "4.14", version.Text())

	login, _ := root.Get("login")
	assert.Equal(t, []string{"user", "password", "account"}, login.Keys())

	product, ok := req.Lookup("BGC", "product", "USOneValidate")
	require.True(t, ok)
	productVersion, _ := product.Get("@version")
	assert.Equal(t, "1", productVersion.Text())
	ssn, ok := product.Lookup("order", "SSN")
	require.True(t, ok)
	assert.Equal(t, "899999914", ssn.Text())
}

func TestBuildUSOneTraceDocument(t *testing.T) {
	req := bgc.BuildUSOneTrace(testLogin, bgc.TraceOrder{SSN: "899991111", FirstName: "Ken", LastName: "Rico"})

	order, ok := req.Lookup("BGC", "product", "USOneTrace", "order")
	require.True(t, ok)
	want := d.Map(
		d.F("SSN", d.String("899991111")),
		d.F("firstName", d.String("Ken")),
		d.F("lastName", d.String("Rico")),
	)
	assert.True(t, want.Equal(order), "got %s", order)
}

func TestEncodedRequestPlacesLoginBeforeProduct(t *testing.T) {
	requests := map[string]d.Document{
		"validate": bgc.BuildUSOneValidate(testLogin, "899999914"),
		"trace":    bgc.BuildUSOneTrace(testLogin, bgc.TraceOrder{SSN: "899999914", FirstName: "jonh", LastName: "dow"}),
	}
	for name, req := range requests {
		t.Run(name, func(t *testing.T) {
			body, err := bgc.EncodeRequest(req)
			require.NoError(t, err)

			text := string(body)
			login := strings.Index(text, "login")
			product := strings.Index(text, "product")
			require.NotEqual(t, -1, login)
			require.NotEqual(t, -1, product)
			assert.Less(t, login, product)
		})
	}
}

func TestEncodedRequestText(t *testing.T) {
	body, err := bgc.EncodeRequest(bgc.BuildUSOneValidate(testLogin, "899999914"))
	require.NoError(t, err)

	assert.Contains(t, string(body),
		`<BGC version="4.14" xmlns:xsd="http://www.w3.org/2001/XMLSchema" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">`+
			`<login><user>user</user><password>secret</password><account>acct</account></login>`+
			`<product><USOneValidate version="1"><order><SSN>899999914</SSN></order></USOneValidate></product></BGC>`)
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "us_one_validate", bgc.USOneValidate.Key())
	assert.Equal(t, "us_one_trace", bgc.USOneTrace.Key())
}
