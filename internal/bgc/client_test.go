package bgc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"idcheck/internal/bgc"
	"idcheck/internal/bgc/mocks"
	d "idcheck/internal/document"
	"idcheck/internal/xmlcodec"
)

func fixture(t *testing.T, name string) d.Document {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := xmlcodec.Unmarshal(raw)
	require.NoError(t, err)
	return doc
}

func testConnections(t *testing.T) *bgc.Connections {
	t.Helper()
	conns, err := bgc.NewConnections(
		bgc.Connection{Name: bgc.DefaultConnection, Host: "https://bgc.example.test/direct", User: "user", Password: "secret", Account: "acct"},
		bgc.Connection{Name: "wrong_user", Host: "https://bgc.example.test/direct", User: "nobody", Password: "secret", Account: "acct"},
	)
	require.NoError(t, err)
	return conns
}

type ClientSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	transport *mocks.MockTransport
	client    *bgc.Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.transport = mocks.NewMockTransport(s.ctrl)
	s.client = bgc.New(testConnections(s.T()), bgc.WithTransport(s.transport))
}

func (s *ClientSuite) TearDownTest() {
	s.ctrl.Finish()
}

// =============================================================================
// USOneValidate
// =============================================================================

func (s *ClientSuite) TestUSOneValidate() {
	ctx := context.Background()

	s.Run("posts request and projects result", func() {
		s.transport.EXPECT().Post(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, body []byte) (d.Document, error) {
				text := string(body)
				s.Contains(text, "<SSN>899999914</SSN>")
				s.Contains(text, "<user>user</user>")
				s.Less(strings.Index(text, "<login>"), strings.Index(text, "<product>"))
				return fixture(s.T(), "validate_ok.xml"), nil
			})

		res, err := s.client.USOneValidate(ctx, "899999914")
		s.Require().NoError(err)
		s.Equal("1047", res.OrderID)
		s.True(res.IsValid)
		s.False(res.IsDeceased)
		s.Equal("The SSN is valid.", res.TextResponse)
		s.Nil(res.StateIssued)
		s.Nil(res.YearIssued)
		s.True(d.Map(d.F("ssn", d.String("899999914"))).Equal(res.Order), "order %s", res.Order)
	})

	s.Run("issued state and year", func() {
		s.transport.EXPECT().Post(gomock.Any(), gomock.Any()).Return(fixture(s.T(), "validate_issued.xml"), nil)

		res, err := s.client.USOneValidate(ctx, "899999915")
		s.Require().NoError(err)
		s.True(res.IsDeceased)
		s.Require().NotNil(res.StateIssued)
		s.Equal("CA", *res.StateIssued)
		s.Require().NotNil(res.YearIssued)
		s.Equal(1975, *res.YearIssued)
	})

	s.Run("general error", func() {
		s.transport.EXPECT().Post(gomock.Any(), gomock.Any()).Return(fixture(s.T(), "error_login.xml"), nil)

		res, err := s.client.USOneValidate(ctx, "899999914")
		s.Nil(res)
		var apiErr *bgc.APIError
		s.Require().ErrorAs(err, &apiErr)
		s.Equal(bgc.ErrorSet{"1": "bad login"}, apiErr.Errors)
		s.Equal("api_error", bgc.Outcome(err))
	})

	s.Run("missing validation block is malformed", func() {
		raw := d.Map(d.F("BGC", d.Map(
			d.F("orderId", d.String("1")),
			d.F("product", d.Map(d.F("USOneValidate", d.Map(d.F("order", d.Map()))))),
		)))
		s.transport.EXPECT().Post(gomock.Any(), gomock.Any()).Return(raw, nil)

		_, err := s.client.USOneValidate(ctx, "899999914")
		s.ErrorIs(err, bgc.ErrMalformedResponse)
		s.Equal("malformed", bgc.Outcome(err))
	})

	s.Run("transport error returned unchanged", func() {
		boom := errors.New("connection reset")
		s.transport.EXPECT().Post(gomock.Any(), gomock.Any()).Return(d.Document{}, boom)

		_, err := s.client.USOneValidate(ctx, "899999914")
		s.Same(boom, err)
		s.Equal("failed", bgc.Outcome(err))
	})
}

// =============================================================================
// USOneTrace
// =============================================================================

func (s *ClientSuite) TestUSOneTrace() {
	ctx := context.Background()
	order := bgc.TraceOrder{SSN: "899991111", FirstName: "Ken", LastName: "Rico"}

	s.Run("normalizes records", func() {
		s.transport.EXPECT().Post(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, body []byte) (d.Document, error) {
				s.Contains(string(body), "<firstName>Ken</firstName><lastName>Rico</lastName>")
				return fixture(s.T(), "trace_ok.xml"), nil
			})

		res, err := s.client.USOneTrace(ctx, order)
		s.Require().NoError(err)
		s.Equal("2001", res.OrderID)
		s.Require().Len(res.Records, 1)

		dob := mustDate(s.T(), 1990, time.March, 15)
		firstSeen := mustYearMonth(s.T(), 2001, time.March)
		want := d.Map(
			d.F("names", d.Seq(d.Map(
				d.F("first_name", d.String("KEN")),
				d.F("last_name", d.String("RICO")),
			))),
			d.F("addresses", d.Seq(
				d.Map(
					d.F("street", d.Map(d.F("number", d.String("12")), d.F("name", d.String("MAIN")))),
					d.F("city", d.String("AUSTIN")),
					d.F("date_first_seen", d.FromPartialDate(firstSeen)),
				),
				d.Map(
					d.F("street", d.Map(d.F("number", d.String("7")), d.F("name", d.String("ELM")))),
					d.F("city", d.String("DALLAS")),
				),
			)),
			d.F("date_of_birth", d.FromDate(dob)),
		)
		s.True(want.Equal(res.Records[0]), "want %s\n got %s", want, res.Records[0])
	})

	s.Run("product error", func() {
		s.transport.EXPECT().Post(gomock.Any(), gomock.Any()).Return(fixture(s.T(), "trace_product_error.xml"), nil)

		_, err := s.client.USOneTrace(ctx, order)
		var productErr *bgc.ProductError
		s.Require().ErrorAs(err, &productErr)
		s.Equal(bgc.USOneTrace, productErr.Product)
		s.Equal(bgc.ErrorSet{"200": "No records found", "201": "Name does not match"}, productErr.Errors)
		s.ErrorIs(err, bgc.ErrAPI)
		s.Equal("product_error", bgc.Outcome(err))
	})

	s.Run("general error wins over product error", func() {
		raw := fixture(s.T(), "trace_product_error.xml")
		bgcRoot, _ := raw.Get("BGC")
		raw = d.Map(d.F("BGC", bgcRoot.With("response", d.Map(
			d.F("errors", d.Map(d.F("error", d.Map(d.F("code", d.String("1")), d.F("text", d.String("bad login")))))),
		))))
		s.transport.EXPECT().Post(gomock.Any(), gomock.Any()).Return(raw, nil)

		_, err := s.client.USOneTrace(ctx, order)
		var apiErr *bgc.APIError
		s.Require().ErrorAs(err, &apiErr)
		s.Equal(bgc.ErrorSet{"1": "bad login"}, apiErr.Errors)
	})
}

// =============================================================================
// Response bypass and connections
// =============================================================================

func (s *ClientSuite) TestWithResponseSkipsTransport() {
	// no EXPECT: any Post call fails the test
	res, err := s.client.USOneValidate(context.Background(), "899999914",
		bgc.WithResponse(fixture(s.T(), "validate_ok.xml")))
	s.Require().NoError(err)
	s.Equal("1047", res.OrderID)

	_, err = s.client.USOneTrace(context.Background(), bgc.TraceOrder{SSN: "1", FirstName: "a", LastName: "b"},
		bgc.WithResponse(fixture(s.T(), "error_login.xml")))
	s.ErrorIs(err, bgc.ErrAPI)
}

func (s *ClientSuite) TestUsing() {
	s.Run("selects named connection", func() {
		var used []string
		client := bgc.New(testConnections(s.T()), bgc.WithTransportFactory(func(conn bgc.Connection) bgc.Transport {
			used = append(used, conn.Name)
			return s.transport
		}))
		wrong, err := client.Using("wrong_user")
		s.Require().NoError(err)
		s.Equal("wrong_user", wrong.ConnectionName())
		s.Equal(bgc.DefaultConnection, client.ConnectionName())

		s.transport.EXPECT().Post(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, body []byte) (d.Document, error) {
				s.Contains(string(body), "<user>nobody</user>")
				return fixture(s.T(), "error_login.xml"), nil
			})

		_, err = wrong.USOneValidate(context.Background(), "899999914")
		s.ErrorIs(err, bgc.ErrAPI)
		s.Equal([]string{"wrong_user"}, used)
	})

	s.Run("unknown connection", func() {
		_, err := s.client.Using("missing")
		s.ErrorIs(err, bgc.ErrUnknownConnection)
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", bgc.Outcome(nil))
	assert.Equal(t, "failed", bgc.Outcome(context.DeadlineExceeded))
}

func mustDate(t *testing.T, year int, month time.Month, day int) d.Date {
	t.Helper()
	date, err := d.NewDate(year, month, day)
	require.NoError(t, err)
	return date
}

func mustYearMonth(t *testing.T, year int, month time.Month) d.PartialDate {
	t.Helper()
	p, err := d.YearMonth(year, month)
	require.NoError(t, err)
	return p
}
