package features

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-bff/internal/domain/account"
	"github.com/your-org/storefront-bff/internal/domain/checkout"
	"github.com/your-org/storefront-bff/internal/domain/ledger"
	"github.com/your-org/storefront-bff/internal/domain/order"
	"github.com/your-org/storefront-bff/internal/infrastructure/api"
)

type submissionTestContext struct {
	server *httptest.Server
	creds  *api.Credentials
	client *api.Client

	mu       sync.Mutex
	status   int
	requests []map[string]interface{}

	draft   order.Draft
	receipt *order.Receipt
	err     error
}

func (c *submissionTestContext) reset() {
	if c.server != nil {
		c.server.Close()
	}
	c.status = http.StatusOK
	c.requests = nil
	c.receipt = nil
	c.err = nil
	c.draft = order.Draft{
		Ledger:    ledger.New(),
		Selection: checkout.NewSelection(),
		Customer:  &account.CustomerInfo{},
	}

	c.server = httptest.NewServer(http.HandlerFunc(c.handle))
	c.creds = api.NewCredentials("remote-token", time.Time{})
	c.client = api.New(c.server.URL, time.Second, c.creds, nil)
}

func (c *submissionTestContext) handle(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var body map[string]interface{}
	_ = json.NewDecoder(r.Body).Decode(&body)
	c.requests = append(c.requests, body)

	if c.status != http.StatusOK {
		w.WriteHeader(c.status)
		return
	}
	_, _ = w.Write([]byte(`{"success":true,"order_id":1001}`))
}

func (c *submissionTestContext) theRemoteAPIIsAvailable() error {
	c.status = http.StatusOK
	return nil
}

func (c *submissionTestContext) theRemoteAPIAnswers(status int) error {
	c.status = status
	return nil
}

func (c *submissionTestContext) aRegularCustomerWithID(id int) error {
	c.draft.Actor = account.Regular{Account: account.Profile{ID: id, Name: "Dara"}}
	return nil
}

func (c *submissionTestContext) aSalesRepresentativeBuyingUnderProxyAccount(proxyID int) error {
	c.draft.Actor = account.SalesRep{ProxyAccountID: proxyID, Representative: account.Profile{ID: 12, Name: "Sok", Role: "sales"}}
	return nil
}

func (c *submissionTestContext) theCustomerIsWithPhone(name, phone string) error {
	*c.draft.Customer = account.CustomerInfo{Name: name, Phone: phone}
	return nil
}

func (c *submissionTestContext) theCustomerHasPoints(points int) error {
	c.draft.Ledger.SetPointBalance(points)
	return nil
}

func (c *submissionTestContext) theCartHoldsProductPricedWithQuantity(id int, price string, qty int) error {
	unit, err := decimal.NewFromString(price)
	if err != nil {
		return err
	}
	return c.draft.Ledger.AdjustLine(ledger.Product{ID: id, Title: "Product", UnitPrice: unit}, qty)
}

func (c *submissionTestContext) theCartHoldsRewardCostingPointsWithQuantity(id, points, qty int) error {
	return c.draft.Ledger.AdjustReward(ledger.Reward{ID: id, Name: "Reward", PointsPerUnit: points}, qty)
}

func (c *submissionTestContext) savedAddressWithPhoneIsSelected(id int, phone string) error {
	return c.draft.Selection.SelectSavedAddress(checkout.Address{ID: id, Label: "Home", Phone: phone})
}

func (c *submissionTestContext) paymentMethodIsSelected(method string) error {
	return c.draft.Selection.SelectPaymentMethod(method)
}

func (c *submissionTestContext) theOrderIsSubmitted() error {
	c.receipt, c.err = order.NewService(nil).Submit(context.Background(), c.client, c.draft)
	return nil
}

func (c *submissionTestContext) lastRequest() (map[string]interface{}, error) {
	if c.err != nil {
		return nil, fmt.Errorf("expected success but got error: %v", c.err)
	}
	if len(c.requests) != 1 {
		return nil, fmt.Errorf("expected 1 order request, got %d", len(c.requests))
	}
	return c.requests[0], nil
}

func (c *submissionTestContext) theOrderRequestTotalIs(want string) error {
	req, err := c.lastRequest()
	if err != nil {
		return err
	}
	return sameAmount("total", req["total"], want)
}

func (c *submissionTestContext) theFirstOrderItemTotalLineIs(want string) error {
	req, err := c.lastRequest()
	if err != nil {
		return err
	}
	items, ok := req["items"].([]interface{})
	if !ok || len(items) == 0 {
		return errors.New("order request has no items")
	}
	item := items[0].(map[string]interface{})
	return sameAmount("total_line", item["total_line"], want)
}

func (c *submissionTestContext) theOrderRequestUserIDIs(want int) error {
	req, err := c.lastRequest()
	if err != nil {
		return err
	}
	if got, _ := req["user_id"].(float64); int(got) != want {
		return fmt.Errorf("expected user_id %d, got %v", want, req["user_id"])
	}
	return nil
}

func (c *submissionTestContext) theOrderRequestIsMarkedAsASalesOrder() error {
	req, err := c.lastRequest()
	if err != nil {
		return err
	}
	if flag, _ := req["is_sales_order"].(bool); !flag {
		return errors.New("expected is_sales_order to be true")
	}
	if _, ok := req["customer"].(map[string]interface{}); !ok {
		return errors.New("expected a customer block")
	}
	return nil
}

func (c *submissionTestContext) theCartIsEmpty() error {
	if !c.draft.Ledger.IsEmpty() {
		return fmt.Errorf("expected empty cart, got %d lines", len(c.draft.Ledger.Lines()))
	}
	return nil
}

func (c *submissionTestContext) theCheckoutSelectionIsCleared() error {
	if view := c.draft.Selection.View(); view != (checkout.View{Source: checkout.SourceNone}) {
		return fmt.Errorf("expected cleared selection, got %+v", view)
	}
	return nil
}

func (c *submissionTestContext) theSubmissionFailsWithIssue(code string) error {
	var valErr *order.ValidationError
	if !errors.As(c.err, &valErr) {
		return fmt.Errorf("expected ValidationError, got %v", c.err)
	}
	if !valErr.Has(order.IssueCode(code)) {
		return fmt.Errorf("expected issue %s in %v", code, valErr.Issues)
	}
	return nil
}

func (c *submissionTestContext) noOrderRequestWasSent() error {
	if len(c.requests) != 0 {
		return fmt.Errorf("expected no request, got %d", len(c.requests))
	}
	return nil
}

func (c *submissionTestContext) theSubmissionFailsWithAnExpiredSession() error {
	if !api.IsAuthExpired(c.err) {
		return fmt.Errorf("expected AuthExpiredError, got %v", c.err)
	}
	return nil
}

func (c *submissionTestContext) theSubmissionFailsWithTheMessage(want string) error {
	var srvErr *api.ServerError
	if !errors.As(c.err, &srvErr) {
		return fmt.Errorf("expected ServerError, got %v", c.err)
	}
	if srvErr.UserMessage() != want {
		return fmt.Errorf("expected message %q, got %q", want, srvErr.UserMessage())
	}
	return nil
}

func (c *submissionTestContext) theCredentialsAreCleared() error {
	if c.creds.Valid() {
		return errors.New("expected credentials to be cleared")
	}
	return nil
}

func (c *submissionTestContext) theCartStillHoldsProductWithQuantity(id, qty int) error {
	line, ok := c.draft.Ledger.Line(id)
	if !ok {
		return fmt.Errorf("product %d is no longer in the cart", id)
	}
	if line.Quantity != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, line.Quantity)
	}
	return nil
}

func (c *submissionTestContext) savedAddressIsStillSelected(id int) error {
	addr, err := c.draft.Selection.Resolve()
	if err != nil {
		return err
	}
	if addr.ID != id {
		return fmt.Errorf("expected address %d, got %d", id, addr.ID)
	}
	return nil
}

func sameAmount(field string, got interface{}, want string) error {
	n, ok := got.(float64)
	if !ok {
		return fmt.Errorf("%s is not a number: %v", field, got)
	}
	if !decimal.NewFromFloat(n).Equal(decimal.RequireFromString(want)) {
		return fmt.Errorf("expected %s %s, got %v", field, want, n)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &submissionTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.server.Close()
		tc.server = nil
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the remote API is available$`, tc.theRemoteAPIIsAvailable)
	ctx.Step(`^the remote API answers (\d+)$`, tc.theRemoteAPIAnswers)
	ctx.Step(`^a regular customer with id (\d+)$`, tc.aRegularCustomerWithID)
	ctx.Step(`^a sales representative buying under proxy account (\d+)$`, tc.aSalesRepresentativeBuyingUnderProxyAccount)
	ctx.Step(`^the customer is "([^"]*)" with phone "([^"]*)"$`, tc.theCustomerIsWithPhone)
	ctx.Step(`^the customer has (\d+) points$`, tc.theCustomerHasPoints)
	ctx.Step(`^the cart holds product (\d+) priced ([\d.]+) with quantity (\d+)$`, tc.theCartHoldsProductPricedWithQuantity)
	ctx.Step(`^the cart holds reward (\d+) costing (\d+) points with quantity (\d+)$`, tc.theCartHoldsRewardCostingPointsWithQuantity)
	ctx.Step(`^saved address (\d+) with phone "([^"]*)" is selected$`, tc.savedAddressWithPhoneIsSelected)
	ctx.Step(`^payment method "([^"]*)" is selected$`, tc.paymentMethodIsSelected)

	// When steps
	ctx.Step(`^the order is submitted$`, tc.theOrderIsSubmitted)

	// Then steps
	ctx.Step(`^the order request total is "([^"]*)"$`, tc.theOrderRequestTotalIs)
	ctx.Step(`^the first order item total_line is "([^"]*)"$`, tc.theFirstOrderItemTotalLineIs)
	ctx.Step(`^the order request user_id is (\d+)$`, tc.theOrderRequestUserIDIs)
	ctx.Step(`^the order request is marked as a sales order$`, tc.theOrderRequestIsMarkedAsASalesOrder)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the checkout selection is cleared$`, tc.theCheckoutSelectionIsCleared)
	ctx.Step(`^the submission fails with issue "([^"]*)"$`, tc.theSubmissionFailsWithIssue)
	ctx.Step(`^no order request was sent$`, tc.noOrderRequestWasSent)
	ctx.Step(`^the submission fails with an expired session$`, tc.theSubmissionFailsWithAnExpiredSession)
	ctx.Step(`^the submission fails with the message "([^"]*)"$`, tc.theSubmissionFailsWithTheMessage)
	ctx.Step(`^the credentials are cleared$`, tc.theCredentialsAreCleared)
	ctx.Step(`^the cart still holds product (\d+) with quantity (\d+)$`, tc.theCartStillHoldsProductWithQuantity)
	ctx.Step(`^saved address (\d+) is still selected$`, tc.savedAddressIsStillSelected)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"submission.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
