package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"wordflow/internal/model"
	"wordflow/internal/repository/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/mock/gomock"
)

const testWebhookSecret = "whsec_test"

type entitlementCall struct {
	op        string
	userID    string
	productID string
	ref       string
}

type fakeEntitlements struct {
	calls []entitlementCall
	err   error
}

func (f *fakeEntitlements) GrantOneTimePurchase(_ context.Context, userID, productID, sessionID string) error {
	f.calls = append(f.calls, entitlementCall{"grant", userID, productID, sessionID})
	return f.err
}

func (f *fakeEntitlements) StartSubscription(_ context.Context, userID, subID, productID, _ string) error {
	f.calls = append(f.calls, entitlementCall{"start", userID, productID, subID})
	return f.err
}

func (f *fakeEntitlements) ChangeSubscription(_ context.Context, userID, subID, productID, _ string) (bool, error) {
	f.calls = append(f.calls, entitlementCall{"change", userID, productID, subID})
	return f.err == nil, f.err
}

func (f *fakeEntitlements) EndSubscription(_ context.Context, userID, subID string) error {
	f.calls = append(f.calls, entitlementCall{"end", userID, "", subID})
	return f.err
}

type fakeLineItems struct {
	priceID, productID string
	err                error
	calls              int
}

func (f *fakeLineItems) FirstLineItem(context.Context, string) (string, string, error) {
	f.calls++
	return f.priceID, f.productID, f.err
}

type memoryArchiver struct {
	keys []string
}

func (a *memoryArchiver) Archive(_ context.Context, source, eventID string, _ []byte) error {
	a.keys = append(a.keys, source+"/"+eventID)
	return nil
}

type StripeServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	users        *mocks.MockUserRepository
	entitlements *fakeEntitlements
	lineItems    *fakeLineItems
	archiver     *memoryArchiver
	svc          *StripeService
}

func (s *StripeServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.users = mocks.NewMockUserRepository(s.ctrl)
	s.entitlements = &fakeEntitlements{}
	s.lineItems = &fakeLineItems{}
	s.archiver = &memoryArchiver{}
	catalog, err := ParsePlanCatalog([]byte(testCatalog))
	s.Require().NoError(err)
	s.svc = NewStripeService(testWebhookSecret, s.users, s.entitlements, catalog, s.lineItems, s.archiver, nil, zerolog.Nop())
}

func TestStripeServiceSuite(t *testing.T) {
	suite.Run(t, new(StripeServiceTestSuite))
}

func signedEvent(t *testing.T, id, eventType string, object map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          id,
		"object":      "event",
		"type":        eventType,
		"api_version": stripe.APIVersion,
		"data":        map[string]any{"object": object},
	})
	if err != nil {
		t.Fatal(err)
	}
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  testWebhookSecret,
	})
	return signed.Payload, signed.Header
}

func subscriptionObject(id, customer, priceID string, metadata map[string]string) map[string]any {
	return map[string]any{
		"id":       id,
		"object":   "subscription",
		"customer": customer,
		"status":   "active",
		"metadata": metadata,
		"items": map[string]any{
			"object": "list",
			"data": []any{map[string]any{
				"id":    "si_1",
				"price": map[string]any{"id": priceID, "product": "prod_unlisted"},
			}},
		},
	}
}

func (s *StripeServiceTestSuite) TestRejectsBadSignature() {
	payload, _ := signedEvent(s.T(), "evt_1", "invoice.payment_succeeded", map[string]any{"id": "in_1"})

	err := s.svc.HandleEvent(context.Background(), payload, "t=1,v1=deadbeef")

	s.ErrorIs(err, ErrInvalidSignature)
	s.Empty(s.archiver.keys)
}

func (s *StripeServiceTestSuite) TestOneTimeCheckoutUsesMetadataProduct() {
	payload, sig := signedEvent(s.T(), "evt_2", "checkout.session.completed", map[string]any{
		"id":       "cs_1",
		"object":   "checkout.session",
		"mode":     "payment",
		"metadata": map[string]string{"user_id": "u1", "product_id": "prod_credits"},
	})

	s.Require().NoError(s.svc.HandleEvent(context.Background(), payload, sig))

	s.Equal([]entitlementCall{{"grant", "u1", "prod_credits", "cs_1"}}, s.entitlements.calls)
	s.Equal([]string{"stripe/evt_2"}, s.archiver.keys)
	s.Zero(s.lineItems.calls)
}

func (s *StripeServiceTestSuite) TestOneTimeCheckoutFetchesLineItems() {
	s.lineItems.priceID = "price_unlisted"
	s.lineItems.productID = "prod_credits"
	payload, sig := signedEvent(s.T(), "evt_3", "checkout.session.completed", map[string]any{
		"id":       "cs_2",
		"object":   "checkout.session",
		"mode":     "payment",
		"metadata": map[string]string{"user_id": "u1"},
	})

	s.Require().NoError(s.svc.HandleEvent(context.Background(), payload, sig))

	s.Equal(1, s.lineItems.calls)
	s.Equal([]entitlementCall{{"grant", "u1", "prod_credits", "cs_2"}}, s.entitlements.calls)
}

func (s *StripeServiceTestSuite) TestSubscriptionCheckoutIsIgnored() {
	payload, sig := signedEvent(s.T(), "evt_4", "checkout.session.completed", map[string]any{
		"id":       "cs_3",
		"object":   "checkout.session",
		"mode":     "subscription",
		"metadata": map[string]string{"user_id": "u1"},
	})

	s.Require().NoError(s.svc.HandleEvent(context.Background(), payload, sig))
	s.Empty(s.entitlements.calls)
}

func (s *StripeServiceTestSuite) TestSubscriptionLifecycle() {
	ctx := context.Background()
	meta := map[string]string{"user_id": "u1"}

	payload, sig := signedEvent(s.T(), "evt_5", "customer.subscription.created", subscriptionObject("sub_1", "cus_1", "price_starter", meta))
	s.Require().NoError(s.svc.HandleEvent(ctx, payload, sig))

	payload, sig = signedEvent(s.T(), "evt_6", "customer.subscription.updated", subscriptionObject("sub_1", "cus_1", "price_pro_monthly", meta))
	s.Require().NoError(s.svc.HandleEvent(ctx, payload, sig))

	payload, sig = signedEvent(s.T(), "evt_7", "customer.subscription.deleted", subscriptionObject("sub_1", "cus_1", "price_starter", meta))
	s.Require().NoError(s.svc.HandleEvent(ctx, payload, sig))

	s.Equal([]entitlementCall{
		{"start", "u1", "price_starter", "sub_1"},
		{"change", "u1", "price_pro_monthly", "sub_1"},
		{"end", "u1", "", "sub_1"},
	}, s.entitlements.calls)
}

func (s *StripeServiceTestSuite) TestUserResolvedByCustomerID() {
	ctx := context.Background()
	s.users.EXPECT().GetUserByStripeCustomerID(gomock.Any(), "cus_9").Return(&model.User{UserID: "u9"}, nil)
	payload, sig := signedEvent(s.T(), "evt_8", "customer.subscription.created", subscriptionObject("sub_9", "cus_9", "price_starter", nil))

	s.Require().NoError(s.svc.HandleEvent(ctx, payload, sig))
	s.Equal([]entitlementCall{{"start", "u9", "price_starter", "sub_9"}}, s.entitlements.calls)
}

func (s *StripeServiceTestSuite) TestUnknownCustomerIsAcknowledged() {
	s.users.EXPECT().GetUserByStripeCustomerID(gomock.Any(), "cus_x").Return(nil, nil)
	payload, sig := signedEvent(s.T(), "evt_9", "customer.subscription.deleted", subscriptionObject("sub_x", "cus_x", "price_starter", nil))

	s.NoError(s.svc.HandleEvent(context.Background(), payload, sig))
	s.Empty(s.entitlements.calls)
}

func (s *StripeServiceTestSuite) TestCustomerLookupErrorIsReturned() {
	s.users.EXPECT().GetUserByStripeCustomerID(gomock.Any(), "cus_x").Return(nil, errors.New("db down"))
	payload, sig := signedEvent(s.T(), "evt_10", "customer.subscription.deleted", subscriptionObject("sub_x", "cus_x", "price_starter", nil))

	err := s.svc.HandleEvent(context.Background(), payload, sig)
	s.Error(err)
	s.NotErrorIs(err, ErrInvalidSignature)
}

func (s *StripeServiceTestSuite) TestEntitlementErrorIsReturned() {
	s.entitlements.err = errors.New("insert failed")
	payload, sig := signedEvent(s.T(), "evt_11", "customer.subscription.created", subscriptionObject("sub_1", "cus_1", "price_starter", map[string]string{"user_id": "u1"}))

	s.ErrorIs(s.svc.HandleEvent(context.Background(), payload, sig), s.entitlements.err)
}

func (s *StripeServiceTestSuite) TestSubscriptionWithoutItemsIsInvalid() {
	payload, sig := signedEvent(s.T(), "evt_12", "customer.subscription.created", map[string]any{
		"id":       "sub_1",
		"object":   "subscription",
		"metadata": map[string]string{"user_id": "u1"},
	})

	s.ErrorIs(s.svc.HandleEvent(context.Background(), payload, sig), ErrInvalidPayload)
}

func (s *StripeServiceTestSuite) TestUnhandledEventsAreAcknowledged() {
	for i, typ := range []string{"invoice.payment_succeeded", "charge.refunded"} {
		payload, sig := signedEvent(s.T(), "evt_u"+string(rune('a'+i)), typ, map[string]any{"id": "obj_1"})
		s.NoError(s.svc.HandleEvent(context.Background(), payload, sig))
	}
	s.Empty(s.entitlements.calls)
}
