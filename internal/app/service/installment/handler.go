package installment

import (
	"context"
	"encoding/json"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v83"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/innercompass/payments/internal/models"
	"github.com/innercompass/payments/internal/platform/stripepay"
	"github.com/innercompass/payments/pkg/logctx"
)

// EventSink receives audit records for every processed event. Satisfied by
// the eventlog service; fire-and-forget, never blocks event handling.
type EventSink interface {
	Save(ctx context.Context, rec *models.WebhookEventLog)
}

// seenInvoiceCacheSize bounds the invoice-id dedupe cache. Stripe redelivers
// within hours, not weeks, so a few thousand entries is ample headroom.
const seenInvoiceCacheSize = 4096

// Handler applies the installment auto-cancellation policy to inbound Stripe
// events. An installment plan lives entirely in the subscription's metadata
// bag: auto_cancel_after marks a subscription as installment-tracked,
// installment_number counts paid invoices starting at 1, and when it reaches
// total_installments the subscription is cancelled.
type Handler struct {
	stripe stripepay.Client
	events EventSink
	Logger *zap.SugaredLogger

	// seenInvoices dedupes invoice.payment_succeeded deliveries by invoice id
	// so a redelivered event cannot double-increment the counter.
	seenInvoices *lru.Cache[string, struct{}]
}

func NewHandler(sc stripepay.Client, events EventSink, log *zap.SugaredLogger) (*Handler, error) {
	seen, err := lru.New[string, struct{}](seenInvoiceCacheSize)
	if err != nil {
		return nil, err
	}
	return &Handler{stripe: sc, events: events, Logger: log, seenInvoices: seen}, nil
}

// invoicePayload is the slice of an invoice event this policy needs. Decoding
// into a local struct keeps us independent of stripe-go's invoice shape,
// which has moved the subscription reference between API versions.
type invoicePayload struct {
	ID           string `json:"id"`
	Subscription string `json:"subscription"`
	Parent       *struct {
		SubscriptionDetails *struct {
			Subscription string `json:"subscription"`
		} `json:"subscription_details"`
	} `json:"parent"`
}

func (p *invoicePayload) subscriptionID() string {
	if p.Subscription != "" {
		return p.Subscription
	}
	if p.Parent != nil && p.Parent.SubscriptionDetails != nil {
		return p.Parent.SubscriptionDetails.Subscription
	}
	return ""
}

// HandleEvent dispatches a verified event. The returned error is recorded in
// the audit log only; callers must still acknowledge the delivery, because
// the sender is Stripe's retry machinery, not a party interested in
// installment bookkeeping.
func (h *Handler) HandleEvent(ctx context.Context, event stripe.Event) (resErr error) {
	log := logctx.FromCtx(ctx, h.Logger)

	var raw []byte
	if event.Data != nil {
		raw = event.Data.Raw
	}
	rec := &models.WebhookEventLog{
		EventID:   event.ID,
		EventType: string(event.Type),
		Data:      datatypes.JSON(raw),
		Status:    models.WebhookEventLogStatusReceived,
	}
	if tid, ok := ctx.Value("traceID").(string); ok {
		rec.TraceID = tid
	}
	// Save a copy: rec gains the subscription id during dispatch and the sink
	// persists asynchronously.
	received := *rec
	h.events.Save(ctx, &received)

	defer func() {
		status := models.WebhookEventLogStatusHandled
		resMap := map[string]any{}
		if resErr != nil {
			status = models.WebhookEventLogStatusHandleFailed
			resMap["error"] = resErr.Error()
		}
		resBytes, _ := json.Marshal(resMap)
		h.events.Save(ctx, &models.WebhookEventLog{
			EventID:        event.ID,
			EventType:      string(event.Type),
			TraceID:        rec.TraceID,
			SubscriptionID: rec.SubscriptionID,
			Data:           datatypes.JSON(raw),
			Result:         lo.ToPtr(datatypes.JSON(resBytes)),
			Status:         status,
		})
	}()

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		// Provisioning and confirmation email are owned by downstream
		// collaborators; the event is observed for the audit trail only.
		log.Infow("checkout_session_completed", "event_id", event.ID)
	case stripe.EventTypeInvoicePaymentSucceeded:
		resErr = h.handleInvoicePaid(ctx, event, rec)
	case stripe.EventTypeCustomerSubscriptionDeleted:
		log.Infow("subscription_deleted", "event_id", event.ID)
	default:
		// Unknown types must never fail: Stripe adds event types over time
		// and this endpoint subscribes broadly.
		log.Infow("webhook_event_ignored", "event_type", event.Type, "event_id", event.ID)
	}
	return resErr
}

func (h *Handler) handleInvoicePaid(ctx context.Context, event stripe.Event, rec *models.WebhookEventLog) error {
	log := logctx.FromCtx(ctx, h.Logger)

	var inv invoicePayload
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		log.Errorw("invoice_payload_decode_failed", "event_id", event.ID, "error", err.Error())
		return err
	}
	subID := inv.subscriptionID()
	if subID == "" {
		// One-off invoice; nothing for the installment policy to do.
		return nil
	}
	rec.SubscriptionID = lo.ToPtr(subID)

	if inv.ID != "" {
		if _, dup := h.seenInvoices.Get(inv.ID); dup {
			log.Infow("invoice_already_processed", "invoice_id", inv.ID, "subscription_id", subID)
			return nil
		}
		h.seenInvoices.Add(inv.ID, struct{}{})
	}

	sub, err := h.stripe.GetSubscription(ctx, subID)
	if err != nil {
		log.Errorw("subscription_retrieve_failed", "subscription_id", subID, "error", err.Error())
		return err
	}
	return h.applyTransition(ctx, sub)
}

// applyTransition runs one step of the installment state machine against the
// subscription's metadata bag.
func (h *Handler) applyTransition(ctx context.Context, sub *stripe.Subscription) error {
	log := logctx.FromCtx(ctx, h.Logger)
	meta := sub.Metadata

	if meta["auto_cancel_after"] == "" {
		// Not an installment-tracked subscription.
		return nil
	}

	totalInstallments, err := strconv.Atoi(meta["total_installments"])
	if err != nil {
		log.Errorw("invalid_total_installments", "subscription_id", sub.ID, "value", meta["total_installments"])
		return err
	}
	current := 1
	if v := meta["installment_number"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			current = n
		}
	}

	log.Infow("installment_payment_received",
		"subscription_id", sub.ID,
		"installment_number", current,
		"total_installments", totalInstallments,
	)

	if current >= totalInstallments {
		if _, err := h.stripe.CancelSubscription(ctx, sub.ID); err != nil {
			log.Errorw("subscription_cancel_failed", "subscription_id", sub.ID, "error", err.Error())
			return err
		}
		log.Infow("subscription_auto_cancelled", "subscription_id", sub.ID, "total_installments", totalInstallments)
		return nil
	}

	params := &stripe.SubscriptionParams{}
	params.Metadata = lo.Assign(meta, map[string]string{
		"installment_number": strconv.Itoa(current + 1),
	})
	if _, err := h.stripe.UpdateSubscription(ctx, sub.ID, params); err != nil {
		log.Errorw("installment_counter_update_failed", "subscription_id", sub.ID, "error", err.Error())
		return err
	}
	return nil
}
