package subscriber

import (
	"context"
	"fmt"

	"github.com/haenin/hr-eapproval/internal/application/port"
	"github.com/haenin/hr-eapproval/internal/domain/event"
)

// ledgerSubscriber hands a completed document over to a downstream HR domain.
// The hand-off is recorded once per (domain, document) in the effect ledger;
// a duplicate delivery finds the row already present and becomes a no-op.
// The details payload is forwarded verbatim, never inspected.
type ledgerSubscriber struct {
	domain  string
	effects port.EffectRepository
	logger  Logger
}

// NewPayrollSubscriber reacts to payroll adjustment and raise documents
func NewPayrollSubscriber(effects port.EffectRepository, logger Logger) DomainHandler {
	return &ledgerSubscriber{domain: "payroll", effects: effects, logger: logger}
}

// NewVacationSubscriber posts vacation ledger entries for approved leave
func NewVacationSubscriber(effects port.EffectRepository, logger Logger) DomainHandler {
	return &ledgerSubscriber{domain: "vacation", effects: effects, logger: logger}
}

// NewAttendanceSubscriber applies work record corrections
func NewAttendanceSubscriber(effects port.EffectRepository, logger Logger) DomainHandler {
	return &ledgerSubscriber{domain: "attendance", effects: effects, logger: logger}
}

// NewRetirementSubscriber starts retirement processing for approved resignations
func NewRetirementSubscriber(effects port.EffectRepository, logger Logger) DomainHandler {
	return &ledgerSubscriber{domain: "retirement", effects: effects, logger: logger}
}

// NewPromotionSubscriber confirms personnel and position changes
func NewPromotionSubscriber(effects port.EffectRepository, logger Logger) DomainHandler {
	return &ledgerSubscriber{domain: "promotion", effects: effects, logger: logger}
}

func (s *ledgerSubscriber) Domain() string {
	return s.domain
}

func (s *ledgerSubscriber) OnCompleted(ctx context.Context, evt *event.Event) error {
	applied, err := s.effects.RecordOnce(ctx, s.domain, evt.DocID, evt.GetPayloadString(event.KeyDetails))
	if err != nil {
		return fmt.Errorf("record %s effect: %w", s.domain, err)
	}
	if !applied {
		s.logger.Info("Effect already applied, skipping duplicate delivery",
			"domain", s.domain,
			"doc_id", evt.DocID,
			"template_key", evt.TemplateKey,
		)
		return nil
	}

	s.logger.Info("Domain effect applied",
		"domain", s.domain,
		"doc_id", evt.DocID,
		"template_key", evt.TemplateKey,
		"drafter_id", evt.GetPayloadString(event.KeyDrafterID),
	)
	return nil
}

func (s *ledgerSubscriber) OnRejected(ctx context.Context, evt *event.Event) error {
	// A rejection applies no side effect; the drafter is informed through
	// the notification fan-out.
	s.logger.Info("Document rejected, no domain effect",
		"domain", s.domain,
		"doc_id", evt.DocID,
		"template_key", evt.TemplateKey,
		"comment", evt.GetPayloadString(event.KeyComment),
	)
	return nil
}
