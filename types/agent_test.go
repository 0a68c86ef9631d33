package types

import "testing"

func TestCapability_IsValid(t *testing.T) {
	t.Parallel()

	for _, c := range AllCapabilities() {
		if !c.IsValid() {
			t.Fatalf("capability %q should be valid", c)
		}
	}
	if !CapabilityDirect.IsValid() {
		t.Fatalf("direct should be valid")
	}
	if Capability("refund").IsValid() {
		t.Fatalf("unknown capability should be invalid")
	}
}

func TestWorkerContext_RoleDefault(t *testing.T) {
	t.Parallel()

	ctx := &WorkerContext{}
	if got := ctx.Role(); got != DefaultUserRole {
		t.Fatalf("expected default role %q, got %q", DefaultUserRole, got)
	}

	ctx.UserRole = "vip"
	if got := ctx.Role(); got != "vip" {
		t.Fatalf("expected vip, got %q", got)
	}
}

func TestParseRefundStep(t *testing.T) {
	t.Parallel()

	if step, ok := ParseRefundStep("collect_reason"); !ok || step != RefundStepCollectReason {
		t.Fatalf("expected collect_reason, got %v %v", step, ok)
	}
	if _, ok := ParseRefundStep("unknown_step"); ok {
		t.Fatalf("unknown step should not parse")
	}
	if _, ok := ParseRefundStep(nil); ok {
		t.Fatalf("nil should not parse")
	}
	if _, ok := ParseRefundStep(42); ok {
		t.Fatalf("non-string should not parse")
	}
}

func TestConversation_Append(t *testing.T) {
	t.Parallel()

	conv := NewConversation("tenant-1", "bot-1")
	conv.Append(NewUserMessage("hello"))
	conv.Append(NewAssistantMessage("hi"))

	if len(conv.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(conv.Messages))
	}
	for _, m := range conv.Messages {
		if m.ConversationID != conv.ID {
			t.Fatalf("conversation id not backfilled")
		}
	}
	last, ok := conv.LastMessage()
	if !ok || last.Role != RoleAssistant {
		t.Fatalf("unexpected last message: %+v", last)
	}
}
