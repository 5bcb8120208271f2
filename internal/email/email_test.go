package email

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/thenetworkclub/network-go/internal/model"
)

func TestApplicationReceived(t *testing.T) {
	app := model.JoinApplication{
		Name:         "Priya <Sharma>",
		RollNumber:   "21CS042",
		Branch:       "CSE",
		ReasonToJoin: "I want to build things & learn.",
	}
	msg := ApplicationReceived("admin@thenetwork.com", app)

	if msg.To != "admin@thenetwork.com" {
		t.Errorf("To = %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "Priya <Sharma>") {
		t.Errorf("Subject = %q, want applicant name", msg.Subject)
	}
	if strings.Contains(msg.HTML, "<Sharma>") {
		t.Error("HTML body should escape applicant-supplied markup")
	}
	if !strings.Contains(msg.HTML, "&amp; learn") {
		t.Errorf("HTML body should escape ampersands: %q", msg.HTML)
	}
}

func TestApplicationDecision(t *testing.T) {
	approved := ApplicationDecision("a@b.com", model.JoinApplication{Status: model.ApplicationStatusApproved})
	if !strings.Contains(approved.Subject, "approved") {
		t.Errorf("approved subject = %q", approved.Subject)
	}

	rejected := ApplicationDecision("a@b.com", model.JoinApplication{Status: model.ApplicationStatusRejected})
	if strings.Contains(rejected.Subject, "approved") {
		t.Errorf("rejected subject = %q", rejected.Subject)
	}
	if !strings.Contains(rejected.HTML, "unable") {
		t.Errorf("rejected body = %q", rejected.HTML)
	}
}

func TestRegistrationConfirmed(t *testing.T) {
	event := model.Event{
		Title:       "Hack Night",
		Description: sql.NullString{String: "Bring a laptop", Valid: true},
		EventDate:   time.Date(2026, time.September, 12, 18, 0, 0, 0, time.UTC),
	}
	msg := RegistrationConfirmed("member@thenetwork.com", event)

	if !strings.Contains(msg.Subject, "Hack Night") {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if !strings.Contains(msg.HTML, "Saturday, 12 September 2026") {
		t.Errorf("HTML = %q, want formatted event date", msg.HTML)
	}
}

func TestNoopSenderNeverFails(t *testing.T) {
	var s Sender = NoopSender{}
	if err := s.Send(context.Background(), Message{To: "x@y.com", Subject: "s"}); err != nil {
		t.Errorf("NoopSender.Send: %v", err)
	}
}
