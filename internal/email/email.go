// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package email sends transactional mail: membership application
// notifications and event registration confirmations. When no API key
// is configured the noop sender logs instead of sending.
package email

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/thenetworkclub/network-go/internal/model"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NoopSender logs messages instead of delivering them. Used in
// development and when no email provider is configured.
type NoopSender struct{}

func (NoopSender) Send(_ context.Context, msg Message) error {
	slog.Info("email delivery disabled, message dropped",
		"to", msg.To, "subject", msg.Subject)
	return nil
}

// ApplicationReceived builds the notification sent to the club admin
// when a new membership application arrives.
func ApplicationReceived(adminEmail string, app model.JoinApplication) Message {
	return Message{
		To:      adminEmail,
		Subject: fmt.Sprintf("New membership application from %s", app.Name),
		HTML: fmt.Sprintf(
			"<p>%s (%s, %s) applied to join the club.</p><p>%s</p>",
			html.EscapeString(app.Name), html.EscapeString(app.RollNumber),
			html.EscapeString(app.Branch), html.EscapeString(app.ReasonToJoin)),
	}
}

// ApplicationAcknowledged builds the receipt sent to an applicant who
// left an email address on the join form.
func ApplicationAcknowledged(to string, app model.JoinApplication) Message {
	return Message{
		To:      to,
		Subject: "We received your membership application",
		HTML: fmt.Sprintf(
			"<p>Hi %s, thanks for applying to join the club. We have your application and will get back to you soon.</p>",
			html.EscapeString(app.Name)),
	}
}

// ApplicationDecision builds the notification sent to an applicant
// after their application is reviewed.
func ApplicationDecision(to string, app model.JoinApplication) Message {
	subject := "Your membership application was approved"
	body := "<p>Welcome to the club! Your membership application has been approved.</p>"
	if app.Status == model.ApplicationStatusRejected {
		subject = "Your membership application"
		body = "<p>Thank you for your interest. We are unable to offer you membership at this time.</p>"
	}
	return Message{To: to, Subject: subject, HTML: body}
}

// RegistrationConfirmed builds the confirmation sent to a member who
// registered for an event.
func RegistrationConfirmed(to string, event model.Event) Message {
	return Message{
		To:      to,
		Subject: fmt.Sprintf("You're registered: %s", event.Title),
		HTML: fmt.Sprintf(
			"<p>You are registered for <strong>%s</strong> on %s.</p>",
			html.EscapeString(event.Title),
			event.EventDate.Format("Monday, 2 January 2006")),
	}
}
