package notify

import (
	"fmt"
	"strings"
)

// AccessRequestedMessage tells the lab inbox that someone asked for an account.
func AccessRequestedMessage(inbox, name, email, organization, reason, siteURL string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <%s> requested admin access.\n", name, email)
	if organization != "" {
		fmt.Fprintf(&b, "Organization: %s\n", organization)
	}
	fmt.Fprintf(&b, "\nReason:\n%s\n", reason)
	if siteURL != "" {
		fmt.Fprintf(&b, "\nReview it at %s/admin/access-requests\n", strings.TrimRight(siteURL, "/"))
	}
	return Message{
		Kind:    KindAccessRequested,
		To:      inbox,
		ReplyTo: email,
		Subject: "New admin access request from " + name,
		Body:    b.String(),
	}
}

// AccessApprovedMessage carries the temporary password to the requester.
func AccessApprovedMessage(name, email, tempPassword, siteURL string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour request for admin access was approved.\n\n", name)
	fmt.Fprintf(&b, "Email: %s\nTemporary password: %s\n\n", email, tempPassword)
	b.WriteString("Your account starts without editing rights until an administrator promotes it.\n")
	if siteURL != "" {
		fmt.Fprintf(&b, "Sign in at %s/admin/login\n", strings.TrimRight(siteURL, "/"))
	}
	return Message{
		Kind:    KindAccessApproved,
		To:      email,
		Subject: "Your admin access request was approved",
		Body:    b.String(),
	}
}

// AccessRejectedMessage informs the requester of a rejection.
func AccessRejectedMessage(name, email string, notes *string) Message {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nYour request for admin access was not approved.\n", name)
	if notes != nil && strings.TrimSpace(*notes) != "" {
		fmt.Fprintf(&b, "\nNotes from the reviewer:\n%s\n", strings.TrimSpace(*notes))
	}
	return Message{
		Kind:    KindAccessRejected,
		To:      email,
		Subject: "Your admin access request",
		Body:    b.String(),
	}
}

// ContactMessage forwards a contact form submission to the lab inbox.
func ContactMessage(inbox, name, email, subject, body string) Message {
	if strings.TrimSpace(subject) == "" {
		subject = "Website contact from " + name
	}
	return Message{
		Kind:    KindContact,
		To:      inbox,
		ReplyTo: email,
		Subject: subject,
		Body:    fmt.Sprintf("From: %s <%s>\n\n%s\n", name, email, body),
	}
}
