package email

import (
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"
)

// Kinds label outgoing mail in logs and metrics.
const (
	KindTwoFactorCode = "two_factor_code"
	KindVerification  = "verification"
	KindInvitation    = "invitation"
)

const layout = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
%s
  </div>
</body>
</html>`

func TwoFactorCode(code string, ttl time.Duration) (subject, body string) {
	subject = "Your Project Tracker login code"
	body = fmt.Sprintf(layout, fmt.Sprintf(`    <h2>Login verification</h2>
    <p>Your one-time code is:</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>The code expires in %d minutes. If you did not try to sign in, change your password.</p>`,
		html.EscapeString(code), int(ttl.Minutes())))
	return subject, body
}

// VerificationLinkURL points the user at the frontend page that posts the
// token back to /auth/verify-email.
func VerificationLinkURL(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/verify-email?token=" + url.QueryEscape(token)
}

func Verification(name, link string) (subject, body string) {
	subject = "Verify your Project Tracker email"
	body = fmt.Sprintf(layout, fmt.Sprintf(`    <h2>Welcome, %s</h2>
    <p>Confirm your email address to finish setting up your account.</p>
    <p><a href="%s" style="display: inline-block; padding: 12px 20px; background: #2563eb; color: #fff; text-decoration: none; border-radius: 8px;">Verify email</a></p>`,
		html.EscapeString(name), html.EscapeString(link)))
	return subject, body
}

func Invitation(projectName, inviterName, frontendURL string) (subject, body string) {
	subject = fmt.Sprintf("You were invited to %s", projectName)
	link := strings.TrimRight(frontendURL, "/") + "/invitations"
	body = fmt.Sprintf(layout, fmt.Sprintf(`    <h2>Project invitation</h2>
    <p>%s invited you to collaborate on <strong>%s</strong>.</p>
    <p><a href="%s">Review your invitations</a></p>`,
		html.EscapeString(inviterName), html.EscapeString(projectName), html.EscapeString(link)))
	return subject, body
}
