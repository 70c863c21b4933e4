package mailer

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

const verificationSubject = "Votre code de vérification"

var verificationTemplate = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f4f4f7; margin: 0; padding: 24px;">
  <div style="max-width: 480px; margin: 0 auto; background: #ffffff; border-radius: 8px; padding: 32px;">
    <h2 style="color: #1a1a2e; margin-top: 0;">Vérification de votre adresse email</h2>
    <p>Bonjour,</p>
    <p>Voici votre code de vérification&nbsp;:</p>
    <p style="font-size: 32px; font-weight: bold; letter-spacing: 8px; text-align: center; color: #16213e; margin: 24px 0;">{{.Code}}</p>
    <p>Ce code expire dans {{.TTLMinutes}} minutes. Si vous n&rsquo;êtes pas à l&rsquo;origine de cette demande, ignorez ce message.</p>
    <p style="color: #8a8f98; font-size: 12px; margin-bottom: 0;">Cet email a été envoyé automatiquement, merci de ne pas y répondre.</p>
  </div>
</body>
</html>`))

// VerificationMessage builds the code-delivery email for the recipient.
func VerificationMessage(to, code string, ttl time.Duration) (Message, error) {
	var b strings.Builder
	data := struct {
		Code       string
		TTLMinutes int
	}{Code: code, TTLMinutes: int(ttl.Minutes())}
	if err := verificationTemplate.Execute(&b, data); err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}
	return Message{To: to, Subject: verificationSubject, HTML: b.String()}, nil
}
