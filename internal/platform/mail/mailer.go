package mail

import (
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	cfgpkg "github.com/comunidadhq/backend/pkg/config"
)

// Mailer sends transactional email. When SMTP is disabled (dev default) the
// message body is logged instead of delivered.
type Mailer struct {
	cfg cfgpkg.SMTPConfig
	log *zap.SugaredLogger
}

func New(log *zap.SugaredLogger, cfg *cfgpkg.Config) *Mailer {
	return &Mailer{cfg: cfg.SMTP, log: log}
}

func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m.cfg.Disabled {
		m.log.Infow("smtp disabled, skipping delivery", "to", to, "subject", subject)
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}

// VerificationHTML renders the email-verification code message.
func VerificationHTML(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		`<p>Hola,</p><p>Tu código de verificación es <b style="font-size:18px;">%s</b>.</p><p>Vence en %d minutos. No lo compartas con nadie.</p>`,
		code, int(ttl.Minutes()),
	)
}

var Module = fx.Options(
	fx.Provide(New),
)
