// Package service holds background-ish helpers that sit between the
// handlers and external systems
package service

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SendCodeMail delivers a verification or reset code. With mail
// disabled (local development) the code is only logged so the flow
// stays testable without an SMTP account.
func SendCodeMail(to, code, purpose string) error {
	if !viper.GetBool("mail.enabled") {
		zap.L().Info("Mail disabled, code not sent",
			zap.String("to", to),
			zap.String("purpose", purpose),
			zap.String("code", code))
		return nil
	}

	var subject, body string

	switch purpose {
	case "reset":
		subject = "Your password reset code"
		body = fmt.Sprintf("Your password reset code is <b>%s</b>.<br><br>It expires in 10 minutes.", code)
	default:
		subject = "Verify your email"
		body = fmt.Sprintf("Your verification code is <b>%s</b>.<br><br>It expires in 10 minutes.", code)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", viper.GetString("mail.sender"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		viper.GetString("mail.sender"),
		viper.GetString("mail.password"),
	)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send mail, %w", err)
	}

	return nil
}
