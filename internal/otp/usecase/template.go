package usecase

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"

	"github.com/shandysiswandi/mailotp/internal/pkg/mail"
)

const mailSubject = "Your verification code"

var mailHTML = htmltemplate.Must(htmltemplate.New("otp").Parse(`<div style="font-family: Arial, sans-serif; line-height:1.4;">
  <h3>Verification code</h3>
  <p>Your OTP code is:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p style="color: #666;">This code will expire in {{.Minutes}} minutes.</p>
  <hr />
  <small>If you didn't request this, ignore this email.</small>
</div>`))

func renderMail(to, code string, minutes int) (mail.Message, error) {
	var html bytes.Buffer
	if err := mailHTML.Execute(&html, struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: minutes}); err != nil {
		return mail.Message{}, err
	}

	return mail.Message{
		To:       []string{to},
		Subject:  mailSubject,
		TextBody: fmt.Sprintf("Your OTP code is: %s. It will expire in %d minutes.", code, minutes),
		HTMLBody: html.String(),
	}, nil
}
