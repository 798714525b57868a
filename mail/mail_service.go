package mail

import (
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

type MailService struct {
	dialer *gomail.Dialer
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")
	return &MailService{
		dialer: gomail.NewDialer(host, port, user, pass),
	}
}

// SendShareLinkMail отправляет получателю публичную ссылку на отчёт по объекту.
func (m *MailService) SendShareLinkMail(to, propertyName, shareLink string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", os.Getenv("SMTP_USER"))
	message.SetHeader("To", to)
	message.SetHeader("Subject", "Отчёт по объекту «"+propertyName+"»")
	message.SetBody("text/html", `
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f5f5f5;">
			<h2 style="color: #333; text-align: center;">Отчёт по объекту «`+propertyName+`»</h2>
			<p>Здравствуйте,</p>
			<p>С вами поделились финансовым отчётом. Отчёт доступен только для чтения и обновляется в реальном времени:</p>
			<p style="text-align: center;"><a href="`+shareLink+`" style="display: inline-block; padding: 10px 20px; background-color: #007bff; color: #fff; text-decoration: none; border-radius: 5px;">Открыть отчёт</a></p>
			<p>Ссылка действует 7 дней, после чего владелец может выпустить новую.</p>
			<p>С уважением, команда FinTrack.</p>
		</div>
	`)
	return m.dialer.DialAndSend(message)
}
