package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/smtp"
	"strconv"
	texttemplate "text/template"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/LFCunha10/lisbonlovesme-sub000/config"
	"github.com/LFCunha10/lisbonlovesme-sub000/logger"
)

//go:embed templates/*
var templateFS embed.FS

var funcs = map[string]any{"money": FormatMoney}

var (
	htmlTemplates = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
	textTemplates = texttemplate.Must(texttemplate.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.txt"))
)

// BookingEmail is the data every booking email is rendered from. It is also
// the outbox payload for email messages.
type BookingEmail struct {
	BookingID       uint   `json:"bookingId"`
	Reference       string `json:"reference"`
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	CustomerPhone   string `json:"customerPhone"`
	TourName        string `json:"tourName"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	Participants    int    `json:"participants"`
	OriginalAmount  int64  `json:"originalAmount"`
	DiscountAmount  int64  `json:"discountAmount"`
	DiscountCode    string `json:"discountCode,omitempty"`
	TotalAmount     int64  `json:"totalAmount"`
	SpecialRequests string `json:"specialRequests,omitempty"`
	Language        string `json:"language"`
}

type Attachment struct {
	Filename string
	Content  []byte
}

type Message struct {
	To          []string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Transport sends a rendered message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// GomailTransport delivers customer mail through an SMTP dialer.
type GomailTransport struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailTransport(cfg config.SMTPConfig) *GomailTransport {
	return &GomailTransport{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (t *GomailTransport) Send(_ context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
		if msg.Text != "" {
			m.AddAlternative("text/plain", msg.Text)
		}
	} else {
		m.SetBody("text/plain", msg.Text)
	}
	for _, a := range msg.Attachments {
		content := a.Content
		m.Attach(a.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}
	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// AlertTransport sends plain text staff alerts.
type AlertTransport struct {
	addr string
	auth smtp.Auth
	from string
}

func NewAlertTransport(cfg config.SMTPConfig) *AlertTransport {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &AlertTransport{
		addr: cfg.Host + ":" + strconv.Itoa(cfg.Port),
		auth: auth,
		from: cfg.From,
	}
}

func (t *AlertTransport) Send(_ context.Context, msg Message) error {
	e := email.NewEmail()
	e.From = t.from
	e.To = msg.To
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}
	for _, a := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(a.Content), a.Filename, ""); err != nil {
			return fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}
	if err := e.Send(t.addr, t.auth); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogTransport is used when SMTP is not configured.
type LogTransport struct{}

func (LogTransport) Send(_ context.Context, msg Message) error {
	logger.Log.Info("email not sent, smtp disabled",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

// Mailer renders and sends the booking emails.
type Mailer struct {
	customer   Transport
	admin      Transport
	adminEmail string
	publicURL  string
}

func New(customer, admin Transport, adminEmail, publicURL string) *Mailer {
	return &Mailer{customer: customer, admin: admin, adminEmail: adminEmail, publicURL: publicURL}
}

// FromConfig picks real SMTP transports when SMTP is configured.
func FromConfig(cfg *config.Settings) *Mailer {
	if !cfg.SMTP.Enabled() {
		return New(LogTransport{}, LogTransport{}, cfg.App.AdminEmail, cfg.App.PublicURL)
	}
	return New(NewGomailTransport(cfg.SMTP), NewAlertTransport(cfg.SMTP), cfg.App.AdminEmail, cfg.App.PublicURL)
}

type view struct {
	B          BookingEmail
	L          labels
	DetailLink string
	AdminLink  string
}

func (m *Mailer) view(b BookingEmail) view {
	return view{
		B:          b,
		L:          labelsFor(b.Language),
		DetailLink: m.publicURL + "/booking/" + b.Reference,
		AdminLink:  m.publicURL + "/admin/bookings/" + strconv.FormatUint(uint64(b.BookingID), 10),
	}
}

func renderHTML(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (m *Mailer) BookingRequested(ctx context.Context, b BookingEmail) error {
	v := m.view(b)
	body, err := renderHTML("booking_requested.html", v)
	if err != nil {
		return err
	}
	return m.customer.Send(ctx, Message{
		To:      []string{b.CustomerEmail},
		Subject: fmt.Sprintf("%s #%s", v.L.RequestSubject, b.Reference),
		HTML:    body,
	})
}

func (m *Mailer) AdminNewBooking(ctx context.Context, b BookingEmail) error {
	var buf bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&buf, "admin_new_booking.txt", m.view(b)); err != nil {
		return fmt.Errorf("render admin_new_booking.txt: %w", err)
	}
	return m.admin.Send(ctx, Message{
		To:      []string{m.adminEmail},
		Subject: fmt.Sprintf("New booking request %s (%s, %s)", b.Reference, b.TourName, b.Date),
		Text:    buf.String(),
	})
}

// BookingConfirmed sends the confirmation with the booking QR code attached.
func (m *Mailer) BookingConfirmed(ctx context.Context, b BookingEmail) error {
	v := m.view(b)
	body, err := renderHTML("booking_confirmed.html", v)
	if err != nil {
		return err
	}
	qr, err := BookingQRCode(v.DetailLink, 256)
	if err != nil {
		return err
	}
	return m.customer.Send(ctx, Message{
		To:          []string{b.CustomerEmail},
		Subject:     fmt.Sprintf("%s #%s", v.L.ConfirmSubject, b.Reference),
		HTML:        body,
		Attachments: []Attachment{{Filename: b.Reference + ".png", Content: qr}},
	})
}

func (m *Mailer) BookingCancelled(ctx context.Context, b BookingEmail) error {
	v := m.view(b)
	body, err := renderHTML("booking_cancelled.html", v)
	if err != nil {
		return err
	}
	return m.customer.Send(ctx, Message{
		To:      []string{b.CustomerEmail},
		Subject: fmt.Sprintf("%s #%s", v.L.CancelSubject, b.Reference),
		HTML:    body,
	})
}

// FormatMoney renders an amount in cents as euros.
func FormatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s€%d.%02d", sign, cents/100, cents%100)
}
