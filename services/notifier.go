package services

import (
	"fmt"
	"net/smtp"

	"gorm.io/gorm"

	"github.com/booknbite/backend/models"
	"github.com/booknbite/backend/realtime"
	"github.com/booknbite/backend/utils"
)

// Mailer sends a single message. The SMTP implementation is behind this
// interface so tests can swap it out.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", m.From, to, subject, body))

	addr := m.Host + ":" + m.Port
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Password, m.Host)
	}
	return smtp.SendMail(addr, auth, m.From, []string{to}, msg)
}

// Notifier delivers confirmations out-of-band. Nothing here may fail the
// write that triggered it: email and websocket delivery are fire-and-forget,
// failures are logged and dropped.
type Notifier struct {
	DB     *gorm.DB
	Mailer Mailer
}

func NewNotifier(db *gorm.DB, mailer Mailer) *Notifier {
	return &Notifier{DB: db, Mailer: mailer}
}

// BookingConfirmation emails the guest, records a dashboard notification and
// broadcasts the event. Runs in the background.
func (n *Notifier) BookingConfirmation(booking *models.Booking) {
	go func() {
		n.record(realtime.EventBookingCreate,
			fmt.Sprintf("Booking #%d: table %s for %d guests at %s",
				booking.ID, booking.Table.TableNumber, booking.Guests,
				booking.ReservationStart.Format("2006-01-02 15:04")))

		if n.Mailer == nil {
			return
		}
		body := fmt.Sprintf(
			"<h3>Hi %s,</h3><p>Your table has been successfully booked at BooknBite!</p>"+
				"<p><strong>Date:</strong> %s<br><strong>Time:</strong> %s<br><strong>Guests:</strong> %d</p>",
			booking.Name,
			booking.ReservationStart.Format("2006-01-02"),
			booking.ReservationStart.Format("15:04"),
			booking.Guests)
		if err := n.Mailer.Send(booking.Email, "Your Table Booking Confirmation", body); err != nil {
			utils.ErrorLogger.Printf("Booking confirmation email failed: %v", err)
		}
	}()
}

// OrderConfirmation emails the order summary to the customer.
func (n *Notifier) OrderConfirmation(order *models.Order) {
	go func() {
		n.record(realtime.EventOrderCreate,
			fmt.Sprintf("Order #%d: %s, total %s", order.ID, order.CustomerName,
				utils.FormatCurrency(order.TotalPrice)))

		if n.Mailer == nil {
			return
		}
		body := fmt.Sprintf(
			"<h2>Hi %s,</h2><p>Thank you for your order with <strong>BooknBite</strong>!</p>"+
				"<p>Order ID: %d<br>Payment: %s<br>Tax: %s<br>Total: %s<br>Per person (%d): %s</p>",
			order.CustomerName, order.ID, order.PaymentMethod,
			utils.FormatCurrency(order.Tax),
			utils.FormatCurrency(order.TotalPrice),
			order.SplitBetween,
			utils.FormatCurrency(order.PerPersonAmount))
		if err := n.Mailer.Send(order.Email, "Your BooknBite Order Confirmation", body); err != nil {
			utils.ErrorLogger.Printf("Order confirmation email failed: %v", err)
		}
	}()
}

func (n *Notifier) record(event, message string) {
	if err := n.DB.Create(&models.Notification{Event: event, Message: message}).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to persist notification: %v", err)
	}
}
