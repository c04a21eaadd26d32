// utils/email.go
package utils

import (
	"fmt"
	"html"

	"github.com/keighl/postmark"
)

// EmailService handles sending emails using Postmark
type EmailService struct {
	client *postmark.Client
	sender string
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService(apiToken, sender string) *EmailService {
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
		sender: sender,
	}
}

// SendEmail sends an email with both an HTML and a plain-text body
func (es *EmailService) SendEmail(toEmail, subject, htmlContent, textContent string) error {
	_, err := es.client.SendEmail(postmark.Email{
		From:     es.sender,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: textContent,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderPlacedEmail confirms a newly placed order to its owner.
func (es *EmailService) SendOrderPlacedEmail(toEmail, name, orderID string, totalAmount float64, paymentMethod string) error {
	subject := "Order Confirmation"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully.<br><br>Total Amount: <strong>%.2f</strong><br>Payment Method: <strong>%s</strong><br><br>Thank you for shopping with us!",
		html.EscapeString(name),
		html.EscapeString(orderID),
		totalAmount,
		html.EscapeString(paymentMethod),
	)
	textContent := fmt.Sprintf(
		"Dear %s,\n\nThank you for your purchase! Your order (ID: %s) has been placed successfully.\n\nTotal Amount: %.2f\nPayment Method: %s\n\nThank you for shopping with us!",
		name,
		orderID,
		totalAmount,
		paymentMethod,
	)
	return es.SendEmail(toEmail, subject, htmlContent, textContent)
}

// SendOrderStatusEmail tells the owner that an admin moved the order to a new status.
func (es *EmailService) SendOrderStatusEmail(toEmail, name, orderID, status string) error {
	subject := "Order Status Updated"
	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Your order (ID: %s) status has been updated to <strong>%s</strong>.<br><br>Thank you for shopping with us!",
		html.EscapeString(name),
		html.EscapeString(orderID),
		html.EscapeString(status),
	)
	textContent := fmt.Sprintf(
		"Dear %s,\n\nYour order (ID: %s) status has been updated to %s.\n\nThank you for shopping with us!",
		name,
		orderID,
		status,
	)
	return es.SendEmail(toEmail, subject, htmlContent, textContent)
}
