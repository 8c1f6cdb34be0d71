package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/gameplannr/backend/configs"
)

type ResendService struct {
	APIKey string
	Sender string
}

var EmailClient *ResendService

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func InitEmailService() {
	apiKey := config.Config("RESEND_API_KEY")
	sender := config.Config("EMAIL_SENDER")

	if apiKey == "" || sender == "" {
		log.Println("⚠️ Email service not configured. Missing API key or sender address.")
		EmailClient = nil
		return
	}

	EmailClient = &ResendService{APIKey: apiKey, Sender: sender}
	log.Println("✅ Email service initialized successfully.")
}

func (s *ResendService) send(toEmail, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	payload := resendPayload{
		From:    s.Sender,
		To:      []string{toEmail},
		Subject: subject,
		HTML:    htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %v", err)
	}

	req, err := http.NewRequest("POST", "https://api.resend.com/emails", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.APIKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend API returned %s: %s", resp.Status, string(respBody))
	}
	return nil
}

// SendEmail delivers a transactional email, logging failures. Callers
// fire it from a goroutine; a failed notification never blocks or rolls
// back a booking transition.
func SendEmail(toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		log.Printf("⚠️ Email service not configured, dropping email to %s (%s)", toEmail, subject)
		return
	}
	if err := EmailClient.send(toEmail, subject, htmlContent); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", toEmail, err)
	}
}

func SendSessionRequestEmail(mentorEmail, parentName string) {
	SendEmail(mentorEmail, fmt.Sprintf("New Session Request from %s", parentName),
		fmt.Sprintf("<h2>You've received a new session request!</h2><p><strong>%s</strong> has requested a training session with you on GamePlannr.</p><p>Please log into your dashboard to view and respond to the request.</p>", parentName))
}

func SendRequestAcceptedEmail(parentEmail, mentorName string) {
	SendEmail(parentEmail, "Your Session Request Was Accepted!",
		fmt.Sprintf("<h2>Good news!</h2><p><strong>%s</strong> accepted your session request. Head to your dashboard to complete payment and confirm the booking.</p>", mentorName))
}

func SendRequestDeclinedEmail(parentEmail, mentorName string) {
	SendEmail(parentEmail, "Session Request Update",
		fmt.Sprintf("<p><strong>%s</strong> is unable to take your session request this time. You can send a request to another mentor from the search page.</p>", mentorName))
}

func SendPaymentConfirmedEmails(parentEmail, mentorEmail, sessionDate, sessionTime string) {
	SendEmail(parentEmail, "Your Session Is Confirmed!",
		fmt.Sprintf("<h2>Payment received</h2><p>Your session on %s at %s is confirmed. See you there!</p>", sessionDate, sessionTime))
	SendEmail(mentorEmail, "You Have a Confirmed Session!",
		fmt.Sprintf("<h2>New confirmed booking</h2><p>A parent has paid for a session with you on %s at %s. Please prepare accordingly.</p>", sessionDate, sessionTime))
}

func SendSessionReminderEmail(toEmail, sessionDate, sessionTime, location string) {
	SendEmail(toEmail, "Session Reminder",
		fmt.Sprintf("<p>Reminder: you have a GamePlannr session on %s at %s (%s).</p>", sessionDate, sessionTime, location))
}
