package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	config "github.com/gameplannr/backend/configs"
	"github.com/gameplannr/backend/database"
	"github.com/gameplannr/backend/models"
	"github.com/google/uuid"
)

// GenerateSessionReceipt renders a PDF receipt for a freshly confirmed
// payment and stores its URL on the session. Runs fire-and-forget after
// the reconciler applies the transition; any failure here is logged and
// never affects booking state.
func GenerateSessionReceipt(session models.Session, paymentRef string) {
	if session.ReceiptURL != nil {
		return
	}

	htmlData, err := generateReceiptHTML(session, paymentRef)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt HTML for session %s: %v", session.ID, err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF for session %s: %v", session.ID, err)
		return
	}

	uploadURL, err := uploadToCloudinary(pdfBytes, session.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload receipt for session %s: %v", session.ID, err)
		return
	}

	if err := database.DB.Model(&models.Session{}).
		Where("id = ? AND receipt_url IS NULL", session.ID).
		Update("receipt_url", uploadURL).Error; err != nil {
		log.Printf("🔥 Failed to record receipt URL for session %s: %v", session.ID, err)
		return
	}
	log.Printf("✅ Generated receipt for session %s.", session.ID)
}

func generateReceiptHTML(session models.Session, paymentRef string) (string, error) {
	tmpl, err := template.ParseFiles("templates/receipt.html")
	if err != nil {
		return "", err
	}

	data := struct {
		ParentName  string
		MentorName  string
		SessionDate string
		SessionTime string
		Location    string
		AmountPaid  string
		PaymentRef  string
		IssuedOn    string
	}{
		ParentName:  session.Parent.FullName,
		MentorName:  session.Mentor.FullName,
		SessionDate: session.ScheduledDate,
		SessionTime: session.ScheduledTime,
		Location:    session.Location,
		AmountPaid:  "$4.00",
		PaymentRef:  paymentRef,
		IssuedOn:    time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadToCloudinary(fileBytes []byte, sessionID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("receipts/%s_%s", sessionID, uuid.New().String()),
		Folder:       "gameplannr_receipts",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
