package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/usecase/queries"

	"github.com/phpdave11/gofpdf"
)

const issuedAtLayout = "2006-01-02 15:04 MST"

// PDFRenderer lays out a one-page A4 booking receipt.
type PDFRenderer struct {
	loc *time.Location
}

func NewPDFRenderer(loc *time.Location) *PDFRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &PDFRenderer{loc: loc}
}

func (r *PDFRenderer) Render(rc *queries.ReceiptView) ([]byte, error) {
	if rc == nil || rc.Booking == nil {
		return nil, errs.New("receipt has no booking")
	}
	b := rc.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt "+rc.ReceiptNumber, false)
	pdf.SetCreator("Poorito", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Receipt No : "+rc.ReceiptNumber)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+rc.IssuedAt.In(r.loc).Format(issuedAtLayout))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name  : %s", safe(b.UserDisplayName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Email : %s", safe(b.UserEmail, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Trip:")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Mountain     : %s (%s)", b.MountainName, safe(b.MountainLocation, "-")),
		fmt.Sprintf("Dates        : %s to %s", b.StartDate, b.EndDate),
		fmt.Sprintf("Booking type : %s", capitalize(b.BookingType)),
		fmt.Sprintf("Participants : %d", b.NumberOfParticipants),
		fmt.Sprintf("Status       : %s", b.Status),
	}
	for _, s := range lines {
		pdf.Cell(0, 6, s)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.Cell(0, 6, "Price per head : PHP "+b.PricePerHead.String())
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total : PHP "+b.TotalPrice.String())
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Booking reference "+b.ID.String()+". Present this receipt at the jump-off point.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errs.Wrap(err, "failed to write receipt pdf")
	}
	return buf.Bytes(), nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
