package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/startinfo/academy_api/model"
)

const certificateContentType = "application/pdf"

func certificateObjectName(cert *model.Certificate) string {
	return fmt.Sprintf("certificates/%s.pdf", cert.CertificateNumber)
}

func certificateFilename(cert *model.Certificate) string {
	return fmt.Sprintf("certificate-%s.pdf", cert.CertificateNumber)
}

// renderCertificatePDF lays the certificate out on one landscape A4 page.
// Text goes through the cp1252 translator so accented names render with
// the core fonts. The holder and course are also set as document metadata.
func renderCertificatePDF(cert *model.Certificate, holder string) ([]byte, error) {
	courseTitle := ""
	if cert.Course != nil {
		courseTitle = cert.Course.Title
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(tr("Certificate "+cert.CertificateNumber), false)
	pdf.SetAuthor(tr(holder), false)
	pdf.SetSubject(tr(courseTitle), false)
	pdf.SetCreator(SERVICE_NAME, false)
	pdf.SetCreationDate(cert.IssuedAt)

	pdf.AddPage()
	pdf.SetMargins(20, 20, 20)
	pageWidth, _ := pdf.GetPageSize()
	width := pageWidth - 40

	lines := []struct {
		style string
		size  float64
		text  string
	}{
		{"B", 32, "Certificate of Completion"},
		{"", 14, "This certifies that"},
		{"B", 24, holder},
		{"", 14, "has successfully completed the course"},
		{"B", 20, courseTitle},
		{"", 11, "Certificate number: " + cert.CertificateNumber},
		{"", 11, "Issued on " + cert.IssuedAt.UTC().Format(time.DateOnly)},
	}

	pdf.SetY(40)
	for _, l := range lines {
		pdf.SetFont("Helvetica", l.style, l.size)
		pdf.CellFormat(width, l.size*0.6, tr(l.text), "", 1, "C", false, 0, "")
		pdf.Ln(l.size * 0.4)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("render certificate %s: %w", cert.CertificateNumber, err)
	}
	return out.Bytes(), nil
}
