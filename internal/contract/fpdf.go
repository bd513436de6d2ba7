package contract

import (
	"bytes"
	"context"
	"fmt"
	"os"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-pdf/fpdf"
)

const (
	fpdfMargin     = 16.0
	fpdfLineHeight = 7.0
	fpdfLabelWidth = 40.0
)

// FPDFEngine lays the contract out directly. It needs no system binaries
// and serves as the last resort.
type FPDFEngine struct {
	log logger.Logger
}

func NewFPDFEngine() *FPDFEngine {
	return &FPDFEngine{log: logger.New("contract").File("fpdf")}
}

func (e *FPDFEngine) Name() string {
	return "fpdf"
}

type fpdfWriter struct {
	pdf       *fpdf.Fpdf
	family    string
	boldStyle string
	translate func(string) string
}

func (e *FPDFEngine) Render(ctx context.Context, doc Document) ([]byte, error) {
	log := e.log.Function("Render").TraceFromContext(ctx)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(fpdfMargin, fpdfMargin, fpdfMargin)
	pdf.SetAutoPageBreak(true, fpdfMargin)
	pdf.SetTitle(fmt.Sprintf("Contract %d", doc.Data.QuoteID), true)

	w := e.registerFonts(pdf, doc.Fonts, log)
	w.write(doc.Data)

	if pdf.Err() {
		return nil, log.Err("failed to lay out contract", pdf.Error(), "quoteID", doc.Data.QuoteID)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, log.Err("failed to write contract", err, "quoteID", doc.Data.QuoteID)
	}
	return buf.Bytes(), nil
}

// registerFonts embeds the resolved TrueType faces. Any face that fails to
// load drops back to core Helvetica with a cp1252 translator.
func (e *FPDFEngine) registerFonts(pdf *fpdf.Fpdf, fonts FontSet, log logger.Logger) *fpdfWriter {
	w := &fpdfWriter{
		pdf:       pdf,
		family:    DefaultBodyFamily,
		boldStyle: "B",
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}

	if !fonts.Regular.Found() {
		return w
	}

	if !addFont(pdf, fonts.BodyFamily, "", fonts.Regular.Path) {
		log.Warn("failed to register contract font", "path", fonts.Regular.Path)
		return w
	}

	w.family = fonts.BodyFamily
	w.translate = func(s string) string { return s }
	w.boldStyle = ""

	if fonts.Bold.Found() && addFont(pdf, fonts.BodyFamily, "B", fonts.Bold.Path) {
		w.boldStyle = "B"
	} else {
		log.Warn("bold contract font unavailable", "path", fonts.Bold.Path)
	}

	return w
}

func addFont(pdf *fpdf.Fpdf, family, style, path string) (ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
		if pdf.Err() {
			pdf.ClearError()
			ok = false
		}
	}()

	pdf.AddUTF8FontFromBytes(family, style, data)
	return true
}

func (w *fpdfWriter) write(data Data) {
	pdf := w.pdf
	pdf.AddPage()

	w.font(true, 14)
	w.centered(data.Company.Name)
	w.font(false, 11)
	w.centered(data.Company.Address)
	w.centered(fmt.Sprintf("โทร %s อีเมล %s", data.Company.Phone, data.Company.Email))
	pdf.Ln(4)

	w.font(true, 18)
	w.centered("สัญญาว่าจ้างก่อสร้างบ้าน")
	w.font(false, 12)
	w.centered(fmt.Sprintf(
		"เลขที่ใบเสนอราคา %d รหัสแบบ %s วันที่ออกเอกสาร %s",
		data.QuoteID,
		data.DesignCode,
		formatDate(data.IssuedDate),
	))

	w.heading("ข้อมูลผู้ว่าจ้าง")
	w.row("ชื่อ", data.ClientName)
	w.row("อีเมล", data.ClientEmail)
	w.row("ที่อยู่", orDash(data.ClientAddress))
	w.row("โทรศัพท์", orDash(data.ClientPhone))

	w.heading("รายละเอียดแบบบ้าน")
	title := data.DesignTitle
	if data.IsCatalogDesign {
		title += " (แบบบ้านสำเร็จรูป)"
	}
	w.row("ชื่อแบบ", title)
	w.row("รายละเอียด", orDash(data.DesignDescription))
	w.row("ผู้ออกแบบ", data.Designer)
	price := "รอการประเมินราคา"
	if data.HasPrice {
		price = FormatMoney(data.TotalPrice) + " บาท"
	}
	w.row("ราคารวม", price)

	w.heading("งวดการชำระเงิน")
	for _, installment := range data.Installments {
		w.row(
			installment.Label,
			fmt.Sprintf("%s %s : %s", installment.Percentage, installment.Description, formatAmount(installment.Amount)),
		)
	}

	pdf.Ln(20)
	w.font(false, 12)
	half := (210 - 2*fpdfMargin) / 2
	pdf.CellFormat(half, fpdfLineHeight, w.translate("ลงชื่อ ..............................."), "", 0, "C", false, 0, "")
	pdf.CellFormat(half, fpdfLineHeight, w.translate("ลงชื่อ ..............................."), "", 1, "C", false, 0, "")
	pdf.CellFormat(half, fpdfLineHeight, w.translate("ผู้ว่าจ้าง ("+data.ClientName+")"), "", 0, "C", false, 0, "")
	pdf.CellFormat(half, fpdfLineHeight, w.translate("ผู้รับจ้าง ("+data.Company.Name+")"), "", 1, "C", false, 0, "")
}

func (w *fpdfWriter) font(bold bool, size float64) {
	style := ""
	if bold {
		style = w.boldStyle
	}
	w.pdf.SetFont(w.family, style, size)
}

func (w *fpdfWriter) centered(text string) {
	w.pdf.CellFormat(0, fpdfLineHeight, w.translate(text), "", 1, "C", false, 0, "")
}

func (w *fpdfWriter) heading(text string) {
	w.pdf.Ln(3)
	w.font(true, 14)
	w.pdf.CellFormat(0, fpdfLineHeight+1, w.translate(text), "B", 1, "L", false, 0, "")
	w.font(false, 12)
}

func (w *fpdfWriter) row(label, value string) {
	w.font(true, 12)
	w.pdf.CellFormat(fpdfLabelWidth, fpdfLineHeight, w.translate(label), "", 0, "L", false, 0, "")
	w.font(false, 12)
	w.pdf.MultiCell(0, fpdfLineHeight, w.translate(value), "", "L", false)
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
