package report

import (
	"fmt"
	"image"
	// PNG decoder for checking chart files before embedding
	_ "image/png"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
	"k8s.io/klog/v2"

	"github.com/gocrane/insight-report/pkg/known"
	"github.com/gocrane/insight-report/pkg/reporterr"
)

const (
	pageMargin      = 10.0
	lineHeight      = 6.0
	bodyLineHeight  = 5.0
	newPageForImage = 180.0

	fontFamily = "report"
	coreFont   = "Helvetica"
)

// compressPDF is switched off by tests that inspect page content.
var compressPDF = true

// KV is one row of a two-column table.
type KV struct {
	Key   string
	Value string
}

// document wraps fpdf with the headings, tables and image blocks used by every report.
type document struct {
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
	title  string
}

func newDocument(title, fontPath string, generated time.Time) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compressPDF)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCreationDate(generated)
	pdf.SetTitle(title, true)
	pdf.SetCreator("insight-report", true)
	pdf.AliasNbPages("")

	d := &document{pdf: pdf, family: coreFont, tr: func(s string) string { return s }, title: title}
	if fontPath != "" {
		if _, err := os.Stat(fontPath); err == nil {
			for _, style := range []string{"", "B", "I"} {
				pdf.AddUTF8Font(fontFamily, style, fontPath)
			}
			d.family = fontFamily
		} else {
			klog.Warningf("Font %s not usable for PDF: %v", fontPath, err)
		}
	}
	if d.family == coreFont {
		d.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(d.family, "B", 15)
		pdf.CellFormat(0, 10, d.tr(title), "", 1, "C", false, 0, "")
		pdf.SetFont(d.family, "I", 8)
		pdf.CellFormat(0, 5, d.tr("Generated: "+generated.Format(known.TimestampLayout)), "", 1, "R", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(d.family, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	return d
}

func (d *document) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return w - left - right
}

func (d *document) chapter(title string) {
	d.pdf.SetFont(d.family, "B", 12)
	d.pdf.SetFillColor(200, 220, 255)
	d.pdf.CellFormat(0, lineHeight, d.tr(title), "", 1, "L", true, 0, "")
	d.pdf.Ln(4)
}

func (d *document) section(title string) {
	d.pdf.SetFont(d.family, "B", 10)
	d.pdf.CellFormat(0, lineHeight, d.tr(title), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)
}

func (d *document) body(text string) {
	d.pdf.SetFont(d.family, "", 9)
	d.pdf.MultiCell(0, bodyLineHeight, d.tr(text), "", "L", false)
	d.pdf.Ln(2)
}

func (d *document) keyValues(rows []KV) {
	d.table(nil, kvRows(rows), []float64{60, d.contentWidth() - 60})
}

func kvRows(rows []KV) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Key, r.Value}
	}
	return out
}

// table draws rows with alternating fill. widths must match the column count.
func (d *document) table(header []string, rows [][]string, widths []float64) {
	d.pdf.SetFont(d.family, "", 9)
	if len(header) > 0 {
		d.pdf.SetFont(d.family, "B", 9)
		d.pdf.SetFillColor(220, 220, 220)
		for i, h := range header {
			d.pdf.CellFormat(widths[i], lineHeight, d.tr(h), "1", 0, "C", true, 0, "")
		}
		d.pdf.Ln(-1)
		d.pdf.SetFont(d.family, "", 9)
	}

	d.pdf.SetFillColor(240, 240, 240)
	for n, row := range rows {
		fill := n%2 == 1
		for i, cell := range row {
			d.pdf.CellFormat(widths[i], lineHeight, d.tr(cell), "1", 0, "L", fill, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(4)
}

// image embeds a PNG scaled to the content width. A missing or unreadable file is
// replaced by a note so the rest of the report still renders.
func (d *document) image(path, caption, placeholder string) {
	if err := checkImage(path); err != nil {
		klog.Warningf("%v", reporterr.New(reporterr.RenderError, "image "+path, err))
		d.body(placeholder)
		return
	}

	if d.pdf.GetY() > newPageForImage {
		d.pdf.AddPage()
	}
	left, _, _, _ := d.pdf.GetMargins()
	d.pdf.ImageOptions(path, left, 0, d.contentWidth(), 0, true, fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	if caption != "" {
		d.pdf.Ln(2)
		d.pdf.SetFont(d.family, "I", 8)
		d.pdf.CellFormat(0, 5, d.tr(caption), "", 1, "C", false, 0, "")
	}
	d.pdf.Ln(5)
}

func checkImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return err
	}
	if format != "png" {
		return fmt.Errorf("unexpected image format %s", format)
	}
	return nil
}

func (d *document) separator() {
	left, _, right, _ := d.pdf.GetMargins()
	w, _ := d.pdf.GetPageSize()
	y := d.pdf.GetY()
	d.pdf.Line(left, y, w-right, y)
	d.pdf.Ln(5)
}

func (d *document) save(path string) error {
	if err := d.pdf.OutputFileAndClose(path); err != nil {
		return reporterr.Newf(reporterr.RenderError, err, "write pdf %s", path)
	}
	return nil
}
