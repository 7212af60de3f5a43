package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

const (
	pageMarginLeft   = 15.0
	pageMarginTop    = 20.0
	pageMarginRight  = 15.0
	pageBottomLimit  = 25.0
	sectionTitleH    = 10.0
	tableHeaderH     = 8.0
	tableRowH        = 7.0
	sectionSpacing   = 6.0
	contentWidth     = 210.0 - pageMarginLeft - pageMarginRight
	reportDateLayout = "02/01/2006 15:04"
)

var (
	headerColor     = [3]int{40, 40, 40}
	headerTextColor = [3]int{255, 255, 255}
	sectionColor    = [3]int{0, 0, 0}
	bodyTextColor   = [3]int{50, 50, 50}
	lineColor       = [3]int{200, 200, 200}
	stripeColor     = [3]int{240, 240, 240}
)

// table é uma seção do relatório: título, cabeçalho e linhas já formatadas.
type table struct {
	title   string
	headers []string
	widths  []float64
	rows    [][]string
}

func (t table) height() float64 {
	return sectionTitleH + tableHeaderH + float64(len(t.rows))*tableRowH + sectionSpacing
}

// PDFRenderer gera o PDF mensal de um resumo.
type PDFRenderer struct {
	organization string
	loc          *time.Location
	now          func() time.Time
}

var _ repository.ReportRenderer = (*PDFRenderer)(nil)

// NewPDFRenderer cria o renderizador. organization aparece no rodapé de cada página.
func NewPDFRenderer(organization string, loc *time.Location, now func() time.Time) *PDFRenderer {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &PDFRenderer{organization: organization, loc: loc, now: now}
}

// Render monta o documento e devolve seus bytes.
func (r *PDFRenderer) Render(summary entity.ReportSummary, reportType entity.ReportType, periodLabel string, year int) ([]byte, error) {
	sections, err := sectionsFor(summary, reportType)
	if err != nil {
		return nil, err
	}

	doc := newDocument()
	doc.header(reportType.Title(), fmt.Sprintf("%s %d", periodLabel, year), r.now().In(r.loc))
	for _, s := range sections {
		doc.section(s)
	}
	doc.stampFooters(r.organization)

	var buf bytes.Buffer
	if err := doc.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

type document struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDocument() *document {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMarginLeft, pageMarginTop, pageMarginRight)
	// quebras de página controladas por ensureSpace
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (d *document) header(title, period string, generatedAt time.Time) {
	pdf := d.pdf
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 14, d.tr("Rapport mensuel - "+title), "", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, d.tr("Période : "+period), "", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, d.tr("Généré le "+generatedAt.Format(reportDateLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(6)
}

// ensureSpace abre uma nova página se h não couber no espaço restante.
func (d *document) ensureSpace(h float64) {
	_, pageH := d.pdf.GetPageSize()
	if d.pdf.GetY()+h > pageH-pageBottomLimit {
		d.pdf.AddPage()
	}
}

func (d *document) section(t table) {
	pdf := d.pdf
	d.ensureSpace(t.height())

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(sectionColor[0], sectionColor[1], sectionColor[2])
	pdf.CellFormat(0, 8, d.tr(t.title), "", 1, "L", false, 0, "")
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+contentWidth, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	for i, h := range t.headers {
		pdf.CellFormat(t.widths[i], tableHeaderH, d.tr(h), "1", 0, alignFor(i), true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
	for n, row := range t.rows {
		for i, cell := range row {
			pdf.CellFormat(t.widths[i], tableRowH, d.tr(cell), "1", 0, alignFor(i), n%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(sectionSpacing)
}

// stampFooters escreve "Page X / Y" em todas as páginas depois que o conteúdo está completo.
func (d *document) stampFooters(organization string) {
	pdf := d.pdf
	total := pdf.PageCount()
	for i := 1; i <= total; i++ {
		pdf.SetPage(i)
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		text := fmt.Sprintf("Page %d / %d", i, total)
		if organization != "" {
			text += " - " + organization
		}
		pdf.CellFormat(0, 10, d.tr(text), "", 0, "C", false, 0, "")
	}
}

func alignFor(col int) string {
	if col == 0 {
		return "L"
	}
	return "R"
}

// Percent devolve count/total*100, ou 0 quando total é 0.
func Percent(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}

// FormatPercent formata com uma casa decimal, ex.: "33.3%".
func FormatPercent(count, total int) string {
	return fmt.Sprintf("%.1f%%", Percent(count, total))
}

func indicatorTable(title string, rows ...[2]string) table {
	t := table{title: title, headers: []string{"Indicateur", "Valeur"}, widths: []float64{120, contentWidth - 120}}
	for _, r := range rows {
		t.rows = append(t.rows, []string{r[0], r[1]})
	}
	return t
}

type category struct {
	label string
	count int
}

func breakdownTable(title string, total int, cats ...category) table {
	t := table{
		title:   title,
		headers: []string{"Catégorie", "Nombre", "Pourcentage"},
		widths:  []float64{90, 45, contentWidth - 135},
	}
	for _, c := range cats {
		t.rows = append(t.rows, []string{c.label, fmt.Sprintf("%d", c.count), FormatPercent(c.count, total)})
	}
	return t
}

func sectionsFor(s entity.ReportSummary, t entity.ReportType) ([]table, error) {
	switch t {
	case entity.ReportPrenatalConsultation:
		if s.Prenatal == nil {
			return nil, fmt.Errorf("summary has no prenatal section")
		}
		return prenatalSections(*s.Prenatal), nil
	case entity.ReportDelivery:
		if s.Delivery == nil {
			return nil, fmt.Errorf("summary has no delivery section")
		}
		return deliverySections(*s.Delivery), nil
	case entity.ReportFamilyPlanning:
		if s.FamilyPlanning == nil {
			return nil, fmt.Errorf("summary has no family planning section")
		}
		return familyPlanningSections(*s.FamilyPlanning), nil
	default:
		return nil, fmt.Errorf("unsupported report type %q", t)
	}
}

func prenatalSections(s entity.PrenatalSummary) []table {
	return []table{
		indicatorTable("Vue d'ensemble",
			[2]string{"Consultations programmées", fmt.Sprintf("%d", s.TotalConsultations)},
			[2]string{"Consultations réalisées", fmt.Sprintf("%d", s.Completed)},
			[2]string{"Taux de réalisation", fmt.Sprintf("%d%%", s.CompletionRate)},
		),
		breakdownTable("Répartition par statut", s.TotalConsultations,
			category{"Réalisées", s.Completed},
			category{"En attente (aujourd'hui)", s.Pending},
			category{"Planifiées", s.Planned},
			category{"Manquées", s.Missed},
		),
	}
}

func deliverySections(s entity.DeliverySummary) []table {
	return []table{
		indicatorTable("Vue d'ensemble",
			[2]string{"Total des accouchements", fmt.Sprintf("%d", s.TotalDeliveries)},
			[2]string{"Total des naissances", fmt.Sprintf("%d", s.TotalChildren)},
			[2]string{"Enfants par accouchement", fmt.Sprintf("%.2f", s.ChildrenPerDelivery)},
			[2]string{"Taux de césarienne", fmt.Sprintf("%d%%", s.CesareanRate)},
		),
		breakdownTable("Modes d'accouchement", s.TotalDeliveries,
			category{"Voie basse", s.Vaginal},
			category{"Césarienne", s.Cesarean},
			category{"Autre", s.OtherMode},
		),
		breakdownTable("Nouveau-nés par sexe", s.TotalChildren,
			category{"Garçons", s.Boys},
			category{"Filles", s.Girls},
			category{"Non renseigné", s.UnknownSex},
		),
	}
}

func familyPlanningSections(s entity.FamilyPlanningSummary) []table {
	methods := make([]category, 0, len(entity.OrderedMethods))
	for _, m := range entity.OrderedMethods {
		methods = append(methods, category{m.Label(), s.MethodCounts.Count(m)})
	}
	return []table{
		indicatorTable("Vue d'ensemble",
			[2]string{"Total des visites", fmt.Sprintf("%d", s.TotalVisits)},
			[2]string{"Méthode la plus utilisée", s.PopularMethod},
		),
		breakdownTable("Méthodes contraceptives", s.TotalVisits, methods...),
		breakdownTable("Répartition par sexe", s.TotalVisits,
			category{"Femmes", s.Women},
			category{"Hommes", s.Men},
			category{"Non renseigné", s.UnknownSex},
		),
	}
}
