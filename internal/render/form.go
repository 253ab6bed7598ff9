package render

import (
	"strings"

	"github.com/artenioreis/fichadeinscricao/pkg/domain"
)

// Fixed form texts.
const (
	FormTitle        = "FICHA DE INSCRIÇÃO"
	LogoPlaceholder  = "[Logo]"
	NoObservation    = "Nenhuma observação."
	ConsentText      = "Autorizo, de forma gratuita, a utilização da minha imagem e voz para fins de divulgação institucional, conforme Lei de Direitos Autorais (Lei nº 9.610/1998)."
	AcceptanceText   = "LI E CONCORDO COM OS TERMOS"
	SignatureCaption = "Assinatura do Aluno ou Responsável"
)

// Section titles in print order.
const (
	SectionEnrollment = "Ficha de Inscrição"
	SectionAddress    = "Endereço e Contato"
	SectionSchool     = "Dados Escolares"
	SectionHousehold  = "Dados da Residência"
	SectionDocuments  = "Documentos Entregues"
	SectionNotes      = "Observações"
	SectionConsent    = "Termo de Autorização de Imagem"
)

type cell struct {
	label  string
	value  func(domain.Record) string
	offset float64
}

func field(id domain.FieldID, offsetCm float64) cell {
	return cell{
		label:  id.Label(),
		value:  func(r domain.Record) string { return r.Text(id) },
		offset: offsetCm * Cm,
	}
}

var codeCell = cell{label: "Código", value: domain.Record.DisplayCode}

type section struct {
	title string
	// rows are separated by one line gap; the cursor stays on the last row.
	rows [][]cell
}

var fieldSections = []section{
	{SectionEnrollment, [][]cell{
		{codeCell, field(domain.FieldEnrollmentDate, 8.5)},
		{field(domain.FieldFullName, 0)},
		{field(domain.FieldCourse, 0), field(domain.FieldArea, 8.5)},
		{field(domain.FieldBirthDate, 0), field(domain.FieldAge, 8.5)},
		{field(domain.FieldNationalID, 0), field(domain.FieldSex, 8.5)},
		{field(domain.FieldMaritalStatus, 0)},
	}},
	{SectionAddress, [][]cell{
		{field(domain.FieldPostalCode, 0), field(domain.FieldStreet, 5)},
		{field(domain.FieldNumber, 0), field(domain.FieldComplement, 5)},
		{field(domain.FieldLandmark, 0)},
		{field(domain.FieldContact1, 0), field(domain.FieldContact2, 8.5)},
	}},
	{SectionSchool, [][]cell{
		{field(domain.FieldSchool, 0), field(domain.FieldAttendsSchool, 10)},
		{field(domain.FieldGrade, 0), field(domain.FieldEducationLevel, 8.5)},
		{field(domain.FieldWorks, 0), field(domain.FieldProfession, 8.5)},
		{field(domain.FieldMonthlyIncome, 0)},
	}},
	{SectionHousehold, [][]cell{
		{field(domain.FieldFatherName, 0)},
		{field(domain.FieldMotherName, 0)},
		{field(domain.FieldSiblingCount, 0), field(domain.FieldHouseholdSize, 8.5)},
		{field(domain.FieldChildCount, 0), field(domain.FieldHouseholdIncome, 8.5)},
		{field(domain.FieldSpouseName, 0), field(domain.FieldSpouseIncome, 8.5)},
	}},
}

var livesWith = []domain.FieldID{
	domain.FieldLivesWithParents,
	domain.FieldLivesWithOneParent,
	domain.FieldLivesWithRelatives,
	domain.FieldLivesWithSpouse,
}

// LivingArrangement lists the household flags that are set, e.g.
// "Mora com: Pais, Parentes".
func LivingArrangement(rec domain.Record) string {
	var with []string
	for _, id := range livesWith {
		if rec.Flag(id) {
			with = append(with, id.Label())
		}
	}
	return strings.TrimSpace("Mora com: " + strings.Join(with, ", "))
}

// DocumentChecklist maps the delivered-document flags to checklist items.
func DocumentChecklist(rec domain.Record) []CheckItem {
	items := make([]CheckItem, len(domain.DeliveredDocuments))
	for i, id := range domain.DeliveredDocuments {
		items[i] = CheckItem{Label: id.Label(), On: rec.Flag(id)}
	}
	return items
}

// LayoutForm draws the whole enrollment form for rec. A nil logo prints the
// placeholder instead of the header graphic.
func LayoutForm(p *Paginator, rec domain.Record, logo *Logo) {
	geo := p.Geometry()
	c := p.c

	y := p.Cursor().Y
	if logo != nil {
		w, h := logo.Fit(LogoBoxWidth, LogoBoxHeight)
		boxBottom := y - 1.2*Cm
		x := geo.Margin + (LogoBoxWidth-w)/2
		c.Image(logo.Name, logo.PNG, x, boxBottom+LogoBoxHeight-h, w, h)
	} else {
		c.SetFont(FontPlaceholder)
		c.Text(geo.Margin, y-0.5*Cm, LogoPlaceholder)
	}
	c.SetFont(FontTitle)
	c.CenteredText(geo.Width/2, y, FormTitle)
	p.Advance(0.5 * Cm)
	y = p.Cursor().Y
	c.Line(geo.Margin, y, geo.Margin+geo.ContentWidth(), y)

	for _, sec := range fieldSections {
		p.SectionTitle(sec.title)
		for i, row := range sec.rows {
			if i > 0 {
				p.NewLine()
			}
			for _, cl := range row {
				p.Field(cl.label, cl.value(rec), cl.offset)
			}
		}
	}

	// Household section tail.
	p.NewLine()
	p.LabeledText("Configuração de Moradia", LivingArrangement(rec), 0, 4*Cm)
	p.NewLine()
	p.Field(domain.FieldGovBenefit.Label(), rec.Text(domain.FieldGovBenefit), 0)
	p.Field(domain.FieldGovBenefitName.Label(), rec.Text(domain.FieldGovBenefitName), 8.5*Cm)
	p.NewLine()
	p.Label(domain.FieldFamilyDescription.Label() + ":")
	p.Advance(0.4 * Cm)
	p.Paragraph(rec.Text(domain.FieldFamilyDescription))

	p.SectionTitle(SectionDocuments)
	p.ChecklistLine(DocumentChecklist(rec))

	p.SectionTitle(SectionNotes)
	notes := rec.Text(domain.FieldObservations)
	if strings.TrimSpace(notes) == "" {
		notes = NoObservation
	}
	p.Paragraph(notes)

	p.SectionTitle(SectionConsent)
	p.Paragraph(ConsentText)
	p.NewLine()
	p.Mark(AcceptanceText, rec.Flag(domain.FieldImageConsent))

	p.Signature(SignatureCaption, 3*Cm)
}
