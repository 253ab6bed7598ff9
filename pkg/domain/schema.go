// Package domain defines the enrollment record schema, its value model and the
// persistence contract shared by every storage backend.
package domain

// ValueKind identifies how a field's value is entered and stored.
type ValueKind uint8

const (
	// KindText is a single-line free text value.
	KindText ValueKind = iota + 1
	// KindChoice is a single selection from a suggested option list.
	KindChoice
	// KindFlag is a yes/no value.
	KindFlag
	// KindMultiline is free text that may span several lines.
	KindMultiline
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindChoice:
		return "choice"
	case KindFlag:
		return "flag"
	case KindMultiline:
		return "multiline"
	default:
		return "unknown"
	}
}

// FieldID enumerates the record fields other than the code, in persisted
// column order.
type FieldID int

const (
	FieldEnrollmentDate FieldID = iota
	FieldArea
	FieldFullName
	FieldCourse
	FieldSex
	FieldBirthDate
	FieldAge
	FieldNationalID
	FieldMaritalStatus
	FieldPostalCode
	FieldStreet
	FieldNumber
	FieldComplement
	FieldLandmark
	FieldContact1
	FieldContact2
	FieldSchool
	FieldAttendsSchool
	FieldGrade
	FieldEducationLevel
	FieldWorks
	FieldProfession
	FieldMonthlyIncome
	FieldFatherName
	FieldMotherName
	FieldSiblingCount
	FieldHouseholdSize
	FieldLivesWithParents
	FieldLivesWithOneParent
	FieldLivesWithRelatives
	FieldLivesWithSpouse
	FieldSpouseName
	FieldSpouseIncome
	FieldChildCount
	FieldHouseholdIncome
	FieldGovBenefit
	FieldGovBenefitName
	FieldFamilyDescription
	FieldCourseStart
	FieldCourseEnd
	FieldWithdrawal
	FieldDocID
	FieldDocCPF
	FieldDocResidence
	FieldDocVaccine
	FieldDocPhoto
	FieldObservations
	FieldImageConsent

	numFields
)

// CodeColumn is the persisted column holding the record code.
const CodeColumn = "codigo"

// Field describes one schema entry.
type Field struct {
	ID             FieldID
	Column         string
	Label          string
	Kind           ValueKind
	SystemAssigned bool
	Options        []string
}

var (
	yesNo = []string{TokenYes, TokenNo}

	schema = [numFields]Field{
		{FieldEnrollmentDate, "data_inscricao", "Data da Inscrição", KindText, true, nil},
		{FieldArea, "area", "Área", KindChoice, false, []string{"Setor Cultural", "Setor Profissionalizante"}},
		{FieldFullName, "nome_completo", "Nome Completo", KindText, false, nil},
		{FieldCourse, "curso", "Curso", KindChoice, false, []string{"Violão", "Capoeira", "Corte e Costura", "Manicure", "Teatro", "Cabelereiro"}},
		{FieldSex, "sexo", "Sexo", KindChoice, false, []string{"Masculino", "Feminino", "Outros"}},
		{FieldBirthDate, "data_nascimento", "Data de Nascimento", KindText, false, nil},
		{FieldAge, "idade", "Idade", KindText, true, nil},
		{FieldNationalID, "cpf", "CPF", KindText, false, nil},
		{FieldMaritalStatus, "estado_civil", "Estado Civil", KindChoice, false, []string{"Solteiro(a)", "Casado(a)", "Divorciado(a)", "Viúvo(a)", "União Estável"}},
		{FieldPostalCode, "cep", "CEP", KindText, false, nil},
		{FieldStreet, "rua", "Rua", KindText, false, nil},
		{FieldNumber, "numero", "Número", KindText, false, nil},
		{FieldComplement, "complemento", "Complemento", KindText, false, nil},
		{FieldLandmark, "ponto_referencia", "Ponto de Referência", KindText, false, nil},
		{FieldContact1, "contato1", "Contato 1", KindText, false, nil},
		{FieldContact2, "contato2", "Contato 2", KindText, false, nil},
		{FieldSchool, "escola", "Escola", KindText, false, nil},
		{FieldAttendsSchool, "frequenta_escola", "Frequenta?", KindChoice, false, yesNo},
		{FieldGrade, "serie", "Série", KindText, false, nil},
		{FieldEducationLevel, "ensino", "Ensino", KindChoice, false, []string{"Infantil", "Fundamental", "Médio", "Profissional e Tecnológica", "Superior"}},
		{FieldWorks, "trabalha", "Trabalha?", KindChoice, false, yesNo},
		{FieldProfession, "profissao", "Profissão", KindText, false, nil},
		{FieldMonthlyIncome, "renda_mensal", "Renda Mensal", KindText, false, nil},
		{FieldFatherName, "nome_pai", "Nome do Pai", KindText, false, nil},
		{FieldMotherName, "nome_mae", "Nome da Mãe", KindText, false, nil},
		{FieldSiblingCount, "num_irmaos", "N° de Irmãos", KindText, false, nil},
		{FieldHouseholdSize, "pessoas_residencia", "Pessoas na Residência", KindText, false, nil},
		{FieldLivesWithParents, "mora_pais", "Pais", KindFlag, false, nil},
		{FieldLivesWithOneParent, "mora_mae_pai", "Mãe/Pai", KindFlag, false, nil},
		{FieldLivesWithRelatives, "mora_parentes", "Parentes", KindFlag, false, nil},
		{FieldLivesWithSpouse, "mora_conjuge", "Cônjuge", KindFlag, false, nil},
		{FieldSpouseName, "nome_conjuge", "Nome do Cônjuge", KindText, false, nil},
		{FieldSpouseIncome, "renda_conjuge", "Renda do Cônjuge", KindText, false, nil},
		{FieldChildCount, "num_filhos", "N° de Filhos", KindText, false, nil},
		{FieldHouseholdIncome, "renda_familiar", "Renda Familiar", KindText, false, nil},
		{FieldGovBenefit, "beneficio_gov", "Recebe Benefício?", KindChoice, false, yesNo},
		{FieldGovBenefitName, "qual_beneficio", "Qual?", KindText, false, nil},
		{FieldFamilyDescription, "desc_familiar", "Descrição Familiar", KindMultiline, false, nil},
		{FieldCourseStart, "data_inicio_curso", "Início do Curso", KindText, false, nil},
		{FieldCourseEnd, "data_conclusao_curso", "Conclusão do Curso", KindText, false, nil},
		{FieldWithdrawal, "desistencia", "Desistência", KindText, false, nil},
		{FieldDocID, "doc_id", "ID", KindFlag, false, nil},
		{FieldDocCPF, "doc_cpf", "CPF", KindFlag, false, nil},
		{FieldDocResidence, "doc_residencia", "Residência", KindFlag, false, nil},
		{FieldDocVaccine, "doc_vacina", "Vacina", KindFlag, false, nil},
		{FieldDocPhoto, "doc_foto", "Foto 3x4", KindFlag, false, nil},
		{FieldObservations, "observacao", "Observações", KindMultiline, false, nil},
		{FieldImageConsent, "aceite_declaracao", "Autorizo o uso de imagem e voz", KindFlag, false, nil},
	}

	byColumn = func() map[string]FieldID {
		m := make(map[string]FieldID, numFields)
		for _, f := range schema {
			m[f.Column] = f.ID
		}
		return m
	}()
)

// RequiredFields lists the fields that must be non-blank before a record is persisted.
var RequiredFields = []FieldID{FieldFullName, FieldNationalID, FieldCourse}

// DeliveredDocuments lists the document checklist flags in display order.
var DeliveredDocuments = []FieldID{FieldDocID, FieldDocCPF, FieldDocResidence, FieldDocVaccine, FieldDocPhoto}

// Fields returns the schema in column order. The returned slice is a copy.
func Fields() []Field {
	out := make([]Field, numFields)
	copy(out, schema[:])
	return out
}

// NumFields reports how many fields the schema holds besides the code.
func NumFields() int { return int(numFields) }

// Columns returns every persisted column name, code first.
func Columns() []string {
	cols := make([]string, 0, numFields+1)
	cols = append(cols, CodeColumn)
	for _, f := range schema {
		cols = append(cols, f.Column)
	}
	return cols
}

// FieldByColumn resolves a persisted column name.
func FieldByColumn(column string) (FieldID, bool) {
	id, ok := byColumn[column]
	return id, ok
}

// Valid reports whether id names a schema field.
func (id FieldID) Valid() bool { return id >= 0 && id < numFields }

// Field returns the schema entry for id. It panics on an invalid id.
func (id FieldID) Field() Field { return schema[id] }

// Kind returns the value kind for id.
func (id FieldID) Kind() ValueKind { return schema[id].Kind }

// Column returns the persisted column for id.
func (id FieldID) Column() string { return schema[id].Column }

// Label returns the display label for id.
func (id FieldID) Label() string { return schema[id].Label }

func (id FieldID) String() string {
	if !id.Valid() {
		return "field(invalid)"
	}
	return schema[id].Column
}
