package models

type VerificationFieldStatus string // Статус проверки отдельного поля

const (
	FieldPending  VerificationFieldStatus = "pending"  // Документ подан и ожидает проверки
	FieldVerified VerificationFieldStatus = "verified" // Поле подтверждено
	FieldFailed   VerificationFieldStatus = "failed"   // Проверка поля не пройдена
)

// Имена проверяемых полей: налоговая регистрация, ИНН, регистрация компании и банковский счёт.
const (
	FieldGST  = "gst"
	FieldPAN  = "pan"
	FieldCIN  = "cin"
	FieldBank = "bank"
)

// VerificationFields - фиксированный набор проверяемых полей.
var VerificationFields = []string{FieldGST, FieldPAN, FieldCIN, FieldBank}

// ValidVerificationField проверяет, что имя поля входит в набор проверяемых.
func ValidVerificationField(field string) bool {
	for _, f := range VerificationFields {
		if f == field {
			return true
		}
	}
	return false
}

// VerificationStatus представляет срез статусов проверки пользователя.
// Поле Overall - производный процент, пересчитываемый при каждом изменении.
type VerificationStatus struct {
	GST     VerificationFieldStatus `json:"gst"`
	PAN     VerificationFieldStatus `json:"pan"`
	CIN     VerificationFieldStatus `json:"cin"`
	Bank    VerificationFieldStatus `json:"bank"`
	Overall int                     `json:"overall"`
}

// DefaultVerificationStatus возвращает срез для пользователя без записи о проверке.
func DefaultVerificationStatus() *VerificationStatus {
	return &VerificationStatus{
		GST:     FieldPending,
		PAN:     FieldPending,
		CIN:     FieldPending,
		Bank:    FieldPending,
		Overall: 0,
	}
}

// OverallPercentage вычисляет процент завершённости проверки по четырём полям.
func (v *VerificationStatus) OverallPercentage() int {
	verified := 0
	for _, status := range []VerificationFieldStatus{v.GST, v.PAN, v.CIN, v.Bank} {
		if status == FieldVerified {
			verified++
		}
	}
	return verified * 100 / len(VerificationFields)
}

// SubmitVerificationRequest представляет структуру запроса подачи документа на проверку.
type SubmitVerificationRequest struct {
	Field       string `json:"field"`
	DocumentURL string `json:"documentUrl"`
}
