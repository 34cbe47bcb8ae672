package models

import "time"

type (
	BidderCategory    string // Категория участника торгов
	VerificationState string // Итоговое состояние проверки профиля
)

const (
	Contractor BidderCategory = "CONTRACTOR" // Строительный подрядчик
	Developer  BidderCategory = "DEVELOPER"  // Разработчик ПО и ИТ-услуг
	Supplier   BidderCategory = "SUPPLIER"   // Поставщик товаров и материалов
	Consultant BidderCategory = "CONSULTANT" // Консультант и профессиональные услуги
	Buyer      BidderCategory = "BUYER"      // Заказчик, публикующий тендеры

	PendingVerification  VerificationState = "PENDING"
	VerifiedVerification VerificationState = "VERIFIED"
	RejectedVerification VerificationState = "REJECTED"
)

// ValidBidderCategory проверяет допустимость категории участника.
func ValidBidderCategory(c BidderCategory) bool {
	switch c {
	case Contractor, Developer, Supplier, Consultant, Buyer:
		return true
	default:
		return false
	}
}

// Experience описывает опыт участника торгов.
type Experience struct {
	Years            int      `json:"years"`
	Sectors          []string `json:"sectors"`
	PreviousProjects *int     `json:"previousProjects,omitempty"`
}

// NotificationPreferences - настройки каналов уведомлений пользователя.
type NotificationPreferences struct {
	Email bool `json:"email"`
	InApp bool `json:"inApp"`
	Push  bool `json:"push"`
}

// DefaultNotificationPreferences возвращает настройки уведомлений по умолчанию.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{Email: true, InApp: true, Push: false}
}

// User представляет профиль пользователя площадки.
type User struct {
	ID                string                  `json:"id"`
	Email             string                  `json:"email"`
	PasswordHash      string                  `json:"-"`
	CompanyName       string                  `json:"companyName"`
	BidderCategory    BidderCategory          `json:"bidderCategory"`
	Experience        *Experience             `json:"experience,omitempty"`
	VerificationState VerificationState       `json:"verificationState"`
	Preferences       NotificationPreferences `json:"notificationPreferences"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// RegisterRequest представляет структуру запроса регистрации пользователя.
type RegisterRequest struct {
	Email          string         `json:"email"`
	Password       string         `json:"password"`
	CompanyName    string         `json:"companyName"`
	BidderCategory BidderCategory `json:"bidderCategory"`
	Experience     *Experience    `json:"experience,omitempty"`
}

// LoginRequest представляет структуру запроса входа.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse представляет ответ на успешную регистрацию или вход.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
