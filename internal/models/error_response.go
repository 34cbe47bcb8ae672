package models

// ErrorResponse - ошибка уровня API с HTTP-кодом и причиной.
// Код не сериализуется, наружу уходит только причина.
type ErrorResponse struct {
	StatusCode int    `json:"-"`
	Message    string `json:"reason"`
}

// NewErrorResponse создаёт новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message,
	}
}

// Error реализует интерфейс error.
func (e *ErrorResponse) Error() string {
	return e.Message
}
