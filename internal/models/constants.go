package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// allowedTransitions lists the outgoing edges of the booking state machine.
// Cancelled and completed are terminal.
var allowedTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether from -> to is an allowed status edge.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s names a known booking status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

const (
	// DefaultRedisTTL время жизни сессии пользователя в Redis
	DefaultRedisTTL = 24 * 60 * 60 // 24 часа в секундах

	// WorkerQueueSize размер очереди воркера экспорта
	WorkerQueueSize = 128

	// RateLimitRequests количество запросов в окне по умолчанию
	RateLimitRequests = 60

	// RateLimitWindow окно ограничения частоты запросов в секундах
	RateLimitWindow = 60

	// MinRating и MaxRating границы оценки в отзыве
	MinRating = 1
	MaxRating = 5
)
