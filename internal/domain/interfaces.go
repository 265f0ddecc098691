package domain

import (
	"context"
	"time"

	"tenanthub/internal/models"
)

// BookingRepository is the storage surface the booking core depends on.
type BookingRepository interface {
	IsAvailable(ctx context.Context, listingID int64, start, end time.Time) (bool, error)
	CreateBookingWithGuard(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	TransitionBookingStatus(ctx context.Context, id int64, newStatus string) (*models.Booking, []int64, error)
	GetBookingsForListing(ctx context.Context, listingID int64) ([]*models.Booking, error)
	GetBookingsForUser(ctx context.Context, userID int64) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)
	DeleteBooking(ctx context.Context, id int64) error
}

// ListingDirectory is the lookup surface the booking core consumes; the full
// listing repository extends it.
type ListingDirectory interface {
	ListingExists(ctx context.Context, id int64) (bool, error)
	ListingIsActive(ctx context.Context, id int64) (bool, error)
}

// UserDirectory is the lookup surface the booking core consumes.
type UserDirectory interface {
	UserExists(ctx context.Context, id int64) (bool, error)
}

type ListingRepository interface {
	ListingDirectory
	CreateListing(ctx context.Context, listing *models.Listing) error
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	UpdateListing(ctx context.Context, listing *models.Listing) error
	SetListingActive(ctx context.Context, id int64, active bool) error
	GetActiveListings(ctx context.Context) ([]*models.Listing, error)
	GetListingsByOwner(ctx context.Context, ownerID int64) ([]*models.Listing, error)
	CreateAmenity(ctx context.Context, amenity *models.Amenity) error
	GetAllAmenities(ctx context.Context) ([]*models.Amenity, error)
	AttachAmenity(ctx context.Context, listingID, amenityID int64) error
	GetListingAmenities(ctx context.Context, listingID int64) ([]*models.Amenity, error)
	GetListingAverageRating(ctx context.Context, listingID int64) (float64, bool, error)
}

type UserRepository interface {
	UserDirectory
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserLastLogin(ctx context.Context, id int64) error
	UpdateUserProfile(ctx context.Context, user *models.User) error
	SetUserActive(ctx context.Context, id int64, active bool) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReviewsForListing(ctx context.Context, listingID int64) ([]*models.Review, error)
	GetReviewsByUser(ctx context.Context, userID int64) ([]*models.Review, error)
	AddFavorite(ctx context.Context, fav *models.Favorite) error
	RemoveFavorite(ctx context.Context, userID, listingID int64) error
	GetFavoritesForUser(ctx context.Context, userID int64) ([]*models.Favorite, error)
	IsFavorited(ctx context.Context, userID, listingID int64) (bool, error)
	CreateInquiry(ctx context.Context, inquiry *models.Inquiry) error
	MarkInquiryResponded(ctx context.Context, id int64) error
	GetInquiriesForListing(ctx context.Context, listingID int64) ([]*models.Inquiry, error)
	GetInquiriesByUser(ctx context.Context, userID int64) ([]*models.Inquiry, error)
}

type MessagingRepository interface {
	CreateThread(ctx context.Context, participants []int64) (*models.Thread, error)
	GetThread(ctx context.Context, id int64) (*models.Thread, error)
	AddParticipant(ctx context.Context, threadID, userID int64) error
	RemoveParticipant(ctx context.Context, threadID, userID int64) error
	HasParticipant(ctx context.Context, threadID, userID int64) (bool, error)
	GetThreadsForUser(ctx context.Context, userID int64) ([]*models.Thread, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
	GetThreadMessages(ctx context.Context, threadID int64) ([]*models.Message, error)
	GetMessage(ctx context.Context, id int64) (*models.Message, error)
	LastMessage(ctx context.Context, threadID int64) (*models.Message, error)
	SetMessageRead(ctx context.Context, id int64, read bool) error
	SetMessageDeleted(ctx context.Context, id int64, deleted bool) error
	UnreadCount(ctx context.Context, threadID, userID int64) (int, error)
}

type PaymentRepository interface {
	CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error
	GetActivePaymentMethods(ctx context.Context) ([]*models.PaymentMethod, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	GetInvoice(ctx context.Context, id int64) (*models.Invoice, error)
	GetInvoicesForTenant(ctx context.Context, tenantID int64) ([]*models.Invoice, error)
	GetUnpaidInvoices(ctx context.Context) ([]*models.Invoice, error)
	RecordPayment(ctx context.Context, payment *models.Payment) error
	GetPaymentsForInvoice(ctx context.Context, invoiceID int64) ([]*models.Payment, error)
	GetPaymentTotalsByStatus(ctx context.Context) ([]*models.PaymentStatusTotal, error)
	GetTenantBalances(ctx context.Context) ([]*models.TenantBalance, error)
}

type ServiceRepository interface {
	CreateService(ctx context.Context, service *models.Service) error
	GetService(ctx context.Context, id int64) (*models.Service, error)
	ActiveServices(ctx context.Context) ([]*models.Service, error)
	ServicesIncludingDeleted(ctx context.Context) ([]*models.Service, error)
	DeletedServices(ctx context.Context) ([]*models.Service, error)
	SoftDeleteService(ctx context.Context, id int64) error
	RestoreService(ctx context.Context, id int64) error
	ActivateService(ctx context.Context, id int64) error
	DeactivateService(ctx context.Context, id int64) error
	CreateServiceCategory(ctx context.Context, category *models.ServiceCategory) error
	GetServiceCategories(ctx context.Context) ([]*models.ServiceCategory, error)
}

// SessionRepository keeps volatile login sessions and rate-limit counters.
type SessionRepository interface {
	GetSession(ctx context.Context, token string) (*models.Session, error)
	SetSession(ctx context.Context, session *models.Session) error
	ClearSession(ctx context.Context, token string) error
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// EventPublisher decouples services from the event bus implementation.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportEnqueuer schedules report regeneration.
type ExportEnqueuer interface {
	EnqueueExport(ctx context.Context, taskType string) error
}
