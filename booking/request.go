package booking

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glowbook/glowbook-api/models"
	"github.com/glowbook/glowbook-api/scheduling"
)

// MaxNoteLength bounds the free-text note on a booking request
const MaxNoteLength = 500

// Gating errors: the request flow must not be offered at all for these
// providers. They are precondition failures, not validation errors.
var (
	ErrBookingsClosed    = errors.New("provider is not accepting bookings")
	ErrNoVisibleServices = errors.New("provider has no visible services")
	ErrNoActiveWindows   = errors.New("provider has no active availability")
)

// Step validation errors
var (
	ErrServiceRequired  = errors.New("a service must be selected first")
	ErrUnknownService   = errors.New("service is not offered by this provider")
	ErrDateUnavailable  = errors.New("provider is not available on that date")
	ErrDateRequired     = errors.New("a date must be selected first")
	ErrTimeNotOffered   = errors.New("time is not offered on that date")
	ErrNoteTooLong      = fmt.Errorf("note exceeds %d characters", MaxNoteLength)
	ErrReviewIncomplete = errors.New("service, date and time must be set before review")
	ErrSubmitInFlight   = errors.New("a submit is already in flight")
)

// Draft is the completed request handed to the submit function. The
// builder guarantees every field has passed step validation.
type Draft struct {
	ProviderID uint
	ServiceID  uint
	Date       string // "YYYY-MM-DD"
	Time       string // "HH:MM"
	Note       string
}

// Summary is the confirmation view shown before submitting
type Summary struct {
	ProviderName string  `json:"provider_name"`
	ServiceTitle string  `json:"service_title"`
	ServicePrice float64 `json:"service_price"`
	Date         string  `json:"date"`
	Time         string  `json:"time"`
	Note         string  `json:"note,omitempty"`
}

// RequestBuilder drives the three-step booking request flow: service
// selection, date/time selection, then note and review. Steps validate in
// order; a completed review is required before Confirm will submit. On a
// failed submit all entered state is kept so the caller can retry; on
// success the builder resets to its initial state.
type RequestBuilder struct {
	provider models.User
	services []models.Service
	windows  []models.AvailabilityWindow

	// Now is the clock used for the past-date cutoff; overridable in tests
	Now func() time.Time

	mu        sync.Mutex
	inFlight  bool
	serviceID uint
	date      string
	timeOfDay string
	note      string
}

// NewRequestBuilder starts a request flow against a provider snapshot.
// It fails with a gating error when the provider should not be offered
// the flow at all.
func NewRequestBuilder(provider models.User, services []models.Service, windows []models.AvailabilityWindow) (*RequestBuilder, error) {
	if !provider.AcceptsBookings {
		return nil, ErrBookingsClosed
	}

	visible := make([]models.Service, 0, len(services))
	for _, s := range services {
		if s.IsVisible {
			visible = append(visible, s)
		}
	}
	if len(visible) == 0 {
		return nil, ErrNoVisibleServices
	}

	active := false
	for _, w := range windows {
		if w.IsActive && scheduling.ValidWindow(w.StartTime, w.EndTime) {
			active = true
			break
		}
	}
	if !active {
		return nil, ErrNoActiveWindows
	}

	return &RequestBuilder{
		provider: provider,
		services: visible,
		windows:  windows,
		Now:      time.Now,
	}, nil
}

// SelectService records the chosen service. The service must be one of
// the provider's visible services.
func (b *RequestBuilder) SelectService(serviceID uint) error {
	if b.findService(serviceID) == nil {
		return ErrUnknownService
	}
	b.serviceID = serviceID
	return nil
}

// SelectDate records the requested date. A service must already be
// chosen, and the date must pass the availability matcher. Changing the
// date clears any previously chosen time.
func (b *RequestBuilder) SelectDate(date string) error {
	if b.serviceID == 0 {
		return ErrServiceRequired
	}
	if !scheduling.IsDateAvailable(b.windows, date, b.Now()) {
		return ErrDateUnavailable
	}
	b.date = date
	b.timeOfDay = ""
	return nil
}

// SelectTime records the requested time, which must be one of the slots
// offered for the already-chosen date.
func (b *RequestBuilder) SelectTime(t string) error {
	if b.date == "" {
		return ErrDateRequired
	}
	for _, slot := range scheduling.TimeSlotsFor(b.windows, b.date, b.Now()) {
		if slot == t {
			b.timeOfDay = t
			return nil
		}
	}
	return ErrTimeNotOffered
}

// SetNote records the optional free-text note
func (b *RequestBuilder) SetNote(note string) error {
	if len(note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	b.note = note
	return nil
}

// Review returns the confirmation summary. It is only reachable once a
// service, an available date and an offered time have all been set.
func (b *RequestBuilder) Review() (*Summary, error) {
	if b.serviceID == 0 || b.date == "" || b.timeOfDay == "" {
		return nil, ErrReviewIncomplete
	}
	svc := b.findService(b.serviceID)
	return &Summary{
		ProviderName: b.provider.Name,
		ServiceTitle: svc.Title,
		ServicePrice: svc.Price,
		Date:         b.date,
		Time:         b.timeOfDay,
		Note:         b.note,
	}, nil
}

// Confirm submits the completed draft through the given persistence
// function. At most one submit may be outstanding per builder. When
// submit fails, the entered state is left intact for a retry; when it
// succeeds, the builder resets.
func (b *RequestBuilder) Confirm(submit func(Draft) error) error {
	if _, err := b.Review(); err != nil {
		return err
	}

	b.mu.Lock()
	if b.inFlight {
		b.mu.Unlock()
		return ErrSubmitInFlight
	}
	b.inFlight = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.inFlight = false
		b.mu.Unlock()
	}()

	err := submit(Draft{
		ProviderID: b.provider.ID,
		ServiceID:  b.serviceID,
		Date:       b.date,
		Time:       b.timeOfDay,
		Note:       b.note,
	})
	if err != nil {
		return err
	}

	b.reset()
	return nil
}

// ServiceID returns the currently selected service, 0 when unset
func (b *RequestBuilder) ServiceID() uint { return b.serviceID }

// Date returns the currently selected date, empty when unset
func (b *RequestBuilder) Date() string { return b.date }

// Time returns the currently selected time, empty when unset
func (b *RequestBuilder) Time() string { return b.timeOfDay }

// Note returns the entered note
func (b *RequestBuilder) Note() string { return b.note }

func (b *RequestBuilder) reset() {
	b.serviceID = 0
	b.date = ""
	b.timeOfDay = ""
	b.note = ""
}

func (b *RequestBuilder) findService(id uint) *models.Service {
	for i := range b.services {
		if b.services[i].ID == id {
			return &b.services[i]
		}
	}
	return nil
}
