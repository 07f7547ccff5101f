package dialog

import (
	"sync"

	"github.com/m3rciful/linkbot/catalog"
)

// State identifies one step of the questionnaire, named after the datum it
// collects.
type State string

const (
	StateSelectApp      State = "select_app"
	StateSelectPolicy   State = "select_reattribution_policy"
	StateSelectWindow   State = "select_attribution_window"
	StateCampaignName   State = "enter_campaign_name"
	StateSelectAction   State = "select_action_type"
	StateSelectService  State = "select_service"
	StatePromoCode      State = "enter_promo_code"
	StateSelectTariff   State = "select_tariff"
	StateBannerID       State = "enter_banner_id"
	StateCustomDeeplink State = "enter_custom_deeplink"
	StateEatsSection    State = "select_eats_suboption"
	StateEatsShopURL    State = "enter_eats_shop_url"
	StateEatsPlaceURL   State = "enter_eats_place_url"
	StateRouteStart     State = "enter_route_start"
	StateRouteEnd       State = "enter_route_end"
	StateDesktopURL     State = "enter_desktop_url"
)

// Answers accumulates everything collected during one conversation. Fields
// are only ever written by the state that owns them and cleared again when
// the user navigates back over that state.
type Answers struct {
	App         string
	Policy      string
	Window      string
	Campaign    string
	Action      catalog.Action
	Deeplink    string
	TariffBase  string
	EatsSection string
	RouteStart  string
	RouteEnd    string
	DesktopURL  string
}

// Session is one user's in-flight conversation. History records the states
// actually traversed so that Back always returns to the real predecessor,
// however branchy the path was.
type Session struct {
	State   State
	History []State
	Answers Answers
}

// Store is the capability interface the engine uses to keep sessions. A
// session exists only between /start and the terminal state.
type Store interface {
	Get(userID int64) (*Session, bool)
	Put(userID int64, s *Session)
	Delete(userID int64)
}

// MemoryStore keeps sessions in a mutex-guarded map. Sessions of distinct
// users are fully independent.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session)}
}

// Get returns the session for a user if one exists.
func (m *MemoryStore) Get(userID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Put stores or replaces the session for a user.
func (m *MemoryStore) Put(userID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
}

// Delete removes the session for a user.
func (m *MemoryStore) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
