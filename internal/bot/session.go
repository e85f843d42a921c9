package bot

import "sync"

// sessionState names one step of the per-user conversation flow.
type sessionState string

const (
	stateSelectGame     sessionState = "select_game"
	stateSelectCurrency sessionState = "select_currency"
	stateEnterGameID    sessionState = "enter_game_id"
	stateConfirmOrder   sessionState = "confirm_order"
	statePayment        sessionState = "payment"

	// Admin console states.
	stateAwaitingBroadcast   sessionState = "awaiting_broadcast"
	stateAwaitingUserID      sessionState = "awaiting_user_id"
	stateAwaitingUserMessage sessionState = "awaiting_user_message"
)

// session holds the transient selections of one user between steps. It is
// discarded on cancellation and on successful completion.
type session struct {
	state        sessionState
	gameIdx      int
	game         string
	currency     string
	price        float64
	gameID       string
	orderID      string
	targetUserID int64
}

type sessions struct {
	mu sync.Mutex
	m  map[int64]*session
}

func newSessions() *sessions {
	return &sessions{m: make(map[int64]*session)}
}

// get returns the session for userID, creating it when absent.
func (s *sessions) get(userID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.m[userID]
	if !ok {
		sess = &session{}
		s.m[userID] = sess
	}
	return sess
}

// reset wipes all stored selections and puts the session into state.
func (s *sessions) reset(userID int64, state sessionState) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &session{state: state}
	s.m[userID] = sess
	return sess
}

// clear drops the session entirely.
func (s *sessions) clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, userID)
}
