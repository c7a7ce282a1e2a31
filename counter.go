package friendzone

const (
	// AddField is the request field that asks for an increment.
	AddField = "add"

	// AddSentinel is the exact AddField value that counts as a new friend.
	AddSentinel = "Add friend"

	friendsKey = "friends"
)

// CounterService owns the per-session friend counter. The counter starts at
// 0, grows by exactly one per qualifying submission and is never decremented.
// It lives as long as the session does.
type CounterService struct {
	key      string
	sentinel string
}

// NewCounterService returns a counter stored under the "friends" session key.
func NewCounterService() *CounterService {
	return &CounterService{key: friendsKey, sentinel: AddSentinel}
}

// Current returns the counter, initializing it to 0 on first access.
func (cs *CounterService) Current(s *Session) int {
	if !s.Exists(cs.key) {
		s.Set(cs.key, 0)
		return 0
	}
	return s.GetInt(cs.key)
}

// Add increments the counter and returns the new value.
func (cs *CounterService) Add(s *Session) int {
	n := cs.Current(s) + 1
	s.Set(cs.key, n)
	return n
}

// Qualifies reports whether field is exactly the sentinel.
func (cs *CounterService) Qualifies(field string) bool {
	return field == cs.sentinel
}

// Apply increments the counter when field is the sentinel and returns the
// resulting value and whether it changed. Any other value is a read.
func (cs *CounterService) Apply(s *Session, field string) (int, bool) {
	if !cs.Qualifies(field) {
		return cs.Current(s), false
	}
	return cs.Add(s), true
}
