package valueobjects

// KeyStatus is the stored lifecycle state of a license key.
type KeyStatus string

const (
	KeyStatusActive   KeyStatus = "active"
	KeyStatusExpired  KeyStatus = "expired"
	KeyStatusDisabled KeyStatus = "disabled"
)

var keyTransitions = map[KeyStatus][]KeyStatus{
	KeyStatusActive:   {KeyStatusExpired, KeyStatusDisabled},
	KeyStatusExpired:  {KeyStatusActive, KeyStatusDisabled},
	KeyStatusDisabled: {KeyStatusActive, KeyStatusExpired},
}

func (s KeyStatus) String() string {
	return string(s)
}

func (s KeyStatus) IsValid() bool {
	_, ok := keyTransitions[s]
	return ok
}

func (s KeyStatus) IsActive() bool {
	return s == KeyStatusActive
}

// CanTransitionTo reports whether s may move to target.
func (s KeyStatus) CanTransitionTo(target KeyStatus) bool {
	for _, allowed := range keyTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ParseKeyStatus parses s, reporting false for unknown values.
func ParseKeyStatus(s string) (KeyStatus, bool) {
	status := KeyStatus(s)
	return status, status.IsValid()
}
