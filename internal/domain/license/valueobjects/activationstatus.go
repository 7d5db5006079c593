package valueobjects

// ActivationStatus is the state of one location bound to a key.
type ActivationStatus string

const (
	ActivationStatusActive      ActivationStatus = "active"
	ActivationStatusDeactivated ActivationStatus = "deactivated"
)

func (s ActivationStatus) String() string {
	return string(s)
}

func (s ActivationStatus) IsValid() bool {
	return s == ActivationStatusActive || s == ActivationStatusDeactivated
}

func (s ActivationStatus) IsActive() bool {
	return s == ActivationStatusActive
}
