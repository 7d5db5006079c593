package valueobjects

type ReleaseStatus string

const (
	ReleaseStatusDraft     ReleaseStatus = "draft"
	ReleaseStatusPublished ReleaseStatus = "published"
	ReleaseStatusArchived  ReleaseStatus = "archived"
)

var validReleaseStatuses = map[ReleaseStatus]bool{
	ReleaseStatusDraft:     true,
	ReleaseStatusPublished: true,
	ReleaseStatusArchived:  true,
}

var releaseStatusTransitions = map[ReleaseStatus][]ReleaseStatus{
	ReleaseStatusDraft:     {ReleaseStatusPublished, ReleaseStatusArchived},
	ReleaseStatusPublished: {ReleaseStatusArchived},
}

func (s ReleaseStatus) String() string {
	return string(s)
}

func (s ReleaseStatus) IsValid() bool {
	return validReleaseStatuses[s]
}

func (s ReleaseStatus) IsPublished() bool {
	return s == ReleaseStatusPublished
}

func (s ReleaseStatus) CanTransitionTo(target ReleaseStatus) bool {
	for _, allowed := range releaseStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}
